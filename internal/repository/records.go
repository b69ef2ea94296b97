package repository

import "context"

// Collections known to the store. The store itself is schema-agnostic;
// collection names only select a namespace.
const (
	CollectionUsers  = "users"
	CollectionTokens = "tokens"
	CollectionChecks = "checks"
)

// RecordStore is durable key-value storage of JSON-shaped records,
// namespaced by collection. Usecases depend on this interface, not on the
// concrete implementation, so the backing medium can be swapped and tests
// can inject an in-memory fake.
//
// Every operation acts on a single (collection, key) unit. There are no
// multi-key transactions; composite invariants across records are the
// caller's responsibility.
type RecordStore interface {
	// Create persists a new record. It fails with ErrAlreadyExists when a
	// record is already present under (collection, key); it never
	// overwrites silently.
	Create(ctx context.Context, collection, key string, record any) error

	// Read decodes the record into out. Absent, unreadable, and corrupt
	// records all yield ErrNotFound; a parse failure never propagates as
	// such to the caller.
	Read(ctx context.Context, collection, key string, out any) error

	// Update fully replaces an existing record. It fails with ErrNotFound
	// when the record does not exist yet.
	Update(ctx context.Context, collection, key string, record any) error

	// Delete removes the record, failing with ErrNotFound when absent.
	Delete(ctx context.Context, collection, key string) error
}
