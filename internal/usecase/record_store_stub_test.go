package usecase_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/abylaikhan/upcheck/internal/domain"
	"github.com/abylaikhan/upcheck/internal/repository"
	"github.com/abylaikhan/upcheck/internal/security"
)

// memStore is an in-memory RecordStore with optional per-operation fault
// hooks, so tests can exercise the partial-failure paths.
type memStore struct {
	mu      sync.Mutex
	records map[string][]byte

	failCreate func(collection, key string) error
	failRead   func(collection, key string) error
	failUpdate func(collection, key string) error
	failDelete func(collection, key string) error
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string][]byte)}
}

func storeKey(collection, key string) string {
	return collection + "/" + key
}

func (s *memStore) Create(_ context.Context, collection, key string, record any) error {
	if s.failCreate != nil {
		if err := s.failCreate(collection, key); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[storeKey(collection, key)]; ok {
		return repository.ErrAlreadyExists
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	s.records[storeKey(collection, key)] = data
	return nil
}

func (s *memStore) Read(_ context.Context, collection, key string, out any) error {
	if s.failRead != nil {
		if err := s.failRead(collection, key); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.records[storeKey(collection, key)]
	if !ok {
		return repository.ErrNotFound
	}
	if err := json.Unmarshal(data, out); err != nil {
		return repository.ErrNotFound
	}
	return nil
}

func (s *memStore) Update(_ context.Context, collection, key string, record any) error {
	if s.failUpdate != nil {
		if err := s.failUpdate(collection, key); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[storeKey(collection, key)]; !ok {
		return repository.ErrNotFound
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	s.records[storeKey(collection, key)] = data
	return nil
}

func (s *memStore) Delete(_ context.Context, collection, key string) error {
	if s.failDelete != nil {
		if err := s.failDelete(collection, key); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[storeKey(collection, key)]; !ok {
		return repository.ErrNotFound
	}
	delete(s.records, storeKey(collection, key))
	return nil
}

func (s *memStore) has(collection, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[storeKey(collection, key)]
	return ok
}

// fakeSender records outbound notifications.
type fakeSender struct {
	mu    sync.Mutex
	sent  []string
	fail  error
}

func (f *fakeSender) Send(_ context.Context, phone, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, phone)
	return nil
}

// ---- seed helpers ----

const (
	testHashingSecret = "hashing-secret-for-tests"
	testPhone         = "5551234567"
	testPassword      = "pw123"
)

var testHasher = security.NewHasher(testHashingSecret)

func seedUser(t *testing.T, s *memStore, user domain.User) {
	t.Helper()
	if user.HashedPassword == "" {
		digest, err := testHasher.Hash(testPassword)
		if err != nil {
			t.Fatalf("hash test password: %v", err)
		}
		user.HashedPassword = digest
	}
	if err := s.Create(context.Background(), repository.CollectionUsers, user.Phone, &user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func seedToken(t *testing.T, s *memStore, token domain.Token) {
	t.Helper()
	if token.Expires == 0 {
		token.Expires = time.Now().Add(domain.TokenTTL).UnixMilli()
	}
	if err := s.Create(context.Background(), repository.CollectionTokens, token.ID, &token); err != nil {
		t.Fatalf("seed token: %v", err)
	}
}

func seedCheck(t *testing.T, s *memStore, check domain.Check) {
	t.Helper()
	if err := s.Create(context.Background(), repository.CollectionChecks, check.ID, &check); err != nil {
		t.Fatalf("seed check: %v", err)
	}
}

func testTokenID(suffix byte) string {
	id := make([]byte, domain.TokenIDLength)
	for i := range id {
		id[i] = 'a'
	}
	id[len(id)-1] = suffix
	return string(id)
}
