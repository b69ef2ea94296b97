package filestore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/abylaikhan/upcheck/internal/infrastructure/filestore"
	"github.com/abylaikhan/upcheck/internal/metrics"
	"github.com/abylaikhan/upcheck/internal/repository"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

func newStore(t *testing.T) (*filestore.Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := filestore.New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s, dir
}

func TestCreate_ThenRead_RoundTrips(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	want := record{Name: "ann", Count: 3}
	if err := s.Create(ctx, repository.CollectionUsers, "5551234567", want); err != nil {
		t.Fatalf("create: %v", err)
	}

	var got record
	if err := s.Read(ctx, repository.CollectionUsers, "5551234567", &got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != want {
		t.Errorf("read %+v, want %+v", got, want)
	}
}

func TestCreate_ExistingKey_ReturnsErrAlreadyExists(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, repository.CollectionUsers, "k", record{Name: "a"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	err := s.Create(ctx, repository.CollectionUsers, "k", record{Name: "b"})
	if !errors.Is(err, repository.ErrAlreadyExists) {
		t.Errorf("want ErrAlreadyExists, got %v", err)
	}

	// The original record must be untouched.
	var got record
	if err := s.Read(ctx, repository.CollectionUsers, "k", &got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Name != "a" {
		t.Errorf("record overwritten: got %+v", got)
	}
}

func TestRead_MissingKey_ReturnsErrNotFound(t *testing.T) {
	s, _ := newStore(t)

	var got record
	err := s.Read(context.Background(), repository.CollectionTokens, "absent", &got)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestRead_CorruptFile_ReturnsErrNotFound(t *testing.T) {
	s, dir := newStore(t)

	path := filepath.Join(dir, repository.CollectionChecks, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	var got record
	err := s.Read(context.Background(), repository.CollectionChecks, "bad", &got)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("want ErrNotFound for corrupt record, got %v", err)
	}
}

func TestUpdate_MissingKey_ReturnsErrNotFound(t *testing.T) {
	s, _ := newStore(t)

	err := s.Update(context.Background(), repository.CollectionUsers, "absent", record{Name: "x"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestUpdate_FullyReplacesRecord(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, repository.CollectionUsers, "k", record{Name: "a", Count: 9}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Update(ctx, repository.CollectionUsers, "k", record{Name: "b"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	// A full replace, not a merge: Count must be gone.
	var got map[string]any
	if err := s.Read(ctx, repository.CollectionUsers, "k", &got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got["name"] != "b" {
		t.Errorf("name = %v, want b", got["name"])
	}
	if _, ok := got["count"]; ok {
		t.Errorf("count survived the update: %v", got)
	}
}

func TestUpdate_LeavesNoTempFilesBehind(t *testing.T) {
	s, dir := newStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, repository.CollectionUsers, "k", record{Name: "a"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Update(ctx, repository.CollectionUsers, "k", record{Name: "b"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, repository.CollectionUsers))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "k.json" {
		t.Errorf("unexpected directory contents: %v", entries)
	}
}

func TestDelete_RemovesRecord(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, repository.CollectionTokens, "k", record{Name: "a"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Delete(ctx, repository.CollectionTokens, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var got record
	err := s.Read(ctx, repository.CollectionTokens, "k", &got)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("want ErrNotFound after delete, got %v", err)
	}
}

func TestDelete_MissingKey_ReturnsErrNotFound(t *testing.T) {
	s, _ := newStore(t)

	err := s.Delete(context.Background(), repository.CollectionTokens, "absent")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestCollections_AreIsolatedNamespaces(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, repository.CollectionUsers, "k", record{Name: "user"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	var got record
	err := s.Read(ctx, repository.CollectionTokens, "k", &got)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("key leaked across collections: %v", err)
	}
}

func TestKeys_WithPathSeparators_ReadAsNotFound(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, repository.CollectionUsers, "5551234567", record{Name: "ann"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// A token-collection key must never reach another collection's files.
	hostile := "/../users/5551234567"
	if err := s.Delete(ctx, repository.CollectionTokens, hostile); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("delete with traversal key: want ErrNotFound, got %v", err)
	}
	var got record
	if err := s.Read(ctx, repository.CollectionTokens, hostile, &got); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("read with traversal key: want ErrNotFound, got %v", err)
	}
	if err := s.Update(ctx, repository.CollectionTokens, hostile, record{Name: "x"}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("update with traversal key: want ErrNotFound, got %v", err)
	}
	if err := s.Create(ctx, repository.CollectionTokens, hostile, record{Name: "x"}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("create with traversal key: want ErrNotFound, got %v", err)
	}

	// The user record is intact.
	if err := s.Read(ctx, repository.CollectionUsers, "5551234567", &got); err != nil {
		t.Fatalf("user record damaged by traversal key: %v", err)
	}
	if got.Name != "ann" {
		t.Errorf("user record changed: %+v", got)
	}
}

func TestKeys_EmptyOrDotDot_ReadAsNotFound(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	var got record
	for _, key := range []string{"", ".", ".."} {
		if err := s.Read(ctx, repository.CollectionUsers, key, &got); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("read key %q: want ErrNotFound, got %v", key, err)
		}
		if err := s.Delete(ctx, repository.CollectionUsers, key); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("delete key %q: want ErrNotFound, got %v", key, err)
		}
	}
}

func TestObserve_SentinelOutcomesAreNotErrors(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	errorsBefore := testutil.ToFloat64(metrics.StoreOperationsTotal.WithLabelValues(repository.CollectionUsers, "read", "error"))
	notFoundBefore := testutil.ToFloat64(metrics.StoreOperationsTotal.WithLabelValues(repository.CollectionUsers, "read", "not_found"))

	var got record
	if err := s.Read(ctx, repository.CollectionUsers, "absent", &got); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	errorsAfter := testutil.ToFloat64(metrics.StoreOperationsTotal.WithLabelValues(repository.CollectionUsers, "read", "error"))
	notFoundAfter := testutil.ToFloat64(metrics.StoreOperationsTotal.WithLabelValues(repository.CollectionUsers, "read", "not_found"))

	if errorsAfter != errorsBefore {
		t.Errorf("error counter moved on a not-found read: %f -> %f", errorsBefore, errorsAfter)
	}
	if notFoundAfter != notFoundBefore+1 {
		t.Errorf("not_found counter = %f, want %f", notFoundAfter, notFoundBefore+1)
	}
}

func TestPing_ReportsMissingDataDir(t *testing.T) {
	dir := t.TempDir()
	s, err := filestore.New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("ping on healthy dir: %v", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove dir: %v", err)
	}
	if err := s.Ping(context.Background()); err == nil {
		t.Error("ping succeeded on a removed data dir")
	}
}
