package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/abylaikhan/upcheck/internal/metrics"
	"github.com/abylaikhan/upcheck/internal/repository"
)

// Store keeps one JSON file per record at <baseDir>/<collection>/<key>.json.
// There are no secondary indexes and no write-ahead log; durability is
// whatever the filesystem provides. Update goes through a temp file plus
// rename so a crash mid-write never leaves a half-written record behind.
type Store struct {
	baseDir string
}

// New prepares the base directory and the known collection directories.
func New(baseDir string) (*Store, error) {
	for _, collection := range []string{
		repository.CollectionUsers,
		repository.CollectionTokens,
		repository.CollectionChecks,
	} {
		if err := os.MkdirAll(filepath.Join(baseDir, collection), 0o755); err != nil {
			return nil, fmt.Errorf("prepare data dir: %w", err)
		}
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) path(collection, key string) string {
	return filepath.Join(s.baseDir, collection, key+".json")
}

// Keys become file names. Anything that could traverse out of the
// collection directory reads as a record that does not exist.
func validKey(key string) bool {
	return key != "" && key != "." && key != ".." && !strings.ContainsAny(key, `/\`)
}

func (s *Store) Create(_ context.Context, collection, key string, record any) (err error) {
	defer func() { observe(collection, "create", err) }()

	if !validKey(key) {
		return repository.ErrNotFound
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	f, err := os.OpenFile(s.path(collection, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("create record file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write record file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync record file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close record file: %w", err)
	}
	return nil
}

func (s *Store) Read(_ context.Context, collection, key string, out any) (err error) {
	defer func() { observe(collection, "read", err) }()

	if !validKey(key) {
		return repository.ErrNotFound
	}

	data, err := os.ReadFile(s.path(collection, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("read record file: %w", err)
	}

	// A record that no longer parses is treated the same as a missing one.
	if err := json.Unmarshal(data, out); err != nil {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) Update(_ context.Context, collection, key string, record any) (err error) {
	defer func() { observe(collection, "update", err) }()

	if !validKey(key) {
		return repository.ErrNotFound
	}

	path := s.path(collection, key)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("stat record file: %w", err)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace record file: %w", err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, collection, key string) (err error) {
	defer func() { observe(collection, "delete", err) }()

	if !validKey(key) {
		return repository.ErrNotFound
	}

	if err := os.Remove(s.path(collection, key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("delete record file: %w", err)
	}
	return nil
}

// Ping reports whether the base directory is still usable. Satisfies the
// health checker's Pinger.
func (s *Store) Ping(_ context.Context) error {
	info, err := os.Stat(s.baseDir)
	if err != nil {
		return fmt.Errorf("stat data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", s.baseDir)
	}
	return nil
}

// observe counts the operation. Contract outcomes get their own label so
// the error rate only reflects real I/O failures.
func observe(collection, operation string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, repository.ErrAlreadyExists):
		outcome = "already_exists"
	default:
		outcome = "error"
	}
	metrics.StoreOperationsTotal.WithLabelValues(collection, operation, outcome).Inc()
}
