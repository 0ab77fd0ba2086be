package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps one JSON file per key under Dir.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.Dir, key+".json")
}

func (s *FileStore) Has(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, storeErr("has", key, err)
}

func (s *FileStore) Load(_ context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("load", key, err)
	}
	return b, nil
}

// Save writes payload to a temp file in Dir, syncs it and renames it
// into place, so a crash never leaves a truncated entry behind.
func (s *FileStore) Save(_ context.Context, key string, payload []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return storeErr("save", key, fmt.Errorf("mkdir: %w", err))
	}

	tmp, err := os.CreateTemp(s.Dir, key+".json.tmp-*")
	if err != nil {
		return storeErr("save", key, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		cleanup()
		return storeErr("save", key, fmt.Errorf("write: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return storeErr("save", key, fmt.Errorf("fsync: %w", err))
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return storeErr("save", key, fmt.Errorf("close: %w", err))
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		cleanup()
		return storeErr("save", key, fmt.Errorf("rename: %w", err))
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return storeErr("delete", key, err)
	}
	return nil
}
