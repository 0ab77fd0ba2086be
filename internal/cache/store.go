// Package cache persists raw per-source scrape results so a run can be
// replayed without touching the network.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by Load when no entry exists for a key.
	ErrNotFound = errors.New("cache entry not found")
	// ErrStore matches every *StoreError.
	ErrStore = errors.New("cache store failure")
)

// Store is a durable key -> payload map. An entry exists only once
// it has been completely written.
type Store interface {
	Has(ctx context.Context, key string) (bool, error)
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}

// StoreError reports a backend failure for one operation on one key.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("cache %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

func storeErr(op, key string, err error) error {
	return &StoreError{Op: op, Key: key, Err: err}
}

const sourcePrefix = "scrape_"

// Key derives the cache key for a source name: a leading "scrape_" is
// dropped, the rest lower-cased and slugified ("scrape_AANP" -> "aanp").
func Key(name string) string {
	name = strings.TrimSpace(name)
	if len(name) >= len(sourcePrefix) && strings.EqualFold(name[:len(sourcePrefix)], sourcePrefix) {
		name = name[len(sourcePrefix):]
	}
	return slugify(name)
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else {
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "untitled"
	}
	return out
}
