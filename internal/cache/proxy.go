package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"contacthub/pkg/logger"
	"contacthub/pkg/models"
)

// Fetcher produces the full raw result of one source.
type Fetcher[R any] interface {
	Name() string
	FetchAll(ctx context.Context) (*models.Records[R], error)
}

// Stats counts how a Proxy served its calls.
type Stats struct {
	Hits   int64
	Misses int64
}

// Proxy serves a Fetcher's result from a Store once it has been fetched.
// The first successful fetch is saved under Key(inner.Name()) and every
// later call is answered from the store without calling inner again.
// Failed fetches are never saved.
type Proxy[R any] struct {
	inner Fetcher[R]
	store Store
	log   *logger.Logger
	key   string

	group  singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

func NewProxy[R any](inner Fetcher[R], store Store, log *logger.Logger) *Proxy[R] {
	if log == nil {
		log = logger.NewNop()
	}
	return &Proxy[R]{
		inner: inner,
		store: store,
		log:   log,
		key:   Key(inner.Name()),
	}
}

func (p *Proxy[R]) Name() string { return p.inner.Name() }

// Key returns the store key this proxy reads and writes.
func (p *Proxy[R]) Key() string { return p.key }

func (p *Proxy[R]) Stats() Stats {
	return Stats{Hits: p.hits.Load(), Misses: p.misses.Load()}
}

// FetchAll returns the cached result when present, else fetches,
// saves and returns it. Concurrent calls share one fetch.
func (p *Proxy[R]) FetchAll(ctx context.Context) (*models.Records[R], error) {
	v, err, _ := p.group.Do(p.key, func() (any, error) {
		return p.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Records[R]), nil
}

func (p *Proxy[R]) fetch(ctx context.Context) (*models.Records[R], error) {
	payload, err := p.store.Load(ctx, p.key)
	switch {
	case err == nil:
		var recs models.Records[R]
		if err := json.Unmarshal(payload, &recs); err != nil {
			return nil, storeErr("decode", p.key, err)
		}
		p.hits.Add(1)
		p.log.Info("using cached scrape data", "key", p.key, "records", recs.Len())
		return &recs, nil
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	p.misses.Add(1)
	recs, err := p.inner.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", p.inner.Name(), err)
	}
	if recs == nil {
		recs = models.NewRecords[R](0)
	}

	payload, err = json.Marshal(recs)
	if err != nil {
		return nil, storeErr("encode", p.key, err)
	}
	if err := p.store.Save(ctx, p.key, payload); err != nil {
		return nil, err
	}
	p.log.Info("saved scrape data", "key", p.key, "records", recs.Len())
	return recs, nil
}

// Invalidate deletes the stored result so the next FetchAll refetches.
func (p *Proxy[R]) Invalidate(ctx context.Context) error {
	return p.store.Delete(ctx, p.key)
}
