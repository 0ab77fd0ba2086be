// Package scraper fetches practitioner listings from directory sources
// and reconciles them into canonical contacts.
package scraper

import (
	"context"
	"errors"
	"fmt"

	"contacthub/pkg/logger"
	"contacthub/pkg/models"
)

var (
	// ErrSourceUnavailable means a source produced no usable response at all.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrOffline is returned by OfflineSource, which never touches the network.
	ErrOffline = errors.New("source is offline")
)

// Source is implemented by each external directory. A source fetches its
// own native record shape, keyed by contact name, first-seen wins.
type Source[R any] interface {
	Name() string
	FetchAll(ctx context.Context) (*models.Records[R], error)
}

// FetchError is a source-level failure: no result was produced.
type FetchError struct {
	Source string
	Op     string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Collector yields canonical contacts for one source. Job is the
// implementation; the interface lets sources with different record
// types run side by side.
type Collector interface {
	Name() string
	Collect(ctx context.Context) ([]models.Contact, error)
}

// Job binds a source to the provenance tag stamped on its contacts.
type Job[R models.RawRecord] struct {
	Source Source[R]
	Tag    string
}

func NewJob[R models.RawRecord](src Source[R], tag string) *Job[R] {
	return &Job[R]{Source: src, Tag: tag}
}

func (j *Job[R]) Name() string { return j.Tag }

func (j *Job[R]) Collect(ctx context.Context) ([]models.Contact, error) {
	recs, err := j.Source.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return Normalize(j.Tag, recs), nil
}

// SourceResult is the outcome of one collector in a run.
type SourceResult struct {
	Name  string
	Count int
	Err   error
}

// Result is everything one aggregation run produced.
type Result struct {
	Contacts []models.Contact
	Sources  []SourceResult
}

// Total is the size of the contact dataset.
func (r *Result) Total() int { return len(r.Contacts) }

// Failed lists the sources that contributed nothing because of an error.
func (r *Result) Failed() []string {
	var out []string
	for _, s := range r.Sources {
		if s.Err != nil {
			out = append(out, s.Name)
		}
	}
	return out
}

// Aggregator runs collectors one after another and concatenates their
// contacts. Contacts from different sources are never merged.
type Aggregator struct {
	Collectors []Collector
	Log        *logger.Logger
}

func NewAggregator(log *logger.Logger, collectors ...Collector) *Aggregator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Aggregator{Collectors: collectors, Log: log}
}

// Run collects from every source. A failing source is logged and
// skipped; the partial result is returned together with the joined
// source errors.
func (a *Aggregator) Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	var errs []error

	for _, c := range a.Collectors {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			res.Sources = append(res.Sources, SourceResult{Name: c.Name(), Err: err})
			continue
		}

		a.Log.Info("scraping contact information", "source", c.Name())
		contacts, err := c.Collect(ctx)
		if err != nil {
			// keep going: one broken source should not kill the run
			a.Log.Error("source failed", "source", c.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", c.Name(), err))
			res.Sources = append(res.Sources, SourceResult{Name: c.Name(), Err: err})
			continue
		}

		a.Log.Info("scraped contacts", "source", c.Name(), "count", len(contacts))
		res.Contacts = append(res.Contacts, contacts...)
		res.Sources = append(res.Sources, SourceResult{Name: c.Name(), Count: len(contacts)})
	}

	a.Log.Info("size of contact dataset", "total", res.Total())
	return res, errors.Join(errs...)
}
