package scraper

import (
	"context"

	"contacthub/pkg/models"
)

// OfflineSource stands in for a real source when only cached data may
// be used. Behind a cache proxy it turns a cold cache into ErrOffline
// instead of a network fetch.
type OfflineSource[R any] struct {
	SourceName string
}

func NewOfflineSource[R any](name string) *OfflineSource[R] {
	return &OfflineSource[R]{SourceName: name}
}

func (s *OfflineSource[R]) Name() string { return s.SourceName }

func (s *OfflineSource[R]) FetchAll(context.Context) (*models.Records[R], error) {
	return nil, &FetchError{Source: s.SourceName, Op: "fetch", Err: ErrOffline}
}
