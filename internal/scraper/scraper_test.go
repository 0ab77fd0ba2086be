package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"contacthub/internal/cache"
	"contacthub/pkg/logger"
	"contacthub/pkg/models"
)

func strPtr(s string) *string { return &s }

// mockSource is a Source whose fetch is supplied per test.
type mockSource[R any] struct {
	name      string
	FetchFunc func(ctx context.Context) (*models.Records[R], error)
}

func (m *mockSource[R]) Name() string { return m.name }

func (m *mockSource[R]) FetchAll(ctx context.Context) (*models.Records[R], error) {
	return m.FetchFunc(ctx)
}

func a4mRecords() *models.Records[models.A4MRecord] {
	recs := models.NewRecords[models.A4MRecord](2)
	recs.Add("Jane Doe", models.A4MRecord{Degrees: strPtr("MD"), URL: "x.com"})
	recs.Add("John Roe", models.A4MRecord{})
	return recs
}

func TestAggregator_ConcatenatesInOrder(t *testing.T) {
	a4m := &mockSource[models.A4MRecord]{name: "a4m", FetchFunc: func(context.Context) (*models.Records[models.A4MRecord], error) {
		return a4mRecords(), nil
	}}
	aanp := &mockSource[models.AANPRecord]{name: "aanp", FetchFunc: func(context.Context) (*models.Records[models.AANPRecord], error) {
		recs := models.NewRecords[models.AANPRecord](1)
		// same person as in a4m: sources are never merged
		recs.Add("Jane Doe", models.AANPRecord{Company: strPtr("clinic")})
		return recs, nil
	}}

	agg := NewAggregator(nil, NewJob[models.A4MRecord](a4m, "a4m"), NewJob[models.AANPRecord](aanp, "AANP"))
	res, err := agg.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, res.Total())
	assert.Equal(t, "a4m", res.Contacts[0].Source)
	assert.Equal(t, "a4m", res.Contacts[1].Source)
	assert.Equal(t, "AANP", res.Contacts[2].Source)
	assert.Equal(t, "Jane Doe", res.Contacts[2].Name)
	assert.Equal(t, []SourceResult{{Name: "a4m", Count: 2}, {Name: "AANP", Count: 1}}, res.Sources)
	assert.Empty(t, res.Failed())
}

func TestAggregator_FailingSourceDoesNotStopOthers(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	boom := &FetchError{Source: "a4m", Op: "index", Err: ErrSourceUnavailable}

	bad := &mockSource[models.A4MRecord]{name: "a4m", FetchFunc: func(context.Context) (*models.Records[models.A4MRecord], error) {
		return nil, boom
	}}
	good := &mockSource[models.AANPRecord]{name: "aanp", FetchFunc: func(context.Context) (*models.Records[models.AANPRecord], error) {
		recs := models.NewRecords[models.AANPRecord](1)
		recs.Add("Ann Lee", models.AANPRecord{})
		return recs, nil
	}}

	agg := NewAggregator(logger.FromZap(zap.New(core)),
		NewJob[models.A4MRecord](bad, "a4m"),
		NewJob[models.AANPRecord](good, "AANP"),
	)
	res, err := agg.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Equal(t, 1, res.Total())
	assert.Equal(t, []string{"a4m"}, res.Failed())
	assert.Equal(t, 1, logs.FilterMessage("source failed").Len())

	total := logs.FilterMessage("size of contact dataset").All()
	require.Len(t, total, 1)
	assert.EqualValues(t, 1, total[0].ContextMap()["total"])
}

func TestAggregator_CanceledContextSkipsSources(t *testing.T) {
	called := false
	src := &mockSource[models.A4MRecord]{name: "a4m", FetchFunc: func(context.Context) (*models.Records[models.A4MRecord], error) {
		called = true
		return a4mRecords(), nil
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewAggregator(nil, NewJob[models.A4MRecord](src, "a4m")).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Zero(t, res.Total())
}

func TestOfflineSource(t *testing.T) {
	src := NewOfflineSource[models.A4MRecord]("a4m")

	_, err := src.FetchAll(context.Background())

	assert.ErrorIs(t, err, ErrOffline)
	assert.Equal(t, "a4m", src.Name())
}

func TestOfflineSource_BehindProxy(t *testing.T) {
	ctx := context.Background()
	store := cache.NewFileStore(t.TempDir())

	// cold cache: the offline source reports, nothing is stored
	cold := cache.NewProxy[models.A4MRecord](NewOfflineSource[models.A4MRecord]("a4m"), store, nil)
	_, err := NewJob[models.A4MRecord](cold, "a4m").Collect(ctx)
	require.ErrorIs(t, err, ErrOffline)

	// warm the cache through a live source
	live := &mockSource[models.A4MRecord]{name: "a4m", FetchFunc: func(context.Context) (*models.Records[models.A4MRecord], error) {
		return a4mRecords(), nil
	}}
	_, err = cache.NewProxy[models.A4MRecord](live, store, nil).FetchAll(ctx)
	require.NoError(t, err)

	contacts, err := NewJob[models.A4MRecord](cold, "a4m").Collect(ctx)
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
}

func TestFetchError(t *testing.T) {
	err := error(&FetchError{Source: "aanp", Op: "sweep", Err: ErrSourceUnavailable})

	assert.Equal(t, "aanp: sweep: source unavailable", err.Error())
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
}
