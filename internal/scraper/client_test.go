package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contacthub/pkg/config"
)

func testClient(retries int) *Client {
	return NewClient(config.HTTPConfig{
		Timeout:        2 * time.Second,
		MaxRetries:     retries,
		RetryBaseDelay: time.Millisecond,
		UserAgent:      "contacthub-test",
	}, nil)
}

func TestClient_RetriesRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "contacthub-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct{ OK bool }
	require.NoError(t, testClient(2).GetJSON(context.Background(), srv.URL, &out))

	assert.True(t, out.OK)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := testClient(1).GetJSON(context.Background(), srv.URL, &struct{}{})

	var se *HTTPStatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	err := testClient(3).GetJSON(context.Background(), srv.URL, &struct{}{})

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusCode(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_DecodeErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	err := testClient(3).GetJSON(context.Background(), srv.URL, &struct{}{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_PostJSONSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"d":"[]"}`))
	}))
	defer srv.Close()

	var out aanpSearchResponse
	require.NoError(t, testClient(0).PostJSON(context.Background(), srv.URL, map[string]int{"a": 1}, &out))
	assert.Equal(t, "[]", out.D)
}

func TestClient_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := testClient(3).GetJSON(ctx, srv.URL, &struct{}{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestIsRetryableHTTPStatus(t *testing.T) {
	for code, want := range map[int]bool{
		200: false, 400: false, 404: false,
		408: true, 429: true, 500: true, 502: true, 503: true,
	} {
		assert.Equal(t, want, IsRetryableHTTPStatus(code), "status %d", code)
	}
}
