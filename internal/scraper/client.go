package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"contacthub/pkg/config"
	"contacthub/pkg/logger"
)

// HTTPStatusError is returned for a non-2xx upstream response.
type HTTPStatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int { return e.StatusCode }

// IsRetryableHTTPStatus reports whether a response status is worth retrying.
func IsRetryableHTTPStatus(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// Client is the HTTP client shared by all sources. Every attempt waits
// on one rate limiter, and transport errors or retryable statuses are
// retried with exponential backoff.
type Client struct {
	HTTP       *http.Client
	Limiter    *rate.Limiter
	MaxRetries int
	BaseDelay  time.Duration
	UserAgent  string
	Log        *logger.Logger
}

func NewClient(cfg config.HTTPConfig, log *logger.Logger) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		HTTP:       &http.Client{Timeout: cfg.Timeout},
		Limiter:    rate.NewLimiter(limit, 1),
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBaseDelay,
		UserAgent:  cfg.UserAgent,
		Log:        log,
	}
}

// GetJSON issues a GET and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	return c.doJSON(ctx, http.MethodGet, url, nil, out)
}

// PostJSON encodes body as JSON, POSTs it and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, url string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, url, b, out)
}

func (c *Client) doJSON(ctx context.Context, method, url string, body []byte, out any) error {
	op := func() error {
		if err := c.Limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		var rdr io.Reader
		if body != nil {
			rdr = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, rdr)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.UserAgent != "" {
			req.Header.Set("User-Agent", c.UserAgent)
		}

		resp, err := c.HTTP.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("%s %s: %w", method, url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			statusErr := &HTTPStatusError{
				Method:     method,
				URL:        url,
				StatusCode: resp.StatusCode,
				Body:       string(snippet),
			}
			if IsRetryableHTTPStatus(resp.StatusCode) {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode %s: %w", url, err))
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.Log.Warn("request retrying",
			"method", method,
			"url", url,
			"sleep", wait.String(),
			"error", err.Error(),
		)
	}

	return backoff.RetryNotify(op, c.backoff(ctx), notify)
}

func (c *Client) backoff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if c.BaseDelay > 0 {
		exp.InitialInterval = c.BaseDelay
	}
	exp.MaxInterval = 10 * time.Second
	exp.MaxElapsedTime = 0

	retries := c.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

// statusCode extracts the upstream status from err, or 0.
func statusCode(err error) int {
	var se *HTTPStatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
