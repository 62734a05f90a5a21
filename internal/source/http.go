package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/salesboard/salesboard/internal/core/sales"
)

// StatusError reports a non-2xx response from a remote source.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// Temporary reports whether retrying may succeed.
func (e *StatusError) Temporary() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

// HTTPSource downloads a CSV file over HTTP(S).
//
// Each attempt streams and parses the body. Transport errors and 5xx/429
// responses are retried with exponential backoff up to maxTries attempts;
// other 4xx responses and malformed data fail immediately.
type HTTPSource struct {
	name            string
	url             string
	client          *http.Client
	maxTries        uint
	maxBodyBytes    int64
	initialInterval time.Duration
}

// NewHTTPSource creates a source for url. maxTries <= 0 means a single attempt;
// maxBodyBytes <= 0 means no size limit.
func NewHTTPSource(name, url string, client *http.Client, maxTries uint, maxBodyBytes int64) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	if maxTries == 0 {
		maxTries = 1
	}
	return &HTTPSource{
		name:            name,
		url:             url,
		client:          client,
		maxTries:        maxTries,
		maxBodyBytes:    maxBodyBytes,
		initialInterval: 500 * time.Millisecond,
	}
}

// Name returns the configured source name.
func (s *HTTPSource) Name() string { return s.name }

// Fetch downloads and parses the CSV.
func (s *HTTPSource) Fetch(ctx context.Context) ([]sales.Record, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initialInterval

	attempt := 0
	records, err := backoff.Retry(ctx, func() ([]sales.Record, error) {
		attempt++
		records, err := s.fetchOnce(ctx)
		if err == nil {
			return records, nil
		}

		var status *StatusError
		if errors.As(err, &status) && !status.Temporary() {
			return nil, backoff.Permanent(err)
		}
		if errors.Is(err, ErrMalformed) || errors.Is(err, ErrMissingColumn) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(s.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Warn("[Source] Fetch attempt failed, retrying",
				"source", s.name,
				"attempt", attempt,
				"retry_in", next,
				"error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", s.name, err)
	}

	slog.Info("[Source] Fetched remote CSV",
		"source", s.name,
		"url", s.url,
		"rows", len(records),
		"attempts", attempt)
	return records, nil
}

func (s *HTTPSource) fetchOnce(ctx context.Context) ([]sales.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("building request: %w", err))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: s.url, Code: resp.StatusCode}
	}

	var body io.Reader = resp.Body
	if s.maxBodyBytes > 0 {
		body = http.MaxBytesReader(nil, resp.Body, s.maxBodyBytes)
	}

	records, err := ParseCSV(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, backoff.Permanent(fmt.Errorf("body exceeds %d bytes", s.maxBodyBytes))
		}
		return nil, err
	}
	return records, nil
}
