// Package artifact acquires the classifier and scaler artifacts at startup.
// Locations may be http(s) URLs, file:// URLs or plain paths. Remote fetches
// use a per-attempt timeout and bounded exponential backoff.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// StatusError is returned for a non-2xx artifact response.
type StatusError struct {
	StatusCode int
	Location   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d %s", e.Location, e.StatusCode, http.StatusText(e.StatusCode))
}

// Retryable reports whether the server may succeed on a later attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusRequestTimeout
}

var ErrTooLarge = errors.New("artifact exceeds size limit")

// Options bounds a single artifact fetch.
type Options struct {
	Timeout    time.Duration // per attempt
	MaxRetries int
	MaxElapsed time.Duration
	MaxBytes   int64
}

// Fetcher reads artifact bytes from a location.
type Fetcher struct {
	rest *resty.Client
	opts Options
}

func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxElapsed <= 0 {
		opts.MaxElapsed = 2 * time.Minute
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 64 << 20
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	r := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json, application/octet-stream").
		SetHeader("User-Agent", "exoplanet-detector/1.0")
	return &Fetcher{rest: r, opts: opts}
}

// Fetch returns the raw artifact at location.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact location %q: %w", location, err)
	}

	switch u.Scheme {
	case "http", "https":
		return f.fetchHTTP(ctx, location)
	case "file":
		return f.readFile(u.Path)
	case "":
		return f.readFile(location)
	default:
		return nil, fmt.Errorf("unsupported artifact scheme %q", u.Scheme)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, location string) ([]byte, error) {
	var body []byte

	operation := func() error {
		resp, err := f.rest.R().
			SetContext(ctx).
			SetDoNotParseResponse(true).
			Get(location)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		raw := resp.RawBody()
		defer raw.Close()

		if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
			statusErr := &StatusError{StatusCode: resp.StatusCode(), Location: location}
			if statusErr.Retryable() {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		data, err := io.ReadAll(io.LimitReader(raw, f.opts.MaxBytes+1))
		if err != nil {
			return fmt.Errorf("read artifact body: %w", err)
		}
		if int64(len(data)) > f.opts.MaxBytes {
			return backoff.Permanent(fmt.Errorf("%s: %w (%d bytes)", location, ErrTooLarge, f.opts.MaxBytes))
		}
		body = data
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = 500 * time.Millisecond
	strategy.MaxElapsedTime = f.opts.MaxElapsed

	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("location", location).Dur("backoff", wait).Msg("artifact fetch failed, retrying")
	}

	b := backoff.WithContext(backoff.WithMaxRetries(strategy, uint64(f.opts.MaxRetries)), ctx)
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("artifact %s is a directory", path)
	}
	if info.Size() > f.opts.MaxBytes {
		return nil, fmt.Errorf("%s: %w (%d bytes)", path, ErrTooLarge, f.opts.MaxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return data, nil
}
