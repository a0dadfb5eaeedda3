// Package client talks to the inference service on behalf of the interactive
// frontend.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"exoplanet-detector/internal/features"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// TransportError is returned for network failures and non-200 responses.
// The frontend treats it as a soft failure.
type TransportError struct {
	StatusCode int    // 0 when no response was received
	Detail     string // "detail" field of the error body, if any
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if e.Detail != "" {
			return fmt.Sprintf("service returned %d: %s", e.StatusCode, e.Detail)
		}
		return fmt.Sprintf("service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("service unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// PredictResponse mirrors the service's successful predict body.
type PredictResponse struct {
	TransitProbability float64 `json:"transit_probability"`
	Prediction         string  `json:"prediction"`
	Confidence         string  `json:"confidence"`
}

// HealthResponse mirrors GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Fallback    bool   `json:"fallback"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// Options configures a Client.
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	RequestsPerSec int
}

// Client is a rate-limited HTTP client for the inference service.
type Client struct {
	base    string
	rest    *resty.Client
	limiter *rate.Limiter
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 5
	}

	r := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		base:    strings.TrimRight(opts.BaseURL, "/"),
		rest:    r,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.RequestsPerSec),
	}
}

// Predict sends the 14 ordered feature values.
func (c *Client) Predict(ctx context.Context, fv features.FeatureVector) (*PredictResponse, error) {
	return c.PredictValues(ctx, fv.Slice())
}

// PredictValues sends values as-is. The service rejects a wrong count with a
// 500, which surfaces here as a TransportError.
func (c *Client) PredictValues(ctx context.Context, values []float64) (*PredictResponse, error) {
	var out PredictResponse
	req := c.rest.R().SetBody(map[string][]float64{"features": values})
	if err := c.do(ctx, req, http.MethodPost, "/predict", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health queries GET /health.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, c.rest.R(), http.MethodGet, "/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, req *resty.Request, method, path string, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Err: err}
	}

	var errResp errorBody
	resp, err := req.
		SetContext(ctx).
		SetResult(result).
		SetError(&errResp).
		Execute(method, c.base+path)
	if err != nil {
		return &TransportError{Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return &TransportError{
			StatusCode: resp.StatusCode(),
			Detail:     errResp.Detail,
			Err:        fmt.Errorf("%s %s: %s", method, path, resp.Status()),
		}
	}
	return nil
}
