// Package predict posts form-encoded readings to a prediction endpoint.
package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/energy-forecast/internal/forecast"
	"github.com/i474232898/energy-forecast/internal/logger"
)

// Config controls the outbound prediction call.
type Config struct {
	Endpoint string
	// Timeout bounds a single submission. Zero means no timeout.
	Timeout time.Duration
	// RequestsPerSecond limits outbound calls. Zero disables limiting.
	RequestsPerSecond float64
	Burst             int
}

// Client issues one request per prediction.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
	limiter  *rate.Limiter
	circuit  *gobreaker.CircuitBreaker
}

func NewClient(httpClient *http.Client, cfg Config) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "predict",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
	})

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
		http:     httpClient,
		limiter:  limiter,
		circuit:  cb,
	}
}

// Predict posts the request and decodes the forecast. Transport errors,
// timeouts and non-2xx statuses are reported as ErrRequestFailed; a body
// that does not have the expected shape as forecast.ErrMalformedResponse.
func (c *Client) Predict(ctx context.Context, req forecast.Request) (forecast.PredictionResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body := req.Encode().Encode()
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.Header.Set("Accept", "application/json")
		return r, nil
	}

	start := time.Now()
	resp, err := doRequest(ctx, c.http, c.limiter, c.circuit, buildRequest)
	if err != nil {
		logger.Warn("predict: request to %s failed after %s: %v", c.endpoint, time.Since(start), err)
		return forecast.PredictionResponse{}, err
	}
	defer resp.Body.Close()

	var out forecast.PredictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if ctx.Err() != nil {
			return forecast.PredictionResponse{}, fmt.Errorf("%w: %v", ErrRequestFailed, ctx.Err())
		}
		return forecast.PredictionResponse{}, fmt.Errorf("%w: %v", forecast.ErrMalformedResponse, err)
	}
	if err := out.Validate(); err != nil {
		return forecast.PredictionResponse{}, err
	}

	logger.Debug("predict: %d points from %s in %s", out.Len(), c.endpoint, time.Since(start))
	return out, nil
}
