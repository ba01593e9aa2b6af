package predict

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/energy-forecast/internal/forecast"
)

func testRequest() forecast.Request {
	req := forecast.Request{
		StartDate:      time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC),
		ForecastLength: 2,
	}
	for i := range req.Readings {
		req.Readings[i] = forecast.HourlyReading{HourOffset: i, Temperature: 65, Humidity: 50, WindSpeed: 7}
	}
	req.Readings[0].IsWeekendOrHoliday = true
	return req
}

func TestPredictPostsFormAndDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())

		assert.Equal(t, "2025-01-02T08:00", r.PostForm.Get("start_date"))
		assert.Equal(t, "65", r.PostForm.Get("temp_23"))
		assert.Equal(t, "1", r.PostForm.Get("weekend_0"))
		_, present := r.PostForm["weekend_1"]
		assert.False(t, present)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(forecast.PredictionResponse{
			Timestamps:  []string{"2025-01-02 08:00", "2025-01-02 09:00"},
			Predictions: []float64{123.456, 98.7},
		})
	}))
	defer server.Close()

	client := NewClient(server.Client(), Config{Endpoint: server.URL + "/predict", Timeout: time.Second})
	resp, err := client.Predict(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-02 08:00", "2025-01-02 09:00"}, resp.Timestamps)
	assert.Equal(t, []float64{123.456, 98.7}, resp.Predictions)
}

func TestPredictNonOKStatus(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":"model not loaded"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.Client(), Config{Endpoint: server.URL})
	_, err := client.Predict(context.Background(), testRequest())

	require.ErrorIs(t, err, ErrRequestFailed)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Equal(t, 1, calls, "failed requests are not retried")
}

func TestPredictTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.Client(), Config{Endpoint: server.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := client.Predict(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestPredictMalformedResponse(t *testing.T) {
	tests := map[string]string{
		"not json":        `<html>oops</html>`,
		"length mismatch": `{"timestamps":["a","b"],"predictions":[1]}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			client := NewClient(server.Client(), Config{Endpoint: server.URL})
			_, err := client.Predict(context.Background(), testRequest())
			assert.ErrorIs(t, err, forecast.ErrMalformedResponse)
		})
	}
}

func TestPredictRateLimitHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"timestamps":[],"predictions":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), Config{Endpoint: server.URL, RequestsPerSecond: 0.001, Burst: 1})
	_, err := client.Predict(context.Background(), testRequest())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.Predict(ctx, testRequest())
	assert.ErrorIs(t, err, ErrRequestFailed)
}
