package page

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/energy-forecast/internal/forecast"
	"github.com/i474232898/energy-forecast/internal/predict"
)

type constRand float64

func (c constRand) Float64() float64 { return float64(c) }

type call struct {
	req   forecast.Request
	reply chan result
}

type result struct {
	resp forecast.PredictionResponse
	err  error
}

// gatedPredictor blocks every call until the test replies to it.
type gatedPredictor struct {
	calls chan call
}

func newGatedPredictor() *gatedPredictor {
	return &gatedPredictor{calls: make(chan call)}
}

func (g *gatedPredictor) Predict(ctx context.Context, req forecast.Request) (forecast.PredictionResponse, error) {
	c := call{req: req, reply: make(chan result, 1)}
	g.calls <- c
	r := <-c.reply
	return r.resp, r.err
}

type funcPredictor func(ctx context.Context, req forecast.Request) (forecast.PredictionResponse, error)

func (f funcPredictor) Predict(ctx context.Context, req forecast.Request) (forecast.PredictionResponse, error) {
	return f(ctx, req)
}

func response(label string, v float64) forecast.PredictionResponse {
	return forecast.PredictionResponse{Timestamps: []string{label}, Predictions: []float64{v}}
}

func filledPage() *Page {
	p := New(time.Date(2025, 4, 1, 12, 0, 0, 0, time.Local))
	p.FillDummyData(constRand(0.5))
	return p
}

func TestNewPageHidesResults(t *testing.T) {
	v := New(time.Now()).View()
	assert.False(t, v.ResultsVisible)
	assert.False(t, v.Loading)
	assert.Empty(t, v.Results)
	assert.Nil(t, v.Chart)
	require.Len(t, v.Rows, 24)
	assert.Equal(t, 23, v.Rows[0].Offset)
	assert.Equal(t, "temp_23", v.Rows[0].Inputs[0].Name)
	assert.Equal(t, "weekend_23", v.Rows[0].Weekend.Name)
}

func TestSubmitSuccess(t *testing.T) {
	p := filledPage()
	var got forecast.Request
	pred := funcPredictor(func(ctx context.Context, req forecast.Request) (forecast.PredictionResponse, error) {
		got = req
		return forecast.PredictionResponse{
			Timestamps:  []string{"10:00 AM", "11:00 AM"},
			Predictions: []float64{123.456, 98.7},
		}, nil
	})

	require.NoError(t, p.Submit(context.Background(), pred))
	assert.Equal(t, forecast.DefaultForecastLength, got.ForecastLength)

	v := p.View()
	assert.True(t, v.ResultsVisible)
	assert.False(t, v.Loading)
	assert.Empty(t, v.Alert)
	require.Len(t, v.Results, 2)
	assert.Equal(t, "123.46 MW", v.Results[0].Prediction)
	assert.Equal(t, "98.70 MW", v.Results[1].Prediction)
	require.NotNil(t, v.Chart)
	assert.Equal(t, 1, p.LiveCharts())
}

func TestSubmitShowsLoadingWhileInFlight(t *testing.T) {
	p := filledPage()
	pred := newGatedPredictor()

	done := make(chan error, 1)
	go func() { done <- p.Submit(context.Background(), pred) }()

	c := <-pred.calls
	v := p.View()
	assert.True(t, v.ResultsVisible)
	assert.True(t, v.Loading)

	c.reply <- result{resp: response("a", 1)}
	require.NoError(t, <-done)
	assert.False(t, p.View().Loading)
}

func TestSubmitFailureKeepsPreviousResults(t *testing.T) {
	p := filledPage()
	ok := funcPredictor(func(context.Context, forecast.Request) (forecast.PredictionResponse, error) {
		return response("10:00 AM", 5), nil
	})
	require.NoError(t, p.Submit(context.Background(), ok))
	before := p.View()

	failing := funcPredictor(func(context.Context, forecast.Request) (forecast.PredictionResponse, error) {
		return forecast.PredictionResponse{}, fmt.Errorf("%w: %w", predict.ErrRequestFailed, &predict.StatusError{Code: 500})
	})
	err := p.Submit(context.Background(), failing)
	assert.ErrorIs(t, err, predict.ErrRequestFailed)

	after := p.View()
	assert.False(t, after.Loading)
	assert.Equal(t, AlertMessage, after.Alert)
	assert.Equal(t, before.Results, after.Results)
	assert.Equal(t, before.ChartID, after.ChartID)
	assert.Equal(t, 1, p.LiveCharts())
}

func TestFailureAlertClearedByNextAction(t *testing.T) {
	failing := funcPredictor(func(context.Context, forecast.Request) (forecast.PredictionResponse, error) {
		return forecast.PredictionResponse{}, predict.ErrRequestFailed
	})

	p := filledPage()
	require.Error(t, p.Submit(context.Background(), failing))
	require.Equal(t, AlertMessage, p.View().Alert)
	p.FillDummyData(constRand(0.5))
	assert.Empty(t, p.View().Alert)

	require.Error(t, p.Submit(context.Background(), failing))
	require.Equal(t, AlertMessage, p.View().Alert)
	p.Bind(func(string) string { return "" })
	assert.Empty(t, p.View().Alert)
}

func TestSubmitMalformedResponse(t *testing.T) {
	p := filledPage()
	bad := funcPredictor(func(context.Context, forecast.Request) (forecast.PredictionResponse, error) {
		return forecast.PredictionResponse{Timestamps: []string{"a", "b"}}, nil
	})

	err := p.Submit(context.Background(), bad)
	assert.ErrorIs(t, err, forecast.ErrMalformedResponse)

	v := p.View()
	assert.False(t, v.Loading)
	assert.Equal(t, AlertMessage, v.Alert)
	assert.Empty(t, v.Results)
	assert.Nil(t, v.Chart)
}

func TestSubmitInvalidFormSendsNothing(t *testing.T) {
	p := New(time.Now())
	called := false
	pred := funcPredictor(func(context.Context, forecast.Request) (forecast.PredictionResponse, error) {
		called = true
		return response("a", 1), nil
	})

	err := p.Submit(context.Background(), pred)
	assert.ErrorIs(t, err, forecast.ErrInvalidRequest)
	assert.False(t, called)

	v := p.View()
	assert.False(t, v.ResultsVisible)
	assert.False(t, v.Loading)
	assert.NotEmpty(t, v.Alert)
}

func TestConcurrentSubmissionsLatestWins(t *testing.T) {
	for _, staleFirst := range []bool{true, false} {
		t.Run(fmt.Sprintf("stale resolves first=%v", staleFirst), func(t *testing.T) {
			p := filledPage()
			pred := newGatedPredictor()

			first := make(chan error, 1)
			go func() { first <- p.Submit(context.Background(), pred) }()
			c1 := <-pred.calls

			second := make(chan error, 1)
			go func() { second <- p.Submit(context.Background(), pred) }()
			c2 := <-pred.calls

			if staleFirst {
				c1.reply <- result{resp: response("old", 1)}
				assert.ErrorIs(t, <-first, ErrStaleResponse)
				assert.True(t, p.View().Loading, "newer submission still in flight")

				c2.reply <- result{resp: response("new", 2)}
				assert.NoError(t, <-second)
			} else {
				c2.reply <- result{resp: response("new", 2)}
				assert.NoError(t, <-second)

				c1.reply <- result{resp: response("old", 1)}
				assert.ErrorIs(t, <-first, ErrStaleResponse)
			}

			v := p.View()
			assert.False(t, v.Loading)
			require.Len(t, v.Results, 1)
			assert.Equal(t, "new", v.Results[0].Timestamp)
			assert.Equal(t, 1, p.LiveCharts())
		})
	}
}

func TestStaleFailureDoesNotAlert(t *testing.T) {
	p := filledPage()
	pred := newGatedPredictor()

	first := make(chan error, 1)
	go func() { first <- p.Submit(context.Background(), pred) }()
	c1 := <-pred.calls

	second := make(chan error, 1)
	go func() { second <- p.Submit(context.Background(), pred) }()
	c2 := <-pred.calls

	c1.reply <- result{err: errors.New("connection reset")}
	assert.ErrorIs(t, <-first, ErrStaleResponse)
	c2.reply <- result{resp: response("new", 2)}
	require.NoError(t, <-second)

	assert.Empty(t, p.View().Alert)
}
