// Package page holds the state of one open forecast page: the input form,
// the results area and the token of the latest submission.
package page

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/i474232898/energy-forecast/internal/forecast"
	"github.com/i474232898/energy-forecast/internal/form"
	"github.com/i474232898/energy-forecast/internal/logger"
	"github.com/i474232898/energy-forecast/internal/render"
)

// AlertMessage is shown to the user when a submission fails.
const AlertMessage = "An error occurred while making the prediction. Please try again."

// ErrStaleResponse is returned when a newer submission was issued while
// this one was in flight. The response is dropped.
var ErrStaleResponse = errors.New("stale prediction response discarded")

// Predictor performs one prediction request.
type Predictor interface {
	Predict(ctx context.Context, req forecast.Request) (forecast.PredictionResponse, error)
}

// Page is safe for concurrent use.
type Page struct {
	mu sync.Mutex

	form     *form.Form
	renderer *render.Renderer

	resultsVisible bool
	loading        bool
	alert          string

	// latest is the token of the most recently issued submission.
	latest uint64
}

// New initializes the form against now with an empty, hidden results area.
func New(now time.Time) *Page {
	return &Page{
		form:     form.Initialize(now),
		renderer: render.NewRenderer(),
	}
}

// FillDummyData fills every input with synthetic readings. An alert left
// by an earlier submission is dropped.
func (p *Page) FillDummyData(rng form.Rand) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form.FillDummyData(rng)
	p.alert = ""
}

// Bind stores posted input values in the form. Each post is a new user
// action, so the previous submission's alert is dropped.
func (p *Page) Bind(lookup func(key string) string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form.Bind(lookup)
	p.alert = ""
}

// Submit sends the form to pred and renders the result. Only the response
// to the latest submission is applied; older ones return ErrStaleResponse
// without touching the page. Failures hide the loading indicator and set
// the alert, leaving the table and chart as they were.
func (p *Page) Submit(ctx context.Context, pred Predictor) error {
	p.mu.Lock()
	req, err := p.form.Request()
	if err != nil {
		p.alert = err.Error()
		p.mu.Unlock()
		return err
	}
	p.latest++
	token := p.latest
	p.resultsVisible = true
	p.loading = true
	p.alert = ""
	p.mu.Unlock()

	resp, err := pred.Predict(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()

	if token != p.latest {
		logger.Debug("page: dropping response for submission %d, latest is %d", token, p.latest)
		return ErrStaleResponse
	}

	p.loading = false
	if err != nil {
		logger.Error("page: submission %d failed: %v", token, err)
		p.alert = AlertMessage
		return err
	}
	if err := p.renderer.Render(resp); err != nil {
		logger.Error("page: submission %d returned an unusable response: %v", token, err)
		p.alert = AlertMessage
		return err
	}
	return nil
}

// LiveCharts reports the number of live chart instances.
func (p *Page) LiveCharts() int {
	return p.renderer.LiveCharts()
}
