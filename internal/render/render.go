// Package render turns a prediction response into table rows and a chart.
package render

import (
	"sync"

	"github.com/i474232898/energy-forecast/internal/common"
	"github.com/i474232898/energy-forecast/internal/forecast"
)

// TableRow is one rendered row of the results table.
type TableRow struct {
	Timestamp  string `json:"timestamp"`
	Prediction string `json:"prediction"`
}

// FormatPrediction renders v with two decimals and the unit suffix.
func FormatPrediction(v float64) string {
	return common.FormatFixed(v, 2) + " " + forecast.Unit
}

// Renderer owns the results table and the chart slot.
type Renderer struct {
	mu    sync.RWMutex
	rows  []TableRow
	chart ChartSlot
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render replaces the table with one row per forecast point and redraws
// the chart. A response with mismatched sequences leaves both untouched.
func (r *Renderer) Render(resp forecast.PredictionResponse) error {
	if err := resp.Validate(); err != nil {
		return err
	}

	rows := make([]TableRow, resp.Len())
	for i := range resp.Timestamps {
		rows[i] = TableRow{
			Timestamp:  resp.Timestamps[i],
			Prediction: FormatPrediction(resp.Predictions[i]),
		}
	}

	labels := make([]string, resp.Len())
	copy(labels, resp.Timestamps)
	values := make([]float64, resp.Len())
	copy(values, resp.Predictions)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = rows
	r.chart.Replace(labels, values)
	return nil
}

// Rows returns a copy of the current table rows.
func (r *Renderer) Rows() []TableRow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]TableRow(nil), r.rows...)
}

// Chart returns the live chart, nil before the first render.
func (r *Renderer) Chart() *Chart {
	return r.chart.Current()
}

// LiveCharts reports how many chart instances are live.
func (r *Renderer) LiveCharts() int {
	return r.chart.Live()
}
