package render

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/i474232898/energy-forecast/internal/forecast"
)

// ChartConfig mirrors the Chart.js configuration object for a line chart.
type ChartConfig struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label                string    `json:"label"`
	Data                 []float64 `json:"data"`
	BackgroundColor      string    `json:"backgroundColor"`
	BorderColor          string    `json:"borderColor"`
	BorderWidth          int       `json:"borderWidth"`
	PointRadius          int       `json:"pointRadius"`
	PointBackgroundColor string    `json:"pointBackgroundColor"`
	Tension              float64   `json:"tension"`
}

type ChartOptions struct {
	Responsive          bool         `json:"responsive"`
	MaintainAspectRatio bool         `json:"maintainAspectRatio"`
	Scales              ChartScales  `json:"scales"`
	Plugins             ChartPlugins `json:"plugins"`
}

type ChartScales struct {
	Y ChartAxis `json:"y"`
	X ChartAxis `json:"x"`
}

type ChartAxis struct {
	BeginAtZero *bool       `json:"beginAtZero,omitempty"`
	Title       ChartTitle  `json:"title"`
	Ticks       *ChartTicks `json:"ticks,omitempty"`
}

type ChartTicks struct {
	MaxRotation int `json:"maxRotation"`
	MinRotation int `json:"minRotation"`
}

type ChartTitle struct {
	Display bool       `json:"display"`
	Text    string     `json:"text"`
	Font    *ChartFont `json:"font,omitempty"`
}

type ChartFont struct {
	Size int `json:"size"`
}

type ChartPlugins struct {
	Title   ChartTitle   `json:"title"`
	Tooltip ChartTooltip `json:"tooltip"`
}

// ChartTooltip is read by the page script, which formats tooltip values
// with Decimals digits followed by Unit.
type ChartTooltip struct {
	Prefix   string `json:"prefix"`
	Decimals int    `json:"decimals"`
	Unit     string `json:"unit"`
}

const (
	seriesColor = "rgba(42, 82, 152, 1)"
	fillColor   = "rgba(42, 82, 152, 0.2)"
)

// NewLineChart builds the fixed forecast line chart for labels and values.
func NewLineChart(labels []string, values []float64) ChartConfig {
	beginAtZero := false
	return ChartConfig{
		Type: "line",
		Data: ChartData{
			Labels: labels,
			Datasets: []ChartDataset{{
				Label:                "Predicted Energy Consumption (" + forecast.Unit + ")",
				Data:                 values,
				BackgroundColor:      fillColor,
				BorderColor:          seriesColor,
				BorderWidth:          2,
				PointRadius:          3,
				PointBackgroundColor: seriesColor,
				Tension:              0.4,
			}},
		},
		Options: ChartOptions{
			Responsive:          true,
			MaintainAspectRatio: false,
			Scales: ChartScales{
				Y: ChartAxis{
					BeginAtZero: &beginAtZero,
					Title:       ChartTitle{Display: true, Text: "Energy Consumption (" + forecast.Unit + ")"},
				},
				X: ChartAxis{
					Title: ChartTitle{Display: true, Text: "Time"},
					Ticks: &ChartTicks{MaxRotation: 45, MinRotation: 45},
				},
			},
			Plugins: ChartPlugins{
				Title:   ChartTitle{Display: true, Text: "Energy Consumption Forecast", Font: &ChartFont{Size: 16}},
				Tooltip: ChartTooltip{Prefix: "Energy", Decimals: 2, Unit: forecast.Unit},
			},
		},
	}
}

// Chart is one drawn chart instance.
type Chart struct {
	ID       string
	Config   ChartConfig
	released atomic.Bool
}

// Released reports whether the instance has been torn down.
func (c *Chart) Released() bool {
	return c.released.Load()
}

// ChartSlot holds at most one live chart.
type ChartSlot struct {
	mu      sync.Mutex
	current *Chart
	live    int
}

// Replace releases the current chart, if any, and only then creates the
// new one, so two instances are never live at once.
func (s *ChartSlot) Replace(labels []string, values []float64) *Chart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.released.Store(true)
		s.current = nil
		s.live--
	}

	s.current = &Chart{
		ID:     uuid.NewString(),
		Config: NewLineChart(labels, values),
	}
	s.live++
	return s.current
}

// Current returns the live chart or nil.
func (s *ChartSlot) Current() *Chart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Live returns the number of live chart instances.
func (s *ChartSlot) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}
