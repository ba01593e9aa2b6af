package page

import (
	"github.com/i474232898/energy-forecast/internal/forecast"
	"github.com/i474232898/energy-forecast/internal/form"
	"github.com/i474232898/energy-forecast/internal/render"
)

// View is a point-in-time copy of the page, used by templates and the JSON API.
type View struct {
	StartDate      string              `json:"startDate"`
	ForecastLength int                 `json:"forecastLength"`
	Rows           []RowView           `json:"rows"`
	ResultsVisible bool                `json:"resultsVisible"`
	Loading        bool                `json:"loading"`
	Alert          string              `json:"alert,omitempty"`
	Results        []render.TableRow   `json:"results"`
	Chart          *render.ChartConfig `json:"chart,omitempty"`
	ChartID        string              `json:"chartId,omitempty"`
}

// RowView is one input row in display order.
type RowView struct {
	Offset  int          `json:"offset"`
	Label   string       `json:"label"`
	Inputs  []InputView  `json:"inputs"`
	Weekend WeekendInput `json:"weekend"`
}

type InputView struct {
	Name  string  `json:"name"`
	Value string  `json:"value"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`
}

type WeekendInput struct {
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

// View snapshots the page.
func (p *Page) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := View{
		StartDate:      p.form.StartDate,
		ForecastLength: p.form.ForecastLength,
		ResultsVisible: p.resultsVisible,
		Loading:        p.loading,
		Alert:          p.alert,
		Results:        p.renderer.Rows(),
	}
	for _, row := range p.form.DisplayRows() {
		v.Rows = append(v.Rows, rowView(row))
	}
	if chart := p.renderer.Chart(); chart != nil {
		cfg := chart.Config
		v.Chart = &cfg
		v.ChartID = chart.ID
	}
	return v
}

func rowView(row form.Row) RowView {
	rv := RowView{
		Offset: row.Offset,
		Label:  row.Label,
		Weekend: WeekendInput{
			Name:    forecast.FieldName(forecast.FieldWeekend, row.Offset),
			Checked: row.Weekend,
		},
	}
	for _, field := range form.Fields {
		rv.Inputs = append(rv.Inputs, InputView{
			Name:  forecast.FieldName(field.Prefix, row.Offset),
			Value: row.Value(field.Prefix),
			Min:   field.Min,
			Max:   field.Max,
			Step:  field.Step,
		})
	}
	return rv
}
