// Package form holds the historical-readings form: 24 hourly rows of
// weather inputs, a start date and a forecast length.
package form

import (
	"fmt"
	"math"
	"time"

	"github.com/i474232898/energy-forecast/internal/common"
	"github.com/i474232898/energy-forecast/internal/forecast"
)

// LabelLayout is the short wall-clock format used for row labels.
const LabelLayout = "03:04 PM"

// Field describes one numeric input column and its native constraints.
type Field struct {
	Prefix string
	Title  string
	Min    float64
	Max    float64
	Step   float64
}

// Fields are the numeric columns of every row, in display order.
var Fields = []Field{
	{Prefix: forecast.FieldTemperature, Title: "Temperature (°F)", Min: -50, Max: 150, Step: 0.1},
	{Prefix: forecast.FieldHumidity, Title: "Humidity (%)", Min: 0, Max: 100, Step: 0.1},
	{Prefix: forecast.FieldWindSpeed, Title: "Wind Speed (mph)", Min: 0, Max: 200, Step: 0.1},
	{Prefix: forecast.FieldPrecipitation, Title: "Precipitation (in)", Min: 0, Max: 100, Step: 0.1},
}

// Row is one hour of input as the user sees it. Numeric values are kept
// as entered so a partially filled form renders back unchanged.
type Row struct {
	Offset  int
	Label   string
	Values  map[string]string
	Weekend bool
}

// Value returns the entered value for a field prefix.
func (r Row) Value(prefix string) string {
	return r.Values[prefix]
}

// Form is the state of the input form.
type Form struct {
	StartDate      string
	ForecastLength int
	Rows           [forecast.HistoryHours]Row
}

// Initialize builds an empty form anchored at now. Row offset k is labeled
// with the wall-clock time of now - (24 - k) hours.
func Initialize(now time.Time) *Form {
	now = now.Local()
	f := &Form{
		StartDate:      now.Truncate(time.Minute).Format(forecast.StartDateLayout),
		ForecastLength: forecast.DefaultForecastLength,
	}
	for offset := range f.Rows {
		hour := now.Add(-time.Duration(forecast.HistoryHours-offset) * time.Hour)
		f.Rows[offset] = Row{
			Offset: offset,
			Label:  hour.Format(LabelLayout),
			Values: make(map[string]string, len(Fields)),
		}
	}
	return f
}

// DisplayRows returns the rows most recent first.
func (f *Form) DisplayRows() []Row {
	rows := make([]Row, 0, len(f.Rows))
	for i := len(f.Rows) - 1; i >= 0; i-- {
		rows = append(rows, f.Rows[i])
	}
	return rows
}

// Bind copies posted field values into the form as entered. Fields missing
// from the post are cleared and left for Request to reject; an unchecked
// checkbox is simply absent. An empty forecast length means the default,
// an unparsable one is stored as 0.
func (f *Form) Bind(lookup func(key string) string) {
	f.StartDate = lookup(forecast.FieldStartDate)

	f.ForecastLength = forecast.DefaultForecastLength
	if v := lookup(forecast.FieldForecastLength); v != "" {
		n, err := forecast.ParseNumber(v)
		if err != nil || n != math.Trunc(n) {
			n = 0
		}
		f.ForecastLength = int(n)
	}
	for i := range f.Rows {
		row := &f.Rows[i]
		for _, field := range Fields {
			row.Values[field.Prefix] = lookup(forecast.FieldName(field.Prefix, i))
		}
		row.Weekend = forecast.ParseFlag(lookup(forecast.FieldName(forecast.FieldWeekend, i)))
	}
}

// Request checks the native constraints of every input and converts the
// form into a prediction request.
func (f *Form) Request() (forecast.Request, error) {
	var req forecast.Request

	if f.StartDate == "" {
		return req, fmt.Errorf("%w: start date is required", forecast.ErrInvalidRequest)
	}
	start, err := time.Parse(forecast.StartDateLayout, f.StartDate)
	if err != nil {
		return req, fmt.Errorf("%w: start date: %v", forecast.ErrInvalidRequest, err)
	}
	req.StartDate = start
	req.ForecastLength = f.ForecastLength

	for i, row := range f.Rows {
		reading := forecast.HourlyReading{HourOffset: i, IsWeekendOrHoliday: row.Weekend}
		dst := map[string]*float64{
			forecast.FieldTemperature:   &reading.Temperature,
			forecast.FieldHumidity:      &reading.Humidity,
			forecast.FieldWindSpeed:     &reading.WindSpeed,
			forecast.FieldPrecipitation: &reading.Precipitation,
		}
		for _, field := range Fields {
			v, err := forecast.ParseNumber(row.Value(field.Prefix))
			if err != nil {
				return req, fmt.Errorf("%w: %s (%s): %v", forecast.ErrInvalidRequest,
					field.Title, row.Label, err)
			}
			if v < field.Min || v > field.Max {
				return req, fmt.Errorf("%w: %s (%s) must be between %s and %s", forecast.ErrInvalidRequest,
					field.Title, row.Label, common.FormatFixed(field.Min, 0), common.FormatFixed(field.Max, 0))
			}
			*dst[field.Prefix] = v
		}
		req.Readings[i] = reading
	}

	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}
