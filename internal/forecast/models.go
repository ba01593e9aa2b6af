package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// HistoryHours is the number of hourly readings each request carries.
	HistoryHours = 24

	DefaultForecastLength = 24

	// MaxForecastLength is repeated in the lte tag of Request.ForecastLength.
	MaxForecastLength = 48

	// StartDateLayout matches the value of an HTML datetime-local input.
	StartDateLayout = "2006-01-02T15:04"
	// TimestampLayout is used for the timestamps of a PredictionResponse.
	TimestampLayout = "2006-01-02 15:04"

	// Unit of every predicted value.
	Unit = "MW"
)

var (
	ErrInvalidRequest    = errors.New("invalid prediction request")
	ErrMalformedResponse = errors.New("malformed prediction response")
)

var validate = validator.New()

// HourlyReading is one hour of historical weather and calendar input.
// HourOffset 0 is the earliest of the 24 hours.
type HourlyReading struct {
	HourOffset         int     `json:"hourOffset" validate:"gte=0,lte=23"`
	Temperature        float64 `json:"temperature" validate:"gte=-50,lte=150"`
	Humidity           float64 `json:"humidity" validate:"gte=0,lte=100"`
	WindSpeed          float64 `json:"windSpeed" validate:"gte=0,lte=200"`
	Precipitation      float64 `json:"precipitation" validate:"gte=0,lte=100"`
	IsWeekendOrHoliday bool    `json:"isWeekendOrHoliday"`
}

// Request is a full submission: 24 readings plus the forecast window.
type Request struct {
	StartDate      time.Time                   `validate:"required"`
	// lte must equal MaxForecastLength.
	ForecastLength int                         `validate:"gte=1,lte=48"`
	Readings       [HistoryHours]HourlyReading `validate:"dive"`
}

// Validate checks every reading against its declared range.
func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	for i, reading := range r.Readings {
		if reading.HourOffset != i {
			return fmt.Errorf("%w: reading %d has hour offset %d", ErrInvalidRequest, i, reading.HourOffset)
		}
	}
	return nil
}

// PredictionResponse pairs display timestamps with predicted values positionally.
type PredictionResponse struct {
	Timestamps  []string  `json:"timestamps"`
	Predictions []float64 `json:"predictions"`
}

// Validate reports ErrMalformedResponse when the two sequences are not the same length.
func (r PredictionResponse) Validate() error {
	if len(r.Timestamps) != len(r.Predictions) {
		return fmt.Errorf("%w: %d timestamps, %d predictions",
			ErrMalformedResponse, len(r.Timestamps), len(r.Predictions))
	}
	return nil
}

// Len is the number of forecast points.
func (r PredictionResponse) Len() int {
	return len(r.Timestamps)
}
