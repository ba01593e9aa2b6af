package forecast

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Form field prefixes, suffixed with the hour offset (temp_0 ... temp_23).
const (
	FieldTemperature   = "temp"
	FieldHumidity      = "humidity"
	FieldWindSpeed     = "wind"
	FieldPrecipitation = "precip"
	FieldWeekend       = "weekend"

	FieldStartDate      = "start_date"
	FieldForecastLength = "forecast_length"
)

// FieldName returns the form field name for prefix at the given hour offset.
func FieldName(prefix string, offset int) string {
	return prefix + "_" + strconv.Itoa(offset)
}

// Encode serializes the request as form values. Weekend flags are only
// present when set, with value "1", the way a checked checkbox is posted.
func (r Request) Encode() url.Values {
	values := url.Values{}
	values.Set(FieldStartDate, r.StartDate.Format(StartDateLayout))
	values.Set(FieldForecastLength, strconv.Itoa(r.ForecastLength))

	for i, reading := range r.Readings {
		values.Set(FieldName(FieldTemperature, i), formatFloat(reading.Temperature))
		values.Set(FieldName(FieldHumidity, i), formatFloat(reading.Humidity))
		values.Set(FieldName(FieldWindSpeed, i), formatFloat(reading.WindSpeed))
		values.Set(FieldName(FieldPrecipitation, i), formatFloat(reading.Precipitation))
		if reading.IsWeekendOrHoliday {
			values.Set(FieldName(FieldWeekend, i), "1")
		}
	}
	return values
}

// DecodeRequest parses form values produced by Encode (or by the HTML form).
// lookup returns "" for absent fields.
func DecodeRequest(lookup func(key string) string) (Request, error) {
	var req Request

	startDate := strings.TrimSpace(lookup(FieldStartDate))
	if startDate == "" {
		return req, fmt.Errorf("%w: %s is required", ErrInvalidRequest, FieldStartDate)
	}
	ts, err := time.Parse(StartDateLayout, startDate)
	if err != nil {
		return req, fmt.Errorf("%w: %s: %v", ErrInvalidRequest, FieldStartDate, err)
	}
	req.StartDate = ts

	req.ForecastLength = DefaultForecastLength
	if v := strings.TrimSpace(lookup(FieldForecastLength)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: %s: %v", ErrInvalidRequest, FieldForecastLength, err)
		}
		req.ForecastLength = n
	}
	if req.ForecastLength > MaxForecastLength {
		req.ForecastLength = MaxForecastLength
	}

	for i := range req.Readings {
		reading := HourlyReading{HourOffset: i}
		fields := []struct {
			prefix string
			dst    *float64
		}{
			{FieldTemperature, &reading.Temperature},
			{FieldHumidity, &reading.Humidity},
			{FieldWindSpeed, &reading.WindSpeed},
			{FieldPrecipitation, &reading.Precipitation},
		}
		for _, f := range fields {
			name := FieldName(f.prefix, i)
			v, err := ParseNumber(lookup(name))
			if err != nil {
				return req, fmt.Errorf("%w: %s: %v", ErrInvalidRequest, name, err)
			}
			*f.dst = v
		}
		reading.IsWeekendOrHoliday = ParseFlag(lookup(FieldName(FieldWeekend, i)))
		req.Readings[i] = reading
	}

	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

// ParseNumber parses a required numeric field value.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("value is required")
	}
	return strconv.ParseFloat(s, 64)
}

// ParseFlag reports whether a checkbox value counts as checked.
func ParseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "off":
		return false
	default:
		return true
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
