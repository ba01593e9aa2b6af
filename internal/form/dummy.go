package form

import (
	"math"

	"github.com/i474232898/energy-forecast/internal/common"
	"github.com/i474232898/energy-forecast/internal/forecast"
)

// Rand is the source of uniform draws in [0, 1). *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// FillDummyData overwrites every row with plausible synthetic readings:
// a sinusoidal temperature curve with noise, humidity falling as it warms,
// light wind, occasional drizzle and roughly two weekend days in seven.
func (f *Form) FillDummyData(rng Rand) {
	for i := range f.Rows {
		temp := 70 + math.Sin(float64(i)/4)*10 + (rng.Float64()*5 - 2.5)
		humidity := 60 + rng.Float64()*20 - (temp-70)*1.5
		wind := 5 + rng.Float64()*10

		precip := 0.0
		if rng.Float64() > 0.8 {
			precip = rng.Float64() * 0.5
		}

		row := &f.Rows[i]
		row.Values[forecast.FieldTemperature] = common.FormatFixed(temp, 1)
		row.Values[forecast.FieldHumidity] = common.FormatFixed(common.Clamp(humidity, 0, 100), 1)
		row.Values[forecast.FieldWindSpeed] = common.FormatFixed(wind, 1)
		row.Values[forecast.FieldPrecipitation] = common.FormatFixed(precip, 1)
		row.Weekend = rng.Float64() > 0.7
	}
}
