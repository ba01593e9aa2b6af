package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Feature names, matching the column names of the training dataset.
const (
	FeatureTemperature   = "Temperature"
	FeatureHumidity      = "Relative Humidity"
	FeatureWindSpeed     = "Wind Speed"
	FeaturePrecipitation = "Precipitation"
	FeatureWeekend       = "Is_Weekend_Holiday"
	TargetLoad           = "AEP_MW"
)

// InputFeatures are the model inputs per hour, in model column order.
var InputFeatures = []string{
	FeatureTemperature,
	FeatureHumidity,
	FeatureWindSpeed,
	FeaturePrecipitation,
	FeatureWeekend,
}

// MinMaxScaler maps [Min, Max] onto [0, 1].
type MinMaxScaler struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (s MinMaxScaler) scale() float64 {
	if s.Max == s.Min {
		return 1
	}
	return s.Max - s.Min
}

// Transform normalises v.
func (s MinMaxScaler) Transform(v float64) float64 {
	return (v - s.Min) / s.scale()
}

// Inverse maps a normalised value back to the original range.
func (s MinMaxScaler) Inverse(v float64) float64 {
	return v*s.scale() + s.Min
}

// Scalers holds one scaler per feature and for the target.
type Scalers map[string]MinMaxScaler

// DefaultScalers fits every feature on [0, 100]; used when no scalers file exists.
func DefaultScalers() Scalers {
	s := Scalers{}
	for _, f := range append(append([]string(nil), InputFeatures...), TargetLoad) {
		s[f] = MinMaxScaler{Min: 0, Max: 100}
	}
	return s
}

// Validate checks that every input feature and the target have a scaler.
func (s Scalers) Validate() error {
	for _, f := range append(append([]string(nil), InputFeatures...), TargetLoad) {
		sc, ok := s[f]
		if !ok {
			return fmt.Errorf("missing scaler for %q", f)
		}
		if sc.Max < sc.Min {
			return fmt.Errorf("scaler for %q has max %v below min %v", f, sc.Max, sc.Min)
		}
	}
	return nil
}

// LoadScalers reads a scalers JSON file. A missing file yields DefaultScalers.
func LoadScalers(path string) (Scalers, error) {
	if path == "" {
		return DefaultScalers(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultScalers(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read scalers: %w", err)
	}

	var s Scalers
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scalers %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scalers %s: %w", path, err)
	}
	return s, nil
}

// Save writes the scalers as indented JSON.
func (s Scalers) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
