// Package model serves energy-consumption predictions from 24 hours of
// weather readings: inputs are min-max normalised per feature, fed to a
// linear model and the outputs are mapped back to MW.
package model

import (
	"fmt"
	"sync"
	"time"

	"github.com/i474232898/energy-forecast/internal/forecast"
	"github.com/i474232898/energy-forecast/internal/logger"
)

// Service holds the current scalers and model and can reload them from disk.
type Service struct {
	mu      sync.RWMutex
	scalers Scalers
	model   *Linear

	scalersPath string
	modelPath   string
}

// NewService loads scalers and model from the given paths. Empty or
// missing paths fall back to the defaults.
func NewService(scalersPath, modelPath string) (*Service, error) {
	s := &Service{scalersPath: scalersPath, modelPath: modelPath}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewServiceWith builds a service around already loaded parameters.
func NewServiceWith(scalers Scalers, model *Linear) (*Service, error) {
	if err := scalers.Validate(); err != nil {
		return nil, err
	}
	return &Service{scalers: scalers, model: model}, nil
}

// Reload re-reads the scalers and model files. On error the previous
// parameters stay in use.
func (s *Service) Reload() error {
	scalers, err := LoadScalers(s.scalersPath)
	if err != nil {
		return err
	}
	m, err := LoadLinear(s.modelPath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.scalers = scalers
	s.model = m
	s.mu.Unlock()

	logger.Debug("model: parameters loaded (scalers=%q, model=%q)", s.scalersPath, s.modelPath)
	return nil
}

// Predict forecasts req.ForecastLength hours starting at req.StartDate.
func (s *Service) Predict(req forecast.Request) (forecast.PredictionResponse, error) {
	if err := req.Validate(); err != nil {
		return forecast.PredictionResponse{}, err
	}

	s.mu.RLock()
	scalers, m := s.scalers, s.model
	s.mu.RUnlock()

	input := make([]float64, 0, InputSize)
	for _, r := range req.Readings {
		weekend := 0.0
		if r.IsWeekendOrHoliday {
			weekend = 1
		}
		raw := []float64{r.Temperature, r.Humidity, r.WindSpeed, r.Precipitation, weekend}
		for i, f := range InputFeatures {
			input = append(input, scalers[f].Transform(raw[i]))
		}
	}

	outputs, err := m.Predict(input)
	if err != nil {
		return forecast.PredictionResponse{}, fmt.Errorf("predict: %w", err)
	}

	n := req.ForecastLength
	if n > len(outputs) {
		n = len(outputs)
	}

	resp := forecast.PredictionResponse{
		Timestamps:  make([]string, n),
		Predictions: make([]float64, n),
	}
	target := scalers[TargetLoad]
	for i := 0; i < n; i++ {
		resp.Timestamps[i] = req.StartDate.Add(time.Duration(i) * time.Hour).Format(forecast.TimestampLayout)
		resp.Predictions[i] = target.Inverse(outputs[i])
	}
	return resp, nil
}
