package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/i474232898/energy-forecast/internal/forecast"
)

// InputSize is the length of the flattened, normalised model input.
var InputSize = forecast.HistoryHours * len(InputFeatures)

// Linear maps the flattened 24×5 input window onto MaxForecastLength
// normalised load values: y = W·x + b.
type Linear struct {
	weights *mat.Dense
	bias    *mat.VecDense
}

type linearFile struct {
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// NewLinear builds a model from row-major weights (one row per output hour).
func NewLinear(weights [][]float64, bias []float64) (*Linear, error) {
	rows := forecast.MaxForecastLength
	if len(weights) != rows || len(bias) != rows {
		return nil, fmt.Errorf("model must have %d weight rows and biases, got %d and %d",
			rows, len(weights), len(bias))
	}
	flat := make([]float64, 0, rows*InputSize)
	for i, row := range weights {
		if len(row) != InputSize {
			return nil, fmt.Errorf("weight row %d has %d columns, want %d", i, len(row), InputSize)
		}
		flat = append(flat, row...)
	}
	return &Linear{
		weights: mat.NewDense(rows, InputSize, flat),
		bias:    mat.NewVecDense(rows, append([]float64(nil), bias...)),
	}, nil
}

// DefaultLinear predicts every hour as the mean normalised temperature of
// the input window.
func DefaultLinear() *Linear {
	rows := forecast.MaxForecastLength
	w := mat.NewDense(rows, InputSize, nil)
	for r := 0; r < rows; r++ {
		for h := 0; h < forecast.HistoryHours; h++ {
			w.Set(r, h*len(InputFeatures), 1/float64(forecast.HistoryHours))
		}
	}
	return &Linear{weights: w, bias: mat.NewVecDense(rows, nil)}
}

// LoadLinear reads a model JSON file. A missing file yields DefaultLinear.
func LoadLinear(path string) (*Linear, error) {
	if path == "" {
		return DefaultLinear(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultLinear(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var f linearFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	m, err := NewLinear(f.Weights, f.Bias)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return m, nil
}

// Predict returns MaxForecastLength normalised outputs for input.
func (m *Linear) Predict(input []float64) ([]float64, error) {
	if len(input) != InputSize {
		return nil, fmt.Errorf("input has %d values, want %d", len(input), InputSize)
	}
	x := mat.NewVecDense(InputSize, input)

	var y mat.VecDense
	y.MulVec(m.weights, x)
	y.AddVec(&y, m.bias)

	out := make([]float64, y.Len())
	for i := range out {
		out[i] = y.AtVec(i)
	}
	return out, nil
}
