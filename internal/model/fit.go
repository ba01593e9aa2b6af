package model

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// FitScalersCSV fits a scaler per feature and for the target from a
// dataset CSV with a header row. Missing cells are forward-filled from the
// previous row; cells missing before any value was seen are skipped.
func FitScalersCSV(r io.Reader) (Scalers, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := append(append([]string(nil), InputFeatures...), TargetLoad)
	index := make(map[string]int, len(columns))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range columns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("dataset has no %q column", name)
		}
	}

	type bounds struct {
		min, max float64
		last     float64
		seen     bool
	}
	stats := make(map[string]*bounds, len(columns))
	for _, name := range columns {
		stats[name] = &bounds{min: math.Inf(1), max: math.Inf(-1)}
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		for _, name := range columns {
			b := stats[name]
			v, ok := parseCell(record, index[name])
			if !ok {
				if !b.seen {
					continue
				}
				v = b.last
			}
			b.last, b.seen = v, true
			b.min = math.Min(b.min, v)
			b.max = math.Max(b.max, v)
		}
	}

	scalers := make(Scalers, len(columns))
	for _, name := range columns {
		b := stats[name]
		if !b.seen {
			return nil, fmt.Errorf("column %q has no values", name)
		}
		scalers[name] = MinMaxScaler{Min: b.min, Max: b.max}
	}
	return scalers, nil
}

func parseCell(record []string, i int) (float64, bool) {
	if i >= len(record) {
		return 0, false
	}
	s := strings.TrimSpace(record[i])
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
