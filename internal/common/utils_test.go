package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-3, 0, 100))
	assert.Equal(t, 100.0, Clamp(120.4, 0, 100))
	assert.Equal(t, 42.5, Clamp(42.5, 0, 100))
}

func TestFormatFixed(t *testing.T) {
	assert.Equal(t, "123.46", FormatFixed(123.456, 2))
	assert.Equal(t, "98.70", FormatFixed(98.7, 2))
	assert.Equal(t, "0.0", FormatFixed(0, 1))
}
