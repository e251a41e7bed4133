package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		expected float64
	}{
		{"simple series", []float64{1, 2, 3, 4, 5}, 3.0},
		{"single value", []float64{7.5}, 7.5},
		{"empty slice", []float64{}, 0},
		{"negative values", []float64{-2, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Mean(tt.data), 1e-9)
		})
	}
}

func TestStdDev(t *testing.T) {
	// Sample std dev of {2, 4, 4, 4, 5, 5, 7, 9} = sqrt(32/7) ≈ 2.138
	result := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 2.1381, result, 0.001)

	assert.Equal(t, 0.0, StdDev([]float64{5}))
	assert.Equal(t, 0.0, StdDev(nil))
}

func TestCalculateReturns(t *testing.T) {
	prices := []float64{100, 110, 99}
	returns := CalculateReturns(prices)

	assert.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
	assert.InDelta(t, -0.10, returns[1], 1e-9)

	assert.Empty(t, CalculateReturns([]float64{100}))
}

func TestSpacedReturns(t *testing.T) {
	// Step of 2 over 5 prices yields returns at indices 2 and 4.
	prices := []float64{100, 105, 110, 108, 121}
	returns := SpacedReturns(prices, 2)

	assert.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
	assert.InDelta(t, 0.10, returns[1], 1e-9)

	assert.Nil(t, SpacedReturns(prices, 0))
	assert.Nil(t, SpacedReturns([]float64{100}, 21))
}

func TestCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}
	inverse := []float64{10, 8, 6, 4, 2}

	assert.InDelta(t, 1.0, Correlation(x, y), 1e-9)
	assert.InDelta(t, -1.0, Correlation(x, inverse), 1e-9)
	assert.Equal(t, 0.0, Correlation(x, []float64{1, 2}))
	assert.Equal(t, 0.0, Correlation(nil, nil))
}

func TestCAGR(t *testing.T) {
	// 100 -> 121 over 24 months: (1.21)^(12/24) - 1 = 0.10
	assert.InDelta(t, 0.10, CAGR(100, 121, 24), 1e-9)
	// Degenerate inputs return zero.
	assert.Equal(t, 0.0, CAGR(0, 121, 24))
	assert.Equal(t, 0.0, CAGR(100, 121, 0))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.5, Clamp(0.9, -0.5, 0.5))
	assert.Equal(t, -0.5, Clamp(-0.9, -0.5, 0.5))
	assert.Equal(t, 0.2, Clamp(0.2, -0.5, 0.5))
}

func TestSlope(t *testing.T) {
	// Perfect line y = 2x + 1 has slope 2.
	assert.InDelta(t, 2.0, Slope([]float64{1, 3, 5, 7}), 1e-9)
	// Flat series has slope 0.
	assert.InDelta(t, 0.0, Slope([]float64{4, 4, 4}), 1e-9)
	assert.Equal(t, 0.0, Slope([]float64{1}))
}
