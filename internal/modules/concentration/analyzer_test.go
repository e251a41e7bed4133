package concentration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHHI(t *testing.T) {
	tests := []struct {
		name     string
		weights  []float64
		expected float64
	}{
		{"single asset", []float64{1.0}, 1.0},
		{"two equal", []float64{0.5, 0.5}, 0.5},
		{"four equal", []float64{0.25, 0.25, 0.25, 0.25}, 0.25},
		{"ten equal", []float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1}, 0.1},
		{"empty", nil, 0.0},
		// 0.90^2 + 10 * 0.01^2 = 0.81 + 0.001 = 0.811
		{"dominant position", []float64{0.90, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01}, 0.811},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, HHI(tt.weights), 0.001)
		})
	}
}

func TestMultiplier(t *testing.T) {
	tests := []struct {
		name     string
		hhi      float64
		expected float64
	}{
		{"well below threshold", 0.10, 1.0},
		{"just below threshold", 0.24, 1.0},
		{"at lower knee", 0.25, 1.0},
		{"midpoint of first segment", 0.375, 1.15},
		{"at upper knee", 0.50, 1.3},
		{"midpoint of second segment", 0.75, 1.45},
		{"fully concentrated", 1.0, 1.6},
		{"beyond valid range still capped", 1.5, 1.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Multiplier(tt.hhi), 1e-9)
		})
	}
}

func TestMultiplier_Monotonic(t *testing.T) {
	prev := 0.0
	for i := 0; i <= 100; i += 5 {
		m := Multiplier(float64(i) / 100)
		assert.GreaterOrEqual(t, m, prev)
		prev = m
	}
}

func TestAnalyze_Diversified(t *testing.T) {
	inputs := []Input{
		{Symbol: "A", Sector: "Technology", Region: "US", Currency: "USD", ValueJPY: 250},
		{Symbol: "B", Sector: "Healthcare", Region: "JP", Currency: "JPY", ValueJPY: 250},
		{Symbol: "C", Sector: "Financial Services", Region: "SG", Currency: "SGD", ValueJPY: 250},
		{Symbol: "D", Sector: "Energy", Region: "GB", Currency: "GBP", ValueJPY: 250},
	}

	result := Analyze(inputs)

	assert.InDelta(t, 0.25, result.Sector.HHI, 1e-9)
	assert.InDelta(t, 0.25, result.Region.HHI, 1e-9)
	assert.InDelta(t, 0.25, result.Currency.HHI, 1e-9)
	// HHI exactly 0.25 is already past the diversified band.
	assert.Equal(t, RiskSomewhat, result.RiskLevel)
}

func TestAnalyze_SingleStock(t *testing.T) {
	result := Analyze([]Input{{Symbol: "A", Sector: "Technology", Region: "US", Currency: "USD", ValueJPY: 100}})

	assert.InDelta(t, 1.0, result.MaxHHI, 1e-9)
	assert.InDelta(t, 1.6, result.Multiplier, 1e-9)
	assert.Equal(t, RiskDangerous, result.RiskLevel)
}

func TestAnalyze_SectorConcentratedRegionDiversified(t *testing.T) {
	inputs := []Input{
		{Symbol: "A", Sector: "Technology", Region: "US", Currency: "USD", ValueJPY: 100},
		{Symbol: "B", Sector: "Technology", Region: "JP", Currency: "JPY", ValueJPY: 100},
		{Symbol: "C", Sector: "Technology", Region: "SG", Currency: "SGD", ValueJPY: 100},
	}

	result := Analyze(inputs)

	assert.InDelta(t, 1.0, result.Sector.HHI, 1e-9)
	assert.InDelta(t, 1.0/3, result.Region.HHI, 0.01)
	assert.InDelta(t, 1.0, result.MaxHHI, 1e-9)
}

func TestAnalyze_ZeroValueEqualWeightFallback(t *testing.T) {
	inputs := []Input{
		{Symbol: "A", Sector: "Technology", Region: "US", Currency: "USD"},
		{Symbol: "B", Sector: "Healthcare", Region: "JP", Currency: "JPY"},
	}

	result := Analyze(inputs)

	// Two equal weights on every axis.
	assert.InDelta(t, 0.5, result.Sector.HHI, 1e-9)
	assert.InDelta(t, 0.5, result.Region.HHI, 1e-9)
}

func TestAnalyze_WeightsSumToOne(t *testing.T) {
	inputs := []Input{
		{Symbol: "A", Sector: "Technology", Region: "US", Currency: "USD", ValueJPY: 400},
		{Symbol: "B", Sector: "Healthcare", Region: "JP", Currency: "JPY", ValueJPY: 300},
		{Symbol: "C", Sector: "Technology", Region: "US", Currency: "USD", ValueJPY: 300},
	}

	result := Analyze(inputs)

	for _, b := range []map[string]float64{result.Sector.Weights, result.Region.Weights, result.Currency.Weights} {
		var total float64
		for _, w := range b {
			total += w
		}
		assert.InDelta(t, 1.0, total, 1e-6)
	}

	// n categories bound the HHI below by 1/n.
	n := float64(len(result.Sector.Weights))
	assert.GreaterOrEqual(t, result.Sector.HHI, 1/n)
	assert.LessOrEqual(t, result.Sector.HHI, 1.0)
}

func TestAnalyze_MissingLabelsUseUnknown(t *testing.T) {
	result := Analyze([]Input{
		{Symbol: "A", ValueJPY: 100},
		{Symbol: "B", Sector: "Technology", ValueJPY: 100},
	})

	assert.Contains(t, result.Sector.Weights, "Unknown")
	assert.Contains(t, result.Region.Weights, "Unknown")
}

func TestAnalyze_Empty(t *testing.T) {
	result := Analyze(nil)

	assert.Equal(t, RiskDiversified, result.RiskLevel)
	assert.Equal(t, 1.0, result.Multiplier)
	assert.Empty(t, result.Sector.Weights)
}
