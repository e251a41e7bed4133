package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCashSymbol(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		expected bool
	}{
		{"JPY cash bucket", "JPY.CASH", true},
		{"USD cash bucket", "USD.CASH", true},
		{"lowercase suffix", "jpy.cash", true},
		{"Tokyo equity", "7203.T", false},
		{"US equity", "AAPL", false},
		{"empty symbol", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCashSymbol(tt.symbol))
		})
	}
}

func TestPosition_IsCash(t *testing.T) {
	cash := Position{Symbol: "JPY.CASH", Shares: 1, CostPrice: 500000}
	stock := Position{Symbol: "7203.T", Shares: 100, CostPrice: 2500}

	assert.True(t, cash.IsCash())
	assert.False(t, stock.IsCash())
}

func TestResolveConstraints_Presets(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		expected Constraints
	}{
		{
			name:     "defensive tightens every cap",
			strategy: "defensive",
			expected: Constraints{
				MaxSingleRatio:   0.10,
				MaxSectorHHI:     0.20,
				MaxRegionHHI:     0.25,
				MaxCorrPairRatio: 0.25,
				CorrThreshold:    0.7,
			},
		},
		{
			name:     "balanced resolves to defaults",
			strategy: "balanced",
			expected: DefaultConstraints(),
		},
		{
			name:     "aggressive loosens every cap",
			strategy: "aggressive",
			expected: Constraints{
				MaxSingleRatio:   0.25,
				MaxSectorHHI:     0.35,
				MaxRegionHHI:     0.40,
				MaxCorrPairRatio: 0.40,
				CorrThreshold:    0.7,
			},
		},
		{
			name:     "unknown strategy falls back to defaults",
			strategy: "yolo",
			expected: DefaultConstraints(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveConstraints(tt.strategy, Constraints{}))
		})
	}
}

func TestResolveConstraints_OverrideBeatsPreset(t *testing.T) {
	resolved := ResolveConstraints("defensive", Constraints{MaxSingleRatio: 0.20})

	// Explicit override wins over the defensive preset's 0.10.
	assert.Equal(t, 0.20, resolved.MaxSingleRatio)
	// Untouched fields still come from the preset.
	assert.Equal(t, 0.20, resolved.MaxSectorHHI)
	assert.Equal(t, 0.25, resolved.MaxRegionHHI)
}

func TestKnownStrategy(t *testing.T) {
	assert.True(t, KnownStrategy("defensive"))
	assert.True(t, KnownStrategy("balanced"))
	assert.True(t, KnownStrategy("aggressive"))
	assert.False(t, KnownStrategy("momentum"))
}
