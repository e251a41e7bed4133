package domain

// Constraints bundle the risk limits the rebalance engine enforces.
// Zero-valued fields in an override mean "inherit from the preset".
type Constraints struct {
	MaxSingleRatio   float64 `json:"max_single_position_ratio"`
	MaxSectorHHI     float64 `json:"max_sector_hhi"`
	MaxRegionHHI     float64 `json:"max_region_hhi"`
	MaxCorrPairRatio float64 `json:"max_correlated_pair_ratio"`
	CorrThreshold    float64 `json:"correlation_threshold"`
}

// DefaultConstraints are the global fallbacks applied when neither a preset
// nor an override supplies a limit.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxSingleRatio:   0.15,
		MaxSectorHHI:     0.25,
		MaxRegionHHI:     0.30,
		MaxCorrPairRatio: 0.30,
		CorrThreshold:    0.7,
	}
}

// presets maps strategy names to their partial constraint sets. The balanced
// preset overrides nothing and resolves to the defaults.
var presets = map[string]Constraints{
	"defensive": {
		MaxSingleRatio:   0.10,
		MaxSectorHHI:     0.20,
		MaxRegionHHI:     0.25,
		MaxCorrPairRatio: 0.25,
	},
	"balanced": {},
	"aggressive": {
		MaxSingleRatio:   0.25,
		MaxSectorHHI:     0.35,
		MaxRegionHHI:     0.40,
		MaxCorrPairRatio: 0.40,
	},
}

// KnownStrategy reports whether name is a recognized preset.
func KnownStrategy(name string) bool {
	_, ok := presets[name]
	return ok
}

// ResolveConstraints layers override > preset > default, field by field.
// An unknown strategy name resolves as "balanced".
func ResolveConstraints(strategy string, override Constraints) Constraints {
	resolved := DefaultConstraints()
	if preset, ok := presets[strategy]; ok {
		resolved = resolved.merge(preset)
	}
	return resolved.merge(override)
}

func (c Constraints) merge(over Constraints) Constraints {
	if over.MaxSingleRatio > 0 {
		c.MaxSingleRatio = over.MaxSingleRatio
	}
	if over.MaxSectorHHI > 0 {
		c.MaxSectorHHI = over.MaxSectorHHI
	}
	if over.MaxRegionHHI > 0 {
		c.MaxRegionHHI = over.MaxRegionHHI
	}
	if over.MaxCorrPairRatio > 0 {
		c.MaxCorrPairRatio = over.MaxCorrPairRatio
	}
	if over.CorrThreshold > 0 {
		c.CorrThreshold = over.CorrThreshold
	}
	return c
}
