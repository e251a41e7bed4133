// Package concentration measures how unevenly the portfolio is spread
// across sectors, regions and currencies using the Herfindahl-Hirschman
// Index (HHI = sum of squared weights).
package concentration

import "github.com/aristath/kabu/internal/domain"

// Risk level labels on the maximum HHI across axes.
const (
	RiskDiversified = "diversified"
	RiskSomewhat    = "somewhat concentrated"
	RiskDangerous   = "dangerously concentrated"
)

// Input is one position's categorization and weight.
type Input struct {
	Symbol   string
	Sector   string
	Region   string
	Currency string
	ValueJPY float64
}

// HHI computes the Herfindahl-Hirschman Index of a weight slice.
func HHI(weights []float64) float64 {
	var sum float64
	for _, w := range weights {
		sum += w * w
	}
	return sum
}

// Multiplier derives the diminishing-diversification proxy from an HHI:
// 1.0 below 0.25, then linear to 1.3 at 0.50, then linear to 1.6 at 1.0,
// capped there.
func Multiplier(hhi float64) float64 {
	switch {
	case hhi < 0.25:
		return 1.0
	case hhi <= 0.50:
		return 1.0 + (hhi-0.25)/0.25*0.3
	case hhi <= 1.0:
		return 1.3 + (hhi-0.50)/0.50*0.3
	default:
		return 1.6
	}
}

// classifyRisk labels the maximum axis HHI.
func classifyRisk(hhi float64) string {
	switch {
	case hhi < 0.25:
		return RiskDiversified
	case hhi < 0.50:
		return RiskSomewhat
	default:
		return RiskDangerous
	}
}

// Analyze computes the per-axis breakdowns and the derived risk view.
// When total value is zero or unavailable every position gets an equal
// weight, so a cost-only portfolio still produces a deterministic result.
func Analyze(inputs []Input) domain.ConcentrationResult {
	if len(inputs) == 0 {
		return domain.ConcentrationResult{
			Sector:     emptyBreakdown("sector"),
			Region:     emptyBreakdown("region"),
			Currency:   emptyBreakdown("currency"),
			RiskLevel:  RiskDiversified,
			Multiplier: 1.0,
		}
	}

	var total float64
	for _, in := range inputs {
		total += in.ValueJPY
	}

	weights := make([]float64, len(inputs))
	if total > 0 {
		for i, in := range inputs {
			weights[i] = in.ValueJPY / total
		}
	} else {
		// Equal-weight fallback.
		for i := range inputs {
			weights[i] = 1.0 / float64(len(inputs))
		}
	}

	result := domain.ConcentrationResult{
		Sector:   breakdown("sector", inputs, weights, func(in Input) string { return orUnknown(in.Sector) }),
		Region:   breakdown("region", inputs, weights, func(in Input) string { return orUnknown(in.Region) }),
		Currency: breakdown("currency", inputs, weights, func(in Input) string { return orUnknown(in.Currency) }),
	}

	result.MaxHHI = result.Sector.HHI
	if result.Region.HHI > result.MaxHHI {
		result.MaxHHI = result.Region.HHI
	}
	if result.Currency.HHI > result.MaxHHI {
		result.MaxHHI = result.Currency.HHI
	}

	result.RiskLevel = classifyRisk(result.MaxHHI)
	result.Multiplier = Multiplier(result.MaxHHI)

	return result
}

func breakdown(axis string, inputs []Input, weights []float64, category func(Input) string) domain.ConcentrationBreakdown {
	byCategory := make(map[string]float64)
	for i, in := range inputs {
		byCategory[category(in)] += weights[i]
	}

	categoryWeights := make([]float64, 0, len(byCategory))
	for _, w := range byCategory {
		categoryWeights = append(categoryWeights, w)
	}

	return domain.ConcentrationBreakdown{
		Axis:    axis,
		Weights: byCategory,
		HHI:     HHI(categoryWeights),
	}
}

func emptyBreakdown(axis string) domain.ConcentrationBreakdown {
	return domain.ConcentrationBreakdown{Axis: axis, Weights: map[string]float64{}}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
