// Package scoring provides security scoring implementations.
package scoring

import "github.com/aristath/kabu/internal/domain"

// ValueThresholds parameterize the value score. Zero values fall back to
// the defaults.
type ValueThresholds struct {
	PERMax      float64
	PBRMax      float64
	DividendMin float64
	ROEMin      float64
}

// DefaultValueThresholds returns the standard value-screen thresholds.
func DefaultValueThresholds() ValueThresholds {
	return ValueThresholds{
		PERMax:      15.0,
		PBRMax:      1.0,
		DividendMin: 0.03,
		ROEMin:      0.08,
	}
}

// ValueScore is the composite valuation score with its component breakdown.
type ValueScore struct {
	Total    float64 `json:"total"`
	PER      float64 `json:"per"`
	PBR      float64 `json:"pbr"`
	Dividend float64 `json:"dividend"`
	ROE      float64 `json:"roe"`
	Growth   float64 `json:"growth"`
}

// ValueScorer calculates the composite value score (0-100).
// Breakdown: PER 25, PBR 25, dividend yield 20, ROE 15, revenue growth 15.
type ValueScorer struct {
	thresholds ValueThresholds
}

// NewValueScorer creates a new value scorer.
func NewValueScorer(thresholds ValueThresholds) *ValueScorer {
	def := DefaultValueThresholds()
	if thresholds.PERMax <= 0 {
		thresholds.PERMax = def.PERMax
	}
	if thresholds.PBRMax <= 0 {
		thresholds.PBRMax = def.PBRMax
	}
	if thresholds.DividendMin <= 0 {
		thresholds.DividendMin = def.DividendMin
	}
	if thresholds.ROEMin <= 0 {
		thresholds.ROEMin = def.ROEMin
	}
	return &ValueScorer{thresholds: thresholds}
}

// Calculate scores a quote. Missing fields score 0 for their component.
func (s *ValueScorer) Calculate(quote *domain.Quote) ValueScore {
	if quote == nil {
		return ValueScore{}
	}

	result := ValueScore{
		PER:      scoreLowerBetter(quote.PER, s.thresholds.PERMax, 25),
		PBR:      scoreLowerBetter(quote.PBR, s.thresholds.PBRMax, 25),
		Dividend: scoreCapped(quote.DividendYield, s.thresholds.DividendMin*3, 20),
		ROE:      scoreCapped(quote.ROE, s.thresholds.ROEMin*3, 15),
		Growth:   scoreCapped(quote.RevenueGrowth, 0.30, 15),
	}

	result.Total = result.PER + result.PBR + result.Dividend + result.ROE + result.Growth
	if result.Total > 100 {
		result.Total = 100
	}
	return result
}

// scoreLowerBetter maps v linearly from full points at 0 to zero points at
// 2x the threshold. Non-positive or missing values score 0.
func scoreLowerBetter(v *float64, threshold, points float64) float64 {
	if v == nil || *v <= 0 {
		return 0
	}
	limit := threshold * 2
	if *v >= limit {
		return 0
	}
	return points * (1 - *v/limit)
}

// scoreCapped maps v linearly from 0 to full points at cap.
func scoreCapped(v *float64, cap, points float64) float64 {
	if v == nil || *v <= 0 {
		return 0
	}
	ratio := *v / cap
	if ratio > 1 {
		ratio = 1
	}
	return points * ratio
}
