package scoring

import (
	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/pkg/formulas"
)

// Sectors where depreciation structurally inflates operating CF vs net income.
var sectorCapAccruals = map[string]bool{
	"Utilities":          true,
	"Financial Services": true,
}

// passThreshold is the per-indicator score that counts as a pass.
const passThreshold = 15.0

// Indicator is one change-score component: the points awarded and the raw
// underlying metric (nil when inputs were missing).
type Indicator struct {
	Score float64  `json:"score"`
	Raw   *float64 `json:"raw"`
}

// ChangeScore detects fundamental improvement the market may not have priced
// in yet. Four indicators worth 25 points each, minus an earnings penalty,
// floored at 0.
type ChangeScore struct {
	Total               float64   `json:"change_score"`
	Accruals            Indicator `json:"accruals"`
	RevenueAcceleration Indicator `json:"revenue_acceleration"`
	FCFYield            Indicator `json:"fcf_yield"`
	ROETrend            Indicator `json:"roe_trend"`
	EarningsPenalty     float64   `json:"earnings_penalty"`
	PassedCount         int       `json:"passed_count"`
	QualityPass         bool      `json:"quality_pass"`
}

// ChangeScorer computes the composite change score from a fundamentals record.
type ChangeScorer struct{}

// NewChangeScorer creates a new change scorer.
func NewChangeScorer() *ChangeScorer {
	return &ChangeScorer{}
}

// Calculate scores a detail record. Sector is used only for the accruals cap.
func (s *ChangeScorer) Calculate(detail *domain.Detail, sector string) ChangeScore {
	if detail == nil {
		return ChangeScore{}
	}

	result := ChangeScore{
		Accruals:            scoreAccruals(detail, sector),
		RevenueAcceleration: scoreRevenueAcceleration(detail),
		FCFYield:            scoreFCFYield(detail),
		ROETrend:            scoreROETrend(detail),
	}

	// Negative earnings growth drags the composite down by up to 20 points.
	if g := detail.EarningsGrowth; g != nil && *g < 0 {
		switch {
		case *g < -0.20:
			result.EarningsPenalty = -20
		case *g < -0.10:
			result.EarningsPenalty = -15
		default:
			result.EarningsPenalty = -10
		}
	}

	for _, ind := range []Indicator{result.Accruals, result.RevenueAcceleration, result.FCFYield, result.ROETrend} {
		result.Total += ind.Score
		if ind.Score >= passThreshold {
			result.PassedCount++
		}
	}
	result.Total += result.EarningsPenalty
	if result.Total < 0 {
		result.Total = 0
	}
	result.QualityPass = result.PassedCount >= 3

	return result
}

// QualityLabel maps a passed-indicator count to the label the health engine
// consumes.
func (c ChangeScore) QualityLabel() domain.QualityLabel {
	switch {
	case c.PassedCount >= 3:
		return domain.QualityGood
	case c.PassedCount == 2:
		return domain.QualityOneDown
	default:
		return domain.QualityMultiple
	}
}

// scoreAccruals: accruals = (net_income - operating_cf) / total_assets.
// Lower values indicate higher-quality earnings backed by cash.
func scoreAccruals(detail *domain.Detail, sector string) Indicator {
	if len(detail.NetIncomeHistory) == 0 || detail.OperatingCashflow == nil || detail.TotalAssets == nil {
		return Indicator{}
	}
	if *detail.TotalAssets == 0 {
		return Indicator{}
	}

	accruals := (detail.NetIncomeHistory[0] - *detail.OperatingCashflow) / *detail.TotalAssets

	var score float64
	switch {
	case accruals < -0.05:
		score = 25
	case accruals < 0.0:
		score = 20
	case accruals < 0.05:
		score = 15
	case accruals < 0.10:
		score = 10
	default:
		score = 0
	}

	// Cap for sectors with structurally low accruals.
	if sectorCapAccruals[sector] && score > 15 {
		score = 15
	}

	return Indicator{Score: score, Raw: &accruals}
}

// scoreRevenueAcceleration compares the current period's revenue growth rate
// with the prior period's. Shrinking losses are not genuine acceleration, so
// a negative current growth scores 0.
func scoreRevenueAcceleration(detail *domain.Detail) Indicator {
	rev := detail.RevenueHistory
	if len(rev) < 3 {
		return Indicator{}
	}
	if rev[1] == 0 || rev[2] == 0 {
		return Indicator{}
	}

	currentGrowth := (rev[0] - rev[1]) / abs(rev[1])
	previousGrowth := (rev[1] - rev[2]) / abs(rev[2])
	acceleration := currentGrowth - previousGrowth

	if currentGrowth < 0 {
		return Indicator{Raw: &acceleration}
	}

	var score float64
	switch {
	case acceleration > 0.10:
		score = 25
	case acceleration > 0.05:
		score = 20
	case acceleration > 0.0:
		score = 15
	case acceleration > -0.05:
		score = 10
	default:
		score = 0
	}

	return Indicator{Score: score, Raw: &acceleration}
}

// scoreFCFYield: fcf / market_cap. Thresholds are set high enough to avoid
// double-counting what a low PER already captures.
func scoreFCFYield(detail *domain.Detail) Indicator {
	if detail.FreeCashflow == nil || detail.MarketCap == nil {
		return Indicator{}
	}
	if *detail.MarketCap == 0 {
		return Indicator{}
	}

	fcfYield := *detail.FreeCashflow / *detail.MarketCap

	var score float64
	switch {
	case fcfYield > 0.12:
		score = 25
	case fcfYield > 0.08:
		score = 20
	case fcfYield > 0.05:
		score = 15
	case fcfYield > 0.02:
		score = 10
	default:
		score = 0
	}

	return Indicator{Score: score, Raw: &fcfYield}
}

// scoreROETrend fits a line through the last three periods' ROE.
// Red-to-black recoveries and low-ROE stocks are excluded: all three ROEs
// must be positive and the latest at least 8%.
func scoreROETrend(detail *domain.Detail) Indicator {
	ni := detail.NetIncomeHistory
	eq := detail.EquityHistory
	if len(ni) < 3 || len(eq) < 3 {
		return Indicator{}
	}

	roes := make([]float64, 3)
	for i := 0; i < 3; i++ {
		if eq[i] == 0 {
			return Indicator{}
		}
		roes[i] = ni[i] / eq[i]
	}

	for _, r := range roes {
		if r < 0 {
			return Indicator{}
		}
	}
	if roes[0] < 0.08 {
		return Indicator{}
	}

	// Histories are most-recent-first; the fit wants chronological order.
	slope := formulas.Slope([]float64{roes[2], roes[1], roes[0]})

	var score float64
	switch {
	case slope > 0.03:
		score = 25
	case slope > 0.01:
		score = 20
	case slope > 0.0:
		score = 15
	case slope > -0.01:
		score = 10
	default:
		score = 0
	}

	return Indicator{Score: score, Raw: &slope}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
