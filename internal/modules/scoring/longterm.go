package scoring

import "github.com/aristath/kabu/internal/domain"

// Long-term suitability thresholds.
const (
	ltROEHigh       = 0.15
	ltROELow        = 0.10
	ltEPSGrowthHigh = 0.10
	ltDividendHigh  = 0.02
	ltPEROvervalued = 40.0
	ltPERSafe       = 25.0
)

// LongTermLabel classifies a holding's fit for long-term holding.
type LongTermLabel string

const (
	LongTermSuitable LongTermLabel = "long_term"
	LongTermShort    LongTermLabel = "short_term"
	LongTermReview   LongTermLabel = "review"
	LongTermExcluded LongTermLabel = "excluded"
)

// LongTermResult is the long-term suitability classification with per-factor
// statuses for report rendering.
type LongTermResult struct {
	Label           LongTermLabel `json:"label"`
	ROEStatus       string        `json:"roe_status"`
	EPSGrowthStatus string        `json:"eps_growth_status"`
	DividendStatus  string        `json:"dividend_status"`
	PERRisk         string        `json:"per_risk"`
	Score           float64       `json:"score"`
}

// LongTermSuitability classifies a holding from ROE, EPS growth, dividend
// yield and PER. ETFs and cash are excluded (no comparable fundamentals).
func LongTermSuitability(symbol string, quote *domain.Quote, detail *domain.Detail) LongTermResult {
	if domain.IsCashSymbol(symbol) || quote == nil || quote.QuoteType == "ETF" {
		return LongTermResult{
			Label:           LongTermExcluded,
			ROEStatus:       "n/a",
			EPSGrowthStatus: "n/a",
			DividendStatus:  "n/a",
			PERRisk:         "n/a",
		}
	}

	var epsGrowth *float64
	if detail != nil {
		epsGrowth = detail.EarningsGrowth
	}

	result := LongTermResult{
		ROEStatus:       "unknown",
		EPSGrowthStatus: "unknown",
		DividendStatus:  "unknown",
		PERRisk:         "unknown",
	}

	if roe := quote.ROE; roe != nil {
		switch {
		case *roe >= ltROEHigh:
			result.ROEStatus = "high"
			result.Score += 2
		case *roe >= ltROELow:
			result.ROEStatus = "medium"
			result.Score += 1
		default:
			result.ROEStatus = "low"
		}
	}

	if epsGrowth != nil {
		switch {
		case *epsGrowth >= ltEPSGrowthHigh:
			result.EPSGrowthStatus = "growing"
			result.Score += 2
		case *epsGrowth >= 0:
			result.EPSGrowthStatus = "flat"
			result.Score += 1
		default:
			result.EPSGrowthStatus = "declining"
		}
	}

	if dy := quote.DividendYield; dy != nil {
		switch {
		case *dy >= ltDividendHigh:
			result.DividendStatus = "high"
			result.Score += 1
		case *dy > 0:
			result.DividendStatus = "medium"
			result.Score += 0.5
		default:
			result.DividendStatus = "low"
		}
	}

	if per := quote.PER; per != nil {
		switch {
		case *per > ltPEROvervalued:
			result.PERRisk = "overvalued"
			result.Score -= 1
		case *per <= ltPERSafe:
			result.PERRisk = "safe"
			result.Score += 1
		default:
			result.PERRisk = "moderate"
		}
	}

	switch {
	case result.ROEStatus == "high" && result.EPSGrowthStatus == "growing" &&
		result.DividendStatus == "high" && result.PERRisk != "overvalued":
		result.Label = LongTermSuitable
	case result.PERRisk == "overvalued" || result.ROEStatus == "low":
		result.Label = LongTermShort
	default:
		result.Label = LongTermReview
	}

	return result
}
