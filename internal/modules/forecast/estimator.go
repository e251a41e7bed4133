// Package forecast estimates expected returns per position and for the
// portfolio as a whole, across optimistic/base/pessimistic scenarios.
package forecast

import (
	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/pkg/formulas"
)

// minHistoryForEstimate is roughly one trading month of daily closes.
const minHistoryForEstimate = 22

// monthStep approximates one month in trading days.
const monthStep = 21

// returnCap bounds historical scenario returns at ±50% per year.
const returnCap = 0.50

// analystEstimate derives the scenario triple from analyst target prices:
// scenario_return = (target - price) / price + dividend_yield.
// Missing targets are backfilled from the available ones, and a degenerate
// spread (identical targets, or fewer than 3 analysts) is replaced with a
// synthetic ±20% band around base so a thin consensus never reads as
// precision.
func analystEstimate(price, dividendYield float64, detail *domain.Detail) (optimistic, base, pessimistic *float64) {
	if price <= 0 || detail == nil {
		return nil, nil, nil
	}

	targetReturn := func(target *float64) *float64 {
		if target == nil {
			return nil
		}
		r := (*target-price)/price + dividendYield
		return &r
	}

	optimistic = targetReturn(detail.TargetHighPrice)
	base = targetReturn(detail.TargetMeanPrice)
	pessimistic = targetReturn(detail.TargetLowPrice)

	// Backfill missing scenarios from whichever are present.
	if base == nil && optimistic != nil && pessimistic != nil {
		mid := (*optimistic + *pessimistic) / 2
		base = &mid
	}
	if optimistic == nil && base != nil {
		v := *base * 1.5
		if *base <= 0 {
			v = *base * 0.5
		}
		optimistic = &v
	}
	if pessimistic == nil && base != nil {
		v := *base * 0.5
		if *base <= 0 {
			v = *base * 1.5
		}
		pessimistic = &v
	}

	if base != nil && optimistic != nil && pessimistic != nil {
		if *optimistic == *pessimistic || (detail.AnalystCount > 0 && detail.AnalystCount < 3) {
			o, p := *base*1.2, *base*0.8
			if *base <= 0 {
				o, p = *base*0.8, *base*1.2
			}
			optimistic, pessimistic = &o, &p
		}
	}

	return optimistic, base, pessimistic
}

// historicalEstimate derives the triple from price history, for securities
// without analyst coverage. Base is the CAGR over the full span; the spread
// is one annualized standard deviation of approximately-monthly returns,
// floored at 5%. Dividends are already embedded in adjusted closes, so no
// yield is added.
func historicalEstimate(closes []float64) (optimistic, base, pessimistic *float64) {
	if len(closes) < minHistoryForEstimate {
		return nil, nil, nil
	}

	monthlyReturns := formulas.SpacedReturns(closes, monthStep)
	if len(monthlyReturns) == 0 {
		return nil, nil, nil
	}
	if closes[0] <= 0 {
		return nil, nil, nil
	}

	cagr := formulas.CAGR(closes[0], closes[len(closes)-1], len(monthlyReturns))

	spread := formulas.AnnualizedVolatilityMonthly(monthlyReturns)
	if spread < 0.05 {
		spread = 0.05
	}

	b := formulas.Clamp(cagr, -returnCap, returnCap)
	o := b + spread
	if o > returnCap {
		o = returnCap
	}
	p := b - spread
	if p < -returnCap {
		p = -returnCap
	}

	// A base sitting on the cap collapses onto optimistic; shift it down so
	// the three stay distinct and ordered.
	if o == b {
		b = o - spread
		p = b - spread
	}

	return &o, &b, &p
}

// etfLike reports whether a symbol should skip the analyst method entirely:
// no mean target, and either an explicit ETF quote type or no sector (index
// funds rarely carry one).
func etfLike(detail *domain.Detail, sector string) bool {
	if detail == nil {
		return true
	}
	if detail.TargetMeanPrice != nil {
		return false
	}
	if detail.QuoteType == "ETF" {
		return true
	}
	return sector == ""
}
