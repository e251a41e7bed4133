// Package simulation projects portfolio growth over multiple years across
// the three forecast scenarios, with optional monthly contributions and
// dividend reinvestment.
package simulation

import (
	"math"

	"github.com/aristath/kabu/internal/domain"
)

// YearlySnapshot is the simulated state at the end of one year.
type YearlySnapshot struct {
	Year                int     `json:"year"`
	Value               float64 `json:"value"`
	CumulativeInput     float64 `json:"cumulative_input"`
	CapitalGain         float64 `json:"capital_gain"`
	CumulativeDividends float64 `json:"cumulative_dividends"`
}

// Result is the full simulation output. Scenario slices are nil when the
// corresponding forecast return was nil. Target fields are nil when no
// target was requested or the target is never reached in the horizon.
type Result struct {
	Optimistic  []YearlySnapshot `json:"optimistic,omitempty"`
	Base        []YearlySnapshot `json:"base,omitempty"`
	Pessimistic []YearlySnapshot `json:"pessimistic,omitempty"`

	Target                *float64 `json:"target,omitempty"`
	TargetYearBase        *float64 `json:"target_year_base,omitempty"`
	TargetYearOptimistic  *float64 `json:"target_year_optimistic,omitempty"`
	TargetYearPessimistic *float64 `json:"target_year_pessimistic,omitempty"`
	RequiredMonthly       *float64 `json:"required_monthly,omitempty"`

	DividendEffect    float64 `json:"dividend_effect"`
	DividendEffectPct float64 `json:"dividend_effect_pct"`

	Years              int     `json:"years"`
	MonthlyAdd         float64 `json:"monthly_add"`
	ReinvestDividends  bool    `json:"reinvest_dividends"`
	CurrentValue       float64 `json:"current_value"`
	BaseReturn         float64 `json:"portfolio_return_base"`
	DividendYield      float64 `json:"dividend_yield"`
}

// Params bundle the simulation inputs. Returns come straight from the
// portfolio forecast; a nil base return makes the simulation impossible.
type Params struct {
	CurrentValue      float64
	Optimistic        *float64
	Base              *float64
	Pessimistic       *float64
	DividendYield     float64
	Years             int
	MonthlyAdd        float64
	ReinvestDividends bool
	Target            *float64
}

// FromForecast fills scenario returns from a portfolio forecast.
func (p *Params) FromForecast(f domain.PortfolioForecast) {
	p.Optimistic = f.Optimistic
	p.Base = f.Base
	p.Pessimistic = f.Pessimistic
}

// Run simulates all available scenarios. Returns ok=false when the base
// return is nil, since no meaningful projection exists without it.
func Run(p Params) (Result, bool) {
	if p.Base == nil {
		return Result{}, false
	}

	result := Result{
		Years:             p.Years,
		MonthlyAdd:        p.MonthlyAdd,
		ReinvestDividends: p.ReinvestDividends,
		CurrentValue:      p.CurrentValue,
		BaseReturn:        *p.Base,
		DividendYield:     p.DividendYield,
		Target:            p.Target,
	}

	if p.Optimistic != nil {
		result.Optimistic = project(p, *p.Optimistic)
	}
	result.Base = project(p, *p.Base)
	if p.Pessimistic != nil {
		result.Pessimistic = project(p, *p.Pessimistic)
	}

	if p.Target != nil {
		result.TargetYearBase = TargetYear(values(result.Base), *p.Target)
		if result.Optimistic != nil {
			result.TargetYearOptimistic = TargetYear(values(result.Optimistic), *p.Target)
		}
		if result.Pessimistic != nil {
			result.TargetYearPessimistic = TargetYear(values(result.Pessimistic), *p.Target)
		}
		if result.TargetYearBase == nil {
			required := RequiredMonthly(p.CurrentValue, *p.Base, p.DividendYield, *p.Target, p.Years, p.ReinvestDividends)
			result.RequiredMonthly = &required
		}
	}

	result.DividendEffect, result.DividendEffectPct = dividendEffect(p, *p.Base)

	return result, true
}

// project compounds one scenario year by year. Dividends accrue on the
// prior year's value; reinvesting folds them back into the balance,
// otherwise they are paid out but still tracked for reporting.
func project(p Params, scenarioReturn float64) []YearlySnapshot {
	snapshots := make([]YearlySnapshot, 0, p.Years+1)
	snapshots = append(snapshots, YearlySnapshot{
		Year:            0,
		Value:           p.CurrentValue,
		CumulativeInput: p.CurrentValue,
	})

	annualAdd := p.MonthlyAdd * 12
	value := p.CurrentValue
	var cumulativeDividends float64

	for year := 1; year <= p.Years; year++ {
		dividends := value * p.DividendYield
		cumulativeDividends += dividends

		value += value * scenarioReturn + annualAdd
		if p.ReinvestDividends {
			value += dividends
		}

		cumulativeInput := p.CurrentValue + annualAdd*float64(year)
		capitalGain := value - cumulativeInput
		if p.ReinvestDividends {
			capitalGain -= cumulativeDividends
		}

		snapshots = append(snapshots, YearlySnapshot{
			Year:                year,
			Value:               value,
			CumulativeInput:     cumulativeInput,
			CapitalGain:         capitalGain,
			CumulativeDividends: cumulativeDividends,
		})
	}

	return snapshots
}

// TargetYear finds the fractional year where the value path crosses the
// target, by linear interpolation between the bracketing snapshots. Nil
// when the target is never reached within the horizon.
func TargetYear(yearlyValues []float64, target float64) *float64 {
	if len(yearlyValues) == 0 {
		return nil
	}
	if yearlyValues[0] >= target {
		zero := 0.0
		return &zero
	}
	for i := 1; i < len(yearlyValues); i++ {
		if yearlyValues[i] < target {
			continue
		}
		prev, curr := yearlyValues[i-1], yearlyValues[i]
		year := float64(i)
		if curr != prev {
			year = float64(i-1) + (target-prev)/(curr-prev)
		}
		return &year
	}
	return nil
}

// RequiredMonthly inverts the ordinary-annuity future-value formula to find
// the monthly contribution that closes the gap to the target.
func RequiredMonthly(currentValue, returnRate, dividendYield, target float64, years int, reinvest bool) float64 {
	effectiveRate := returnRate
	if reinvest {
		effectiveRate += dividendYield
	}

	futureValueNoAdd := currentValue * math.Pow(1+effectiveRate, float64(years))
	gap := target - futureValueNoAdd
	if gap <= 0 {
		return 0
	}
	if effectiveRate == 0 {
		return gap / (float64(years) * 12)
	}

	annuityFactor := (math.Pow(1+effectiveRate, float64(years)) - 1) / effectiveRate
	return gap / annuityFactor / 12
}

// dividendEffect compares the base scenario with and without reinvestment.
func dividendEffect(p Params, baseReturn float64) (float64, float64) {
	if p.DividendYield == 0 || p.Years == 0 {
		return 0, 0
	}

	annualAdd := p.MonthlyAdd * 12
	with, without := p.CurrentValue, p.CurrentValue
	for i := 0; i < p.Years; i++ {
		with += with*baseReturn + with*p.DividendYield + annualAdd
		without += without*baseReturn + annualAdd
	}

	effect := with - without
	if without == 0 {
		return effect, 0
	}
	return effect, effect / without
}

func values(snapshots []YearlySnapshot) []float64 {
	out := make([]float64, len(snapshots))
	for i, s := range snapshots {
		out[i] = s.Value
	}
	return out
}
