// Package health checks whether the investment thesis for each holding is
// still valid, combining technical trend signals with the fundamental
// change score into a three-level alert.
package health

import (
	"math"

	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/pkg/formulas"
)

const (
	// minCloses is the minimum history needed for SMA200.
	minCloses = 200

	// approachingGap flags SMA50 within 2% of SMA200.
	approachingGap = 0.02

	rsiWindow        = 14
	rsiPrevThreshold = 50
	rsiDropThreshold = 40
	// rsiLookback compares today's RSI against five sessions ago.
	rsiLookback = 6
)

// TrendSignals holds the technical state derived from daily closes.
type TrendSignals struct {
	Trend          domain.Trend
	Price          float64
	SMA50          float64
	SMA200         float64
	RSI            float64
	AboveSMA50     bool
	AboveSMA200    bool
	SMA50AboveSMA2 bool
	DeadCross      bool
	Approaching    bool
	RSIDrop        bool
}

// AnalyzeTrend derives trend signals from daily closes, oldest first.
// Fewer than 200 closes yields an unknown trend with every signal off.
func AnalyzeTrend(closes []float64) TrendSignals {
	signals := TrendSignals{Trend: domain.TrendUnknown, RSI: math.NaN()}

	if len(closes) < minCloses {
		return signals
	}

	sma50 := formulas.CalculateSMA(closes, 50)
	sma200 := formulas.CalculateSMA(closes, 200)
	if sma50 == nil || sma200 == nil {
		return signals
	}

	signals.Price = closes[len(closes)-1]
	signals.SMA50 = *sma50
	signals.SMA200 = *sma200

	signals.AboveSMA50 = signals.Price > signals.SMA50
	signals.AboveSMA200 = signals.Price > signals.SMA200
	signals.SMA50AboveSMA2 = signals.SMA50 > signals.SMA200
	signals.DeadCross = !signals.SMA50AboveSMA2

	if signals.SMA200 > 0 {
		gap := math.Abs(signals.SMA50-signals.SMA200) / signals.SMA200
		signals.Approaching = gap < approachingGap
	} else {
		signals.Approaching = true
	}

	rsiSeries := formulas.RSISeries(closes, rsiWindow)
	if n := len(rsiSeries); n > 0 {
		signals.RSI = rsiSeries[n-1]
		if n >= rsiLookback {
			prev := rsiSeries[n-rsiLookback]
			if !math.IsNaN(prev) && prev > rsiPrevThreshold && signals.RSI < rsiDropThreshold {
				signals.RSIDrop = true
			}
		}
	}

	switch {
	case signals.AboveSMA50 && signals.SMA50AboveSMA2:
		signals.Trend = domain.TrendUp
	case signals.Approaching || (!signals.AboveSMA50 && signals.AboveSMA200):
		signals.Trend = domain.TrendFlat
	default:
		signals.Trend = domain.TrendDown
	}

	return signals
}
