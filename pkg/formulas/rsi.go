package formulas

import (
	"github.com/markcheno/go-talib"
)

// CalculateRSI calculates the Relative Strength Index for the last close.
//
// RSI Formula:
//   RSI = 100 - (100 / (1 + RS))
//   where RS = Average Gain / Average Loss over N periods
//
// Returns the current RSI value (0-100) or nil if insufficient data.
func CalculateRSI(closes []float64, length int) *float64 {
	series := RSISeries(closes, length)
	if len(series) == 0 {
		return nil
	}
	last := series[len(series)-1]
	if isNaN(last) {
		return nil
	}
	return &last
}

// RSISeries returns the full RSI series aligned with closes.
// Leading values (before the warm-up window) are NaN, matching talib output.
// The health engine needs the series to compare today's RSI against the
// value a few sessions ago.
func RSISeries(closes []float64, length int) []float64 {
	if len(closes) < length+1 {
		return nil
	}
	return talib.Rsi(closes, length)
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
