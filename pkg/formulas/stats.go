package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// AnnualizedVolatilityMonthly annualizes a monthly-return standard deviation.
// Formula: monthly std dev × sqrt(12)
func AnnualizedVolatilityMonthly(monthlyReturns []float64) float64 {
	if len(monthlyReturns) == 0 {
		return 0
	}
	return StdDev(monthlyReturns) * math.Sqrt(12)
}

// CalculateReturns converts prices to simple percentage returns.
// Returns[i] = (Price[i] - Price[i-1]) / Price[i-1]
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// SpacedReturns computes period returns across a price series using a fixed
// step (e.g. 21 trading days for approximately-monthly returns). Steps whose
// starting price is zero or negative are skipped.
func SpacedReturns(prices []float64, step int) []float64 {
	if step <= 0 || len(prices) <= step {
		return nil
	}

	var returns []float64
	for i := step; i < len(prices); i += step {
		prev := prices[i-step]
		if prev > 0 {
			returns = append(returns, (prices[i]-prev)/prev)
		}
	}
	return returns
}

// Correlation calculates the Pearson correlation coefficient between two datasets
func Correlation(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 || len(x) != len(y) {
		return 0
	}
	return stat.Correlation(x, y, nil)
}
