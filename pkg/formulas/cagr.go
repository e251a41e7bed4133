package formulas

import "math"

// CAGR computes the compound annual growth rate implied by a start and end
// value over a number of monthly periods. Returns 0 when inputs degenerate.
func CAGR(startValue, endValue float64, months int) float64 {
	if startValue <= 0 || endValue <= 0 || months <= 0 {
		return 0
	}
	return math.Pow(endValue/startValue, 12.0/float64(months)) - 1
}

// Clamp limits v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Slope fits a least-squares line through equally spaced observations and
// returns its slope. Used for trend detection over a handful of periods.
func Slope(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	// x values are 0..n-1 so the sums have closed forms.
	var sumY, sumXY float64
	for i, y := range values {
		sumY += y
		sumXY += float64(i) * y
	}
	sumX := float64(n*(n-1)) / 2
	sumX2 := float64((n - 1) * n * (2*n - 1)) / 6

	denom := float64(n)*sumX2 - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (float64(n)*sumXY - sumX*sumY) / denom
}
