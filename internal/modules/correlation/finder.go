// Package correlation finds highly correlated position pairs from daily
// return series.
package correlation

import (
	"sort"

	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/pkg/formulas"
)

// minOverlap is the minimum number of aligned daily returns required before
// a pair's correlation is considered meaningful.
const minOverlap = 30

// Series is one symbol's close-price history, oldest first.
type Series struct {
	Symbol string
	Closes []float64
}

// Finder computes pairwise return correlations.
type Finder struct {
	threshold float64
}

// NewFinder creates a finder that reports pairs at or above |threshold|.
func NewFinder(threshold float64) *Finder {
	return &Finder{threshold: threshold}
}

// HighPairs returns the pairs whose absolute return correlation meets the
// threshold, strongest first. Pairs without enough overlapping history are
// skipped.
func (f *Finder) HighPairs(series []Series) []domain.CorrelatedPair {
	returns := make(map[string][]float64, len(series))
	symbols := make([]string, 0, len(series))
	for _, s := range series {
		r := formulas.CalculateReturns(s.Closes)
		if len(r) == 0 {
			continue
		}
		returns[s.Symbol] = r
		symbols = append(symbols, s.Symbol)
	}

	var pairs []domain.CorrelatedPair
	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			a, b := alignTails(returns[symbols[i]], returns[symbols[j]])
			if len(a) < minOverlap {
				continue
			}

			r := formulas.Correlation(a, b)
			if r >= f.threshold || r <= -f.threshold {
				pairs = append(pairs, domain.CorrelatedPair{
					SymbolA:     symbols[i],
					SymbolB:     symbols[j],
					Correlation: r,
				})
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return abs(pairs[i].Correlation) > abs(pairs[j].Correlation)
	})

	return pairs
}

// alignTails truncates both series to their common most-recent window.
// Daily series from one provider drift apart only at the old end, so tail
// alignment is a reasonable approximation of date alignment.
func alignTails(a, b []float64) ([]float64, []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	return a[len(a)-n:], b[len(b)-n:]
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
