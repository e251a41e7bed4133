package rebalance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/pkg/logger"
)

func ptr(f float64) *float64 { return &f }

func newEngine() *Engine {
	return NewEngine(-0.10, 0.30, 10000, logger.Nop())
}

func entry(symbol string, valueJPY float64, base *float64) domain.ForecastEntry {
	return domain.ForecastEntry{
		Symbol:   symbol,
		Name:     symbol,
		ValueJPY: valueJPY,
		Base:     base,
		Sector:   "Technology",
		Country:  "United States",
		Currency: "USD",
	}
}

func forecastOf(entries ...domain.ForecastEntry) domain.PortfolioForecast {
	f := domain.PortfolioForecast{Entries: entries}
	var weighted float64
	for _, e := range entries {
		f.TotalJPY += e.ValueJPY
	}
	if f.TotalJPY > 0 {
		for _, e := range entries {
			if e.Base != nil {
				weighted += *e.Base * e.ValueJPY / f.TotalJPY
			}
		}
		f.Base = &weighted
	}
	return f
}

func TestSellPass(t *testing.T) {
	t.Run("exit alert sells at priority 1", func(t *testing.T) {
		in := Input{
			Forecast: forecastOf(
				entry("BAD", 100000, ptr(0.05)),
				entry("OK", 100000, nil),
			),
			Health: []domain.HealthResult{
				{Symbol: "BAD", AlertLevel: domain.AlertExit, Reasons: []string{"dead cross"}},
			},
			Overrides: domain.Constraints{MaxSingleRatio: 0.90},
			Strategy:  "balanced",
		}
		proposal := newEngine().Propose(in)

		require.Len(t, proposal.Actions, 1)
		a := proposal.Actions[0]
		assert.Equal(t, domain.ActionSell, a.Kind)
		assert.Equal(t, "BAD", a.Symbol)
		assert.Equal(t, 1.0, a.Ratio)
		assert.Equal(t, 1, a.Priority)
		assert.Contains(t, a.Reason, "dead cross")
		assert.InDelta(t, 100000, proposal.FreedCashJPY, 1e-6)
	})

	t.Run("deeply negative base sells at priority 2", func(t *testing.T) {
		in := Input{
			Forecast: forecastOf(
				entry("LOSER", 100000, ptr(-0.15)),
				entry("OK", 100000, nil),
			),
			Overrides: domain.Constraints{MaxSingleRatio: 0.90},
			Strategy:  "balanced",
		}
		proposal := newEngine().Propose(in)

		require.Len(t, proposal.Actions, 1)
		assert.Equal(t, 2, proposal.Actions[0].Priority)
		assert.Equal(t, "LOSER", proposal.Actions[0].Symbol)
	})

	t.Run("threshold is strict", func(t *testing.T) {
		in := Input{
			Forecast:  forecastOf(entry("EDGE", 100000, ptr(-0.10))),
			Overrides: domain.Constraints{MaxSingleRatio: 1.0},
			Strategy:  "balanced",
		}
		proposal := newEngine().Propose(in)
		assert.Empty(t, proposal.Actions)
	})

	t.Run("cash never sold", func(t *testing.T) {
		cash := entry("JPY.CASH", 100000, ptr(-0.50))
		in := Input{Forecast: forecastOf(cash), Strategy: "balanced"}
		proposal := newEngine().Propose(in)
		assert.Empty(t, proposal.Actions)
	})
}

func TestReducePass(t *testing.T) {
	t.Run("overweight reduced to exactly the cap", func(t *testing.T) {
		// BIG weight 0.30 with cap 0.15: ratio = 1 - 0.15/0.30 = 0.50.
		in := Input{
			Forecast: forecastOf(
				entry("BIG", 300000, ptr(0.05)),
				entry("A", 350000, ptr(0.04)),
				entry("B", 350000, ptr(0.03)),
			),
			Strategy: "balanced",
		}
		proposal := newEngine().Propose(in)

		var reduce *domain.RebalanceAction
		for i := range proposal.Actions {
			if proposal.Actions[i].Symbol == "BIG" {
				reduce = &proposal.Actions[i]
			}
		}
		require.NotNil(t, reduce)
		assert.Equal(t, domain.ActionReduce, reduce.Kind)
		assert.InDelta(t, 0.50, reduce.Ratio, 1e-9)
		assert.Equal(t, 3, reduce.Priority)
		// A and B sit above the cap too (0.35 each)
		assert.Len(t, proposal.Actions, 3)
	})

	t.Run("at-cap position is not reduced", func(t *testing.T) {
		// EDGE sits at exactly 15% against the balanced cap of 15%:
		// the rule needs strictly greater, so only REST is touched.
		in := Input{
			Forecast: forecastOf(
				entry("EDGE", 150000, ptr(0.05)),
				entry("REST", 850000, nil),
			),
			Strategy: "balanced",
		}
		proposal := newEngine().Propose(in)
		require.NotEmpty(t, proposal.Actions)
		for _, a := range proposal.Actions {
			assert.NotEqual(t, "EDGE", a.Symbol)
		}
	})

	t.Run("correlated pair reduces the weaker member", func(t *testing.T) {
		strong := entry("STRONG", 200000, ptr(0.10))
		weak := entry("WEAK", 200000, ptr(0.02))
		rest := entry("REST", 600000, nil)
		in := Input{
			Forecast:  forecastOf(strong, weak, rest),
			Pairs:     []domain.CorrelatedPair{{SymbolA: "STRONG", SymbolB: "WEAK", Correlation: 0.85}},
			Overrides: domain.Constraints{MaxSingleRatio: 0.90},
			Strategy:  "balanced",
		}
		proposal := newEngine().Propose(in)

		// The freed cash then tops up STRONG, so two actions come out.
		require.Len(t, proposal.Actions, 2)
		a := proposal.Actions[0]
		assert.Equal(t, domain.ActionReduce, a.Kind)
		assert.Equal(t, "WEAK", a.Symbol)
		assert.Equal(t, 4, a.Priority)
		// combined 0.40, cap 0.30, excess 0.10 over weight 0.20 = 0.50
		assert.InDelta(t, 0.50, a.Ratio, 1e-9)
		assert.Equal(t, "STRONG", proposal.Actions[1].Symbol)
	})

	t.Run("correlation cut is capped at half the position", func(t *testing.T) {
		strong := entry("STRONG", 450000, ptr(0.10))
		weak := entry("WEAK", 150000, ptr(0.02))
		rest := entry("REST", 400000, nil)
		in := Input{
			Forecast:  forecastOf(strong, weak, rest),
			Pairs:     []domain.CorrelatedPair{{SymbolA: "STRONG", SymbolB: "WEAK", Correlation: 0.9}},
			Overrides: domain.Constraints{MaxSingleRatio: 0.90, MaxCorrPairRatio: 0.30},
			Strategy:  "balanced",
		}
		proposal := newEngine().Propose(in)

		require.NotEmpty(t, proposal.Actions)
		// excess 0.30 over weight 0.15 would be 2.0; capped at 0.5
		assert.Equal(t, "WEAK", proposal.Actions[0].Symbol)
		assert.InDelta(t, 0.50, proposal.Actions[0].Ratio, 1e-9)
	})

	t.Run("sector directive cuts remaining sector members", func(t *testing.T) {
		tech := entry("TECH", 100000, ptr(0.05))
		util := entry("UTIL", 100000, ptr(0.04))
		util.Sector = "Utilities"
		rest := entry("REST", 800000, nil)
		rest.Sector = "Healthcare"
		in := Input{
			Forecast:     forecastOf(tech, util, rest),
			ReduceSector: "technology",
			Overrides:    domain.Constraints{MaxSingleRatio: 0.90},
			Strategy:     "balanced",
		}
		proposal := newEngine().Propose(in)

		require.Len(t, proposal.Actions, 1)
		a := proposal.Actions[0]
		assert.Equal(t, "TECH", a.Symbol)
		assert.Equal(t, 5, a.Priority)
		assert.InDelta(t, 0.30, a.Ratio, 1e-9)
	})

	t.Run("first rule wins within the pass", func(t *testing.T) {
		// BIG is over the single cap and in the directive sector; only
		// the weight rule should touch it.
		big := entry("BIG", 300000, ptr(0.05))
		rest := entry("REST", 700000, nil)
		rest.Sector = "Healthcare"
		in := Input{
			Forecast:     forecastOf(big, rest),
			ReduceSector: "Technology",
			Overrides:    domain.Constraints{MaxSingleRatio: 0.15},
			Strategy:     "balanced",
		}
		proposal := newEngine().Propose(in)

		var bigActions []domain.RebalanceAction
		for _, a := range proposal.Actions {
			if a.Symbol == "BIG" {
				bigActions = append(bigActions, a)
			}
		}
		require.Len(t, bigActions, 1)
		assert.Equal(t, 3, bigActions[0].Priority)
	})
}

func TestIncreasePass(t *testing.T) {
	t.Run("allocates best return first under caps", func(t *testing.T) {
		in := Input{
			Forecast: forecastOf(
				entry("HI", 100000, ptr(0.20)),
				entry("MID", 100000, ptr(0.10)),
				entry("LO", 800000, ptr(-0.15)),
			),
			Overrides: domain.Constraints{MaxSingleRatio: 0.50},
			Strategy:  "balanced",
		}
		proposal := newEngine().Propose(in)

		// LO is sold, freeing 800000. Each increase is capped at 30% of
		// the original budget = 240000.
		require.Len(t, proposal.Actions, 3)
		assert.Equal(t, domain.ActionSell, proposal.Actions[0].Kind)
		hi, mid := proposal.Actions[1], proposal.Actions[2]
		assert.Equal(t, "HI", hi.Symbol)
		assert.Equal(t, 6, hi.Priority)
		assert.InDelta(t, 240000, hi.AmountJPY, 1e-6)
		assert.Equal(t, "MID", mid.Symbol)
		assert.InDelta(t, 240000, mid.AmountJPY, 1e-6)
	})

	t.Run("sub-ticket allocation skipped not stopped", func(t *testing.T) {
		// FULL has almost no room under the cap (alloc below the ticket
		// minimum); NEXT still receives cash.
		in := Input{
			Forecast: forecastOf(
				entry("FULL", 495000, ptr(0.20)),
				entry("NEXT", 305000, ptr(0.10)),
				entry("DUMP", 200000, ptr(-0.20)),
			),
			Overrides: domain.Constraints{MaxSingleRatio: 0.50},
			Strategy:  "balanced",
		}
		proposal := newEngine().Propose(in)

		var increases []domain.RebalanceAction
		for _, a := range proposal.Actions {
			if a.Kind == domain.ActionIncrease {
				increases = append(increases, a)
			}
		}
		require.Len(t, increases, 1)
		assert.Equal(t, "NEXT", increases[0].Symbol)
	})

	t.Run("dividend yield floor filters candidates", func(t *testing.T) {
		payer := entry("PAYER", 100000, ptr(0.05))
		payer.DividendYield = 0.04
		grower := entry("GROWER", 100000, ptr(0.20))
		in := Input{
			Forecast:         forecastOf(payer, grower),
			AdditionalCash:   100000,
			MinDividendYield: ptr(0.03),
			Overrides:        domain.Constraints{MaxSingleRatio: 0.90},
			Strategy:         "balanced",
		}
		proposal := newEngine().Propose(in)

		require.Len(t, proposal.Actions, 1)
		assert.Equal(t, "PAYER", proposal.Actions[0].Symbol)
	})

	t.Run("no cash means no increases", func(t *testing.T) {
		in := Input{
			Forecast:  forecastOf(entry("HI", 100000, ptr(0.20))),
			Overrides: domain.Constraints{MaxSingleRatio: 1.0},
			Strategy:  "balanced",
		}
		proposal := newEngine().Propose(in)
		assert.Empty(t, proposal.Actions)
	})
}

func TestProposeMetrics(t *testing.T) {
	hi := entry("HI", 400000, ptr(0.10))
	lo := entry("LO", 600000, ptr(-0.20))
	lo.Sector = "Utilities"
	lo.Country = "Japan"
	in := Input{Forecast: forecastOf(hi, lo), Strategy: "balanced", Overrides: domain.Constraints{MaxSingleRatio: 0.90}}

	proposal := newEngine().Propose(in)

	// before: 0.4*0.10 + 0.6*(-0.20) = -0.08
	require.NotNil(t, proposal.Before.BaseReturn)
	assert.InDelta(t, -0.08, *proposal.Before.BaseReturn, 1e-9)
	// before HHIs: 0.4^2 + 0.6^2 = 0.52 on both axes
	assert.InDelta(t, 0.52, proposal.Before.SectorHHI, 1e-9)
	assert.InDelta(t, 0.52, proposal.Before.RegionHHI, 1e-9)

	// LO sold (base -0.20 < -0.10), freeing 600000; HI takes 30% of it.
	// after return = -0.08 - (-0.20*0.6) + 0.10*180000/1000000 = 0.058
	require.NotNil(t, proposal.After.BaseReturn)
	assert.InDelta(t, 0.058, *proposal.After.BaseReturn, 1e-9)

	// post-trade: HI = 580000, LO = 0; single category per axis
	assert.InDelta(t, 1.0, proposal.After.SectorHHI, 1e-9)
	assert.InDelta(t, 1.0, proposal.After.RegionHHI, 1e-9)

	t.Run("concentration numbers preferred when supplied", func(t *testing.T) {
		withConc := in
		withConc.Concentration = &domain.ConcentrationResult{
			Sector: domain.ConcentrationBreakdown{Axis: "sector", HHI: 0.44},
			Region: domain.ConcentrationBreakdown{Axis: "region", HHI: 0.33},
		}
		p := newEngine().Propose(withConc)
		assert.InDelta(t, 0.44, p.Before.SectorHHI, 1e-9)
		assert.InDelta(t, 0.33, p.Before.RegionHHI, 1e-9)
	})
}

func TestProposeIdempotent(t *testing.T) {
	build := func() Input {
		strong := entry("STRONG", 200000, ptr(0.10))
		weak := entry("WEAK", 200000, ptr(0.02))
		big := entry("BIG", 300000, ptr(0.05))
		dump := entry("DUMP", 100000, ptr(-0.30))
		rest := entry("REST", 200000, ptr(0.01))
		rest.Sector = "Healthcare"
		return Input{
			Forecast:       forecastOf(strong, weak, big, dump, rest),
			Pairs:          []domain.CorrelatedPair{{SymbolA: "STRONG", SymbolB: "WEAK", Correlation: 0.8}},
			Overrides:      domain.Constraints{MaxSingleRatio: 0.25},
			AdditionalCash: 50000,
			Strategy:       "balanced",
		}
	}

	first := newEngine().Propose(build())
	second := newEngine().Propose(build())
	assert.Equal(t, first, second)

	t.Run("actions sorted by priority", func(t *testing.T) {
		for i := 1; i < len(first.Actions); i++ {
			assert.LessOrEqual(t, first.Actions[i-1].Priority, first.Actions[i].Priority)
		}
	})
}

func TestProposeConstraintResolution(t *testing.T) {
	in := Input{
		Forecast:  forecastOf(entry("A", 100000, ptr(0.05))),
		Strategy:  "defensive",
		Overrides: domain.Constraints{MaxSectorHHI: 0.18},
	}
	proposal := newEngine().Propose(in)

	assert.InDelta(t, 0.10, proposal.Constraints.MaxSingleRatio, 1e-9)
	assert.InDelta(t, 0.18, proposal.Constraints.MaxSectorHHI, 1e-9)
	assert.InDelta(t, 0.7, proposal.Constraints.CorrThreshold, 1e-9)
}
