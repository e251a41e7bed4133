package cli

import (
	"context"
	"errors"
	"flag"

	"github.com/google/subcommands"

	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/internal/modules/correlation"
	"github.com/aristath/kabu/internal/modules/rebalance"
	"github.com/aristath/kabu/internal/modules/report"
)

type rebalanceCmd struct {
	app *App

	strategy       string
	additionalCash float64
	reduceSector   string
	reduceCurrency string
	minYield       float64

	maxSingle    float64
	maxSectorHHI float64
	maxRegionHHI float64
	maxCorrRatio float64
	corrLimit    float64
}

func (*rebalanceCmd) Name() string     { return "rebalance" }
func (*rebalanceCmd) Synopsis() string { return "propose rebalancing trades" }
func (*rebalanceCmd) Usage() string {
	return `kabu rebalance [-strategy balanced] [-cash 0] [-reduce-sector name] [-reduce-currency code] [-min-yield r] [constraint overrides]

  Generates a sell / reduce / increase proposal from the forecast, health
  alerts, concentration limits, and return correlations. Strategies:
  defensive, balanced, aggressive. Constraint overrides (-max-single,
  -max-sector-hhi, -max-region-hhi, -max-corr-ratio, -corr-threshold)
  replace the strategy preset value when set.
`
}

func (c *rebalanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "strategy", "balanced", "Constraint preset: defensive, balanced, aggressive")
	f.Float64Var(&c.additionalCash, "cash", 0, "Additional cash to deploy, JPY")
	f.StringVar(&c.reduceSector, "reduce-sector", "", "Sector to cut across the board")
	f.StringVar(&c.reduceCurrency, "reduce-currency", "", "Currency exposure to cut across the board")
	f.Float64Var(&c.minYield, "min-yield", -1, "Minimum dividend yield for increase candidates (e.g. 0.02)")

	f.Float64Var(&c.maxSingle, "max-single", 0, "Override: max weight per position")
	f.Float64Var(&c.maxSectorHHI, "max-sector-hhi", 0, "Override: max sector HHI")
	f.Float64Var(&c.maxRegionHHI, "max-region-hhi", 0, "Override: max region HHI")
	f.Float64Var(&c.maxCorrRatio, "max-corr-ratio", 0, "Override: max combined weight per correlated pair")
	f.Float64Var(&c.corrLimit, "corr-threshold", 0, "Override: correlation threshold for pair detection")
}

func (c *rebalanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	positions, err := c.app.Store.Load()
	if err != nil {
		return fail(err)
	}
	if len(positions) == 0 {
		return fail(errors.New("portfolio is empty, nothing to rebalance"))
	}

	forecastResult := c.app.Forecast.Portfolio(ctx, positions)
	if forecastResult.TotalJPY <= 0 {
		return fail(errors.New("portfolio has no market value, nothing to rebalance"))
	}

	healthReport := c.app.Health.Check(ctx, positions)
	healthResults := make([]domain.HealthResult, 0, len(healthReport.Results))
	for _, e := range healthReport.Results {
		healthResults = append(healthResults, e.HealthResult)
	}

	structure, err := c.app.Portfolio.Structure(ctx)
	if err != nil {
		return fail(err)
	}

	overrides := domain.Constraints{
		MaxSingleRatio:   c.maxSingle,
		MaxSectorHHI:     c.maxSectorHHI,
		MaxRegionHHI:     c.maxRegionHHI,
		MaxCorrPairRatio: c.maxCorrRatio,
		CorrThreshold:    c.corrLimit,
	}
	constraints := domain.ResolveConstraints(c.strategy, overrides)

	pairs := c.correlatedPairs(ctx, forecastResult.Entries, constraints.CorrThreshold)

	in := rebalance.Input{
		Forecast:       forecastResult,
		Health:         healthResults,
		Concentration:  &structure,
		Pairs:          pairs,
		Strategy:       c.strategy,
		Overrides:      overrides,
		ReduceSector:   c.reduceSector,
		ReduceCurrency: c.reduceCurrency,
		AdditionalCash: c.additionalCash,
	}
	if c.minYield >= 0 {
		in.MinDividendYield = &c.minYield
	}

	printMarkdown(report.Rebalance(c.app.Rebalance.Propose(in)))
	return subcommands.ExitSuccess
}

// correlatedPairs builds one year of close series per non-cash holding and
// finds pairs at or above the threshold. Missing history just drops the
// symbol from the comparison.
func (c *rebalanceCmd) correlatedPairs(ctx context.Context, entries []domain.ForecastEntry, threshold float64) []domain.CorrelatedPair {
	var series []correlation.Series
	for _, e := range entries {
		if e.Method == domain.MethodCash {
			continue
		}
		candles, err := c.app.Provider.GetPriceHistory(ctx, e.Symbol, "1y")
		if err != nil || len(candles) == 0 {
			continue
		}
		closes := make([]float64, 0, len(candles))
		for _, candle := range candles {
			closes = append(closes, candle.Close)
		}
		series = append(series, correlation.Series{Symbol: e.Symbol, Closes: closes})
	}
	return correlation.NewFinder(threshold).HighPairs(series)
}
