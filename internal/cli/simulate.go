package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/internal/modules/report"
	"github.com/aristath/kabu/internal/modules/simulation"
)

type simulateCmd struct {
	app *App

	years    int
	monthly  float64
	target   float64
	reinvest bool
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "project portfolio growth over multiple years" }
func (*simulateCmd) Usage() string {
	return `kabu simulate [-years 10] [-monthly 0] [-target 0] [-reinvest=true]

  Compounds the forecast scenario returns over the horizon, with optional
  monthly contributions and dividend reinvestment. A positive -target adds
  a goal analysis: the year each scenario reaches it and the monthly
  contribution required under the base scenario.
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.years, "years", 10, "Projection horizon in years")
	f.Float64Var(&c.monthly, "monthly", 0, "Monthly contribution, JPY")
	f.Float64Var(&c.target, "target", 0, "Target portfolio value, JPY (0 disables)")
	f.BoolVar(&c.reinvest, "reinvest", true, "Reinvest dividends")
}

func (c *simulateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	positions, err := c.app.Store.Load()
	if err != nil {
		return fail(err)
	}

	f := c.app.Forecast.Portfolio(ctx, positions)

	params := simulation.Params{
		CurrentValue:      f.TotalJPY,
		DividendYield:     portfolioDividendYield(f.Entries, f.TotalJPY),
		Years:             c.years,
		MonthlyAdd:        c.monthly,
		ReinvestDividends: c.reinvest,
	}
	params.FromForecast(f)
	if c.target > 0 {
		params.Target = &c.target
	}

	result, ok := simulation.Run(params)
	printMarkdown(report.Simulation(result, ok))
	return subcommands.ExitSuccess
}

// portfolioDividendYield is the value-weighted average yield across the
// forecast entries.
func portfolioDividendYield(entries []domain.ForecastEntry, total float64) float64 {
	if total <= 0 {
		return 0
	}
	var sum float64
	for _, e := range entries {
		sum += e.DividendYield * e.ValueJPY
	}
	return sum / total
}
