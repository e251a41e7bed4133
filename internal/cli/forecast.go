package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/internal/modules/report"
)

type forecastCmd struct {
	app       *App
	sentiment bool
}

func (*forecastCmd) Name() string     { return "forecast" }
func (*forecastCmd) Synopsis() string { return "estimate 12-month expected returns" }
func (*forecastCmd) Usage() string {
	return `kabu forecast [-sentiment]

  Estimates per-holding and portfolio-level 12-month returns. Analyst
  price targets drive the estimate where coverage exists; ETFs and thinly
  covered symbols fall back to the historical return distribution. With
  -sentiment, the research provider annotates each holding (requires
  GEMINI_API_KEY).
`
}

func (c *forecastCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.sentiment, "sentiment", false, "Annotate holdings with sentiment research")
}

func (c *forecastCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	positions, err := c.app.Store.Load()
	if err != nil {
		return fail(err)
	}

	f := c.app.Forecast.Portfolio(ctx, positions)

	var sentiments map[string]*domain.Sentiment
	if c.sentiment && c.app.Sentiment != nil {
		sentiments = make(map[string]*domain.Sentiment, len(f.Entries))
		for _, e := range f.Entries {
			if e.Method == domain.MethodCash || e.Method == domain.MethodNoData {
				continue
			}
			s, err := c.app.Sentiment.Search(ctx, e.Symbol, e.Name)
			if err != nil {
				c.app.Log.Warn().Err(err).Str("symbol", e.Symbol).Msg("sentiment lookup failed")
				continue
			}
			sentiments[e.Symbol] = s
		}
	}

	printMarkdown(report.Forecast(f, sentiments))
	return subcommands.ExitSuccess
}
