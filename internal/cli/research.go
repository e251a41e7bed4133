package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/internal/modules/report"
	"github.com/aristath/kabu/internal/modules/scoring"
)

type scoreCmd struct {
	app *App
}

func (*scoreCmd) Name() string     { return "score" }
func (*scoreCmd) Synopsis() string { return "score one symbol on value, change, and long-term fit" }
func (*scoreCmd) Usage() string {
	return `kabu score <symbol>

  Computes the value score (0-100), the change score with its four
  indicators, and the long-term suitability classification.
`
}

func (*scoreCmd) SetFlags(*flag.FlagSet) {}

func (c *scoreCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(f.Args()) != 1 {
		return fail(errors.New("expected exactly one symbol"))
	}
	symbol := f.Arg(0)

	quote, err := c.app.Provider.GetQuote(ctx, symbol)
	if err != nil {
		return fail(fmt.Errorf("quote for %s: %w", symbol, err))
	}
	detail, err := c.app.Provider.GetDetail(ctx, symbol)
	if err != nil {
		c.app.Log.Warn().Err(err).Str("symbol", symbol).Msg("no fundamentals, change score will be empty")
		detail = nil
	}

	sector := ""
	if quote != nil {
		sector = quote.Sector
	}
	value := scoring.NewValueScorer(scoring.DefaultValueThresholds()).Calculate(quote)
	change := scoring.NewChangeScorer().Calculate(detail, sector)
	longTerm := scoring.LongTermSuitability(symbol, quote, detail)

	printMarkdown(report.Score(symbol, quote, value, change, longTerm))
	return subcommands.ExitSuccess
}

type researchCmd struct {
	app *App
}

func (*researchCmd) Name() string     { return "research" }
func (*researchCmd) Synopsis() string { return "deep-dive research on one symbol" }
func (*researchCmd) Usage() string {
	return `kabu research <symbol>

  Shows fundamentals, valuation, and the value score for a symbol, plus a
  sentiment analysis when GEMINI_API_KEY is configured.
`
}

func (*researchCmd) SetFlags(*flag.FlagSet) {}

func (c *researchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(f.Args()) != 1 {
		return fail(errors.New("expected exactly one symbol"))
	}
	symbol := f.Arg(0)

	quote, err := c.app.Provider.GetQuote(ctx, symbol)
	if err != nil {
		return fail(fmt.Errorf("quote for %s: %w", symbol, err))
	}
	detail, err := c.app.Provider.GetDetail(ctx, symbol)
	if err != nil {
		detail = nil
	}

	value := scoring.NewValueScorer(scoring.DefaultValueThresholds()).Calculate(quote)

	var sentiment *domain.Sentiment
	if c.app.Sentiment != nil {
		name := symbol
		if quote != nil && quote.Name != "" {
			name = quote.Name
		}
		s, err := c.app.Sentiment.Search(ctx, symbol, name)
		if err != nil {
			c.app.Log.Warn().Err(err).Str("symbol", symbol).Msg("sentiment lookup failed")
		} else {
			sentiment = s
		}
	}

	printMarkdown(report.Research(symbol, quote, detail, value, sentiment))
	return subcommands.ExitSuccess
}
