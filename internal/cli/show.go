package cli

import (
	"context"
	"flag"
	"time"

	"github.com/google/subcommands"

	"github.com/aristath/kabu/internal/modules/report"
)

type showCmd struct {
	app  *App
	list bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the valued portfolio snapshot" }
func (*showCmd) Usage() string {
	return `kabu show [-list]

  Fetches current prices and FX rates and displays the portfolio with
  market values and unrealized P&L in JPY. With -list, prints the raw
  holdings without fetching market data.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "Print raw holdings without market data")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		positions, err := c.app.Store.Load()
		if err != nil {
			return fail(err)
		}
		printMarkdown(report.PositionList(positions))
		return subcommands.ExitSuccess
	}

	snap, err := c.app.Portfolio.Snapshot(ctx)
	if err != nil {
		return fail(err)
	}
	printMarkdown(report.Snapshot(snap, time.Now()))
	return subcommands.ExitSuccess
}
