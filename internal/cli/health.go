package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/internal/modules/report"
)

type healthCmd struct {
	app *App
}

func (*healthCmd) Name() string     { return "health" }
func (*healthCmd) Synopsis() string { return "run the holdings health check" }
func (*healthCmd) Usage() string {
	return `kabu health

  Evaluates every holding's technical trend (SMA50/SMA200, RSI) and
  fundamental quality, and raises early-warning, caution, or exit alerts.
`
}

func (*healthCmd) SetFlags(*flag.FlagSet) {}

func (c *healthCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	positions, err := c.app.Store.Load()
	if err != nil {
		return fail(err)
	}

	rep := c.app.Health.Check(ctx, positions)

	// The snapshot only decorates the table with P&L; a failed fetch does
	// not block the health report itself.
	snap, err := c.app.Portfolio.Snapshot(ctx)
	if err != nil {
		c.app.Log.Warn().Err(err).Msg("snapshot unavailable, omitting P&L column")
		snap = domain.Snapshot{}
	}

	printMarkdown(report.Health(rep, snap))
	return subcommands.ExitSuccess
}
