package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/aristath/kabu/internal/modules/report"
)

type structureCmd struct {
	app *App
}

func (*structureCmd) Name() string     { return "structure" }
func (*structureCmd) Synopsis() string { return "analyze portfolio concentration" }
func (*structureCmd) Usage() string {
	return `kabu structure

  Breaks the portfolio down by sector, region, and currency, computes the
  HHI per axis, and reports the overall concentration risk level.
`
}

func (*structureCmd) SetFlags(*flag.FlagSet) {}

func (c *structureCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	result, err := c.app.Portfolio.Structure(ctx)
	if err != nil {
		return fail(err)
	}
	printMarkdown(report.Structure(result))
	return subcommands.ExitSuccess
}
