// Package cli wires the kabu subcommands. Each command file owns one
// subcommand; shared service handles live on App so main assembles the
// dependency graph once and every command borrows from it.
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/aristath/kabu/internal/config"
	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/internal/modules/forecast"
	"github.com/aristath/kabu/internal/modules/health"
	"github.com/aristath/kabu/internal/modules/portfolio"
	"github.com/aristath/kabu/internal/modules/rebalance"
)

// App carries the assembled service graph.
type App struct {
	Config    *config.Config
	Log       zerolog.Logger
	Store     *portfolio.Store
	Portfolio *portfolio.Service
	Forecast  *forecast.Service
	Health    *health.Service
	Rebalance *rebalance.Engine
	Provider  domain.MarketDataProvider
	Sentiment domain.SentimentProvider // nil when GEMINI_API_KEY is unset
}

var plain = flag.Bool("plain", false, "Print raw markdown instead of rendering for the terminal")

// Register adds every subcommand to the commander.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&showCmd{app: app}, "portfolio")
	c.Register(&buyCmd{app: app}, "portfolio")
	c.Register(&sellCmd{app: app}, "portfolio")

	c.Register(&structureCmd{app: app}, "analysis")
	c.Register(&forecastCmd{app: app}, "analysis")
	c.Register(&healthCmd{app: app}, "analysis")
	c.Register(&rebalanceCmd{app: app}, "analysis")
	c.Register(&simulateCmd{app: app}, "analysis")

	c.Register(&scoreCmd{app: app}, "research")
	c.Register(&researchCmd{app: app}, "research")
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when rendering fails or -plain was given.
func printMarkdown(md string) {
	if *plain {
		fmt.Println(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Println(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
