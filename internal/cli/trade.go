package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"

	"github.com/aristath/kabu/internal/modules/portfolio"
	"github.com/aristath/kabu/internal/modules/report"
)

type buyCmd struct {
	app      *App
	currency string
	account  string
	date     string
	memo     string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase" }
func (*buyCmd) Usage() string {
	return `kabu buy [-currency JPY] [-account taxable] [-date 2026-01-15] [-memo text] <symbol> <shares> <price>

  Records a buy. An existing (symbol, account) position is merged with a
  weighted-average cost price. The currency defaults to the one implied by
  the ticker suffix (7203.T -> JPY).
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "Cost currency (defaults from the ticker suffix)")
	f.StringVar(&c.account, "account", "", "Account bucket (defaults to taxable)")
	f.StringVar(&c.date, "date", "", "Purchase date, YYYY-MM-DD (defaults to today)")
	f.StringVar(&c.memo, "memo", "", "Free-form note")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	symbol, shares, price, err := tradeArgs(f, true)
	if err != nil {
		return fail(err)
	}

	currency := c.currency
	if currency == "" {
		currency = portfolio.InferCurrency(symbol)
	}

	pos, err := c.app.Store.Buy(symbol, shares, price, currency, c.account, c.date, c.memo)
	if err != nil {
		return fail(err)
	}

	c.app.Log.Info().Str("symbol", pos.Symbol).Int("shares", shares).Msg("buy recorded")
	printMarkdown(report.TradeResult("buy", shares, pos))
	return subcommands.ExitSuccess
}

type sellCmd struct {
	app     *App
	account string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale" }
func (*sellCmd) Usage() string {
	return `kabu sell [-account taxable] <symbol> <shares>

  Reduces a position; selling every share removes the row. When the symbol
  is held in more than one account the -account flag is required.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account bucket to sell from")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	symbol, shares, _, err := tradeArgs(f, false)
	if err != nil {
		return fail(err)
	}

	pos, err := c.app.Store.Sell(symbol, shares, c.account)
	if err != nil {
		return fail(err)
	}

	c.app.Log.Info().Str("symbol", pos.Symbol).Int("shares", shares).Msg("sell recorded")
	printMarkdown(report.TradeResult("sell", shares, pos))
	return subcommands.ExitSuccess
}

// tradeArgs parses the positional <symbol> <shares> [<price>] arguments.
func tradeArgs(f *flag.FlagSet, wantPrice bool) (symbol string, shares int, price float64, err error) {
	args := f.Args()
	want := 2
	if wantPrice {
		want = 3
	}
	if len(args) != want {
		if wantPrice {
			return "", 0, 0, fmt.Errorf("expected <symbol> <shares> <price>, got %d arguments", len(args))
		}
		return "", 0, 0, fmt.Errorf("expected <symbol> <shares>, got %d arguments", len(args))
	}

	symbol = args[0]
	shares, err = strconv.Atoi(args[1])
	if err != nil || shares <= 0 {
		return "", 0, 0, fmt.Errorf("shares must be a positive integer: %q", args[1])
	}

	if wantPrice {
		price, err = strconv.ParseFloat(args[2], 64)
		if err != nil || price < 0 {
			return "", 0, 0, fmt.Errorf("price must be a non-negative number: %q", args[2])
		}
	}
	return symbol, shares, price, nil
}
