package cli

import (
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/internal/modules/portfolio"
	"github.com/aristath/kabu/pkg/logger"
)

func testApp(t *testing.T) *App {
	t.Helper()
	*plain = true
	store := portfolio.NewStore(filepath.Join(t.TempDir(), "portfolio.csv"))
	return &App{
		Log:   logger.Nop(),
		Store: store,
	}
}

func runCmd(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return c.Execute(context.Background(), fs)
}

func TestTradeArgs(t *testing.T) {
	fs := flag.NewFlagSet("buy", flag.ContinueOnError)
	require.NoError(t, fs.Parse([]string{"AAPL", "10", "182.5"}))

	symbol, shares, price, err := tradeArgs(fs, true)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", symbol)
	assert.Equal(t, 10, shares)
	assert.Equal(t, 182.5, price)
}

func TestTradeArgsErrors(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantPrice bool
	}{
		{"missing price", []string{"AAPL", "10"}, true},
		{"non-numeric shares", []string{"AAPL", "ten", "182.5"}, true},
		{"zero shares", []string{"AAPL", "0", "182.5"}, true},
		{"negative price", []string{"AAPL", "10", "-5"}, true},
		{"extra args", []string{"AAPL", "10", "5"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("trade", flag.ContinueOnError)
			require.NoError(t, fs.Parse(tt.args))
			_, _, _, err := tradeArgs(fs, tt.wantPrice)
			assert.Error(t, err)
		})
	}
}

func TestBuyThenSell(t *testing.T) {
	app := testApp(t)

	status := runCmd(t, &buyCmd{app: app}, "7203.T", "100", "2500")
	assert.Equal(t, subcommands.ExitSuccess, status)

	positions, err := app.Store.Load()
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "7203.T", positions[0].Symbol)
	assert.Equal(t, 100, positions[0].Shares)
	// Currency inferred from the .T suffix.
	assert.Equal(t, "JPY", positions[0].CostCurrency)

	status = runCmd(t, &sellCmd{app: app}, "7203.T", "40")
	assert.Equal(t, subcommands.ExitSuccess, status)

	positions, err = app.Store.Load()
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, 60, positions[0].Shares)
}

func TestSellMissingPositionFails(t *testing.T) {
	app := testApp(t)
	status := runCmd(t, &sellCmd{app: app}, "MSFT", "10")
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestBuyExplicitCurrencyAndAccount(t *testing.T) {
	app := testApp(t)

	status := runCmd(t, &buyCmd{app: app}, "-currency", "USD", "-account", "nisa", "-memo", "core", "VTI", "5", "240")
	assert.Equal(t, subcommands.ExitSuccess, status)

	positions, err := app.Store.Load()
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "USD", positions[0].CostCurrency)
	assert.Equal(t, "nisa", positions[0].Account)
	assert.Equal(t, "core", positions[0].Memo)
}

func TestPortfolioDividendYield(t *testing.T) {
	entries := []domain.ForecastEntry{
		{DividendYield: 0.02, ValueJPY: 100000},
		{DividendYield: 0, ValueJPY: 100000},
	}
	// (0.02*100000 + 0*100000) / 200000 = 0.01
	assert.InDelta(t, 0.01, portfolioDividendYield(entries, 200000), 1e-12)
	assert.Equal(t, 0.0, portfolioDividendYield(entries, 0))
}
