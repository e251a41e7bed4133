package portfolio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/pkg/logger"
)

func ptr(f float64) *float64 { return &f }

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "portfolio.csv"))
}

func TestStoreLoadSave(t *testing.T) {
	t.Run("missing file is empty portfolio", func(t *testing.T) {
		positions, err := tempStore(t).Load()
		require.NoError(t, err)
		assert.Empty(t, positions)
	})

	t.Run("round trip", func(t *testing.T) {
		store := tempStore(t)
		want := []domain.Position{
			{Symbol: "7203.T", Shares: 100, CostPrice: 2500.5, CostCurrency: "JPY", Account: "taxable", PurchaseDate: "2025-01-15", Memo: "toyota"},
			{Symbol: "AAPL", Shares: 10, CostPrice: 180, CostCurrency: "USD", Account: "nisa", PurchaseDate: "2025-03-01"},
		}
		require.NoError(t, store.Save(want))

		got, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("defaults applied on load", func(t *testing.T) {
		store := tempStore(t)
		csv := "symbol,shares,cost_price,cost_currency,account,purchase_date,memo\nAAPL,10,180,,,,\n"
		require.NoError(t, os.WriteFile(store.path, []byte(csv), 0o644))

		got, err := store.Load()
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "JPY", got[0].CostCurrency)
		assert.Equal(t, domain.DefaultAccount, got[0].Account)
	})

	t.Run("zero share rows dropped", func(t *testing.T) {
		store := tempStore(t)
		csv := "symbol,shares,cost_price,cost_currency,account,purchase_date,memo\nAAPL,0,180,USD,taxable,,\n,10,100,JPY,taxable,,\n"
		require.NoError(t, os.WriteFile(store.path, []byte(csv), 0o644))

		got, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestStoreBuy(t *testing.T) {
	t.Run("new position", func(t *testing.T) {
		store := tempStore(t)
		pos, err := store.Buy("aapl", 10, 180, "USD", "", "2025-06-01", "")
		require.NoError(t, err)
		assert.Equal(t, "AAPL", pos.Symbol)
		assert.Equal(t, domain.DefaultAccount, pos.Account)
	})

	t.Run("merge recomputes weighted average", func(t *testing.T) {
		store := tempStore(t)
		_, err := store.Buy("AAPL", 10, 100, "USD", "taxable", "2025-01-01", "")
		require.NoError(t, err)
		// (10*100 + 10*200) / 20 = 150
		pos, err := store.Buy("AAPL", 10, 200, "USD", "taxable", "2025-06-01", "")
		require.NoError(t, err)
		assert.Equal(t, 20, pos.Shares)
		assert.InDelta(t, 150, pos.CostPrice, 1e-9)
		assert.Equal(t, "2025-06-01", pos.PurchaseDate)

		positions, err := store.Load()
		require.NoError(t, err)
		assert.Len(t, positions, 1)
	})

	t.Run("same symbol different account stays separate", func(t *testing.T) {
		store := tempStore(t)
		_, err := store.Buy("AAPL", 10, 100, "USD", "taxable", "2025-01-01", "")
		require.NoError(t, err)
		_, err = store.Buy("AAPL", 5, 120, "USD", "nisa", "2025-02-01", "")
		require.NoError(t, err)

		positions, err := store.Load()
		require.NoError(t, err)
		assert.Len(t, positions, 2)
	})
}

func TestStoreSell(t *testing.T) {
	seed := func(t *testing.T) *Store {
		store := tempStore(t)
		_, err := store.Buy("AAPL", 10, 100, "USD", "taxable", "2025-01-01", "")
		require.NoError(t, err)
		return store
	}

	t.Run("partial sell", func(t *testing.T) {
		store := seed(t)
		pos, err := store.Sell("AAPL", 4, "")
		require.NoError(t, err)
		assert.Equal(t, 6, pos.Shares)
	})

	t.Run("full sell removes row", func(t *testing.T) {
		store := seed(t)
		pos, err := store.Sell("AAPL", 10, "")
		require.NoError(t, err)
		assert.Zero(t, pos.Shares)

		positions, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, positions)
	})

	t.Run("oversell", func(t *testing.T) {
		_, err := seed(t).Sell("AAPL", 11, "")
		assert.ErrorIs(t, err, ErrOversell)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		_, err := seed(t).Sell("MSFT", 1, "")
		assert.ErrorIs(t, err, ErrPositionNotFound)
	})

	t.Run("ambiguous account", func(t *testing.T) {
		store := seed(t)
		_, err := store.Buy("AAPL", 5, 120, "USD", "nisa", "2025-02-01", "")
		require.NoError(t, err)

		_, err = store.Sell("AAPL", 1, "")
		assert.ErrorIs(t, err, ErrAmbiguousAccount)

		pos, err := store.Sell("AAPL", 1, "nisa")
		require.NoError(t, err)
		assert.Equal(t, 4, pos.Shares)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := seed(t).Sell("AAPL", 1, "ideco")
		assert.ErrorIs(t, err, ErrPositionNotFound)
	})
}

func TestTickerInference(t *testing.T) {
	tests := []struct {
		symbol   string
		currency string
		country  string
	}{
		{"7203.T", "JPY", "Japan"},
		{"AAPL", "USD", "United States"},
		{"D05.SI", "SGD", "Singapore"},
		{"0700.HK", "HKD", "Hong Kong"},
		{"VOD.L", "GBP", "United Kingdom"},
		{"USD.CASH", "USD", "United States"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.currency, InferCurrency(tt.symbol), tt.symbol)
		assert.Equal(t, tt.country, InferCountry(tt.symbol), tt.symbol)
	}
}

// stubProvider serves canned quotes and FX rates.
type stubProvider struct {
	quotes map[string]*domain.Quote
	fx     map[string]float64
}

func (p *stubProvider) GetQuote(_ context.Context, symbol string) (*domain.Quote, error) {
	return p.quotes[symbol], nil
}

func (p *stubProvider) GetDetail(_ context.Context, _ string) (*domain.Detail, error) {
	return nil, nil
}

func (p *stubProvider) GetPriceHistory(_ context.Context, _, _ string) ([]domain.Candle, error) {
	return nil, nil
}

func (p *stubProvider) GetFXRate(_ context.Context, currency string) (float64, error) {
	if currency == "" || currency == domain.CurrencyJPY {
		return 1.0, nil
	}
	return p.fx[currency], nil
}

func TestSnapshot(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Save([]domain.Position{
		{Symbol: "7203.T", Shares: 100, CostPrice: 2000, CostCurrency: "JPY", Account: "taxable"},
		{Symbol: "AAPL", Shares: 10, CostPrice: 150, CostCurrency: "USD", Account: "taxable"},
		{Symbol: "JPY.CASH", Shares: 500000, CostPrice: 1, CostCurrency: "JPY", Account: "taxable"},
	}))

	p := &stubProvider{
		quotes: map[string]*domain.Quote{
			"7203.T": {Symbol: "7203.T", Name: "Toyota", Sector: "Consumer Cyclical", Price: ptr(2500), Currency: "JPY"},
			"AAPL":   {Symbol: "AAPL", Name: "Apple", Sector: "Technology", Price: ptr(180), Currency: "USD"},
		},
		fx: map[string]float64{"USD": 150},
	}

	svc := NewService(store, p, logger.Nop())
	snapshot, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Holdings, 3)

	// 2500*100 + 180*10*150 + 500000 = 250000 + 270000 + 500000
	assert.InDelta(t, 1020000, snapshot.TotalJPY, 1e-6)
	// 2000*100 + 150*10*150 + 500000
	assert.InDelta(t, 925000, snapshot.TotalCostJPY, 1e-6)
	assert.InDelta(t, 95000, snapshot.TotalGainJPY, 1e-6)

	toyota := snapshot.Holdings[0]
	assert.InDelta(t, 0.25, toyota.GainPct, 1e-9)

	cash := snapshot.Holdings[2]
	assert.Equal(t, "Cash", cash.Sector)
	assert.Zero(t, cash.GainJPY)

	t.Run("missing quote keeps zero value", func(t *testing.T) {
		store2 := tempStore(t)
		require.NoError(t, store2.Save([]domain.Position{
			{Symbol: "GONE", Shares: 10, CostPrice: 100, CostCurrency: "JPY", Account: "taxable"},
		}))
		s2, err := NewService(store2, &stubProvider{}, logger.Nop()).Snapshot(context.Background())
		require.NoError(t, err)
		assert.Zero(t, s2.Holdings[0].ValueJPY)
		assert.InDelta(t, 1000, s2.TotalCostJPY, 1e-6)
	})
}

func TestStructureOf(t *testing.T) {
	snapshot := domain.Snapshot{
		Holdings: []domain.Holding{
			{Position: domain.Position{Symbol: "A"}, Sector: "Technology", Country: "United States", MarketCurrency: "USD", ValueJPY: 600},
			{Position: domain.Position{Symbol: "B"}, Sector: "Utilities", Country: "Japan", MarketCurrency: "JPY", ValueJPY: 400},
		},
		TotalJPY: 1000,
	}

	result := StructureOf(snapshot)
	// 0.6^2 + 0.4^2 = 0.52
	assert.InDelta(t, 0.52, result.Sector.HHI, 1e-9)
	assert.Equal(t, "dangerously concentrated", result.RiskLevel)
}
