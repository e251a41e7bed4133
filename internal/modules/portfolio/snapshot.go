package portfolio

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/kabu/internal/domain"
)

// Service values the stored portfolio with live prices and FX rates.
type Service struct {
	store    domain.PortfolioStore
	provider domain.MarketDataProvider
	log      zerolog.Logger
}

func NewService(store domain.PortfolioStore, provider domain.MarketDataProvider, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		provider: provider,
		log:      log.With().Str("module", "portfolio").Logger(),
	}
}

// Snapshot loads positions and values each in JPY. Cash is priced at cost
// and carries no P&L. A symbol without a live price keeps a zero value
// rather than aborting the snapshot.
func (s *Service) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	positions, err := s.store.Load()
	if err != nil {
		return domain.Snapshot{}, err
	}

	snapshot := domain.Snapshot{}
	for _, pos := range positions {
		holding := s.value(ctx, pos)
		snapshot.Holdings = append(snapshot.Holdings, holding)
		snapshot.TotalJPY += holding.ValueJPY
		snapshot.TotalCostJPY += holding.CostJPY
	}
	snapshot.TotalGainJPY = snapshot.TotalJPY - snapshot.TotalCostJPY

	return snapshot, nil
}

func (s *Service) value(ctx context.Context, pos domain.Position) domain.Holding {
	holding := domain.Holding{Position: pos}

	if pos.IsCash() {
		currency := CashCurrency(pos.Symbol)
		rate := s.fxRate(ctx, currency)
		holding.Name = fmt.Sprintf("Cash (%s)", currency)
		holding.Sector = "Cash"
		holding.MarketCurrency = currency
		holding.CurrentPrice = pos.CostPrice
		holding.ValueJPY = pos.CostPrice * float64(pos.Shares) * rate
		holding.CostJPY = holding.ValueJPY
		return holding
	}

	holding.MarketCurrency = InferCurrency(pos.Symbol)
	holding.Country = InferCountry(pos.Symbol)

	quote, err := s.provider.GetQuote(ctx, pos.Symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", pos.Symbol).Msg("quote fetch failed")
	}
	if quote != nil {
		holding.Name = quote.Name
		holding.Sector = quote.Sector
		if quote.Country != "" {
			holding.Country = quote.Country
		}
		if quote.Currency != "" {
			holding.MarketCurrency = quote.Currency
		}
		if quote.DividendYield != nil {
			holding.DividendYield = *quote.DividendYield
		}
	}

	holding.CostJPY = pos.CostPrice * float64(pos.Shares) * s.fxRate(ctx, pos.CostCurrency)

	if quote == nil || quote.Price == nil {
		return holding
	}

	holding.CurrentPrice = *quote.Price
	holding.ValueJPY = *quote.Price * float64(pos.Shares) * s.fxRate(ctx, holding.MarketCurrency)
	holding.GainJPY = holding.ValueJPY - holding.CostJPY
	if pos.CostPrice != 0 {
		holding.GainPct = (*quote.Price - pos.CostPrice) / pos.CostPrice
	}

	return holding
}

func (s *Service) fxRate(ctx context.Context, currency string) float64 {
	rate, err := s.provider.GetFXRate(ctx, currency)
	if err != nil {
		s.log.Warn().Err(err).Str("currency", currency).Msg("fx rate unavailable, assuming par")
		return 1.0
	}
	return rate
}
