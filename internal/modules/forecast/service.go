package forecast

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/kabu/internal/domain"
)

// historyPeriod is the lookback used for the historical method.
const historyPeriod = "5y"

// Service builds per-position and whole-portfolio return forecasts.
type Service struct {
	provider domain.MarketDataProvider
	log      zerolog.Logger
}

func NewService(provider domain.MarketDataProvider, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		log:      log.With().Str("module", "forecast").Logger(),
	}
}

// EstimatePosition produces the forecast entry for one position, including
// its current JPY value. Cash earns a flat zero across all scenarios.
// Positions whose market data cannot be fetched degrade to no_data with a
// zero value rather than failing the whole run.
func (s *Service) EstimatePosition(ctx context.Context, pos domain.Position) domain.ForecastEntry {
	entry := domain.ForecastEntry{Symbol: pos.Symbol}

	if pos.IsCash() {
		zero := 0.0
		rate, err := s.provider.GetFXRate(ctx, pos.CostCurrency)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", pos.Symbol).Msg("fx rate unavailable, valuing cash at par")
			rate = 1.0
		}
		entry.Method = domain.MethodCash
		entry.Base, entry.Optimistic, entry.Pessimistic = &zero, &zero, &zero
		entry.ValueJPY = pos.CostPrice * float64(pos.Shares) * rate
		entry.Currency = pos.CostCurrency
		return entry
	}

	quote, err := s.provider.GetQuote(ctx, pos.Symbol)
	if err != nil || quote == nil || quote.Price == nil {
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", pos.Symbol).Msg("quote fetch failed")
		}
		entry.Method = domain.MethodNoData
		return entry
	}

	entry.Name = quote.Name
	entry.Sector = quote.Sector
	entry.Country = quote.Country
	entry.Currency = quote.Currency
	if quote.DividendYield != nil {
		entry.DividendYield = *quote.DividendYield
	}

	rate, err := s.provider.GetFXRate(ctx, quote.Currency)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", pos.Symbol).Str("currency", quote.Currency).Msg("fx rate unavailable")
		entry.Method = domain.MethodNoData
		return entry
	}
	entry.ValueJPY = *quote.Price * float64(pos.Shares) * rate

	detail, err := s.provider.GetDetail(ctx, pos.Symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", pos.Symbol).Msg("detail fetch failed")
	}
	if detail != nil {
		entry.AnalystCount = detail.AnalystCount
		entry.TargetMean = detail.TargetMeanPrice
		entry.TargetHigh = detail.TargetHighPrice
		entry.TargetLow = detail.TargetLowPrice
	}

	if !etfLike(detail, quote.Sector) {
		entry.Optimistic, entry.Base, entry.Pessimistic = analystEstimate(*quote.Price, entry.DividendYield, detail)
		entry.Method = domain.MethodAnalyst
	}

	// Fall through to the historical method for ETF-like symbols, or when
	// the analyst method produced nothing usable.
	if entry.Base == nil {
		closes := s.closes(ctx, pos.Symbol)
		entry.Optimistic, entry.Base, entry.Pessimistic = historicalEstimate(closes)
		if entry.Base != nil {
			entry.Method = domain.MethodHistorical
		} else {
			entry.Method = domain.MethodNoData
		}
	}

	return entry
}

// Portfolio estimates every position and aggregates a value-weighted
// scenario triple. A position with a nil scenario contributes zero to that
// scenario's weighted sum. If no position has a value anywhere, the
// portfolio triple is entirely nil.
func (s *Service) Portfolio(ctx context.Context, positions []domain.Position) domain.PortfolioForecast {
	result := domain.PortfolioForecast{}

	for _, pos := range positions {
		result.Entries = append(result.Entries, s.EstimatePosition(ctx, pos))
	}

	sort.SliceStable(result.Entries, func(i, j int) bool {
		return result.Entries[i].ValueJPY > result.Entries[j].ValueJPY
	})

	for _, e := range result.Entries {
		result.TotalJPY += e.ValueJPY
	}
	if result.TotalJPY <= 0 {
		return result
	}

	hasValid := false
	var base, optimistic, pessimistic float64
	for _, e := range result.Entries {
		w := e.ValueJPY / result.TotalJPY
		if e.Base != nil {
			base += w * *e.Base
			hasValid = true
		}
		if e.Optimistic != nil {
			optimistic += w * *e.Optimistic
			hasValid = true
		}
		if e.Pessimistic != nil {
			pessimistic += w * *e.Pessimistic
			hasValid = true
		}
	}
	if hasValid {
		result.Base, result.Optimistic, result.Pessimistic = &base, &optimistic, &pessimistic
	}

	return result
}

func (s *Service) closes(ctx context.Context, symbol string) []float64 {
	candles, err := s.provider.GetPriceHistory(ctx, symbol, historyPeriod)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("price history fetch failed")
		return nil
	}
	closes := make([]float64, 0, len(candles))
	for _, c := range candles {
		closes = append(closes, c.Close)
	}
	return closes
}
