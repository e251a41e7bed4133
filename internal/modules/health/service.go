package health

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/internal/modules/scoring"
)

// historyPeriod gives enough daily closes for SMA200 with margin.
const historyPeriod = "1y"

// Entry is the full per-holding evaluation: alert state plus the long-term
// suitability view.
type Entry struct {
	domain.HealthResult
	Signals  TrendSignals
	LongTerm scoring.LongTermResult
}

// Summary counts holdings per alert level.
type Summary struct {
	Total   int `json:"total"`
	Healthy int `json:"healthy"`
	Early   int `json:"early_warning"`
	Caution int `json:"caution"`
	Exit    int `json:"exit"`
}

// Report is the portfolio-wide health check result. Alerts holds only the
// entries whose level is above none.
type Report struct {
	Results []Entry `json:"results"`
	Alerts  []Entry `json:"alerts"`
	Summary Summary `json:"summary"`
}

// Service runs the health check across a portfolio.
type Service struct {
	provider domain.MarketDataProvider
	scorer   *scoring.ChangeScorer
	log      zerolog.Logger
}

func NewService(provider domain.MarketDataProvider, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		scorer:   scoring.NewChangeScorer(),
		log:      log.With().Str("module", "health").Logger(),
	}
}

// Check evaluates every non-cash position. A symbol whose market data
// cannot be fetched degrades to unknown trend and unscored quality instead
// of failing the run.
func (s *Service) Check(ctx context.Context, positions []domain.Position) Report {
	report := Report{}

	for _, pos := range positions {
		if pos.IsCash() {
			continue
		}

		entry := s.checkOne(ctx, pos)
		report.Results = append(report.Results, entry)
		report.Summary.Total++

		switch entry.AlertLevel {
		case domain.AlertNone:
			report.Summary.Healthy++
		case domain.AlertEarly:
			report.Summary.Early++
		case domain.AlertCaution:
			report.Summary.Caution++
		case domain.AlertExit:
			report.Summary.Exit++
		}
		if entry.AlertLevel != domain.AlertNone {
			report.Alerts = append(report.Alerts, entry)
		}
	}

	return report
}

func (s *Service) checkOne(ctx context.Context, pos domain.Position) Entry {
	entry := Entry{}
	entry.Symbol = pos.Symbol
	entry.Name = pos.Memo

	closes := s.closes(ctx, pos.Symbol)
	entry.Signals = AnalyzeTrend(closes)

	quote, err := s.provider.GetQuote(ctx, pos.Symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", pos.Symbol).Msg("quote fetch failed")
	}
	var sector string
	if quote != nil {
		sector = quote.Sector
		if quote.Name != "" {
			entry.Name = quote.Name
		}
	}

	detail, err := s.provider.GetDetail(ctx, pos.Symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", pos.Symbol).Msg("detail fetch failed")
	}

	entry.QualityLabel = s.quality(detail, sector, &entry)
	entry.Trend = entry.Signals.Trend
	entry.DeadCross = entry.Signals.DeadCross
	entry.RSIDrop = entry.Signals.RSIDrop
	entry.BelowSMA50 = !entry.Signals.AboveSMA50 && entry.Signals.Trend != domain.TrendUnknown
	entry.Approaching = entry.Signals.Approaching

	entry.AlertLevel, entry.Reasons = computeAlert(entry.Signals, entry.QualityLabel)
	entry.LongTerm = scoring.LongTermSuitability(pos.Symbol, quote, detail)

	return entry
}

// quality maps a detail record to the fundamental quality label. ETFs are
// excluded from fundamental scoring; a missing record stays unscored so a
// data outage never reads as deterioration.
func (s *Service) quality(detail *domain.Detail, sector string, entry *Entry) domain.QualityLabel {
	if detail != nil && detail.QuoteType == "ETF" {
		return domain.QualityExcluded
	}
	if detail == nil {
		return domain.QualityUnscored
	}
	score := s.scorer.Calculate(detail, sector)
	entry.PassedCount = score.PassedCount
	return score.QualityLabel()
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
