package yahoo

import (
	"context"

	"github.com/aristath/kabu/internal/clientdata"
	"github.com/aristath/kabu/internal/domain"
)

const detailModules = "price,financialData,defaultKeyStatistics,incomeStatementHistory,balanceSheetHistory"

// GetDetail fetches analyst targets and fundamentals for a symbol with cache.
// Returns (nil, nil) when the provider has no data.
func (c *Client) GetDetail(ctx context.Context, symbol string) (*domain.Detail, error) {
	var cached domain.Detail
	if c.cacheGet("details", symbol, true, &cached) {
		c.log.Debug().Str("symbol", symbol).Msg("Detail cache hit")
		return &cached, nil
	}

	result, err := c.fetchSummary(ctx, symbol, detailModules)
	if err != nil {
		if c.cacheGet("details", symbol, false, &cached) {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("API failed, using stale cached detail")
			return &cached, nil
		}
		c.warnOnce("detail", err, symbol)
		return nil, nil
	}

	detail := buildDetail(symbol, result)
	if detail == nil {
		return nil, nil
	}

	c.cacheStore("details", symbol, detail, clientdata.TTLDetail)
	return detail, nil
}

// buildDetail normalizes the raw summary payload into a domain.Detail.
// Histories come back most-recent-first from the provider and stay that way.
func buildDetail(symbol string, r *quoteSummaryResult) *domain.Detail {
	detail := &domain.Detail{Symbol: symbol}

	if r.Price != nil {
		detail.QuoteType = r.Price.QuoteType
	}
	if r.FinancialData != nil {
		detail.TargetHighPrice = r.FinancialData.TargetHighPrice.Value()
		detail.TargetMeanPrice = r.FinancialData.TargetMeanPrice.Value()
		detail.TargetLowPrice = r.FinancialData.TargetLowPrice.Value()
		if n := r.FinancialData.NumberOfAnalystOpinions.Value(); n != nil {
			detail.AnalystCount = int(*n)
		}
		detail.OperatingCashflow = r.FinancialData.OperatingCashflow.Value()
		detail.FreeCashflow = r.FinancialData.FreeCashflow.Value()
		detail.MarketCap = r.FinancialData.MarketCap.Value()
		detail.EarningsGrowth = r.FinancialData.EarningsGrowth.Value()
	}
	if r.DefaultKeyStatistics != nil {
		detail.EPSForward = r.DefaultKeyStatistics.ForwardEPS.Value()
		detail.EPSTrailing = r.DefaultKeyStatistics.TrailingEPS.Value()
		if detail.EarningsGrowth == nil {
			detail.EarningsGrowth = r.DefaultKeyStatistics.EarningsGrowth.Value()
		}
	}
	if r.IncomeStatementHistory != nil {
		for _, s := range r.IncomeStatementHistory.Statements {
			if v := s.NetIncome.Value(); v != nil {
				detail.NetIncomeHistory = append(detail.NetIncomeHistory, *v)
			}
			if v := s.TotalRevenue.Value(); v != nil {
				detail.RevenueHistory = append(detail.RevenueHistory, *v)
			}
		}
	}
	if r.BalanceSheetHistory != nil {
		for _, s := range r.BalanceSheetHistory.Statements {
			if v := s.TotalStockholderEquity.Value(); v != nil {
				detail.EquityHistory = append(detail.EquityHistory, *v)
			}
			if detail.TotalAssets == nil {
				detail.TotalAssets = s.TotalAssets.Value()
			}
		}
	}

	// A detail record with nothing in it is treated as no data.
	if detail.TargetMeanPrice == nil && detail.MarketCap == nil &&
		len(detail.NetIncomeHistory) == 0 && len(detail.EquityHistory) == 0 {
		return nil
	}

	return detail
}
