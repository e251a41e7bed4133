package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aristath/kabu/internal/clientdata"
	"github.com/aristath/kabu/internal/domain"
)

// GetQuote fetches the lightweight quote record for a symbol with cache.
// Returns (nil, nil) when the provider has no data - callers treat nil as
// "no data" and degrade.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	var cached domain.Quote
	if c.cacheGet("quotes", symbol, true, &cached) {
		c.log.Debug().Str("symbol", symbol).Msg("Quote cache hit")
		return &cached, nil
	}

	result, err := c.fetchSummary(ctx, symbol, "price,assetProfile,summaryDetail,defaultKeyStatistics,financialData")
	if err != nil {
		if c.cacheGet("quotes", symbol, false, &cached) {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("API failed, using stale cached quote")
			return &cached, nil
		}
		c.warnOnce("quote", err, symbol)
		return nil, nil
	}

	quote := buildQuote(symbol, result)
	if quote == nil {
		return nil, nil
	}

	c.cacheStore("quotes", symbol, quote, clientdata.TTLQuote)
	return quote, nil
}

// fetchSummary calls the quoteSummary endpoint for one symbol and returns
// the first result, or an error when the payload is empty.
func (c *Client) fetchSummary(ctx context.Context, symbol, modules string) (*quoteSummaryResult, error) {
	reqURL := fmt.Sprintf("%s/%s?modules=%s", c.summaryURL, url.PathEscape(symbol), url.QueryEscape(modules))

	var resp quoteSummaryResponse
	if err := c.fetchJSON(ctx, reqURL, &resp); err != nil {
		return nil, err
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("provider error: %s", resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("empty result for %s", symbol)
	}

	return &resp.QuoteSummary.Result[0], nil
}

// buildQuote normalizes the raw summary payload into a domain.Quote.
// Returns nil when not even a price is present.
func buildQuote(symbol string, r *quoteSummaryResult) *domain.Quote {
	if r.Price == nil || r.Price.RegularMarketPrice.Value() == nil {
		return nil
	}

	quote := &domain.Quote{
		Symbol:    symbol,
		Name:      r.Price.ShortName,
		Price:     r.Price.RegularMarketPrice.Value(),
		Currency:  r.Price.Currency,
		QuoteType: r.Price.QuoteType,
	}
	if quote.Name == "" {
		quote.Name = r.Price.LongName
	}

	if r.AssetProfile != nil {
		quote.Sector = r.AssetProfile.Sector
		quote.Country = r.AssetProfile.Country
	}
	if r.SummaryDetail != nil {
		quote.PER = r.SummaryDetail.TrailingPE.Value()
		// The yield appears under several keys depending on security type;
		// resolve the alias here so the core never branches on key names.
		quote.DividendYield = r.SummaryDetail.TrailingAnnualDividendYield.Value()
		if quote.DividendYield == nil {
			quote.DividendYield = r.SummaryDetail.DividendYield.Value()
		}
	}
	if r.DefaultKeyStatistics != nil {
		quote.PBR = r.DefaultKeyStatistics.PriceToBook.Value()
	}
	if r.FinancialData != nil {
		quote.ROE = r.FinancialData.ReturnOnEquity.Value()
		quote.RevenueGrowth = r.FinancialData.RevenueGrowth.Value()
	}

	return quote
}
