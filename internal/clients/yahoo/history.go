package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aristath/kabu/internal/clientdata"
	"github.com/aristath/kabu/internal/domain"
)

// GetPriceHistory fetches daily candles covering roughly the requested
// period (e.g. "1y"), oldest first, adjusted closes preferred.
// Returns (nil, nil) when the provider has no data.
func (c *Client) GetPriceHistory(ctx context.Context, symbol, period string) ([]domain.Candle, error) {
	if c.cacheRepo != nil {
		var cached []domain.Candle
		found, err := c.cacheRepo.GetHistory(symbol, period, true, &cached)
		if err == nil && found {
			c.log.Debug().Str("symbol", symbol).Str("period", period).Msg("History cache hit")
			return cached, nil
		}
	}

	reqURL := fmt.Sprintf("%s/%s?range=%s&interval=1d&events=div",
		c.chartURL, url.PathEscape(symbol), url.QueryEscape(period))

	var resp chartResponse
	if err := c.fetchJSON(ctx, reqURL, &resp); err != nil {
		if stale := c.staleHistory(symbol, period); stale != nil {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("API failed, using stale cached history")
			return stale, nil
		}
		c.warnOnce("history", err, symbol)
		return nil, nil
	}

	candles := buildCandles(&resp)
	if len(candles) == 0 {
		if resp.Chart.Error != nil {
			c.warnOnce("history", fmt.Errorf("provider error: %s", resp.Chart.Error.Description), symbol)
		}
		return nil, nil
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.StoreHistory(symbol, period, candles, clientdata.TTLPriceHistory); err != nil {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache price history")
		}
	}

	return candles, nil
}

func (c *Client) staleHistory(symbol, period string) []domain.Candle {
	if c.cacheRepo == nil {
		return nil
	}
	var cached []domain.Candle
	found, err := c.cacheRepo.GetHistory(symbol, period, false, &cached)
	if err != nil || !found {
		return nil
	}
	return cached
}

// buildCandles flattens the chart payload. Null closes (market holidays,
// partial sessions) are skipped. Adjusted closes are used when present so
// dividends are embedded in the series.
func buildCandles(resp *chartResponse) []domain.Candle {
	if len(resp.Chart.Result) == 0 {
		return nil
	}
	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil
	}

	closes := result.Indicators.Quote[0].Close
	volumes := result.Indicators.Quote[0].Volume
	if len(result.Indicators.AdjClose) > 0 && len(result.Indicators.AdjClose[0].AdjClose) == len(closes) {
		closes = result.Indicators.AdjClose[0].AdjClose
	}

	candles := make([]domain.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		candle := domain.Candle{
			Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Close: *closes[i],
		}
		if i < len(volumes) && volumes[i] != nil {
			candle.Volume = *volumes[i]
		}
		candles = append(candles, candle)
	}

	return candles
}
