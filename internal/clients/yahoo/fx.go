package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aristath/kabu/internal/clientdata"
)

// cachedFXRate is the structure stored in the cache.
type cachedFXRate struct {
	Rate float64 `json:"rate"`
}

// GetFXRate fetches the conversion rate from currency to JPY with cache.
// Returns 1.0 for JPY itself. If the API fails, stale cached data is used
// when available.
func (c *Client) GetFXRate(ctx context.Context, currency string) (float64, error) {
	if currency == "" || currency == "JPY" {
		return 1.0, nil
	}

	pair := currency + "JPY"

	var cached cachedFXRate
	if c.cacheGet("fx_rates", pair, true, &cached) {
		c.log.Debug().Str("pair", pair).Float64("rate", cached.Rate).Msg("FX cache hit")
		return cached.Rate, nil
	}

	// FX pairs are quoted as chart symbols, e.g. "USDJPY=X".
	reqURL := fmt.Sprintf("%s/%s?range=1d&interval=1d", c.chartURL, url.PathEscape(pair+"=X"))

	var resp chartResponse
	if err := c.fetchJSON(ctx, reqURL, &resp); err != nil {
		if c.cacheGet("fx_rates", pair, false, &cached) {
			c.log.Warn().Err(err).Str("pair", pair).Float64("rate", cached.Rate).
				Msg("API failed, using stale cached rate")
			return cached.Rate, nil
		}
		return 0, fmt.Errorf("FX request failed for %s: %w", pair, err)
	}

	if len(resp.Chart.Result) == 0 || resp.Chart.Result[0].Meta.RegularMarketPrice.Value() == nil {
		if c.cacheGet("fx_rates", pair, false, &cached) {
			c.log.Warn().Str("pair", pair).Float64("rate", cached.Rate).
				Msg("Rate not in API response, using stale cached rate")
			return cached.Rate, nil
		}
		return 0, fmt.Errorf("rate not found for %s", pair)
	}

	rate := *resp.Chart.Result[0].Meta.RegularMarketPrice.Value()
	c.cacheStore("fx_rates", pair, cachedFXRate{Rate: rate}, clientdata.TTLFXRate)

	c.log.Debug().Str("pair", pair).Float64("rate", rate).Msg("Fetched rate")
	return rate, nil
}
