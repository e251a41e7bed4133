// Package yahoo provides market data fetching and caching for quotes,
// fundamentals, price history and FX rates.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/aristath/kabu/internal/clientdata"
)

const (
	chartBaseURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	summaryBaseURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
)

// Client fetches market data with persistent caching.
// If the API fails, stale cached data is returned when available
// (stale data > no data).
type Client struct {
	chartURL   string
	summaryURL string
	client     *http.Client
	log        zerolog.Logger
	cacheRepo  *clientdata.Repository
	limiter    *rate.Limiter

	mu     sync.Mutex
	logged map[string]bool
}

// NewClient creates a new market data client.
// cacheRepo is optional - if nil, caching is disabled.
func NewClient(cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	return &Client{
		chartURL:   chartBaseURL,
		summaryURL: summaryBaseURL,
		client:     &http.Client{Timeout: 15 * time.Second},
		log:        log.With().Str("client", "yahoo").Logger(),
		cacheRepo:  cacheRepo,
		// One request every 500ms with a small burst keeps a full-portfolio
		// run under the provider's informal rate limits.
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		logged:  make(map[string]bool),
	}
}

// warnOnce logs a warning for an error class only the first time it fires in
// this process. A 40-symbol run against a down API should produce one line,
// not forty.
func (c *Client) warnOnce(class string, err error, symbol string) {
	c.mu.Lock()
	seen := c.logged[class]
	c.logged[class] = true
	c.mu.Unlock()

	if seen {
		return
	}
	c.log.Warn().
		Err(err).
		Str("symbol", symbol).
		Str("class", class).
		Msg("Market data fetch failed (suppressing repeats)")
}

// fetchJSON performs a rate-limited GET and decodes the response into out.
func (c *Client) fetchJSON(ctx context.Context, url string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// cacheStore writes through to the persistent cache, logging failures
// without propagating them.
func (c *Client) cacheStore(table, key string, data interface{}, ttl time.Duration) {
	if c.cacheRepo == nil {
		return
	}
	if err := c.cacheRepo.Store(table, key, data, ttl); err != nil {
		c.log.Warn().Err(err).Str("table", table).Str("key", key).Msg("Failed to cache data")
	}
}

// cacheGet reads from the persistent cache into out. freshOnly skips
// expired rows. Returns false on any miss or decode problem.
func (c *Client) cacheGet(table, key string, freshOnly bool, out interface{}) bool {
	if c.cacheRepo == nil {
		return false
	}

	var (
		data json.RawMessage
		err  error
	)
	if freshOnly {
		data, err = c.cacheRepo.GetIfFresh(table, key)
	} else {
		data, err = c.cacheRepo.Get(table, key)
	}
	if err != nil || data == nil {
		return false
	}

	return json.Unmarshal(data, out) == nil
}
