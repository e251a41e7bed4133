package domain

import "context"

// MarketDataProvider defines the market-data contract the core consumes.
// Every method may return (nil, nil) when the provider has no data for the
// symbol; callers treat nil as "no data" and degrade, never abort.
type MarketDataProvider interface {
	// GetQuote returns the latest quote facts for a symbol
	GetQuote(ctx context.Context, symbol string) (*Quote, error)

	// GetDetail returns analyst targets and fundamentals for a symbol
	GetDetail(ctx context.Context, symbol string) (*Detail, error)

	// GetPriceHistory returns daily candles covering roughly the requested
	// period (e.g. "1y"), oldest first
	GetPriceHistory(ctx context.Context, symbol, period string) ([]Candle, error)

	// GetFXRate returns the conversion rate from the given currency to JPY.
	// Returns 1.0 for JPY itself
	GetFXRate(ctx context.Context, currency string) (float64, error)
}

// SentimentProvider is the optional research capability. The CLI wires a
// concrete provider only when an API key is configured; consumers must
// tolerate a nil provider and skip the narrative section.
type SentimentProvider interface {
	Search(ctx context.Context, symbol, name string) (*Sentiment, error)
}

// PortfolioStore defines the flat-file portfolio contract, keyed by
// (symbol, account).
type PortfolioStore interface {
	Load() ([]Position, error)
	Save(positions []Position) error
}
