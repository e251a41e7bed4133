package clientdata

import "time"

// TTLs per data type, added to time.Now() when storing to calculate
// expires_at. Quote and detail TTLs are variables so configuration can
// shorten or extend them at startup.
var (
	// Short-lived data (changes during the trading day)
	TTLQuote = 15 * time.Minute // Current price, yield, valuation ratios

	// Daily data
	TTLDetail = 24 * time.Hour // Analyst targets and fundamentals
)

const (
	TTLPriceHistory = 24 * time.Hour // Daily candles only gain one bar per day

	TTLFXRate = time.Hour // Currency exchange rates
)
