package domain

// Provider-agnostic market data types. The provider adapter resolves any
// source-specific field aliases and normalizes NaN/Inf to nil before these
// records reach scoring, so the core never branches on raw payload shapes.

// Quote carries the lightweight per-symbol facts used for valuation and the
// value score. Optional fields are nil when the provider has no data.
type Quote struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Price         *float64 `json:"price"`
	Currency      string   `json:"currency"`
	Sector        string   `json:"sector"`
	Country       string   `json:"country"`
	DividendYield *float64 `json:"dividend_yield"`
	PER           *float64 `json:"per"`
	PBR           *float64 `json:"pbr"`
	ROE           *float64 `json:"roe"`
	RevenueGrowth *float64 `json:"revenue_growth"`
	QuoteType     string   `json:"quote_type"`
}

// Detail carries the heavier fundamentals used by the change score and the
// analyst forecast method. Histories are ordered most-recent-first.
type Detail struct {
	Symbol            string    `json:"symbol"`
	TargetHighPrice   *float64  `json:"target_high_price"`
	TargetMeanPrice   *float64  `json:"target_mean_price"`
	TargetLowPrice    *float64  `json:"target_low_price"`
	AnalystCount      int       `json:"analyst_count"`
	NetIncomeHistory  []float64 `json:"net_income_history"`
	EquityHistory     []float64 `json:"equity_history"`
	RevenueHistory    []float64 `json:"revenue_history"`
	OperatingCashflow *float64  `json:"operating_cashflow"`
	TotalAssets       *float64  `json:"total_assets"`
	FreeCashflow      *float64  `json:"free_cashflow"`
	MarketCap         *float64  `json:"market_cap"`
	EarningsGrowth    *float64  `json:"earnings_growth"`
	EPSForward        *float64  `json:"eps_forward"`
	EPSTrailing       *float64  `json:"eps_trailing"`
	QuoteType         string    `json:"quote_type"`
}

// Candle is one daily price observation.
type Candle struct {
	Date   string  `json:"date"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Sentiment is the optional research provider's structured blurb for one
// symbol. Advisory only, it changes no computed number.
type Sentiment struct {
	Symbol   string   `json:"symbol"`
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
	Score    float64  `json:"score"`
	Summary  string   `json:"summary"`
}
