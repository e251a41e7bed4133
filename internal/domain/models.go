// Package domain provides core domain models and types.
package domain

import "strings"

// Common currency codes. Everything portfolio-level is valued in JPY.
const (
	CurrencyJPY = "JPY"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// CashSuffix marks pseudo-symbols that represent cash buckets (e.g. "JPY.CASH").
const CashSuffix = ".CASH"

// DefaultAccount is the account bucket assigned when a buy omits one.
const DefaultAccount = "taxable"

// Position represents one held security in the portfolio CSV.
type Position struct {
	Symbol       string  `json:"symbol"`
	Shares       int     `json:"shares"`
	CostPrice    float64 `json:"cost_price"`
	CostCurrency string  `json:"cost_currency"`
	Account      string  `json:"account"`
	PurchaseDate string  `json:"purchase_date"`
	Memo         string  `json:"memo"`
}

// IsCash reports whether the position is a cash bucket rather than a security.
func (p Position) IsCash() bool {
	return IsCashSymbol(p.Symbol)
}

// IsCashSymbol reports whether a symbol names a cash bucket.
func IsCashSymbol(symbol string) bool {
	return strings.HasSuffix(strings.ToUpper(symbol), CashSuffix)
}

// Holding is a position enriched with live market data and valuation.
type Holding struct {
	Position
	Name           string  `json:"name"`
	Sector         string  `json:"sector"`
	Country        string  `json:"country"`
	MarketCurrency string  `json:"market_currency"`
	CurrentPrice   float64 `json:"current_price"`
	ValueJPY       float64 `json:"value_jpy"`
	CostJPY        float64 `json:"cost_jpy"`
	GainJPY        float64 `json:"gain_jpy"`
	GainPct        float64 `json:"gain_pct"`
	DividendYield  float64 `json:"dividend_yield"`
}

// Snapshot is the valued portfolio at one point in time.
type Snapshot struct {
	Holdings     []Holding `json:"holdings"`
	TotalJPY     float64   `json:"total_jpy"`
	TotalCostJPY float64   `json:"total_cost_jpy"`
	TotalGainJPY float64   `json:"total_gain_jpy"`
}

// ForecastMethod identifies how a per-symbol return estimate was produced.
type ForecastMethod string

const (
	MethodAnalyst    ForecastMethod = "analyst"
	MethodHistorical ForecastMethod = "historical"
	MethodNoData     ForecastMethod = "no_data"
	MethodCash       ForecastMethod = "cash"
)

// ForecastEntry is the expected-return estimate for a single symbol.
// When Method is MethodNoData all three scenario returns are nil.
type ForecastEntry struct {
	Symbol        string         `json:"symbol"`
	Name          string         `json:"name"`
	Method        ForecastMethod `json:"method"`
	Base          *float64       `json:"base"`
	Optimistic    *float64       `json:"optimistic"`
	Pessimistic   *float64       `json:"pessimistic"`
	AnalystCount  int            `json:"analyst_count"`
	TargetMean    *float64       `json:"target_mean"`
	TargetHigh    *float64       `json:"target_high"`
	TargetLow     *float64       `json:"target_low"`
	DividendYield float64        `json:"dividend_yield"`
	ValueJPY      float64        `json:"value_jpy"`
	Sector        string         `json:"sector"`
	Country       string         `json:"country"`
	Currency      string         `json:"currency"`
}

// PortfolioForecast aggregates per-symbol estimates into a value-weighted
// portfolio-level triple. Scenario fields are nil when no symbol carried a
// non-nil value for that scenario.
type PortfolioForecast struct {
	Entries     []ForecastEntry `json:"entries"`
	TotalJPY    float64         `json:"total_jpy"`
	Base        *float64        `json:"base"`
	Optimistic  *float64        `json:"optimistic"`
	Pessimistic *float64        `json:"pessimistic"`
}

// Trend labels for the technical health signal.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendFlat    Trend = "flat"
	TrendDown    Trend = "down"
	TrendUnknown Trend = "unknown"
)

// QualityLabel classifies a holding's fundamental quality from the
// change score's passed-indicator count.
type QualityLabel string

const (
	QualityGood     QualityLabel = "good"
	QualityOneDown  QualityLabel = "one indicator down"
	QualityMultiple QualityLabel = "multiple down"
	QualityExcluded QualityLabel = "excluded"
	QualityUnscored QualityLabel = "unscored"
)

// AlertLevel is the health engine's terminal alert state.
// Precedence: exit > caution > early_warning > none.
type AlertLevel string

const (
	AlertNone    AlertLevel = "none"
	AlertEarly   AlertLevel = "early_warning"
	AlertCaution AlertLevel = "caution"
	AlertExit    AlertLevel = "exit"
)

// HealthResult is the per-symbol health evaluation.
type HealthResult struct {
	Symbol       string       `json:"symbol"`
	Name         string       `json:"name"`
	Trend        Trend        `json:"trend"`
	DeadCross    bool         `json:"dead_cross"`
	RSIDrop      bool         `json:"rsi_drop"`
	BelowSMA50   bool         `json:"below_sma50"`
	Approaching  bool         `json:"approaching"`
	QualityLabel QualityLabel `json:"quality_label"`
	PassedCount  int          `json:"passed_count"`
	AlertLevel   AlertLevel   `json:"alert_level"`
	Reasons      []string     `json:"reasons"`
}

// ConcentrationBreakdown maps category labels on one axis to portfolio
// weights, together with the axis HHI.
type ConcentrationBreakdown struct {
	Axis    string             `json:"axis"`
	Weights map[string]float64 `json:"weights"`
	HHI     float64            `json:"hhi"`
}

// ConcentrationResult covers all breakdown axes plus the derived risk view.
type ConcentrationResult struct {
	Sector     ConcentrationBreakdown `json:"sector"`
	Region     ConcentrationBreakdown `json:"region"`
	Currency   ConcentrationBreakdown `json:"currency"`
	MaxHHI     float64                `json:"max_hhi"`
	RiskLevel  string                 `json:"risk_level"`
	Multiplier float64                `json:"multiplier"`
}

// CorrelatedPair is a symbol pair whose return correlation exceeds a
// configured threshold.
type CorrelatedPair struct {
	SymbolA     string  `json:"symbol_a"`
	SymbolB     string  `json:"symbol_b"`
	Correlation float64 `json:"correlation"`
}

// ActionKind identifies a rebalance proposal action type.
type ActionKind string

const (
	ActionSell     ActionKind = "sell"
	ActionReduce   ActionKind = "reduce"
	ActionIncrease ActionKind = "increase"
)

// RebalanceAction is one proposed trade. Ratio applies to sell/reduce
// (fraction of the current position, 1.0 = full exit); AmountJPY applies
// to increase actions.
type RebalanceAction struct {
	Kind      ActionKind `json:"action"`
	Symbol    string     `json:"symbol"`
	Name      string     `json:"name"`
	Ratio     float64    `json:"ratio"`
	AmountJPY float64    `json:"amount_jpy"`
	Reason    string     `json:"reason"`
	Priority  int        `json:"priority"`
	ValueJPY  float64    `json:"value_jpy"`
}

// RebalanceMetrics are the summary numbers reported before and after a
// proposal.
type RebalanceMetrics struct {
	BaseReturn *float64 `json:"base_return"`
	SectorHHI  float64  `json:"sector_hhi"`
	RegionHHI  float64  `json:"region_hhi"`
}

// RebalanceProposal is the rebalance engine's full output.
type RebalanceProposal struct {
	Strategy          string            `json:"strategy"`
	Actions           []RebalanceAction `json:"actions"`
	Before            RebalanceMetrics  `json:"before"`
	After             RebalanceMetrics  `json:"after"`
	FreedCashJPY      float64           `json:"freed_cash_jpy"`
	AdditionalCashJPY float64           `json:"additional_cash_jpy"`
	Constraints       Constraints       `json:"constraints"`
}
