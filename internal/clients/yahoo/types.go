package yahoo

import (
	"encoding/json"
	"math"
)

// rawValue handles the provider's {"raw": 1.23, "fmt": "1.23"} wrapper.
// Bare numbers are accepted too.
type rawValue struct {
	Raw *float64
}

func (v *rawValue) UnmarshalJSON(data []byte) error {
	var wrapped struct {
		Raw *float64 `json:"raw"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Raw != nil {
		v.Raw = wrapped.Raw
		return nil
	}

	var bare float64
	if err := json.Unmarshal(data, &bare); err == nil {
		v.Raw = &bare
	}
	// Anything else (null, "Infinity", empty object) stays nil.
	return nil
}

// Value returns the inner number with NaN/Inf normalized to nil. This is the
// single ingestion point where provider garbage is scrubbed before scoring.
func (v rawValue) Value() *float64 {
	if v.Raw == nil {
		return nil
	}
	if math.IsNaN(*v.Raw) || math.IsInf(*v.Raw, 0) {
		return nil
	}
	f := *v.Raw
	return &f
}

// quoteSummaryResponse mirrors the quoteSummary endpoint envelope for the
// modules this client requests.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	Price *struct {
		ShortName          string   `json:"shortName"`
		LongName           string   `json:"longName"`
		Currency           string   `json:"currency"`
		QuoteType          string   `json:"quoteType"`
		RegularMarketPrice rawValue `json:"regularMarketPrice"`
	} `json:"price"`
	AssetProfile *struct {
		Sector  string `json:"sector"`
		Country string `json:"country"`
	} `json:"assetProfile"`
	SummaryDetail *struct {
		TrailingPE                  rawValue `json:"trailingPE"`
		TrailingAnnualDividendRate  rawValue `json:"trailingAnnualDividendRate"`
		DividendYield               rawValue `json:"dividendYield"`
		TrailingAnnualDividendYield rawValue `json:"trailingAnnualDividendYield"`
	} `json:"summaryDetail"`
	DefaultKeyStatistics *struct {
		PriceToBook    rawValue `json:"priceToBook"`
		ForwardEPS     rawValue `json:"forwardEps"`
		TrailingEPS    rawValue `json:"trailingEps"`
		EarningsGrowth rawValue `json:"earningsQuarterlyGrowth"`
	} `json:"defaultKeyStatistics"`
	FinancialData *struct {
		TargetHighPrice         rawValue `json:"targetHighPrice"`
		TargetMeanPrice         rawValue `json:"targetMeanPrice"`
		TargetLowPrice          rawValue `json:"targetLowPrice"`
		NumberOfAnalystOpinions rawValue `json:"numberOfAnalystOpinions"`
		ReturnOnEquity          rawValue `json:"returnOnEquity"`
		RevenueGrowth           rawValue `json:"revenueGrowth"`
		EarningsGrowth          rawValue `json:"earningsGrowth"`
		OperatingCashflow       rawValue `json:"operatingCashflow"`
		FreeCashflow            rawValue `json:"freeCashflow"`
		MarketCap               rawValue `json:"marketCap"`
	} `json:"financialData"`
	IncomeStatementHistory *struct {
		Statements []struct {
			NetIncome    rawValue `json:"netIncome"`
			TotalRevenue rawValue `json:"totalRevenue"`
		} `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistory"`
	BalanceSheetHistory *struct {
		Statements []struct {
			TotalStockholderEquity rawValue `json:"totalStockholderEquity"`
			TotalAssets            rawValue `json:"totalAssets"`
		} `json:"balanceSheetStatements"`
	} `json:"balanceSheetHistory"`
}

// chartResponse mirrors the chart endpoint envelope.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string   `json:"currency"`
				RegularMarketPrice rawValue `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}
