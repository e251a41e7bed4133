package portfolio

import (
	"strings"

	"github.com/aristath/kabu/internal/domain"
)

// Yahoo-style exchange suffix tables. Symbols without a suffix are treated
// as US listings.
var suffixToCurrency = map[string]string{
	"T":  "JPY",
	"SI": "SGD",
	"BK": "THB",
	"KL": "MYR",
	"JK": "IDR",
	"PS": "PHP",
	"HK": "HKD",
	"KS": "KRW",
	"KQ": "KRW",
	"TW": "TWD",
	"SS": "CNY",
	"SZ": "CNY",
	"L":  "GBP",
	"PA": "EUR",
	"DE": "EUR",
	"AS": "EUR",
	"MI": "EUR",
	"TO": "CAD",
	"AX": "AUD",
	"SA": "BRL",
	"NS": "INR",
	"BO": "INR",
}

var suffixToCountry = map[string]string{
	"T":  "Japan",
	"SI": "Singapore",
	"BK": "Thailand",
	"KL": "Malaysia",
	"JK": "Indonesia",
	"PS": "Philippines",
	"HK": "Hong Kong",
	"KS": "South Korea",
	"KQ": "South Korea",
	"TW": "Taiwan",
	"SS": "China",
	"SZ": "China",
	"L":  "United Kingdom",
	"PA": "France",
	"DE": "Germany",
	"AS": "Netherlands",
	"MI": "Italy",
	"TO": "Canada",
	"AX": "Australia",
	"SA": "Brazil",
	"NS": "India",
	"BO": "India",
}

func symbolSuffix(symbol string) string {
	i := strings.LastIndex(symbol, ".")
	if i < 0 {
		return ""
	}
	return strings.ToUpper(symbol[i+1:])
}

// InferCurrency guesses the trading currency from the ticker suffix.
func InferCurrency(symbol string) string {
	if domain.IsCashSymbol(symbol) {
		return CashCurrency(symbol)
	}
	if c, ok := suffixToCurrency[symbolSuffix(symbol)]; ok {
		return c
	}
	return domain.CurrencyUSD
}

// InferCountry guesses the listing country from the ticker suffix.
func InferCountry(symbol string) string {
	if c, ok := suffixToCountry[symbolSuffix(symbol)]; ok {
		return c
	}
	return "United States"
}

// CashCurrency extracts the currency code from a cash symbol like JPY.CASH.
func CashCurrency(symbol string) string {
	i := strings.Index(symbol, ".")
	if i <= 0 {
		return domain.CurrencyJPY
	}
	return strings.ToUpper(symbol[:i])
}
