// Package report renders every toolkit output as markdown. Formatters are
// pure functions over the domain types so they stay trivial to test; the
// CLI decides whether the markdown goes through a terminal renderer or
// straight to stdout.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

func fmtPct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", *v*100)
}

func fmtPctSign(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", *v*100)
}

func fmtFloat(v float64, decimals int) string {
	return fmt.Sprintf("%.*f", decimals, v)
}

// fmtJPY renders whole yen with comma separators, sign before the symbol.
func fmtJPY(v float64) string {
	if v < 0 {
		return "-¥" + groupDigits(fmt.Sprintf("%.0f", math.Abs(v)))
	}
	return "¥" + groupDigits(fmt.Sprintf("%.0f", v))
}

func fmtUSD(v float64) string {
	whole := fmt.Sprintf("%.2f", math.Abs(v))
	intPart, frac, _ := strings.Cut(whole, ".")
	s := "$" + groupDigits(intPart) + "." + frac
	if v < 0 {
		return "-" + s
	}
	return s
}

func fmtCurrency(v float64, currency string) string {
	switch strings.ToUpper(currency) {
	case "", "JPY":
		return fmtJPY(v)
	case "USD":
		return fmtUSD(v)
	default:
		whole := fmt.Sprintf("%.2f", v)
		intPart, frac, _ := strings.Cut(whole, ".")
		return groupDigits(intPart) + "." + frac + " " + strings.ToUpper(currency)
	}
}

// fmtK renders yen in thousands, e.g. 10000000 -> ¥10,000K.
func fmtK(v float64) string {
	k := v / 1000
	if k < 0 {
		return "-¥" + groupDigits(fmt.Sprintf("%.0f", math.Abs(k))) + "K"
	}
	return "¥" + groupDigits(fmt.Sprintf("%.0f", k)) + "K"
}

// groupDigits inserts thousands separators into a plain digit string.
// A leading minus sign is preserved.
func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// pnlIndicator returns the gain/loss triangle for a signed amount.
func pnlIndicator(v float64) string {
	switch {
	case v > 0:
		return "▲"
	case v < 0:
		return "▼"
	default:
		return ""
	}
}

// hhiBar renders a ten-segment text gauge for an HHI value.
func hhiBar(hhi float64) string {
	const width = 10
	filled := int(math.Round(hhi * width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func classifyHHI(hhi float64) string {
	switch {
	case hhi < 0.25:
		return "分散"
	case hhi < 0.50:
		return "やや集中"
	default:
		return "危険な集中"
	}
}

// sortedByWeight returns category labels ordered by descending weight,
// ties broken by label so the output is deterministic.
func sortedByWeight(weights map[string]float64) []string {
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if weights[keys[i]] != weights[keys[j]] {
			return weights[keys[i]] > weights[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func weightBar(weight float64) string {
	n := int(math.Round(weight * 20))
	if n < 0 {
		n = 0
	}
	return strings.Repeat("█", n)
}

func ptr(v float64) *float64 { return &v }
