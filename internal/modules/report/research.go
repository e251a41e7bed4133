package report

import (
	"fmt"
	"strings"

	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/internal/modules/scoring"
)

var longTermLabels = map[scoring.LongTermLabel]string{
	scoring.LongTermSuitable: "長期保有向き",
	scoring.LongTermShort:    "短期向き",
	scoring.LongTermReview:   "要見直し",
	scoring.LongTermExcluded: "対象外",
}

// Score renders the full scoring view for one symbol: value score
// components, change score indicators, and long-term suitability.
func Score(symbol string, quote *domain.Quote, value scoring.ValueScore, change scoring.ChangeScore, longTerm scoring.LongTermResult) string {
	var b strings.Builder

	title := symbol
	if quote != nil && quote.Name != "" {
		title = fmt.Sprintf("%s (%s)", quote.Name, symbol)
	}
	fmt.Fprintf(&b, "# %s スコア\n\n", title)

	b.WriteString("## 割安スコア\n\n")
	fmt.Fprintf(&b, "**合計: %.0f/100**\n\n", value.Total)
	b.WriteString("| 指標 | スコア | 満点 |\n")
	b.WriteString("|:-----|-----:|-----:|\n")
	fmt.Fprintf(&b, "| PER | %.0f | 25 |\n", value.PER)
	fmt.Fprintf(&b, "| PBR | %.0f | 25 |\n", value.PBR)
	fmt.Fprintf(&b, "| 配当利回り | %.0f | 20 |\n", value.Dividend)
	fmt.Fprintf(&b, "| ROE | %.0f | 15 |\n", value.ROE)
	fmt.Fprintf(&b, "| 増収率 | %.0f | 15 |\n\n", value.Growth)

	b.WriteString("## 変化スコア\n\n")
	fmt.Fprintf(&b, "**合計: %.0f/100**（合格指標 %d/4）\n\n", change.Total, change.PassedCount)
	b.WriteString("| 指標 | スコア | 実測値 |\n")
	b.WriteString("|:-----|-----:|-------:|\n")
	writeIndicatorRow(&b, "アクルーアル", change.Accruals)
	writeIndicatorRow(&b, "増収加速", change.RevenueAcceleration)
	writeIndicatorRow(&b, "FCF利回り", change.FCFYield)
	writeIndicatorRow(&b, "ROEトレンド", change.ROETrend)
	if change.EarningsPenalty > 0 {
		fmt.Fprintf(&b, "\n減益ペナルティ: -%.0f\n", change.EarningsPenalty)
	}
	b.WriteString("\n")

	b.WriteString("## 長期保有適性\n\n")
	fmt.Fprintf(&b, "**判定: %s**\n\n", longTermLabels[longTerm.Label])
	fmt.Fprintf(&b, "- ROE: %s\n", longTerm.ROEStatus)
	fmt.Fprintf(&b, "- EPS成長: %s\n", longTerm.EPSGrowthStatus)
	fmt.Fprintf(&b, "- 配当: %s\n", longTerm.DividendStatus)
	fmt.Fprintf(&b, "- PERリスク: %s\n\n", longTerm.PERRisk)

	return b.String()
}

func writeIndicatorRow(b *strings.Builder, label string, ind scoring.Indicator) {
	raw := "-"
	if ind.Raw != nil {
		raw = fmtFloat(*ind.Raw, 4)
	}
	fmt.Fprintf(b, "| %s | %.0f | %s |\n", label, ind.Score, raw)
}

func sentimentLabel(score float64) string {
	switch {
	case score >= 0.3:
		return "ポジティブ"
	case score <= -0.3:
		return "ネガティブ"
	default:
		return "中立"
	}
}

// Research renders the deep-dive view for one symbol: basic info,
// valuation, and the optional sentiment analysis.
func Research(symbol string, quote *domain.Quote, detail *domain.Detail, value scoring.ValueScore, sentiment *domain.Sentiment) string {
	var b strings.Builder

	title := symbol
	if quote != nil && quote.Name != "" {
		title = fmt.Sprintf("%s (%s)", quote.Name, symbol)
	}
	fmt.Fprintf(&b, "# %s 深掘りリサーチ\n\n", title)

	b.WriteString("## 基本情報\n")
	b.WriteString("| 項目 | 値 |\n")
	b.WriteString("|:-----|:---|\n")
	sector, price := "-", "-"
	if quote != nil {
		if quote.Sector != "" {
			sector = quote.Sector
		}
		if quote.Price != nil {
			price = fmtFloat(*quote.Price, 0)
		}
	}
	fmt.Fprintf(&b, "| セクター | %s |\n", sector)
	fmt.Fprintf(&b, "| 株価 | %s |\n", price)
	fmt.Fprintf(&b, "| 時価総額 | %s |\n\n", fmtMarketCap(detail))

	b.WriteString("## バリュエーション\n")
	b.WriteString("| 指標 | 値 |\n")
	b.WriteString("|:-----|---:|\n")
	if quote != nil {
		fmt.Fprintf(&b, "| PER | %s |\n", fmtOptFloat(quote.PER, 2))
		fmt.Fprintf(&b, "| PBR | %s |\n", fmtOptFloat(quote.PBR, 2))
		fmt.Fprintf(&b, "| 配当利回り | %s |\n", fmtPct(quote.DividendYield))
		fmt.Fprintf(&b, "| ROE | %s |\n", fmtPct(quote.ROE))
	} else {
		b.WriteString("| PER | - |\n| PBR | - |\n| 配当利回り | - |\n| ROE | - |\n")
	}
	fmt.Fprintf(&b, "| 割安スコア | %.0f/100 |\n\n", value.Total)

	b.WriteString("## センチメント\n")
	if sentiment != nil && (len(sentiment.Positive) > 0 || len(sentiment.Negative) > 0 || sentiment.Summary != "") {
		fmt.Fprintf(&b, "**判定: %s** (スコア: %s)\n\n", sentimentLabel(sentiment.Score), fmtFloat(sentiment.Score, 2))
		if len(sentiment.Positive) > 0 {
			b.WriteString("### ポジティブ要因\n")
			for _, p := range sentiment.Positive {
				fmt.Fprintf(&b, "- %s\n", p)
			}
			b.WriteString("\n")
		}
		if len(sentiment.Negative) > 0 {
			b.WriteString("### ネガティブ要因\n")
			for _, n := range sentiment.Negative {
				fmt.Fprintf(&b, "- %s\n", n)
			}
			b.WriteString("\n")
		}
		if sentiment.Summary != "" {
			fmt.Fprintf(&b, "%s\n\n", sentiment.Summary)
		}
	} else {
		b.WriteString("*GEMINI_API_KEY が未設定のため、センチメント分析は利用できません。*\n\n")
	}

	return b.String()
}

func fmtOptFloat(v *float64, decimals int) string {
	if v == nil {
		return "-"
	}
	return fmtFloat(*v, decimals)
}

func fmtMarketCap(detail *domain.Detail) string {
	if detail == nil || detail.MarketCap == nil {
		return "-"
	}
	mc := *detail.MarketCap
	switch {
	case mc >= 1e12:
		return fmtFloat(mc/1e12, 2) + "T"
	case mc >= 1e9:
		return fmtFloat(mc/1e9, 2) + "B"
	case mc >= 1e6:
		return fmtFloat(mc/1e6, 2) + "M"
	default:
		return fmtFloat(mc, 0)
	}
}
