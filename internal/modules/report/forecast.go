package report

import (
	"fmt"
	"strings"

	"github.com/aristath/kabu/internal/domain"
)

// Forecast renders the 12-month expected-return estimate. Sentiments is
// keyed by symbol and may be nil when the research provider is disabled.
func Forecast(f domain.PortfolioForecast, sentiments map[string]*domain.Sentiment) string {
	var b strings.Builder

	b.WriteString("## 推定利回り（12ヶ月）\n\n")
	if len(f.Entries) == 0 {
		b.WriteString("保有銘柄がありません。\n")
		return b.String()
	}

	b.WriteString("| シナリオ | 利回り | 損益額 |\n")
	b.WriteString("|:---------|------:|------:|\n")
	writeScenarioRow(&b, "楽観", f.Optimistic, f.TotalJPY)
	writeScenarioRow(&b, "ベース", f.Base, f.TotalJPY)
	writeScenarioRow(&b, "悲観", f.Pessimistic, f.TotalJPY)
	fmt.Fprintf(&b, "\n総評価額: %s\n\n", fmtJPY(f.TotalJPY))

	for _, e := range f.Entries {
		fmt.Fprintf(&b, "### %s 期待リターン: %s（ベース）\n\n", e.Symbol, fmtPctSign(e.Base))

		switch e.Method {
		case domain.MethodNoData:
			b.WriteString("【定量】データ取得失敗\n")
			b.WriteString("  → 悲観 - / ベース - / 楽観 -\n")
		case domain.MethodCash:
			b.WriteString("【定量】現金（リターンなし）\n")
		case domain.MethodAnalyst:
			target := "-"
			if e.TargetMean != nil {
				target = fmtCurrency(*e.TargetMean, e.Currency)
			}
			count := "-"
			if e.AnalystCount > 0 {
				count = fmt.Sprintf("%d名", e.AnalystCount)
			}
			suffix := ""
			if e.AnalystCount < 5 {
				suffix = " ※参考値"
			}
			fmt.Fprintf(&b, "【定量】アナリスト目標 %s（%s）%s\n", target, count, suffix)
		default:
			b.WriteString("【定量】過去リターン分布\n")
		}

		if e.Method != domain.MethodNoData && e.Method != domain.MethodCash {
			if s := sentiments[e.Symbol]; s != nil && (len(s.Positive) > 0 || len(s.Negative) > 0) {
				b.WriteString("【X センチメント】\n")
				for _, factor := range capList(s.Positive, 3) {
					fmt.Fprintf(&b, "  ▲ %s\n", factor)
				}
				for _, factor := range capList(s.Negative, 3) {
					fmt.Fprintf(&b, "  ▼ %s\n", factor)
				}
			}
			if e.Optimistic != nil && e.Base != nil && e.Pessimistic != nil {
				fmt.Fprintf(&b, "  → 悲観 %s / ベース %s / 楽観 %s\n",
					fmtPctSign(e.Pessimistic), fmtPctSign(e.Base), fmtPctSign(e.Optimistic))
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeScenarioRow(b *strings.Builder, label string, ret *float64, total float64) {
	if ret == nil {
		fmt.Fprintf(b, "| %s | - | - |\n", label)
		return
	}
	fmt.Fprintf(b, "| %s | %s | %s |\n", label, fmtPctSign(ret), fmtJPY(*ret*total))
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
