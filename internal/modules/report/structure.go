package report

import (
	"fmt"
	"strings"

	"github.com/aristath/kabu/internal/domain"
)

// Structure renders the concentration analysis with per-axis breakdowns
// and the overall risk judgment.
func Structure(result domain.ConcentrationResult) string {
	var b strings.Builder

	b.WriteString("## ポートフォリオ構造分析\n\n")

	writeBreakdown(&b, "地域別配分", "地域", result.Region)
	writeBreakdown(&b, "セクター別配分", "セクター", result.Sector)
	writeBreakdown(&b, "通貨別配分", "通貨", result.Currency)

	b.WriteString("### 総合判定\n")
	fmt.Fprintf(&b, "- 集中度倍率: x%s\n", fmtFloat(result.Multiplier, 2))
	fmt.Fprintf(&b, "- リスクレベル: **%s**\n", result.RiskLevel)
	fmt.Fprintf(&b, "- 最大集中軸: %s (HHI: %s)\n", maxAxisLabel(result), fmtFloat(result.MaxHHI, 4))
	b.WriteString("\n")

	return b.String()
}

func writeBreakdown(b *strings.Builder, title, column string, breakdown domain.ConcentrationBreakdown) {
	fmt.Fprintf(b, "### %s\n\n", title)
	fmt.Fprintf(b, "| %s | 比率 | バー |\n", column)
	b.WriteString("|:-----|-----:|:-----|\n")
	for _, label := range sortedByWeight(breakdown.Weights) {
		w := breakdown.Weights[label]
		fmt.Fprintf(b, "| %s | %s | %s |\n", label, fmtPct(ptr(w)), weightBar(w))
	}
	fmt.Fprintf(b, "\nHHI: %s %s (%s)\n\n", fmtFloat(breakdown.HHI, 4), hhiBar(breakdown.HHI), classifyHHI(breakdown.HHI))
}

func maxAxisLabel(result domain.ConcentrationResult) string {
	switch result.MaxHHI {
	case result.Sector.HHI:
		return "セクター"
	case result.Region.HHI:
		return "地域"
	default:
		return "通貨"
	}
}
