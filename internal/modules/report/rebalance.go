package report

import (
	"fmt"
	"strings"

	"github.com/aristath/kabu/internal/domain"
)

var strategyLabels = map[string]string{
	"defensive":  "ディフェンシブ",
	"balanced":   "バランス",
	"aggressive": "アグレッシブ",
}

var actionLabels = map[domain.ActionKind]string{
	domain.ActionSell:     "売り",
	domain.ActionReduce:   "減らす",
	domain.ActionIncrease: "増やす",
}

var actionEmoji = map[domain.ActionKind]string{
	domain.ActionSell:     "🔴",
	domain.ActionReduce:   "🟡",
	domain.ActionIncrease: "🟢",
}

// Rebalance renders a proposal: before/after metrics, freed cash, the
// numbered action list, and the applied constraints.
func Rebalance(p domain.RebalanceProposal) string {
	var b strings.Builder

	label := strategyLabels[p.Strategy]
	if label == "" {
		label = p.Strategy
	}
	fmt.Fprintf(&b, "## リバランス提案 (%s)\n\n", label)

	b.WriteString("### 現在 → 提案後\n\n")
	b.WriteString("| 指標 | 現在 | 提案後 |\n")
	b.WriteString("|:-----|-----:|------:|\n")
	fmt.Fprintf(&b, "| ベース期待値 | %s | %s |\n", fmtPctSign(p.Before.BaseReturn), fmtPctSign(p.After.BaseReturn))
	fmt.Fprintf(&b, "| セクターHHI | %s | %s |\n", fmtFloat(p.Before.SectorHHI, 4), fmtFloat(p.After.SectorHHI, 4))
	fmt.Fprintf(&b, "| 地域HHI | %s | %s |\n\n", fmtFloat(p.Before.RegionHHI, 4), fmtFloat(p.After.RegionHHI, 4))

	if p.FreedCashJPY > 0 || p.AdditionalCashJPY > 0 {
		b.WriteString("### 資金\n\n")
		if p.FreedCashJPY > 0 {
			fmt.Fprintf(&b, "- **売却・削減による確保資金:** %s円\n", groupDigits(fmt.Sprintf("%.0f", p.FreedCashJPY)))
		}
		if p.AdditionalCashJPY > 0 {
			fmt.Fprintf(&b, "- **追加投入資金:** %s円\n", groupDigits(fmt.Sprintf("%.0f", p.AdditionalCashJPY)))
		}
		fmt.Fprintf(&b, "- **合計利用可能資金:** %s円\n\n", groupDigits(fmt.Sprintf("%.0f", p.FreedCashJPY+p.AdditionalCashJPY)))
	}

	b.WriteString("### アクション\n\n")
	if len(p.Actions) == 0 {
		b.WriteString("現在のポートフォリオは制約範囲内です。リバランス不要。\n\n")
		return b.String()
	}

	for i, a := range p.Actions {
		name := ""
		if a.Name != "" {
			name = " " + a.Name
		}
		switch a.Kind {
		case domain.ActionSell:
			fmt.Fprintf(&b, "%d. %s **%s**: %s%s 全株 → %s\n", i+1, actionEmoji[a.Kind], actionLabels[a.Kind], a.Symbol, name, a.Reason)
			if a.ValueJPY > 0 {
				fmt.Fprintf(&b, "   確保資金: %s円\n", groupDigits(fmt.Sprintf("%.0f", a.ValueJPY)))
			}
		case domain.ActionReduce:
			fmt.Fprintf(&b, "%d. %s **%s**: %s%s %.0f%%削減 → %s\n", i+1, actionEmoji[a.Kind], actionLabels[a.Kind], a.Symbol, name, a.Ratio*100, a.Reason)
			if a.ValueJPY > 0 {
				fmt.Fprintf(&b, "   確保資金: %s円\n", groupDigits(fmt.Sprintf("%.0f", a.ValueJPY*a.Ratio)))
			}
		case domain.ActionIncrease:
			fmt.Fprintf(&b, "%d. %s **%s**: %s%s +%s円 → %s\n", i+1, actionEmoji[a.Kind], actionLabels[a.Kind], a.Symbol, name, groupDigits(fmt.Sprintf("%.0f", a.AmountJPY)), a.Reason)
		}
		b.WriteString("\n")
	}

	b.WriteString("### 適用制約\n\n")
	fmt.Fprintf(&b, "- 1銘柄上限: %.0f%%\n", p.Constraints.MaxSingleRatio*100)
	fmt.Fprintf(&b, "- セクターHHI上限: %.2f\n", p.Constraints.MaxSectorHHI)
	fmt.Fprintf(&b, "- 地域HHI上限: %.2f\n", p.Constraints.MaxRegionHHI)
	fmt.Fprintf(&b, "- 相関ペア合計上限: %.0f%%\n\n", p.Constraints.MaxCorrPairRatio*100)

	return b.String()
}
