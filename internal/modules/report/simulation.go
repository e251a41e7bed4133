package report

import (
	"fmt"
	"strings"

	"github.com/aristath/kabu/internal/modules/simulation"
)

// Simulation renders the multi-year compound projection: the base scenario
// year table, a final-year scenario comparison, target analysis when a
// target was set, and the dividend reinvestment effect.
func Simulation(r simulation.Result, ok bool) string {
	var b strings.Builder

	if !ok {
		b.WriteString("## 複利シミュレーション\n\n")
		b.WriteString("推定リターンが取得できませんでした。先に forecast を実行してください。\n")
		return b.String()
	}

	addLabel := "積立なし"
	if r.MonthlyAdd > 0 {
		addLabel = fmt.Sprintf("月%s円積立", groupDigits(fmt.Sprintf("%.0f", r.MonthlyAdd)))
	}
	fmt.Fprintf(&b, "## %d年シミュレーション（%s）\n\n", r.Years, addLabel)

	if len(r.Base) > 0 {
		fmt.Fprintf(&b, "### ベースシナリオ（年利 %+.2f%%）\n\n", r.BaseReturn*100)
		b.WriteString("| 年 | 評価額 | 累計投入 | 運用益 | 配当累計 |\n")
		b.WriteString("|----|--------|----------|--------|----------|\n")
		for _, snap := range r.Base {
			if snap.Year == 0 {
				fmt.Fprintf(&b, "| %d | %s | %s | - | - |\n", snap.Year, fmtK(snap.Value), fmtK(snap.CumulativeInput))
				continue
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
				snap.Year, fmtK(snap.Value), fmtK(snap.CumulativeInput), fmtK(snap.CapitalGain), fmtK(snap.CumulativeDividends))
		}
		b.WriteString("\n")
	}

	b.WriteString("### シナリオ比較（最終年）\n\n")
	b.WriteString("| シナリオ | 最終評価額 | 運用益 |\n")
	b.WriteString("|:---------|----------:|-------:|\n")
	writeFinalRow(&b, "楽観", r.Optimistic)
	writeFinalRow(&b, "ベース", r.Base)
	writeFinalRow(&b, "悲観", r.Pessimistic)
	b.WriteString("\n")

	if r.Target != nil {
		b.WriteString("### 目標達成分析\n\n")
		fmt.Fprintf(&b, "- 目標額: %s\n", fmtK(*r.Target))
		writeTargetLine(&b, "ベースシナリオ", r.TargetYearBase, len(r.Base) > 0, true)
		writeTargetLine(&b, "楽観シナリオ", r.TargetYearOptimistic, len(r.Optimistic) > 0, false)
		writeTargetLine(&b, "悲観シナリオ", r.TargetYearPessimistic, len(r.Pessimistic) > 0, false)

		if r.RequiredMonthly != nil && *r.RequiredMonthly > 0 {
			fmt.Fprintf(&b, "\n- 目標達成に必要な月額積立: ¥%s\n", groupDigits(fmt.Sprintf("%.0f", *r.RequiredMonthly)))
		}
		b.WriteString("\n")
	}

	b.WriteString("### 配当再投資の効果\n\n")
	if !r.ReinvestDividends {
		b.WriteString("- 配当再投資: OFF\n")
	} else {
		fmt.Fprintf(&b, "- 配当再投資による複利効果: +%s\n", fmtK(r.DividendEffect))
		fmt.Fprintf(&b, "- 配当なし比: +%.1f%%\n", r.DividendEffectPct*100)
	}
	b.WriteString("\n")

	return b.String()
}

func writeFinalRow(b *strings.Builder, label string, snaps []simulation.YearlySnapshot) {
	if len(snaps) == 0 {
		return
	}
	last := snaps[len(snaps)-1]
	fmt.Fprintf(b, "| %s | %s | %s |\n", label, fmtK(last.Value), fmtK(last.CapitalGain))
}

func writeTargetLine(b *strings.Builder, label string, year *float64, hasScenario, bold bool) {
	if year != nil {
		if bold {
			fmt.Fprintf(b, "- %s: **%.1f年で達成見込み**\n", label, *year)
		} else {
			fmt.Fprintf(b, "- %s: %.1f年で達成見込み\n", label, *year)
		}
		return
	}
	if hasScenario {
		fmt.Fprintf(b, "- %s: 期間内未達\n", label)
	}
}
