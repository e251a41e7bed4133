package report

import (
	"fmt"
	"strings"

	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/internal/modules/health"
)

var trendLabels = map[domain.Trend]string{
	domain.TrendUp:      "上昇",
	domain.TrendFlat:    "横ばい",
	domain.TrendDown:    "下降",
	domain.TrendUnknown: "不明",
}

var qualityLabels = map[domain.QualityLabel]string{
	domain.QualityGood:     "良好",
	domain.QualityOneDown:  "一部悪化",
	domain.QualityMultiple: "複数悪化",
	domain.QualityExcluded: "対象外",
	domain.QualityUnscored: "未評価",
}

var alertEmoji = map[domain.AlertLevel]string{
	domain.AlertEarly:   "⚡",
	domain.AlertCaution: "⚠️",
	domain.AlertExit:    "🚨",
}

var alertLabels = map[domain.AlertLevel]string{
	domain.AlertNone:    "なし",
	domain.AlertEarly:   "早期警告",
	domain.AlertCaution: "注意",
	domain.AlertExit:    "撤退",
}

// Health renders the health check summary table followed by per-alert
// detail sections. The snapshot supplies per-symbol P&L for context; a
// zero-value snapshot omits it.
func Health(rep health.Report, snap domain.Snapshot) string {
	var b strings.Builder

	b.WriteString("## 保有銘柄ヘルスチェック\n\n")
	if len(rep.Results) == 0 {
		b.WriteString("保有銘柄がありません。\n")
		return b.String()
	}

	gains := make(map[string]float64, len(snap.Holdings))
	for _, h := range snap.Holdings {
		gains[h.Symbol] = h.GainPct
	}

	b.WriteString("| 銘柄 | 損益 | トレンド | 変化の質 | アラート |\n")
	b.WriteString("|:-----|-----:|:-------|:--------|:------------|\n")

	for _, e := range rep.Results {
		pnl := "-"
		if g, ok := gains[e.Symbol]; ok {
			pnl = fmtPctSign(ptr(g))
		}
		alert := alertLabels[e.AlertLevel]
		if emoji := alertEmoji[e.AlertLevel]; emoji != "" {
			alert = emoji + " " + alert
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			e.Symbol, pnl, trendLabels[e.Trend], qualityLabels[e.QualityLabel], alert)
	}

	fmt.Fprintf(&b, "\n**%d銘柄**: 健全 %d / ⚡早期警告 %d / ⚠注意 %d / 🚨撤退 %d\n\n",
		rep.Summary.Total, rep.Summary.Healthy, rep.Summary.Early, rep.Summary.Caution, rep.Summary.Exit)

	if len(rep.Alerts) == 0 {
		return b.String()
	}

	b.WriteString("## アラート詳細\n\n")
	for _, e := range rep.Alerts {
		fmt.Fprintf(&b, "### %s %s（%s）\n\n", alertEmoji[e.AlertLevel], e.Symbol, alertLabels[e.AlertLevel])
		for _, reason := range e.Reasons {
			fmt.Fprintf(&b, "- %s\n", reason)
		}
		fmt.Fprintf(&b, "- トレンド: %s（SMA50=%s, SMA200=%s, RSI=%s）\n",
			trendLabels[e.Trend], fmtFloat(e.Signals.SMA50, 2), fmtFloat(e.Signals.SMA200, 2), fmtFloat(e.Signals.RSI, 2))
		fmt.Fprintf(&b, "- 変化の質: %s（合格指標 %d/4）\n", qualityLabels[e.QualityLabel], e.PassedCount)

		switch e.AlertLevel {
		case domain.AlertEarly:
			b.WriteString("→ 一時的な調整の可能性。ウォッチ強化\n")
		case domain.AlertCaution:
			b.WriteString("→ ポジション縮小を検討\n")
		case domain.AlertExit:
			b.WriteString("→ 投資仮説が崩壊。exitを検討\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}
