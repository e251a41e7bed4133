package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/aristath/kabu/internal/domain"
)

// Snapshot renders the valued portfolio as a markdown table with totals.
func Snapshot(snap domain.Snapshot, at time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## ポートフォリオ スナップショット (%s)\n\n", at.Format("2006/01/02 15:04"))

	if len(snap.Holdings) == 0 {
		b.WriteString("保有銘柄がありません。\n")
		return b.String()
	}

	b.WriteString("| 銘柄 | メモ | 株数 | 取得単価 | 現在価格 | 評価額 | 損益 | 損益率 |\n")
	b.WriteString("|:-----|:-----|-----:|-------:|-------:|------:|-----:|-----:|\n")

	for _, h := range snap.Holdings {
		indicator := pnlIndicator(h.GainJPY)
		gain := fmtJPY(h.GainJPY)
		gainPct := fmtPct(ptr(h.GainPct))
		if indicator != "" {
			gain = indicator + " " + gain
			gainPct = indicator + " " + gainPct
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			h.Symbol, h.Memo, groupDigits(fmt.Sprintf("%d", h.Shares)),
			fmtCurrency(h.CostPrice, h.CostCurrency),
			fmtCurrency(h.CurrentPrice, h.MarketCurrency),
			fmtJPY(h.ValueJPY), gain, gainPct)
	}

	b.WriteString("\n### サマリー\n")
	fmt.Fprintf(&b, "- 総評価額（円）: %s\n", fmtJPY(snap.TotalJPY))
	fmt.Fprintf(&b, "- 総投資額（円）: %s\n", fmtJPY(snap.TotalCostJPY))

	totalPct := 0.0
	if snap.TotalCostJPY > 0 {
		totalPct = snap.TotalGainJPY / snap.TotalCostJPY
	}
	indicator := pnlIndicator(snap.TotalGainJPY)
	if indicator != "" {
		fmt.Fprintf(&b, "- 総損益（円）: %s %s (%s)\n", indicator, fmtJPY(snap.TotalGainJPY), fmtPctSign(ptr(totalPct)))
	} else {
		fmt.Fprintf(&b, "- 総損益（円）: %s (%s)\n", fmtJPY(snap.TotalGainJPY), fmtPctSign(ptr(totalPct)))
	}
	b.WriteString("\n")

	return b.String()
}

// PositionList renders the raw CSV holdings without market data.
func PositionList(positions []domain.Position) string {
	var b strings.Builder

	b.WriteString("## 保有銘柄一覧\n\n")
	if len(positions) == 0 {
		b.WriteString("保有銘柄がありません。\n")
		return b.String()
	}

	b.WriteString("| 銘柄 | 株数 | 取得単価 | 通貨 | 取得日 | メモ |\n")
	b.WriteString("|:-----|-----:|-------:|:-----|:---------|:-----|\n")

	for _, p := range positions {
		date := p.PurchaseDate
		if date == "" {
			date = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			p.Symbol, groupDigits(fmt.Sprintf("%d", p.Shares)),
			fmtCurrency(p.CostPrice, p.CostCurrency), p.CostCurrency, date, p.Memo)
	}
	b.WriteString("\n")

	return b.String()
}

// TradeResult confirms a buy or sell with the updated holding state.
// For a full sell the position has zero shares.
func TradeResult(action string, traded int, pos domain.Position) string {
	var b strings.Builder

	label := action
	switch strings.ToLower(action) {
	case "buy":
		label = "購入"
	case "sell":
		label = "売却"
	}

	b.WriteString("## 売買記録\n\n")
	fmt.Fprintf(&b, "- アクション: **%s**\n", label)
	fmt.Fprintf(&b, "- 銘柄: %s\n", pos.Symbol)
	if pos.Memo != "" {
		fmt.Fprintf(&b, "- メモ: %s\n", pos.Memo)
	}
	fmt.Fprintf(&b, "- 株数: %s\n", groupDigits(fmt.Sprintf("%d", traded)))
	fmt.Fprintf(&b, "- 単価: %s\n", fmtCurrency(pos.CostPrice, pos.CostCurrency))
	fmt.Fprintf(&b, "- 更新後の保有: %s株 (平均取得単価: %s)\n",
		groupDigits(fmt.Sprintf("%d", pos.Shares)), fmtCurrency(pos.CostPrice, pos.CostCurrency))
	b.WriteString("\n")

	return b.String()
}
