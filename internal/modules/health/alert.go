package health

import (
	"fmt"

	"github.com/aristath/kabu/internal/domain"
)

// computeAlert applies the decision table combining technical signals with
// the fundamental quality label. Precedence: exit > caution > early_warning.
//
// An exit alert requires technical collapse AND fundamental deterioration.
// A dead cross with good fundamentals is only a caution.
func computeAlert(signals TrendSignals, quality domain.QualityLabel) (domain.AlertLevel, []string) {
	var reasons []string
	level := domain.AlertNone

	// With too little history every technical signal is off; only the
	// fundamental label can still raise an alert.
	belowSMA50 := !signals.AboveSMA50 && signals.Trend != domain.TrendUnknown

	if quality == domain.QualityExcluded {
		// ETF path: no fundamental data, technical signals only.
		if belowSMA50 {
			level = domain.AlertEarly
			reasons = append(reasons, fmt.Sprintf("price %.2f below SMA50 %.2f", signals.Price, signals.SMA50))
		}
		if signals.DeadCross {
			level = domain.AlertCaution
			reasons = append(reasons, "dead cross")
		}
		if signals.RSIDrop {
			if level == domain.AlertNone {
				level = domain.AlertEarly
			}
			reasons = append(reasons, fmt.Sprintf("sharp RSI drop (%.1f)", signals.RSI))
		}
		return level, reasons
	}

	switch {
	case signals.DeadCross && quality == domain.QualityMultiple:
		level = domain.AlertExit
		reasons = append(reasons, "dead cross with multiple indicators deteriorating")

	case signals.DeadCross && signals.Trend == domain.TrendDown:
		if quality == domain.QualityGood {
			level = domain.AlertCaution
			reasons = append(reasons, "dead cross, held at caution by solid fundamentals")
		} else {
			level = domain.AlertExit
			reasons = append(reasons, "trend collapse with fundamental deterioration")
		}

	case signals.Approaching && (quality == domain.QualityOneDown || quality == domain.QualityMultiple):
		level = domain.AlertCaution
		if quality == domain.QualityMultiple {
			reasons = append(reasons, "multiple change indicators deteriorating")
		} else {
			reasons = append(reasons, "one change indicator deteriorating")
		}
		reasons = append(reasons, "SMA50 approaching SMA200")

	case quality == domain.QualityMultiple:
		level = domain.AlertCaution
		reasons = append(reasons, "multiple change indicators deteriorating")

	case belowSMA50:
		level = domain.AlertEarly
		reasons = append(reasons, fmt.Sprintf("price %.2f below SMA50 %.2f", signals.Price, signals.SMA50))

	case signals.RSIDrop:
		level = domain.AlertEarly
		reasons = append(reasons, fmt.Sprintf("sharp RSI drop (%.1f)", signals.RSI))

	case quality == domain.QualityOneDown:
		level = domain.AlertEarly
		reasons = append(reasons, "one change indicator deteriorating")
	}

	return level, reasons
}
