// Package rebalance generates risk-constrained rebalancing proposals from
// the forecast, health, concentration, and correlation outputs.
//
// The algorithm is a greedy heuristic in four strictly ordered passes
// (sell, reduce, cash accounting, increase). Each pass fixes its symbols
// before the next one runs; there is no backtracking and no joint
// re-optimization.
package rebalance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/internal/modules/concentration"
)

const (
	prioritySellAlert     = 1
	prioritySellReturn    = 2
	priorityReduceWeight  = 3
	priorityReduceCorr    = 4
	priorityReduceRequest = 5
	priorityIncrease      = 6
)

// maxCorrReduceRatio keeps a single correlation rule from liquidating more
// than half a position.
const maxCorrReduceRatio = 0.5

// maxAllocShare caps one increase action at 30% of the originally available
// cash so no single candidate absorbs the whole budget.
const maxAllocShare = 0.30

// Input carries everything a proposal run consumes. Health, Concentration,
// and Pairs are optional; absent inputs simply disable the rules that
// depend on them.
type Input struct {
	Forecast      domain.PortfolioForecast
	Health        []domain.HealthResult
	Concentration *domain.ConcentrationResult
	Pairs         []domain.CorrelatedPair

	Strategy         string
	Overrides        domain.Constraints
	ReduceSector     string
	ReduceCurrency   string
	AdditionalCash   float64
	MinDividendYield *float64
}

// Engine holds the tunable thresholds. Strategy presets and per-call
// overrides handle the constraint set; these cover the fixed cut sizes.
type Engine struct {
	sellThreshold float64
	directiveCut  float64
	minTicketJPY  float64
	log           zerolog.Logger
}

func NewEngine(sellThreshold, directiveCut, minTicketJPY float64, log zerolog.Logger) *Engine {
	return &Engine{
		sellThreshold: sellThreshold,
		directiveCut:  directiveCut,
		minTicketJPY:  minTicketJPY,
		log:           log.With().Str("module", "rebalance").Logger(),
	}
}

// Propose runs the four passes and assembles the proposal. The caller is
// expected to skip invocation entirely for an empty or zero-value
// portfolio.
func (e *Engine) Propose(in Input) domain.RebalanceProposal {
	constraints := domain.ResolveConstraints(in.Strategy, in.Overrides)

	entries := in.Forecast.Entries
	total := in.Forecast.TotalJPY
	weights := weightMap(entries, total)

	before := e.beforeMetrics(in, weights)

	sells := e.sellPass(entries, in.Health)
	sold := symbolSet(sells)

	reduces := e.reducePass(entries, weights, constraints, in, sold)
	reduced := symbolSet(reduces)

	var freed float64
	for _, a := range sells {
		freed += a.ValueJPY
	}
	for _, a := range reduces {
		freed += a.AmountJPY
	}

	increases := e.increasePass(entries, total, freed, constraints, in, sold, reduced)

	actions := make([]domain.RebalanceAction, 0, len(sells)+len(reduces)+len(increases))
	actions = append(actions, sells...)
	actions = append(actions, reduces...)
	actions = append(actions, increases...)
	sort.SliceStable(actions, func(i, j int) bool { return actions[i].Priority < actions[j].Priority })

	after := e.afterMetrics(in, weights, before, sells, reduces, increases)

	return domain.RebalanceProposal{
		Strategy:          in.Strategy,
		Actions:           actions,
		Before:            before,
		After:             after,
		FreedCashJPY:      freed,
		AdditionalCashJPY: in.AdditionalCash,
		Constraints:       constraints,
	}
}

// sellPass marks full exits: exit-level health alerts first, then deeply
// negative base expectations. A symbol is sold at most once and cash is
// never sold.
func (e *Engine) sellPass(entries []domain.ForecastEntry, health []domain.HealthResult) []domain.RebalanceAction {
	alerts := make(map[string]domain.HealthResult, len(health))
	for _, h := range health {
		alerts[h.Symbol] = h
	}

	var actions []domain.RebalanceAction
	for _, entry := range entries {
		if domain.IsCashSymbol(entry.Symbol) {
			continue
		}

		if alert, ok := alerts[entry.Symbol]; ok && alert.AlertLevel == domain.AlertExit {
			reason := "exit signal"
			if len(alert.Reasons) > 0 {
				reason = strings.Join(alert.Reasons, ", ")
			}
			actions = append(actions, domain.RebalanceAction{
				Kind:     domain.ActionSell,
				Symbol:   entry.Symbol,
				Name:     entry.Name,
				Ratio:    1.0,
				Reason:   "health check exit: " + reason,
				Priority: prioritySellAlert,
				ValueJPY: entry.ValueJPY,
			})
			continue
		}

		if entry.Base != nil && *entry.Base < e.sellThreshold {
			actions = append(actions, domain.RebalanceAction{
				Kind:     domain.ActionSell,
				Symbol:   entry.Symbol,
				Name:     entry.Name,
				Ratio:    1.0,
				Reason:   fmt.Sprintf("base expected return %.1f%% (deeply negative)", *entry.Base*100),
				Priority: prioritySellReturn,
				ValueJPY: entry.ValueJPY,
			})
		}
	}
	return actions
}

// reducePass trims overweight and over-concentrated positions. Four rules
// run in order; the first rule to touch a symbol wins.
func (e *Engine) reducePass(
	entries []domain.ForecastEntry,
	weights map[string]float64,
	constraints domain.Constraints,
	in Input,
	sold map[string]bool,
) []domain.RebalanceAction {
	var actions []domain.RebalanceAction
	if in.Forecast.TotalJPY <= 0 {
		return actions
	}

	touched := map[string]bool{}
	skip := func(symbol string) bool {
		return sold[symbol] || touched[symbol] || domain.IsCashSymbol(symbol)
	}

	// Rule 1: single position over the cap, reduced to exactly the cap.
	for _, entry := range entries {
		if skip(entry.Symbol) {
			continue
		}
		w := weights[entry.Symbol]
		if w <= constraints.MaxSingleRatio {
			continue
		}
		ratio := 1 - constraints.MaxSingleRatio/w
		actions = append(actions, domain.RebalanceAction{
			Kind:   domain.ActionReduce,
			Symbol: entry.Symbol,
			Name:   entry.Name,
			Ratio:  ratio,
			Reason: fmt.Sprintf("weight %.1f%% -> %.1f%% (cap %.0f%%)",
				w*100, constraints.MaxSingleRatio*100, constraints.MaxSingleRatio*100),
			Priority:  priorityReduceWeight,
			ValueJPY:  entry.ValueJPY,
			AmountJPY: entry.ValueJPY * ratio,
		})
		touched[entry.Symbol] = true
	}

	// Rule 2: high-correlation pair over the combined cap. The member with
	// the lower expected return gives way.
	byCorr := make(map[string]domain.ForecastEntry, len(entries))
	for _, entry := range entries {
		byCorr[entry.Symbol] = entry
	}
	for _, pair := range in.Pairs {
		if sold[pair.SymbolA] || sold[pair.SymbolB] {
			continue
		}
		combined := weights[pair.SymbolA] + weights[pair.SymbolB]
		if combined <= constraints.MaxCorrPairRatio {
			continue
		}

		target := pair.SymbolA
		if baseOrZero(byCorr[pair.SymbolA]) > baseOrZero(byCorr[pair.SymbolB]) {
			target = pair.SymbolB
		}
		if touched[target] || domain.IsCashSymbol(target) {
			continue
		}
		w := weights[target]
		if w <= 0 {
			continue
		}
		ratio := (combined - constraints.MaxCorrPairRatio) / w
		if ratio > maxCorrReduceRatio {
			ratio = maxCorrReduceRatio
		}
		entry := byCorr[target]
		actions = append(actions, domain.RebalanceAction{
			Kind:   domain.ActionReduce,
			Symbol: target,
			Name:   entry.Name,
			Ratio:  ratio,
			Reason: fmt.Sprintf("correlation concentration (%s/%s r=%.2f, combined %.0f%% > %.0f%%)",
				pair.SymbolA, pair.SymbolB, pair.Correlation, combined*100, constraints.MaxCorrPairRatio*100),
			Priority:  priorityReduceCorr,
			ValueJPY:  entry.ValueJPY,
			AmountJPY: entry.ValueJPY * ratio,
		})
		touched[target] = true
	}

	// Rules 3 and 4: user-directed sector and currency cuts.
	if in.ReduceSector != "" {
		for _, entry := range entries {
			if skip(entry.Symbol) || !strings.EqualFold(entry.Sector, in.ReduceSector) {
				continue
			}
			actions = append(actions, e.directiveCutAction(entry, fmt.Sprintf("sector reduction requested (%s)", in.ReduceSector)))
			touched[entry.Symbol] = true
		}
	}
	if in.ReduceCurrency != "" {
		for _, entry := range entries {
			if skip(entry.Symbol) || !strings.EqualFold(entry.Currency, in.ReduceCurrency) {
				continue
			}
			actions = append(actions, e.directiveCutAction(entry, fmt.Sprintf("currency reduction requested (%s)", in.ReduceCurrency)))
			touched[entry.Symbol] = true
		}
	}

	return actions
}

func (e *Engine) directiveCutAction(entry domain.ForecastEntry, reason string) domain.RebalanceAction {
	return domain.RebalanceAction{
		Kind:      domain.ActionReduce,
		Symbol:    entry.Symbol,
		Name:      entry.Name,
		Ratio:     e.directiveCut,
		Reason:    reason,
		Priority:  priorityReduceRequest,
		ValueJPY:  entry.ValueJPY,
		AmountJPY: entry.ValueJPY * e.directiveCut,
	}
}

// increasePass deploys freed plus additional cash into untouched positions
// with positive expectations, best first. Allocation per candidate is
// bounded by the single-position cap against the new portfolio total and
// by a fixed share of the original budget; sub-ticket allocations are
// skipped, not stopped at.
func (e *Engine) increasePass(
	entries []domain.ForecastEntry,
	total, freed float64,
	constraints domain.Constraints,
	in Input,
	sold, reduced map[string]bool,
) []domain.RebalanceAction {
	var actions []domain.RebalanceAction
	if total <= 0 {
		return actions
	}
	available := freed + in.AdditionalCash
	if available <= 0 {
		return actions
	}

	var candidates []domain.ForecastEntry
	for _, entry := range entries {
		if sold[entry.Symbol] || reduced[entry.Symbol] || domain.IsCashSymbol(entry.Symbol) {
			continue
		}
		if entry.Base == nil || *entry.Base <= 0 {
			continue
		}
		if in.MinDividendYield != nil && entry.DividendYield < *in.MinDividendYield {
			continue
		}
		candidates = append(candidates, entry)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return *candidates[i].Base > *candidates[j].Base
	})

	newTotal := total + in.AdditionalCash
	remaining := available
	for _, entry := range candidates {
		if remaining <= 0 {
			break
		}
		room := constraints.MaxSingleRatio*newTotal - entry.ValueJPY
		if room <= 0 {
			continue
		}
		alloc := min3(remaining, room, available*maxAllocShare)
		if alloc < e.minTicketJPY {
			continue
		}

		currentW := entry.ValueJPY / total
		actions = append(actions, domain.RebalanceAction{
			Kind:      domain.ActionIncrease,
			Symbol:    entry.Symbol,
			Name:      entry.Name,
			AmountJPY: alloc,
			Reason: fmt.Sprintf("base expected return +%.1f%% (weight %.1f%% -> %.1f%%)",
				*entry.Base*100, currentW*100, (entry.ValueJPY+alloc)/newTotal*100),
			Priority: priorityIncrease,
			ValueJPY: entry.ValueJPY,
		})
		remaining -= alloc
	}

	return actions
}

func (e *Engine) beforeMetrics(in Input, weights map[string]float64) domain.RebalanceMetrics {
	metrics := domain.RebalanceMetrics{
		BaseReturn: in.Forecast.Base,
		SectorHHI:  concentration.HHI(axisWeights(in.Forecast.Entries, weights, sectorOf)),
		RegionHHI:  concentration.HHI(axisWeights(in.Forecast.Entries, weights, regionOf)),
	}
	// The concentration module sees richer data (inferred regions,
	// snapshot values), so its numbers win when supplied.
	if in.Concentration != nil {
		metrics.SectorHHI = in.Concentration.Sector.HHI
		metrics.RegionHHI = in.Concentration.Region.HHI
	}
	return metrics
}

// afterMetrics estimates the post-trade state. The base return is adjusted
// incrementally per action; the HHIs are recomputed over the hypothetical
// post-trade position values.
func (e *Engine) afterMetrics(
	in Input,
	weights map[string]float64,
	before domain.RebalanceMetrics,
	sells, reduces, increases []domain.RebalanceAction,
) domain.RebalanceMetrics {
	after := domain.RebalanceMetrics{SectorHHI: before.SectorHHI, RegionHHI: before.RegionHHI}

	bySymbol := make(map[string]domain.ForecastEntry, len(in.Forecast.Entries))
	postValue := make(map[string]float64, len(in.Forecast.Entries))
	for _, entry := range in.Forecast.Entries {
		bySymbol[entry.Symbol] = entry
		postValue[entry.Symbol] = entry.ValueJPY
	}

	newTotal := in.Forecast.TotalJPY + in.AdditionalCash

	if before.BaseReturn != nil {
		ret := *before.BaseReturn
		for _, a := range sells {
			ret -= baseOrZero(bySymbol[a.Symbol]) * weights[a.Symbol]
		}
		for _, a := range reduces {
			ret -= baseOrZero(bySymbol[a.Symbol]) * weights[a.Symbol] * a.Ratio
		}
		if newTotal > 0 {
			for _, a := range increases {
				ret += baseOrZero(bySymbol[a.Symbol]) * a.AmountJPY / newTotal
			}
		}
		after.BaseReturn = &ret
	}

	for _, a := range sells {
		postValue[a.Symbol] = 0
	}
	for _, a := range reduces {
		postValue[a.Symbol] *= 1 - a.Ratio
	}
	for _, a := range increases {
		postValue[a.Symbol] += a.AmountJPY
	}

	// Iterate entries, not the map, so repeated runs sum in the same
	// order and produce bit-identical metrics.
	var postTotal float64
	for _, entry := range in.Forecast.Entries {
		postTotal += postValue[entry.Symbol]
	}
	if postTotal > 0 {
		sectorW := map[string]float64{}
		regionW := map[string]float64{}
		var sectors, regions []string
		for _, entry := range in.Forecast.Entries {
			v := postValue[entry.Symbol]
			sector, region := sectorOf(entry), regionOf(entry)
			if _, ok := sectorW[sector]; !ok {
				sectors = append(sectors, sector)
			}
			if _, ok := regionW[region]; !ok {
				regions = append(regions, region)
			}
			sectorW[sector] += v / postTotal
			regionW[region] += v / postTotal
		}
		after.SectorHHI = concentration.HHI(pick(sectorW, sectors))
		after.RegionHHI = concentration.HHI(pick(regionW, regions))
	}

	return after
}

func pick(m map[string]float64, keys []string) []float64 {
	out := make([]float64, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

func weightMap(entries []domain.ForecastEntry, total float64) map[string]float64 {
	weights := make(map[string]float64, len(entries))
	if total <= 0 {
		return weights
	}
	for _, entry := range entries {
		weights[entry.Symbol] = entry.ValueJPY / total
	}
	return weights
}

func symbolSet(actions []domain.RebalanceAction) map[string]bool {
	set := make(map[string]bool, len(actions))
	for _, a := range actions {
		set[a.Symbol] = true
	}
	return set
}

func baseOrZero(entry domain.ForecastEntry) float64 {
	if entry.Base == nil {
		return 0
	}
	return *entry.Base
}

func sectorOf(entry domain.ForecastEntry) string { return orUnknown(entry.Sector) }
func regionOf(entry domain.ForecastEntry) string { return orUnknown(entry.Country) }

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func axisWeights(entries []domain.ForecastEntry, weights map[string]float64, category func(domain.ForecastEntry) string) []float64 {
	grouped := map[string]float64{}
	var order []string
	for _, entry := range entries {
		c := category(entry)
		if _, ok := grouped[c]; !ok {
			order = append(order, c)
		}
		grouped[c] += weights[entry.Symbol]
	}
	return pick(grouped, order)
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
