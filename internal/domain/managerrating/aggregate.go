package managerrating

import (
	"math"

	"github.com/clutchgolf/engine/internal/domain/model"
)

// weightedComponent pairs a component with its base weight in a fixed,
// deterministic order.
type weightedComponent struct {
	name   string
	weight float64
	score  model.ComponentScore
}

func (e *Engine) orderedComponents(c model.ManagerComponents) []weightedComponent {
	w := e.cfg.Weights
	return []weightedComponent{
		{ComponentWinRate, w.WinRate, c.WinRate},
		{ComponentDraftIQ, w.DraftIQ, c.DraftIQ},
		{ComponentRosterMgmt, w.RosterMgmt, c.RosterMgmt},
		{ComponentPredictions, w.Predictions, c.Predictions},
		{ComponentTradeAcumen, w.TradeAcumen, c.TradeAcumen},
		{ComponentChampionships, w.Championships, c.Championships},
		{ComponentConsistency, w.Consistency, c.Consistency},
	}
}

// aggregate combines the seven components into the overall rating and the
// overall confidence. Inactive components redistribute their base weight
// proportionally across the active ones, so the adjusted weights always
// conserve the full base total. Softened confidence shapes the rating;
// overall confidence is a plain base-weight-weighted mean of raw
// confidences across active components.
func (e *Engine) aggregate(c model.ManagerComponents) (*int, float64, model.AggregationTrace) {
	all := e.orderedComponents(c)

	trace := model.AggregationTrace{
		BaseWeights:         make(map[string]float64, len(all)),
		AdjustedWeights:     make(map[string]float64),
		SoftenedConfidences: make(map[string]float64),
	}

	var totalBase, activeBase float64
	for _, wc := range all {
		trace.BaseWeights[wc.name] = wc.weight
		totalBase += wc.weight
		if wc.score.Active() {
			activeBase += wc.weight
		}
	}

	if activeBase == 0 {
		return nil, 0, trace
	}

	var num, den, confNum, confDen float64
	for _, wc := range all {
		if !wc.score.Active() {
			continue
		}
		trace.ActiveComponents = append(trace.ActiveComponents, wc.name)

		adjusted := wc.weight / activeBase * totalBase
		softened := math.Pow(wc.score.Confidence/100, e.cfg.SofteningExponent)
		trace.AdjustedWeights[wc.name] = adjusted
		trace.SoftenedConfidences[wc.name] = softened

		num += *wc.score.Score * adjusted * softened
		den += adjusted * softened

		confNum += wc.score.Confidence * wc.weight
		confDen += wc.weight
	}
	trace.WeightedSum = num
	trace.WeightTotal = den

	overall := int(math.Round(num / den))
	if overall < 0 {
		overall = 0
	}
	if overall > 100 {
		overall = 100
	}
	confidence := confNum / confDen
	return &overall, confidence, trace
}
