package leveling

import (
	"math"

	"leveler/internal"
	"leveler/internal/util"
)

// Risk tier bounds on the mean absolute delta, in percent.
const (
	MediumRiskThreshold = 5.0
	HighRiskThreshold   = 15.0
)

// Heatmap returns the percent delta of every slot's adjusted total against its trade budget.
// Cells for inactive bids or unbudgeted trades have HasData unset and a zero placeholder delta.
func (e *Evaluator) Heatmap() map[internal.Slot]map[internal.Trade]internal.HeatCell {
	out := make(map[internal.Slot]map[internal.Trade]internal.HeatCell, len(internal.Slots))
	for _, slot := range internal.Slots {
		out[slot] = make(map[internal.Trade]internal.HeatCell, len(internal.Trades))
	}
	for _, trade := range internal.Trades {
		budget := e.state.Scope.TradeBudget(trade)
		for _, slot := range internal.Slots {
			out[slot][trade] = e.heatCell(trade, slot, budget)
		}
	}
	return out
}

func (e *Evaluator) heatCell(trade internal.Trade, slot internal.Slot, budget float64) internal.HeatCell {
	if budget <= 0 || !e.state.Bids.Get(trade, slot).Active() {
		return internal.HeatCell{}
	}
	adjusted := e.AdjustedTotal(trade, slot)
	return internal.HeatCell{Delta: (adjusted - budget) / budget * 100, HasData: true}
}

// RiskTier grades a trade by the mean absolute delta of its active bids.
func (e *Evaluator) RiskTier(trade internal.Trade) internal.RiskTier {
	mean, ok := e.meanAbsDelta(trade)
	if !ok {
		return internal.RiskNoData
	}
	return TierFor(mean)
}

func (e *Evaluator) meanAbsDelta(trade internal.Trade) (float64, bool) {
	budget := e.state.Scope.TradeBudget(trade)
	deltas := []float64{}
	for _, slot := range internal.Slots {
		cell := e.heatCell(trade, slot, budget)
		if cell.HasData {
			deltas = append(deltas, math.Abs(cell.Delta))
		}
	}
	if len(deltas) == 0 {
		return 0, false
	}
	return util.Sum(deltas...) / float64(len(deltas)), true
}

func TierFor(meanAbsDelta float64) internal.RiskTier {
	switch {
	case meanAbsDelta < MediumRiskThreshold:
		return internal.RiskLow
	case meanAbsDelta < HighRiskThreshold:
		return internal.RiskMedium
	default:
		return internal.RiskHigh
	}
}
