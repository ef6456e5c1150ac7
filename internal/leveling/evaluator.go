package leveling

import (
	"leveler/internal"
	"leveler/internal/session"
	"leveler/internal/util"
)

// Evaluator answers leveling queries against a session. Every answer is recomputed from the current state.
type Evaluator struct {
	state *session.State
}

func NewEvaluator(state *session.State) *Evaluator {
	return &Evaluator{state: state}
}

// TradeScope returns a copy of the trade's catalog items.
func (e *Evaluator) TradeScope(trade internal.Trade) []internal.ScopeItem {
	return e.state.Scope.ForTrade(trade)
}

// Evaluate collects the GAP items of the bid at (trade, slot) and sums their plug costs.
func (e *Evaluator) Evaluate(trade internal.Trade, slot internal.Slot) internal.GapResult {
	result := internal.GapResult{MissingItems: []internal.MissingItem{}}
	items := e.state.Scope.ForTrade(trade)
	if len(items) == 0 {
		return result
	}

	bid := e.state.Bids.Get(trade, slot)
	costs := []float64{}
	for _, item := range items {
		if Classify(item.Name, bid) != internal.StatusGap {
			continue
		}
		plug := e.state.Plugs.CostFor(item)
		result.MissingItems = append(result.MissingItems, internal.MissingItem{
			ItemName: item.Name,
			Budget:   item.BudgetTotal,
			PlugCost: plug,
		})
		costs = append(costs, plug)
	}
	result.GapCost = util.Sum(costs...)
	return result
}

func (e *Evaluator) AdjustedTotal(trade internal.Trade, slot internal.Slot) float64 {
	bid := e.state.Bids.Get(trade, slot)
	return util.Sum(bid.Total, e.Evaluate(trade, slot).GapCost)
}

// Winner picks the active bid with the lowest adjusted total. Ties go to the earlier slot.
func (e *Evaluator) Winner(trade internal.Trade) (internal.Slot, bool) {
	var (
		best     internal.Slot
		bestCost float64
		found    bool
	)
	for _, bid := range e.state.Bids.Active(trade) {
		adjusted := e.AdjustedTotal(trade, bid.Slot)
		if !found || adjusted < bestCost {
			best, bestCost, found = bid.Slot, adjusted, true
		}
	}
	return best, found
}

// CoverageRow is one scope item with its status under each slot.
type CoverageRow struct {
	Item     string                                    `json:"item"`
	Budget   float64                                   `json:"budget"`
	PlugCost float64                                   `json:"plug"`
	Status   map[internal.Slot]internal.CoverageStatus `json:"status"`
}

// Coverage builds the item by slot coverage matrix for a trade, in catalog order.
func (e *Evaluator) Coverage(trade internal.Trade) []CoverageRow {
	items := e.state.Scope.ForTrade(trade)
	rows := make([]CoverageRow, 0, len(items))
	if len(items) == 0 {
		return rows
	}
	bids := e.state.Bids.ForTrade(trade)
	for _, item := range items {
		row := CoverageRow{
			Item:     item.Name,
			Budget:   item.BudgetTotal,
			PlugCost: e.state.Plugs.CostFor(item),
			Status:   map[internal.Slot]internal.CoverageStatus{},
		}
		for _, bid := range bids {
			row.Status[bid.Slot] = Classify(item.Name, bid)
		}
		rows = append(rows, row)
	}
	return rows
}
