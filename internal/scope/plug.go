package scope

import (
	"fmt"
	"sort"

	"leveler/internal"
	"leveler/internal/util"
)

type PlugKey struct {
	Trade internal.Trade `json:"trade" yaml:"trade"`
	Item  string         `json:"item" yaml:"item"`
}

func (k PlugKey) String() string {
	return fmt.Sprintf("%s::%s", k.Trade, k.Item)
}

// PlugCostTable maps (trade, item name) to the cost charged when a bid leaves the item uncovered.
// Keys are not checked against the catalog; entries for removed items are simply never read.
type PlugCostTable struct {
	costs map[PlugKey]float64
}

func NewPlugCostTable() *PlugCostTable {
	return &PlugCostTable{costs: map[PlugKey]float64{}}
}

func (p *PlugCostTable) Set(trade internal.Trade, item string, cost float64) error {
	if item == "" {
		return &internal.ValidationError{Op: "set plug cost", Fields: []string{"item"}, Message: "item name is required"}
	}
	if !util.IsFinite(cost) || cost < 0 {
		return &internal.ValidationError{Op: "set plug cost", Fields: []string{"cost"}, Message: fmt.Sprintf("cost must be a finite number >= 0, got %v", cost)}
	}
	p.costs[PlugKey{Trade: trade, Item: item}] = cost
	return nil
}

func (p *PlugCostTable) Unset(trade internal.Trade, item string) {
	delete(p.costs, PlugKey{Trade: trade, Item: item})
}

// Override returns the explicit override, if any.
func (p *PlugCostTable) Override(trade internal.Trade, item string) (float64, bool) {
	cost, ok := p.costs[PlugKey{Trade: trade, Item: item}]
	return cost, ok
}

// CostFor returns the override for the item or its budget total when none is set.
func (p *PlugCostTable) CostFor(item internal.ScopeItem) float64 {
	if cost, ok := p.Override(item.Trade, item.Name); ok {
		return cost
	}
	return item.BudgetTotal
}

// Keys lists the overrides sorted by trade then item, for stable output.
func (p *PlugCostTable) Keys() []PlugKey {
	out := make([]PlugKey, 0, len(p.costs))
	for k := range p.costs {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Trade != out[j].Trade {
			return out[i].Trade < out[j].Trade
		}
		return out[i].Item < out[j].Item
	})
	return out
}
