// Package scope holds the master scope-of-work catalog, plug cost overrides and scope import.
package scope

import (
	"fmt"
	"strings"

	"leveler/internal"
	"leveler/internal/util"
)

// Catalog is the ordered master list of scope items. Order is kept for display only.
type Catalog struct {
	items []internal.ScopeItem
}

func NewCatalog() *Catalog {
	return &Catalog{}
}

type Summary struct {
	TotalBudget   float64 `json:"totalBudget"`
	LineItems     int     `json:"lineItems"`
	TradesCovered int     `json:"tradesCovered"`
}

// Items returns a copy of every item in insertion order.
func (c *Catalog) Items() []internal.ScopeItem {
	out := make([]internal.ScopeItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// ForTrade returns a copy of the trade's items in insertion order.
func (c *Catalog) ForTrade(trade internal.Trade) []internal.ScopeItem {
	out := []internal.ScopeItem{}
	for _, item := range c.items {
		if item.Trade == trade {
			out = append(out, item)
		}
	}
	return out
}

func (c *Catalog) TradeBudget(trade internal.Trade) float64 {
	budgets := []float64{}
	for _, item := range c.items {
		if item.Trade == trade {
			budgets = append(budgets, item.BudgetTotal)
		}
	}
	return util.Sum(budgets...)
}

// Add validates a manual entry and appends one item.
func (c *Catalog) Add(entry ManualEntry) (internal.ScopeItem, error) {
	item, err := entry.toItem()
	if err != nil {
		return internal.ScopeItem{}, err
	}
	c.items = append(c.items, item)
	return item, nil
}

// Replace swaps the whole catalog. If any item is invalid the catalog is left unchanged.
func (c *Catalog) Replace(items []internal.ScopeItem) error {
	for i, item := range items {
		if err := checkItem(item); err != nil {
			err.Row = i + 1
			return err
		}
	}
	next := make([]internal.ScopeItem, len(items))
	copy(next, items)
	c.items = next
	return nil
}

func checkItem(item internal.ScopeItem) *internal.ValidationError {
	invalid := func(field, msg string) *internal.ValidationError {
		return &internal.ValidationError{Op: "replace scope", Fields: []string{field}, Message: msg}
	}
	if _, ok := internal.ParseTrade(string(item.Trade)); !ok {
		return invalid("Trade", fmt.Sprintf("unknown trade %q", item.Trade))
	}
	if strings.TrimSpace(item.Name) == "" {
		return invalid("Name", "item name is required")
	}
	numbers := []struct {
		field string
		v     float64
	}{
		{"Quantity", item.Quantity},
		{"UnitCost", item.UnitCost},
		{"BudgetTotal", item.BudgetTotal},
	}
	for _, n := range numbers {
		if !util.IsFinite(n.v) || n.v < 0 {
			return invalid(n.field, fmt.Sprintf("must be a finite number >= 0, got %v", n.v))
		}
	}
	return nil
}

func (c *Catalog) Clear() {
	c.items = nil
}

func (c *Catalog) Summary() Summary {
	trades := map[internal.Trade]struct{}{}
	budgets := make([]float64, 0, len(c.items))
	for _, item := range c.items {
		trades[item.Trade] = struct{}{}
		budgets = append(budgets, item.BudgetTotal)
	}
	return Summary{
		TotalBudget:   util.Sum(budgets...),
		LineItems:     len(c.items),
		TradesCovered: len(trades),
	}
}
