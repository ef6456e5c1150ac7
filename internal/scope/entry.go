package scope

import (
	"strings"

	"leveler/internal"
	"leveler/internal/util"
)

// ManualEntry is one line item typed in by the estimator. Negative numbers are rejected, not clamped.
type ManualEntry struct {
	Trade    string  `validate:"required,trade"`
	Name     string  `validate:"required"`
	Unit     string  `validate:"required,unit"`
	Quantity float64 `validate:"finite,gte=0"`
	UnitCost float64 `validate:"finite,gte=0"`
	Notes    string
}

func (e ManualEntry) toItem() (internal.ScopeItem, error) {
	e.Name = strings.TrimSpace(e.Name)
	if err := util.ValidateStruct("add scope item", e); err != nil {
		return internal.ScopeItem{}, err
	}
	trade, _ := internal.ParseTrade(e.Trade)
	unit, _ := internal.ParseUnit(e.Unit)
	return internal.ScopeItem{
		Trade:       trade,
		Name:        e.Name,
		Unit:        unit,
		Quantity:    e.Quantity,
		UnitCost:    e.UnitCost,
		BudgetTotal: util.Extend(e.Quantity, e.UnitCost),
		Notes:       strings.TrimSpace(e.Notes),
	}, nil
}
