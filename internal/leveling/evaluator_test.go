package leveling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leveler/internal"
	"leveler/internal/bids"
	"leveler/internal/session"
)

func gwbState(t *testing.T) *session.State {
	t.Helper()
	state := session.NewState()
	require.NoError(t, state.Scope.Replace([]internal.ScopeItem{
		{Trade: internal.TradeDrywall, Name: "5/8 Type X GWB", Unit: internal.UnitSF, Quantity: 1000, UnitCost: 2.85, BudgetTotal: 2850},
	}))
	return state
}

func setBid(t *testing.T, state *session.State, trade internal.Trade, slot internal.Slot, in bids.Input) {
	t.Helper()
	_, err := state.Bids.Set(trade, slot, in)
	require.NoError(t, err)
}

func TestEvaluateFlagsMissingItem(t *testing.T) {
	state := gwbState(t)
	setBid(t, state, internal.TradeDrywall, internal.SlotA, bids.Input{Total: 40000, Inclusions: "Metal Stud Framing"})
	e := NewEvaluator(state)

	got := e.Evaluate(internal.TradeDrywall, internal.SlotA)
	assert.Equal(t, []internal.MissingItem{{ItemName: "5/8 Type X GWB", Budget: 2850, PlugCost: 2850}}, got.MissingItems)
	assert.Equal(t, 2850.0, got.GapCost)
	assert.Equal(t, 42850.0, e.AdjustedTotal(internal.TradeDrywall, internal.SlotA))
}

func TestEvaluateQuoteVariantIsIncluded(t *testing.T) {
	state := gwbState(t)
	setBid(t, state, internal.TradeDrywall, internal.SlotB, bids.Input{Total: 41000, Inclusions: `5/8" Type X GWB`})
	e := NewEvaluator(state)

	got := e.Evaluate(internal.TradeDrywall, internal.SlotB)
	assert.Empty(t, got.MissingItems)
	assert.Equal(t, 0.0, got.GapCost)
	assert.Equal(t, 41000.0, e.AdjustedTotal(internal.TradeDrywall, internal.SlotB))
}

func TestEvaluateUsesPlugOverride(t *testing.T) {
	state := gwbState(t)
	setBid(t, state, internal.TradeDrywall, internal.SlotA, bids.Input{Total: 40000, Inclusions: "Metal Stud Framing"})
	require.NoError(t, state.Plugs.Set(internal.TradeDrywall, "5/8 Type X GWB", 3500))
	e := NewEvaluator(state)

	got := e.Evaluate(internal.TradeDrywall, internal.SlotA)
	require.Len(t, got.MissingItems, 1)
	assert.Equal(t, 2850.0, got.MissingItems[0].Budget)
	assert.Equal(t, 3500.0, got.MissingItems[0].PlugCost)
	assert.Equal(t, 3500.0, got.GapCost)

	state.Plugs.Unset(internal.TradeDrywall, "5/8 Type X GWB")
	assert.Equal(t, 2850.0, e.Evaluate(internal.TradeDrywall, internal.SlotA).GapCost)
}

func TestEvaluateEmptyTradeScope(t *testing.T) {
	state := gwbState(t)
	setBid(t, state, internal.TradeMEP, internal.SlotA, bids.Input{Total: 90000, Inclusions: "nothing relevant"})
	e := NewEvaluator(state)

	got := e.Evaluate(internal.TradeMEP, internal.SlotA)
	assert.Empty(t, got.MissingItems)
	assert.Equal(t, 0.0, got.GapCost)
	assert.Equal(t, 90000.0, e.AdjustedTotal(internal.TradeMEP, internal.SlotA))
}

func TestEvaluateWithoutInclusionsChargesNothing(t *testing.T) {
	state := gwbState(t)
	require.NoError(t, state.Scope.Replace(append(state.Scope.Items(),
		internal.ScopeItem{Trade: internal.TradeDrywall, Name: "Metal Stud Framing", BudgetTotal: 5000},
	)))
	setBid(t, state, internal.TradeDrywall, internal.SlotC, bids.Input{Total: 39000})
	e := NewEvaluator(state)

	for _, row := range e.Coverage(internal.TradeDrywall) {
		assert.Equal(t, internal.StatusUndetermined, row.Status[internal.SlotC], row.Item)
	}
	assert.Equal(t, 0.0, e.Evaluate(internal.TradeDrywall, internal.SlotC).GapCost)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	state := gwbState(t)
	setBid(t, state, internal.TradeDrywall, internal.SlotA, bids.Input{Total: 40000, Inclusions: "Metal Stud Framing"})
	e := NewEvaluator(state)

	first := e.Evaluate(internal.TradeDrywall, internal.SlotA)
	second := e.Evaluate(internal.TradeDrywall, internal.SlotA)
	assert.Equal(t, first, second)
}

func TestExclusionRemovesGapCharge(t *testing.T) {
	state := gwbState(t)
	require.NoError(t, state.Scope.Replace(append(state.Scope.Items(),
		internal.ScopeItem{Trade: internal.TradeDrywall, Name: "Metal Stud Framing", BudgetTotal: 5000},
	)))
	in := bids.Input{Total: 40000, Inclusions: "Acoustic Sealant"}
	setBid(t, state, internal.TradeDrywall, internal.SlotA, in)
	require.NoError(t, state.Plugs.Set(internal.TradeDrywall, "Metal Stud Framing", 6200))
	e := NewEvaluator(state)

	before := e.Evaluate(internal.TradeDrywall, internal.SlotA)
	require.Len(t, before.MissingItems, 2)
	assert.Equal(t, 9050.0, before.GapCost)

	in.Exclusions = "framing"
	setBid(t, state, internal.TradeDrywall, internal.SlotA, in)
	after := e.Evaluate(internal.TradeDrywall, internal.SlotA)
	require.Len(t, after.MissingItems, 1)
	assert.Equal(t, "5/8 Type X GWB", after.MissingItems[0].ItemName)
	assert.Equal(t, before.GapCost-6200, after.GapCost)
}

func TestAdjustedTotalIsBidPlusGap(t *testing.T) {
	state := gwbState(t)
	setBid(t, state, internal.TradeDrywall, internal.SlotA, bids.Input{Total: 40000.55, Inclusions: "framing"})
	setBid(t, state, internal.TradeDrywall, internal.SlotB, bids.Input{Total: 38000, Inclusions: "gwb"})
	e := NewEvaluator(state)

	for _, slot := range internal.Slots {
		bid := state.Bids.Get(internal.TradeDrywall, slot)
		gap := e.Evaluate(internal.TradeDrywall, slot).GapCost
		assert.InDelta(t, bid.Total+gap, e.AdjustedTotal(internal.TradeDrywall, slot), 1e-9, string(slot))
	}
}

func TestWinner(t *testing.T) {
	t.Run("no active bids", func(t *testing.T) {
		e := NewEvaluator(gwbState(t))
		_, ok := e.Winner(internal.TradeDrywall)
		assert.False(t, ok)
	})

	t.Run("lowest adjusted total", func(t *testing.T) {
		state := gwbState(t)
		setBid(t, state, internal.TradeDrywall, internal.SlotA, bids.Input{Total: 40000, Inclusions: "framing"})
		setBid(t, state, internal.TradeDrywall, internal.SlotB, bids.Input{Total: 41000, Inclusions: "gwb"})
		slot, ok := NewEvaluator(state).Winner(internal.TradeDrywall)
		require.True(t, ok)
		assert.Equal(t, internal.SlotB, slot)
	})

	t.Run("tie goes to earlier slot", func(t *testing.T) {
		state := gwbState(t)
		setBid(t, state, internal.TradeDrywall, internal.SlotC, bids.Input{Total: 41000, Inclusions: "gwb"})
		setBid(t, state, internal.TradeDrywall, internal.SlotA, bids.Input{Total: 38150, Inclusions: "framing"})
		slot, ok := NewEvaluator(state).Winner(internal.TradeDrywall)
		require.True(t, ok)
		assert.Equal(t, internal.SlotA, slot)
	})

	t.Run("inactive slots are ignored", func(t *testing.T) {
		state := gwbState(t)
		setBid(t, state, internal.TradeDrywall, internal.SlotB, bids.Input{Total: 50000, Inclusions: "gwb"})
		slot, ok := NewEvaluator(state).Winner(internal.TradeDrywall)
		require.True(t, ok)
		assert.Equal(t, internal.SlotB, slot)
	})
}

func TestTradeScopeIsACopy(t *testing.T) {
	state := gwbState(t)
	e := NewEvaluator(state)
	items := e.TradeScope(internal.TradeDrywall)
	require.Len(t, items, 1)
	items[0].Name = "changed"
	assert.Equal(t, "5/8 Type X GWB", e.TradeScope(internal.TradeDrywall)[0].Name)
}

func TestCoverageMarksInactiveSlots(t *testing.T) {
	state := gwbState(t)
	setBid(t, state, internal.TradeDrywall, internal.SlotA, bids.Input{Total: 40000, Inclusions: "framing"})
	rows := NewEvaluator(state).Coverage(internal.TradeDrywall)
	require.Len(t, rows, 1)
	assert.Equal(t, internal.StatusGap, rows[0].Status[internal.SlotA])
	assert.Equal(t, internal.StatusNotBid, rows[0].Status[internal.SlotB])
	assert.Equal(t, internal.StatusNotBid, rows[0].Status[internal.SlotC])
	assert.Equal(t, 2850.0, rows[0].PlugCost)
}
