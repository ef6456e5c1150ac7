package bids

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leveler/internal"
)

func TestNewBookPreallocatesInactiveSlots(t *testing.T) {
	b := NewBook()
	for _, trade := range internal.Trades {
		entries := b.ForTrade(trade)
		require.Len(t, entries, 3)
		for i, e := range entries {
			assert.Equal(t, internal.Slots[i], e.Slot)
			assert.False(t, e.Active())
			assert.Empty(t, e.Inclusions)
		}
		assert.Empty(t, b.Active(trade))
	}
}

func TestSetNormalizesLines(t *testing.T) {
	b := NewBook()
	entry, err := b.Set(internal.TradeDrywall, internal.SlotA, Input{
		Company:    "  Acme Drywall ",
		Total:      40000,
		Inclusions: "5/8\" Type X GWB\r\n\n  Metal Stud Framing  \nmetal stud framing\n",
		Exclusions: "Acoustical work\n \nPainting",
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Drywall", entry.Company)
	assert.Equal(t, []string{"5/8 type x gwb", "metal stud framing"}, entry.Inclusions)
	assert.Equal(t, []string{"acoustical work", "painting"}, entry.Exclusions)
	assert.Equal(t, "Acme Drywall", entry.Label())

	got := b.Get(internal.TradeDrywall, internal.SlotA)
	assert.Equal(t, entry, got)
	assert.Len(t, b.Active(internal.TradeDrywall), 1)
}

func TestSetRejectsNegativeTotal(t *testing.T) {
	b := NewBook()
	_, err := b.Set(internal.TradeMEP, internal.SlotB, Input{Total: 100})
	require.NoError(t, err)

	_, err = b.Set(internal.TradeMEP, internal.SlotB, Input{Total: -5})
	var verr *internal.ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Contains(t, verr.Fields, "Total")
	assert.Equal(t, 100.0, b.Get(internal.TradeMEP, internal.SlotB).Total)
}

func TestSetRejectsNonFiniteTotal(t *testing.T) {
	b := NewBook()
	for _, total := range []float64{math.Inf(1), math.NaN()} {
		_, err := b.Set(internal.TradeMEP, internal.SlotA, Input{Total: total})
		var verr *internal.ValidationError
		require.True(t, errors.As(err, &verr), "total %v: got %v", total, err)
		assert.Contains(t, verr.Fields, "Total")
	}
	assert.False(t, b.Get(internal.TradeMEP, internal.SlotA).Active())
}

func TestUnknownSlot(t *testing.T) {
	b := NewBook()
	_, err := b.Set(internal.TradeMEP, internal.Slot("D"), Input{Total: 1})
	require.Error(t, err)
	assert.False(t, b.Get(internal.Trade("Roofing"), internal.SlotA).Active())
}

func TestGetReturnsCopy(t *testing.T) {
	b := NewBook()
	_, err := b.Set(internal.TradeInteriors, internal.SlotC, Input{Total: 1, Inclusions: "millwork"})
	require.NoError(t, err)

	got := b.Get(internal.TradeInteriors, internal.SlotC)
	got.Inclusions[0] = "changed"
	assert.Equal(t, "millwork", b.Get(internal.TradeInteriors, internal.SlotC).Inclusions[0])
}

func TestReset(t *testing.T) {
	b := NewBook()
	_, err := b.Set(internal.TradeSiteWork, internal.SlotA, Input{Company: "Dirt Co", Total: 9000})
	require.NoError(t, err)
	require.NoError(t, b.Reset(internal.TradeSiteWork, internal.SlotA))

	e := b.Get(internal.TradeSiteWork, internal.SlotA)
	assert.False(t, e.Active())
	assert.Equal(t, "Sub A", e.Label())
}
