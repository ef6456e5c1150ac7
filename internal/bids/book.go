// Package bids keeps the subcontractor bids for every trade, three slots each.
package bids

import (
	"fmt"
	"strings"

	"leveler/internal"
	"leveler/internal/util"
)

// Input is what the estimator types for one (trade, slot). Inclusions and exclusions are newline-delimited.
type Input struct {
	Company    string
	Total      float64 `validate:"finite,gte=0"`
	Inclusions string
	Exclusions string
}

// Book holds one pre-allocated entry per (trade, slot). A zero total means the slot has not been bid.
type Book struct {
	entries map[internal.Trade]map[internal.Slot]*internal.BidEntry
}

func NewBook() *Book {
	b := &Book{entries: map[internal.Trade]map[internal.Slot]*internal.BidEntry{}}
	for _, trade := range internal.Trades {
		b.entries[trade] = map[internal.Slot]*internal.BidEntry{}
		for _, slot := range internal.Slots {
			b.entries[trade][slot] = emptyEntry(trade, slot)
		}
	}
	return b
}

func emptyEntry(trade internal.Trade, slot internal.Slot) *internal.BidEntry {
	return &internal.BidEntry{Trade: trade, Slot: slot, Inclusions: []string{}, Exclusions: []string{}}
}

func (b *Book) slot(trade internal.Trade, slot internal.Slot) (*internal.BidEntry, error) {
	slots, ok := b.entries[trade]
	if !ok {
		return nil, &internal.ValidationError{Op: "bid", Fields: []string{"trade"}, Message: fmt.Sprintf("unknown trade %q", trade)}
	}
	entry, ok := slots[slot]
	if !ok {
		return nil, &internal.ValidationError{Op: "bid", Fields: []string{"slot"}, Message: fmt.Sprintf("unknown slot %q", slot)}
	}
	return entry, nil
}

// Set replaces the bid at (trade, slot). Invalid input leaves the previous bid in place.
func (b *Book) Set(trade internal.Trade, slot internal.Slot, in Input) (internal.BidEntry, error) {
	entry, err := b.slot(trade, slot)
	if err != nil {
		return internal.BidEntry{}, err
	}
	if err := util.ValidateStruct("set bid", in); err != nil {
		return internal.BidEntry{}, err
	}
	*entry = internal.BidEntry{
		Trade:      trade,
		Slot:       slot,
		Company:    strings.TrimSpace(in.Company),
		Total:      in.Total,
		Inclusions: util.NormalizeLines(util.SplitLines(in.Inclusions)),
		Exclusions: util.NormalizeLines(util.SplitLines(in.Exclusions)),
	}
	return copyEntry(*entry), nil
}

// Get returns a copy of the bid at (trade, slot). Unknown keys yield an inactive entry.
func (b *Book) Get(trade internal.Trade, slot internal.Slot) internal.BidEntry {
	entry, err := b.slot(trade, slot)
	if err != nil {
		return *emptyEntry(trade, slot)
	}
	return copyEntry(*entry)
}

// Reset returns the slot to "not yet bid".
func (b *Book) Reset(trade internal.Trade, slot internal.Slot) error {
	entry, err := b.slot(trade, slot)
	if err != nil {
		return err
	}
	*entry = *emptyEntry(trade, slot)
	return nil
}

// ForTrade returns the trade's three entries in slot order.
func (b *Book) ForTrade(trade internal.Trade) []internal.BidEntry {
	out := make([]internal.BidEntry, 0, len(internal.Slots))
	for _, slot := range internal.Slots {
		out = append(out, b.Get(trade, slot))
	}
	return out
}

// Active returns the trade's bids with a non-zero total, in slot order.
func (b *Book) Active(trade internal.Trade) []internal.BidEntry {
	out := []internal.BidEntry{}
	for _, entry := range b.ForTrade(trade) {
		if entry.Active() {
			out = append(out, entry)
		}
	}
	return out
}

func copyEntry(e internal.BidEntry) internal.BidEntry {
	e.Inclusions = append([]string{}, e.Inclusions...)
	e.Exclusions = append([]string{}, e.Exclusions...)
	return e
}
