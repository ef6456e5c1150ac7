package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"leveler/internal"
	"leveler/internal/bids"
	"leveler/internal/scope"
)

// Sheet is the YAML bid sheet: every bid of a session plus plug cost overrides.
type Sheet struct {
	Scope string                         `yaml:"scope,omitempty"`
	Bids  map[string]map[string]SheetBid `yaml:"bids"`
	Plugs []SheetPlug                    `yaml:"plugs,omitempty"`
}

type SheetBid struct {
	Company    string   `yaml:"company,omitempty"`
	Total      float64  `yaml:"total"`
	Inclusions []string `yaml:"inclusions,omitempty"`
	Exclusions []string `yaml:"exclusions,omitempty"`
}

type SheetPlug struct {
	Trade string  `yaml:"trade"`
	Item  string  `yaml:"item"`
	Cost  float64 `yaml:"cost"`
}

func LoadSheet(path string) (Sheet, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return Sheet{}, err
	}
	return ParseSheet(filepath.Base(path), blob)
}

func ParseSheet(source string, blob []byte) (Sheet, error) {
	var s Sheet
	if err := yaml.Unmarshal(blob, &s); err != nil {
		return Sheet{}, &internal.ParseError{Source: source, Cause: err}
	}
	return s, nil
}

// ScopePath resolves the sheet's scope reference relative to the sheet file.
func (s Sheet) ScopePath(sheetPath string) string {
	if s.Scope == "" || filepath.IsAbs(s.Scope) {
		return s.Scope
	}
	return filepath.Join(filepath.Dir(sheetPath), s.Scope)
}

// Apply replaces the state's bids and plug costs with the sheet's. Nothing changes unless every entry is valid.
func (s Sheet) Apply(state *State) error {
	book := bids.NewBook()
	seenTrades := map[internal.Trade]string{}
	for _, tradeKey := range sortedKeys(s.Bids) {
		trade, ok := internal.ParseTrade(tradeKey)
		if !ok {
			return &internal.ValidationError{Op: "apply bid sheet", Fields: []string{"bids." + tradeKey}, Message: fmt.Sprintf("unknown trade %q", tradeKey)}
		}
		if prev, dup := seenTrades[trade]; dup {
			return &internal.ValidationError{Op: "apply bid sheet", Fields: []string{"bids." + tradeKey}, Message: fmt.Sprintf("trade %s listed twice, as %q and %q", trade, prev, tradeKey)}
		}
		seenTrades[trade] = tradeKey

		seenSlots := map[internal.Slot]string{}
		for _, slotKey := range sortedKeys(s.Bids[tradeKey]) {
			field := "bids." + tradeKey + "." + slotKey
			slot, ok := internal.ParseSlot(slotKey)
			if !ok {
				return &internal.ValidationError{Op: "apply bid sheet", Fields: []string{field}, Message: fmt.Sprintf("unknown slot %q", slotKey)}
			}
			if prev, dup := seenSlots[slot]; dup {
				return &internal.ValidationError{Op: "apply bid sheet", Fields: []string{field}, Message: fmt.Sprintf("slot %s of %s listed twice, as %q and %q", slot, trade, prev, slotKey)}
			}
			seenSlots[slot] = slotKey
			bid := s.Bids[tradeKey][slotKey]
			if _, err := book.Set(trade, slot, bid.input()); err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
		}
	}

	plugs := scope.NewPlugCostTable()
	seenPlugs := map[scope.PlugKey]int{}
	for i, p := range s.Plugs {
		field := fmt.Sprintf("plugs[%d]", i)
		trade, ok := internal.ParseTrade(p.Trade)
		if !ok {
			return &internal.ValidationError{Op: "apply bid sheet", Fields: []string{field + ".trade"}, Message: fmt.Sprintf("unknown trade %q", p.Trade)}
		}
		key := scope.PlugKey{Trade: trade, Item: strings.TrimSpace(p.Item)}
		if prev, dup := seenPlugs[key]; dup {
			return &internal.ValidationError{Op: "apply bid sheet", Fields: []string{field}, Message: fmt.Sprintf("plug %s already set by plugs[%d]", key, prev)}
		}
		seenPlugs[key] = i
		if err := plugs.Set(key.Trade, key.Item, p.Cost); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}

	state.Bids = book
	state.Plugs = plugs
	return nil
}

func (b SheetBid) input() bids.Input {
	return bids.Input{
		Company:    b.Company,
		Total:      b.Total,
		Inclusions: strings.Join(b.Inclusions, "\n"),
		Exclusions: strings.Join(b.Exclusions, "\n"),
	}
}

// SheetFromBid renders one bid as a sheet fragment, e.g. for proposal intake output.
func SheetFromBid(trade internal.Trade, slot internal.Slot, bid SheetBid) Sheet {
	return Sheet{Bids: map[string]map[string]SheetBid{string(trade): {string(slot): bid}}}
}

func (s Sheet) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
