package internal

import "strings"

type Trade string

const (
	TradeDrywall   Trade = "Drywall"
	TradeMEP       Trade = "MEP"
	TradeInteriors Trade = "Interiors"
	TradeSiteWork  Trade = "SiteWork"
)

// Trades is the canonical display and iteration order.
var Trades = []Trade{TradeDrywall, TradeMEP, TradeInteriors, TradeSiteWork}

func (t Trade) Label() string {
	if t == TradeSiteWork {
		return "Site Work"
	}
	return string(t)
}

// ParseTrade accepts the code or the display label, ignoring case and inner spaces.
func ParseTrade(input string) (Trade, bool) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(input), " ", ""))
	for _, t := range Trades {
		if strings.ToLower(string(t)) == key {
			return t, true
		}
	}
	return "", false
}

type Unit string

const (
	UnitSF Unit = "SF"
	UnitLF Unit = "LF"
	UnitEA Unit = "EA"
	UnitCY Unit = "CY"
	UnitLB Unit = "LB"
	UnitLS Unit = "LS"
	UnitHR Unit = "HR"
)

var Units = []Unit{UnitSF, UnitLF, UnitEA, UnitCY, UnitLB, UnitLS, UnitHR}

func ParseUnit(input string) (Unit, bool) {
	key := strings.ToUpper(strings.TrimSpace(input))
	for _, u := range Units {
		if string(u) == key {
			return u, true
		}
	}
	return "", false
}

type Slot string

const (
	SlotA Slot = "A"
	SlotB Slot = "B"
	SlotC Slot = "C"
)

// Slots is the canonical order; winner ties resolve to the earlier slot.
var Slots = []Slot{SlotA, SlotB, SlotC}

func ParseSlot(input string) (Slot, bool) {
	key := strings.ToUpper(strings.TrimSpace(input))
	key = strings.TrimPrefix(key, "SUB ")
	for _, s := range Slots {
		if string(s) == key {
			return s, true
		}
	}
	return "", false
}

type CoverageStatus string

const (
	StatusIncluded     CoverageStatus = "INCLUDED"
	StatusExcluded     CoverageStatus = "EXCLUDED"
	StatusGap          CoverageStatus = "GAP"
	StatusUndetermined CoverageStatus = "UNDETERMINED"
	StatusNotBid       CoverageStatus = "NOT_BID"
)

type RiskTier string

const (
	RiskLow    RiskTier = "LOW"
	RiskMedium RiskTier = "MEDIUM"
	RiskHigh   RiskTier = "HIGH"
	RiskNoData RiskTier = "NO_DATA"
)

type ScopeItem struct {
	Trade       Trade   `json:"trade"`
	Name        string  `json:"item"`
	Unit        Unit    `json:"unit,omitempty"`
	Quantity    float64 `json:"quantity"`
	UnitCost    float64 `json:"unitCost"`
	BudgetTotal float64 `json:"budgetTotal"`
	Notes       string  `json:"notes,omitempty"`
}

type BidEntry struct {
	Trade      Trade    `json:"trade"`
	Slot       Slot     `json:"slot"`
	Company    string   `json:"company,omitempty"`
	Total      float64  `json:"total"`
	Inclusions []string `json:"inclusions"`
	Exclusions []string `json:"exclusions"`
}

// Active reports whether the slot has been bid. Inactive slots stay out of every comparison.
func (b BidEntry) Active() bool {
	return b.Total > 0
}

func (b BidEntry) Label() string {
	if name := strings.TrimSpace(b.Company); name != "" {
		return name
	}
	return "Sub " + string(b.Slot)
}

type MissingItem struct {
	ItemName string  `json:"item"`
	Budget   float64 `json:"budget"`
	PlugCost float64 `json:"plug"`
}

type GapResult struct {
	MissingItems []MissingItem `json:"missingItems"`
	GapCost      float64       `json:"gapCost"`
}

// HeatCell carries a percent delta vs budget. Delta is a placeholder unless HasData is set.
type HeatCell struct {
	Delta   float64 `json:"delta"`
	HasData bool    `json:"hasData"`
}
