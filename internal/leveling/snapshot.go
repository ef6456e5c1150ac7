package leveling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"leveler/internal"
	"leveler/internal/scope"
)

// BidLine is one slot of a trade as the report shows it.
type BidLine struct {
	Slot     internal.Slot      `json:"slot"`
	Label    string             `json:"label"`
	Active   bool               `json:"active"`
	Total    float64            `json:"total"`
	Gap      internal.GapResult `json:"gap"`
	Adjusted float64            `json:"adjusted"`
	Delta    internal.HeatCell  `json:"delta"`
	Winner   bool               `json:"winner"`
}

type TradeView struct {
	Trade    internal.Trade    `json:"trade"`
	Label    string            `json:"label"`
	Budget   float64           `json:"budget"`
	Bids     []BidLine         `json:"bids"`
	Coverage []CoverageRow     `json:"coverage"`
	Winner   *internal.Slot    `json:"winner,omitempty"`
	Risk     internal.RiskTier `json:"risk"`
}

// Stats counts coverage decisions across every active bid.
type Stats struct {
	ActiveBids   int `json:"activeBids"`
	Included     int `json:"included"`
	Excluded     int `json:"excluded"`
	Gaps         int `json:"gaps"`
	Undetermined int `json:"undetermined"`
}

// Snapshot is the read model handed to presentation. It is assembled only from Evaluator queries.
type Snapshot struct {
	RunID       string                                                 `json:"runId"`
	GeneratedAt time.Time                                              `json:"generatedAt"`
	Scope       scope.Summary                                          `json:"scope"`
	Trades      []TradeView                                            `json:"trades"`
	Heatmap     map[internal.Slot]map[internal.Trade]internal.HeatCell `json:"heatmap"`
	Stats       Stats                                                  `json:"stats"`
}

func (e *Evaluator) Snapshot(ctx context.Context) Snapshot {
	start := time.Now()
	heatmap := e.Heatmap()
	snap := Snapshot{
		RunID:       uuid.NewString(),
		GeneratedAt: start.UTC(),
		Scope:       e.state.Scope.Summary(),
		Trades:      make([]TradeView, 0, len(internal.Trades)),
		Heatmap:     heatmap,
	}

	for _, trade := range internal.Trades {
		view := TradeView{
			Trade:    trade,
			Label:    trade.Label(),
			Budget:   e.state.Scope.TradeBudget(trade),
			Coverage: e.Coverage(trade),
			Risk:     e.RiskTier(trade),
		}
		winner, ok := e.Winner(trade)
		if ok {
			view.Winner = &winner
		}
		for _, bid := range e.state.Bids.ForTrade(trade) {
			line := BidLine{
				Slot:   bid.Slot,
				Label:  bid.Label(),
				Active: bid.Active(),
				Total:  bid.Total,
				Delta:  heatmap[bid.Slot][trade],
				Winner: ok && bid.Slot == winner,
			}
			if line.Active {
				snap.Stats.ActiveBids++
				line.Gap = e.Evaluate(trade, bid.Slot)
				line.Adjusted = e.AdjustedTotal(trade, bid.Slot)
			} else {
				line.Gap = internal.GapResult{MissingItems: []internal.MissingItem{}}
			}
			view.Bids = append(view.Bids, line)
		}
		countStatuses(&snap.Stats, view.Coverage, view.Bids)
		snap.Trades = append(snap.Trades, view)
	}

	klog.FromContext(ctx).V(1).Info("leveling snapshot built",
		"runId", snap.RunID,
		"items", snap.Scope.LineItems,
		"activeBids", snap.Stats.ActiveBids,
		"gaps", snap.Stats.Gaps,
		"elapsed", time.Since(start),
	)
	return snap
}

func countStatuses(stats *Stats, rows []CoverageRow, bids []BidLine) {
	for _, row := range rows {
		for _, bid := range bids {
			if !bid.Active {
				continue
			}
			switch row.Status[bid.Slot] {
			case internal.StatusIncluded:
				stats.Included++
			case internal.StatusExcluded:
				stats.Excluded++
			case internal.StatusGap:
				stats.Gaps++
			case internal.StatusUndetermined:
				stats.Undetermined++
			}
		}
	}
}
