// Package report renders a leveling snapshot for people and other programs.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"leveler/internal"
	"leveler/internal/leveling"
	"leveler/internal/util"
)

// Mark is the short coverage symbol used in tables.
func Mark(status internal.CoverageStatus) string {
	switch status {
	case internal.StatusIncluded:
		return "✓"
	case internal.StatusExcluded:
		return "✗"
	case internal.StatusGap:
		return "GAP"
	case internal.StatusUndetermined:
		return "?"
	default:
		return "—"
	}
}

// Delta formats a heat cell, showing a dash when there is no data.
func Delta(cell internal.HeatCell) string {
	if !cell.HasData {
		return "—"
	}
	return util.FormatPercent(cell.Delta)
}

func WriteText(w io.Writer, snap leveling.Snapshot, currency string) error {
	money := func(v float64) string { return util.FormatCurrency(currency, v) }
	ew := &errWriter{w: w}

	ew.printf("Bid leveling  run %s  %s\n", snap.RunID, snap.GeneratedAt.Format("2006-01-02 15:04 MST"))
	ew.printf("Scope: %d line items across %d trades, budget %s\n",
		snap.Scope.LineItems, snap.Scope.TradesCovered, money(snap.Scope.TotalBudget))

	for _, trade := range snap.Trades {
		ew.printf("\n== %s  budget %s  risk %s\n", trade.Label, money(trade.Budget), trade.Risk)
		writeBids(ew, trade, money)
		writeGaps(ew, trade, money)
		writeCoverage(ew, trade)
	}

	ew.printf("\nRisk heatmap (adjusted vs budget)\n")
	writeHeatmap(ew, snap)
	return ew.err
}

func writeBids(w io.Writer, trade leveling.TradeView, money func(float64) string) {
	table := newTable(w, []string{"Slot", "Bidder", "Bid", "Gap", "Adjusted", "vs Budget", ""})
	for _, bid := range trade.Bids {
		if !bid.Active {
			table.Append([]string{string(bid.Slot), bid.Label, "not bid", "", "", "—", ""})
			continue
		}
		winner := ""
		if bid.Winner {
			winner = "winner"
		}
		table.Append([]string{
			string(bid.Slot),
			bid.Label,
			money(bid.Total),
			money(bid.Gap.GapCost),
			money(bid.Adjusted),
			Delta(bid.Delta),
			winner,
		})
	}
	table.Render()
}

func writeGaps(w io.Writer, trade leveling.TradeView, money func(float64) string) {
	for _, bid := range trade.Bids {
		if len(bid.Gap.MissingItems) == 0 {
			continue
		}
		names := make([]string, 0, len(bid.Gap.MissingItems))
		for _, m := range bid.Gap.MissingItems {
			names = append(names, fmt.Sprintf("%s (%s)", m.ItemName, money(m.PlugCost)))
		}
		fmt.Fprintf(w, "  %s missing: %s\n", bid.Label, strings.Join(names, ", "))
	}
}

func writeCoverage(w io.Writer, trade leveling.TradeView) {
	if len(trade.Coverage) == 0 {
		fmt.Fprintf(w, "  no scope items\n")
		return
	}
	headers := []string{"Item"}
	for _, bid := range trade.Bids {
		headers = append(headers, bid.Label)
	}
	table := newTable(w, headers)
	for _, row := range trade.Coverage {
		line := []string{row.Item}
		for _, bid := range trade.Bids {
			line = append(line, Mark(row.Status[bid.Slot]))
		}
		table.Append(line)
	}
	table.Render()
}

func writeHeatmap(w io.Writer, snap leveling.Snapshot) {
	headers := []string{"Slot"}
	for _, trade := range snap.Trades {
		headers = append(headers, trade.Label)
	}
	table := newTable(w, headers)
	for _, slot := range internal.Slots {
		line := []string{"Sub " + string(slot)}
		for _, trade := range snap.Trades {
			line = append(line, Delta(snap.Heatmap[slot][trade.Trade]))
		}
		table.Append(line)
	}
	risk := []string{"Risk"}
	for _, trade := range snap.Trades {
		risk = append(risk, string(trade.Risk))
	}
	table.Append(risk)
	table.Render()
}

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

// errWriter keeps the first write error so the caller checks once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...any) {
	fmt.Fprintf(e, format, args...)
}
