package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"leveler/internal"
	"leveler/internal/leveling"
)

const (
	SheetSummary  = "Summary"
	SheetCoverage = "Coverage"
	SheetGaps     = "Gaps"
	SheetHeatmap  = "Heatmap"
)

type workbook struct {
	f        *excelize.File
	header   int
	money    int
	percent  int
	currency string
}

// GenerateXLSX builds the leveling workbook and returns its bytes.
func GenerateXLSX(snap leveling.Snapshot, currency string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	for _, name := range []string{SheetCoverage, SheetGaps, SheetHeatmap} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	wb := &workbook{f: f, currency: currency}
	if err := wb.styles(); err != nil {
		return nil, err
	}

	steps := []func(leveling.Snapshot) error{wb.summary, wb.coverage, wb.gaps, wb.heatmap}
	for _, step := range steps {
		if err := step(snap); err != nil {
			return nil, err
		}
	}

	buf := bytes.NewBuffer(nil)
	if _, err := f.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveXLSX writes the workbook to path, creating parent directories.
func SaveXLSX(path string, snap leveling.Snapshot, currency string) error {
	blob, err := GenerateXLSX(snap, currency)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, blob, 0o644)
}

func (wb *workbook) styles() error {
	var err error
	wb.header, err = wb.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	numFmt := fmt.Sprintf(`"%s"#,##0.00`, wb.currency)
	wb.money, err = wb.f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("create money style: %w", err)
	}
	pctFmt := `+0.0"%";-0.0"%";0.0"%"`
	wb.percent, err = wb.f.NewStyle(&excelize.Style{CustomNumFmt: &pctFmt})
	if err != nil {
		return fmt.Errorf("create percent style: %w", err)
	}
	return nil
}

func (wb *workbook) headers(sheet string, headers []string, widths []float64) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := wb.f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if i < len(widths) {
			if err := wb.f.SetColWidth(sheet, col, col, widths[i]); err != nil {
				return err
			}
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return wb.f.SetCellStyle(sheet, "A1", last, wb.header)
}

// row writes values starting at column A and applies styles by column index.
func (wb *workbook) row(sheet string, r int, values []any, styles map[int]int) error {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, r)
		if err := wb.f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
		if style, ok := styles[i]; ok {
			if err := wb.f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return err
			}
		}
	}
	return nil
}

func (wb *workbook) summary(snap leveling.Snapshot) error {
	if err := wb.headers(SheetSummary, []string{"Trade", "Slot", "Bidder", "Bid", "Gap", "Adjusted", "Budget", "vs Budget", "Winner", "Risk"},
		[]float64{14, 6, 28, 14, 14, 14, 14, 11, 8, 10}); err != nil {
		return fmt.Errorf("summary headers: %w", err)
	}
	styles := map[int]int{3: wb.money, 4: wb.money, 5: wb.money, 6: wb.money, 7: wb.percent}
	r := 2
	for _, trade := range snap.Trades {
		for _, bid := range trade.Bids {
			if !bid.Active {
				continue
			}
			var delta any = ""
			if bid.Delta.HasData {
				delta = bid.Delta.Delta
			}
			winner := ""
			if bid.Winner {
				winner = "yes"
			}
			values := []any{trade.Label, string(bid.Slot), bid.Label, bid.Total, bid.Gap.GapCost, bid.Adjusted, trade.Budget, delta, winner, string(trade.Risk)}
			if err := wb.row(SheetSummary, r, values, styles); err != nil {
				return fmt.Errorf("summary row %d: %w", r, err)
			}
			r++
		}
	}
	return nil
}

func (wb *workbook) coverage(snap leveling.Snapshot) error {
	headers := []string{"Trade", "Item", "Budget", "Plug"}
	for _, slot := range internal.Slots {
		headers = append(headers, "Sub "+string(slot))
	}
	if err := wb.headers(SheetCoverage, headers, []float64{14, 40, 14, 14, 14, 14, 14}); err != nil {
		return fmt.Errorf("coverage headers: %w", err)
	}
	styles := map[int]int{2: wb.money, 3: wb.money}
	r := 2
	for _, trade := range snap.Trades {
		for _, row := range trade.Coverage {
			values := []any{trade.Label, row.Item, row.Budget, row.PlugCost}
			for _, slot := range internal.Slots {
				values = append(values, string(row.Status[slot]))
			}
			if err := wb.row(SheetCoverage, r, values, styles); err != nil {
				return fmt.Errorf("coverage row %d: %w", r, err)
			}
			r++
		}
	}
	return nil
}

func (wb *workbook) gaps(snap leveling.Snapshot) error {
	if err := wb.headers(SheetGaps, []string{"Trade", "Slot", "Bidder", "Item", "Budget", "Plug"},
		[]float64{14, 6, 28, 40, 14, 14}); err != nil {
		return fmt.Errorf("gap headers: %w", err)
	}
	styles := map[int]int{4: wb.money, 5: wb.money}
	r := 2
	for _, trade := range snap.Trades {
		for _, bid := range trade.Bids {
			for _, m := range bid.Gap.MissingItems {
				values := []any{trade.Label, string(bid.Slot), bid.Label, m.ItemName, m.Budget, m.PlugCost}
				if err := wb.row(SheetGaps, r, values, styles); err != nil {
					return fmt.Errorf("gap row %d: %w", r, err)
				}
				r++
			}
		}
	}
	return nil
}

func (wb *workbook) heatmap(snap leveling.Snapshot) error {
	headers := []string{"Slot"}
	for _, trade := range snap.Trades {
		headers = append(headers, trade.Label)
	}
	if err := wb.headers(SheetHeatmap, headers, []float64{10, 14, 14, 14, 14}); err != nil {
		return fmt.Errorf("heatmap headers: %w", err)
	}
	styles := map[int]int{}
	for i := range snap.Trades {
		styles[i+1] = wb.percent
	}
	r := 2
	for _, slot := range internal.Slots {
		values := []any{"Sub " + string(slot)}
		for _, trade := range snap.Trades {
			cell := snap.Heatmap[slot][trade.Trade]
			if cell.HasData {
				values = append(values, cell.Delta)
			} else {
				values = append(values, "—")
			}
		}
		if err := wb.row(SheetHeatmap, r, values, styles); err != nil {
			return fmt.Errorf("heatmap row %d: %w", r, err)
		}
		r++
	}
	risk := []any{"Risk"}
	for _, trade := range snap.Trades {
		risk = append(risk, string(trade.Risk))
	}
	return wb.row(SheetHeatmap, r, risk, nil)
}
