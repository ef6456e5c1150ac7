package scope

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
	"k8s.io/klog/v2"

	"leveler/internal"
	"leveler/internal/util"
)

const (
	colTrade       = "Trade"
	colItem        = "Item"
	colBudgetTotal = "Budget_Total"
	colUnit        = "Unit"
	colQuantity    = "Quantity"
	colUnitCost    = "Unit_Cost"
	colDescription = "Description"
)

var (
	RequiredColumns = []string{colTrade, colItem, colBudgetTotal}
	OptionalColumns = []string{colUnit, colQuantity, colUnitCost, colDescription}
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
)

func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported scope file %s: must be .csv, .xlsx or .html", filepath.Base(path))
	}
}

// table is the header row plus data rows of an uploaded sheet, before validation.
type table struct {
	headers []string
	rows    [][]string
}

// ImportFile replaces the catalog with the contents of a scope file. On any error the catalog is unchanged.
func (c *Catalog) ImportFile(ctx context.Context, path string) (int, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return c.Import(ctx, format, filepath.Base(path), f)
}

func (c *Catalog) Import(ctx context.Context, format Format, source string, r io.Reader) (int, error) {
	items, err := Parse(ctx, format, source, r)
	if err != nil {
		return 0, err
	}
	if err := c.Replace(items); err != nil {
		return 0, err
	}
	klog.FromContext(ctx).Info("scope imported", "source", source, "items", len(items))
	return len(items), nil
}

// Parse reads and validates a whole scope sheet. It returns either every row or an error.
func Parse(ctx context.Context, format Format, source string, r io.Reader) ([]internal.ScopeItem, error) {
	var (
		t   table
		err error
	)
	switch format {
	case FormatCSV:
		t, err = readCSV(r)
	case FormatXLSX:
		t, err = readXLSX(r)
	case FormatHTML:
		t, err = readHTMLTable(r)
	default:
		return nil, fmt.Errorf("unsupported scope format: %s", format)
	}
	if err != nil {
		return nil, &internal.ParseError{Source: source, Cause: err}
	}
	klog.FromContext(ctx).V(2).Info("scope sheet read", "source", source, "format", format, "rows", len(t.rows))
	return t.toItems(source)
}

func readCSV(r io.Reader) (table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return table{}, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(all) == 0 {
		return table{}, errors.New("file has no header row")
	}
	return table{headers: all[0], rows: all[1:]}, nil
}

func readXLSX(r io.Reader) (table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return table{}, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return table{}, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return table{}, errors.New("file has no header row")
	}
	return table{headers: rows[0], rows: rows[1:]}, nil
}

func readHTMLTable(r io.Reader) (table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return table{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var out table
	found := false
	doc.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		rows := tbl.Find("tr")
		if rows.Length() == 0 {
			return true
		}
		rows.Each(func(i int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, util.NormalizeSpaces(cell.Text()))
			})
			if i == 0 {
				out.headers = cells
				return
			}
			out.rows = append(out.rows, cells)
		})
		found = true
		return false
	})
	if !found {
		return table{}, errors.New("no <table> with rows found")
	}
	return out, nil
}

func (t table) columnIndex() map[string]int {
	canonical := map[string]string{}
	for _, col := range append(append([]string{}, RequiredColumns...), OptionalColumns...) {
		canonical[headerKey(col)] = col
	}
	idx := map[string]int{}
	for i, h := range t.headers {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if col, ok := canonical[headerKey(h)]; ok {
			if _, dup := idx[col]; !dup {
				idx[col] = i
			}
		}
	}
	return idx
}

func headerKey(h string) string {
	h = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(h), "*"))
	h = strings.ToLower(h)
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

func (t table) toItems(source string) ([]internal.ScopeItem, error) {
	idx := t.columnIndex()
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &internal.ValidationError{Op: "import scope", Fields: missing, Message: "missing required columns"}
	}

	items := make([]internal.ScopeItem, 0, len(t.rows))
	for i, row := range t.rows {
		if isBlankRow(row) {
			continue
		}
		item, err := rowToItem(source, i+2, row, idx)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func rowToItem(source string, rowNo int, row []string, idx map[string]int) (internal.ScopeItem, error) {
	cell := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	invalid := func(col, msg string) error {
		return &internal.ValidationError{Op: "import scope", Row: rowNo, Fields: []string{col}, Message: msg}
	}
	amount := func(col string) (float64, bool, error) {
		v, ok, err := util.ParseAmount(cell(col))
		if err != nil {
			return 0, false, &internal.ParseError{Source: source, Row: rowNo, Cause: fmt.Errorf("%s: %w", col, err)}
		}
		if v < 0 {
			return 0, false, invalid(col, fmt.Sprintf("must be >= 0, got %v", v))
		}
		return v, ok, nil
	}

	trade, ok := internal.ParseTrade(cell(colTrade))
	if !ok {
		return internal.ScopeItem{}, invalid(colTrade, fmt.Sprintf("unknown trade %q", cell(colTrade)))
	}
	name := cell(colItem)
	if name == "" {
		return internal.ScopeItem{}, invalid(colItem, "item name is required")
	}

	var unit internal.Unit
	if raw := cell(colUnit); raw != "" {
		unit, ok = internal.ParseUnit(raw)
		if !ok {
			return internal.ScopeItem{}, invalid(colUnit, fmt.Sprintf("unknown unit %q", raw))
		}
	}

	qty, hasQty, err := amount(colQuantity)
	if err != nil {
		return internal.ScopeItem{}, err
	}
	unitCost, hasCost, err := amount(colUnitCost)
	if err != nil {
		return internal.ScopeItem{}, err
	}
	budget, hasBudget, err := amount(colBudgetTotal)
	if err != nil {
		return internal.ScopeItem{}, err
	}
	if !hasBudget {
		if !hasQty || !hasCost {
			return internal.ScopeItem{}, invalid(colBudgetTotal, "budget is blank and cannot be derived from quantity and unit cost")
		}
		budget = util.Extend(qty, unitCost)
	}

	return internal.ScopeItem{
		Trade:       trade,
		Name:        name,
		Unit:        unit,
		Quantity:    qty,
		UnitCost:    unitCost,
		BudgetTotal: budget,
		Notes:       cell(colDescription),
	}, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
