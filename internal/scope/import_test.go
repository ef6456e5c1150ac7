package scope

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"leveler/internal"
)

func mkXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf.Bytes()
}

const sampleCSV = `Trade,Item,Unit,Quantity,Unit_Cost,Budget_Total,Description
Drywall,"5/8"" Type X GWB",SF,1000,2.85,"$2,850.00",Level 4 finish
Drywall,Metal Stud Framing,LF,400,12.5,,
Site Work,Erosion Control,LS,,,1200,
MEP,Plumbing Rough-in,EA,12,450,5400,
,,,,,,
`

func TestImportCSV(t *testing.T) {
	c := NewCatalog()
	n, err := c.Import(context.Background(), FormatCSV, "scope.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	items := c.Items()
	require.Len(t, items, 4)
	assert.Equal(t, `5/8" Type X GWB`, items[0].Name)
	assert.Equal(t, 2850.0, items[0].BudgetTotal)
	assert.Equal(t, "Level 4 finish", items[0].Notes)
	assert.Equal(t, 5000.0, items[1].BudgetTotal, "blank budget derives from quantity x unit cost")
	assert.Equal(t, internal.TradeSiteWork, items[2].Trade)
	assert.Equal(t, internal.UnitLS, items[2].Unit)
	assert.Equal(t, 0.0, items[2].Quantity)
}

func TestImportMissingColumnsLeavesCatalogUnchanged(t *testing.T) {
	c := NewCatalog()
	_, err := c.Add(ManualEntry{Trade: "MEP", Name: "Duct", Unit: "LF", Quantity: 10, UnitCost: 5})
	require.NoError(t, err)

	_, err = c.Import(context.Background(), FormatCSV, "bad.csv", strings.NewReader("Trade,Description\nMEP,x\n"))
	var verr *internal.ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, []string{"Item", "Budget_Total"}, verr.Fields)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "Duct", c.Items()[0].Name)
}

func TestImportIsAllOrNothing(t *testing.T) {
	cases := []struct {
		name    string
		csv     string
		wantRow int
		parse   bool
	}{
		{name: "unknown trade", csv: "Trade,Item,Budget_Total\nDrywall,GWB,100\nRoofing,Shingles,50\n", wantRow: 3},
		{name: "blank item", csv: "Trade,Item,Budget_Total\nMEP,,100\n", wantRow: 2},
		{name: "negative budget", csv: "Trade,Item,Budget_Total\nMEP,Duct,-5\n", wantRow: 2},
		{name: "unknown unit", csv: "Trade,Item,Unit,Budget_Total\nMEP,Duct,SY,5\n", wantRow: 2},
		{name: "underivable budget", csv: "Trade,Item,Quantity,Budget_Total\nMEP,Duct,4,\n", wantRow: 2},
		{name: "unreadable number", csv: "Trade,Item,Budget_Total\nMEP,Duct,TBD\n", wantRow: 2, parse: true},
		{name: "NaN budget", csv: "Trade,Item,Budget_Total\nMEP,Fire Alarm,10\nMEP,Duct,NaN\n", wantRow: 3, parse: true},
		{name: "infinite quantity", csv: "Trade,Item,Quantity,Unit_Cost,Budget_Total\nMEP,Duct,inf,2,\n", wantRow: 2, parse: true},
		{name: "infinite unit cost", csv: "Trade,Item,Unit_Cost,Budget_Total\nMEP,Duct,-Infinity,5\n", wantRow: 2, parse: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCatalog()
			require.NoError(t, c.Replace([]internal.ScopeItem{{Trade: internal.TradeMEP, Name: "Existing", BudgetTotal: 1}}))

			_, err := c.Import(context.Background(), FormatCSV, "in.csv", strings.NewReader(tc.csv))
			require.Error(t, err)
			if tc.parse {
				var perr *internal.ParseError
				require.True(t, errors.As(err, &perr), "got %v", err)
				assert.Equal(t, tc.wantRow, perr.Row)
			} else {
				var verr *internal.ValidationError
				require.True(t, errors.As(err, &verr), "got %v", err)
				assert.Equal(t, tc.wantRow, verr.Row)
			}
			require.Equal(t, 1, c.Len())
			assert.Equal(t, "Existing", c.Items()[0].Name)
		})
	}
}

func TestImportMalformedCSVIsParseError(t *testing.T) {
	c := NewCatalog()
	_, err := c.Import(context.Background(), FormatCSV, "empty.csv", strings.NewReader(""))
	var perr *internal.ParseError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, "empty.csv", perr.Source)
}

func TestImportHeaderVariants(t *testing.T) {
	in := "\ufefftrade, item , Budget Total *,unit cost\nmep,Duct,100,\n"
	items, err := Parse(context.Background(), FormatCSV, "v.csv", strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, internal.TradeMEP, items[0].Trade)
	assert.Equal(t, 100.0, items[0].BudgetTotal)
}

func TestImportXLSX(t *testing.T) {
	blob := mkXLSX(t, [][]any{
		{"Trade", "Item", "Unit", "Quantity", "Unit_Cost", "Budget_Total"},
		{"Interiors", "Millwork", "LF", 80, 150, 12000},
		{"Drywall", "Tape & Finish", "SF", 1000, 1.1, 1100},
	})
	items, err := Parse(context.Background(), FormatXLSX, "scope.xlsx", bytes.NewReader(blob))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, internal.TradeInteriors, items[0].Trade)
	assert.Equal(t, 12000.0, items[0].BudgetTotal)
	assert.Equal(t, "Tape & Finish", items[1].Name)
}

func TestImportHTMLTable(t *testing.T) {
	html := `<html><body><p>Scope</p>
<table>
<tr><th>Trade</th><th>Item</th><th>Budget_Total</th></tr>
<tr><td>Drywall</td><td>Metal   Stud Framing</td><td>$5,000</td></tr>
<tr><td>MEP</td><td>Fire Alarm</td><td>7,250.50</td></tr>
</table></body></html>`
	items, err := Parse(context.Background(), FormatHTML, "scope.html", strings.NewReader(html))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Metal Stud Framing", items[0].Name)
	assert.Equal(t, 7250.5, items[1].BudgetTotal)
}

func TestImportHTMLWithoutTable(t *testing.T) {
	_, err := Parse(context.Background(), FormatHTML, "none.html", strings.NewReader("<p>nothing</p>"))
	var perr *internal.ParseError
	require.True(t, errors.As(err, &perr), "got %v", err)
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scope.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	c := NewCatalog()
	n, err := c.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = c.ImportFile(context.Background(), filepath.Join(dir, "scope.pdf"))
	require.Error(t, err)
	assert.Equal(t, 4, c.Len())
}
