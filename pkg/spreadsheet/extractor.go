package spreadsheet

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"ai-trendboard-be/pkg/table"
)

// Layout identifies one of the seven known worksheet layouts of the
// legacy SpreadsheetML export. Only the general-material and unit
// layouts carry data the dashboard can use; the remaining five are
// declared so callers fail loudly instead of getting an empty table.
type Layout int

const (
	LayoutGeneralMaterial Layout = iota
	LayoutUnit
	LayoutPriceList
	LayoutStock
	LayoutSupplier
	LayoutOrderHistory
	LayoutVariant
)

var layoutNames = map[Layout]string{
	LayoutGeneralMaterial: "general_material",
	LayoutUnit:            "unit",
	LayoutPriceList:       "price_list",
	LayoutStock:           "stock",
	LayoutSupplier:        "supplier",
	LayoutOrderHistory:    "order_history",
	LayoutVariant:         "variant",
}

func (l Layout) String() string {
	if name, ok := layoutNames[l]; ok {
		return name
	}
	return fmt.Sprintf("layout(%d)", int(l))
}

// ParseLayout resolves a layout selector string as sent by the upload form.
func ParseLayout(s string) (Layout, error) {
	for l, name := range layoutNames {
		if name == strings.TrimSpace(strings.ToLower(s)) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("spreadsheet: unknown layout %q", s)
}

// ErrNotImplemented is returned for the five declared layouts that have
// no extraction rules yet.
var ErrNotImplemented = errors.New("spreadsheet: layout not implemented")

// FormatError reports a document that does not match the legacy
// SpreadsheetML dialect or the selected layout's shape.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("spreadsheet: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("spreadsheet: %s", e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// fixed column names of the general-material layout
const (
	colProductNameInternal     = "Produktname (intern)"
	colProductCategoryInternal = "Produktkategorien (intern)"
)

// unit layout filter
const (
	colQuantityType  = "Mengenart"
	quantityTypeUnit = "Produkteinheit"
)

// layoutExtractor turns the raw (style-filtered) cell grid of one
// worksheet into a table.
type layoutExtractor interface {
	extract(rows [][]string) (*table.Table, error)
}

var extractors = map[Layout]layoutExtractor{
	LayoutGeneralMaterial: generalMaterialExtractor{},
	LayoutUnit:            unitExtractor{},
	LayoutPriceList:       notImplementedExtractor{LayoutPriceList},
	LayoutStock:           notImplementedExtractor{LayoutStock},
	LayoutSupplier:        notImplementedExtractor{LayoutSupplier},
	LayoutOrderHistory:    notImplementedExtractor{LayoutOrderHistory},
	LayoutVariant:         notImplementedExtractor{LayoutVariant},
}

// Extract parses a legacy SpreadsheetML document and applies the
// extraction rules of the selected layout.
func Extract(r io.Reader, layout Layout) (*table.Table, error) {
	ex, ok := extractors[layout]
	if !ok {
		return nil, fmt.Errorf("spreadsheet: unknown layout %d", int(layout))
	}

	rows, err := readWorksheetRows(r)
	if err != nil {
		return nil, err
	}
	return ex.extract(rows)
}

// --- document parsing ---

// xmlWorkbook mirrors the structural path the rows live under:
// Workbook > Worksheet > Table > Row > Cell > Data.
type xmlWorkbook struct {
	Worksheets []xmlWorksheet `xml:"Worksheet"`
}

type xmlWorksheet struct {
	Table xmlTable `xml:"Table"`
}

type xmlTable struct {
	Rows []xmlRow `xml:"Row"`
}

type xmlRow struct {
	// Rows carrying a style are decorative headers/footers of the
	// export and never hold data.
	StyleID string    `xml:"urn:schemas-microsoft-com:office:spreadsheet StyleID,attr"`
	Cells   []xmlCell `xml:"Cell"`
}

type xmlCell struct {
	Data string `xml:"Data"`
}

func readWorksheetRows(r io.Reader) ([][]string, error) {
	var wb xmlWorkbook
	if err := xml.NewDecoder(r).Decode(&wb); err != nil {
		return nil, &FormatError{Reason: "malformed document", Err: err}
	}
	if len(wb.Worksheets) == 0 {
		return nil, &FormatError{Reason: "document has no worksheet"}
	}

	t := wb.Worksheets[0].Table
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if row.StyleID != "" {
			continue
		}
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.Data
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// --- layout rules ---

// generalMaterialExtractor: the first row is a spacer, the second holds
// the column headers, and only the first four columns carry data. The
// second and fourth columns get their fixed internal names.
type generalMaterialExtractor struct{}

func (generalMaterialExtractor) extract(rows [][]string) (*table.Table, error) {
	if len(rows) < 2 {
		return nil, &FormatError{Reason: "general_material layout needs a spacer and a header row"}
	}

	if len(rows[1]) < 4 {
		return nil, &FormatError{Reason: "general_material header has fewer than 4 columns"}
	}
	header := firstN(rows[1], 4)
	header[1] = colProductNameInternal
	header[3] = colProductCategoryInternal

	out := table.New(header)
	for _, row := range rows[2:] {
		out.AppendRow(firstN(row, 4))
	}
	return out, nil
}

// unitExtractor: three leading rows precede the header; data rows are
// kept only when their quantity-type column holds the literal
// "Produkteinheit". Row indices restart at zero in the result.
type unitExtractor struct{}

func (unitExtractor) extract(rows [][]string) (*table.Table, error) {
	if len(rows) < 4 {
		return nil, &FormatError{Reason: "unit layout needs three leading rows and a header row"}
	}

	header := rows[3]
	out := table.New(header)
	qtCol := out.ColumnIndex(colQuantityType)
	if qtCol == -1 {
		return nil, &FormatError{Reason: fmt.Sprintf("unit layout header is missing the %q column", colQuantityType)}
	}

	for _, row := range rows[4:] {
		if qtCol < len(row) && row[qtCol] == quantityTypeUnit {
			out.AppendRow(row)
		}
	}
	return out, nil
}

type notImplementedExtractor struct {
	layout Layout
}

func (e notImplementedExtractor) extract([][]string) (*table.Table, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotImplemented, e.layout)
}

func firstN(row []string, n int) []string {
	if len(row) > n {
		row = row[:n]
	}
	out := make([]string, n)
	copy(out, row)
	return out
}
