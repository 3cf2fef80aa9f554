package spreadsheet

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

const docHeader = `<?xml version="1.0"?>
<Workbook xmlns="urn:schemas-microsoft-com:office:spreadsheet"
 xmlns:ss="urn:schemas-microsoft-com:office:spreadsheet">
 <Worksheet ss:Name="Export">
  <Table>`

const docFooter = `  </Table>
 </Worksheet>
</Workbook>`

func row(style string, cells ...string) string {
	var b strings.Builder
	if style != "" {
		fmt.Fprintf(&b, `   <Row ss:StyleID=%q>`, style)
	} else {
		b.WriteString("   <Row>")
	}
	for _, c := range cells {
		fmt.Fprintf(&b, "<Cell><Data ss:Type=\"String\">%s</Data></Cell>", c)
	}
	b.WriteString("</Row>\n")
	return b.String()
}

func buildDoc(rows ...string) string {
	return docHeader + "\n" + strings.Join(rows, "") + docFooter
}

func TestGeneralMaterialLayout(t *testing.T) {
	doc := buildDoc(
		row("s62", "Dekorativer", "Kopf", "der", "Datei"), // styled, skipped
		row("", "", "", "", ""),                           // spacer
		row("", "Nr", "Name", "Typ", "Kategorie", "Notiz"),
		row("", "1", "Hose", "A", "Garden", "x"),
		row("", "2", "Rake", "B", "Garden", "y"),
		row("", "3", "Pan", "A", "Kitchen", "z"),
	)

	tbl, err := Extract(strings.NewReader(doc), LayoutGeneralMaterial)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if tbl.Len() != 3 {
		t.Errorf("rows = %d, want 3", tbl.Len())
	}
	if len(tbl.Columns) != 4 {
		t.Errorf("columns = %d, want 4", len(tbl.Columns))
	}
	if tbl.Columns[1] != "Produktname (intern)" {
		t.Errorf("column 2 = %q, want %q", tbl.Columns[1], "Produktname (intern)")
	}
	if tbl.Columns[3] != "Produktkategorien (intern)" {
		t.Errorf("column 4 = %q, want %q", tbl.Columns[3], "Produktkategorien (intern)")
	}
	if got := tbl.Get(0, "Produktname (intern)"); got != "Hose" {
		t.Errorf("first product name = %q, want %q", got, "Hose")
	}
	if got := tbl.Get(2, "Produktkategorien (intern)"); got != "Kitchen" {
		t.Errorf("last category = %q, want %q", got, "Kitchen")
	}
}

func TestUnitLayoutFilter(t *testing.T) {
	rows := []string{
		row("s10", "Export", "Kopf"), // styled, skipped
		row("", "Stand", "2023"),
		row("", "", ""),
		row("", "", ""),
		row("", "Artikel", "Mengenart", "Preis"),
	}
	// 10 data rows, 3 of them Produkteinheit
	for i := 0; i < 10; i++ {
		mengenart := "Verpackung"
		if i%4 == 0 { // rows 0, 4, 8
			mengenart = "Produkteinheit"
		}
		rows = append(rows, row("", fmt.Sprintf("Artikel-%d", i), mengenart, "9,99"))
	}

	tbl, err := Extract(strings.NewReader(buildDoc(rows...)), LayoutUnit)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if tbl.Len() != 3 {
		t.Fatalf("rows = %d, want 3", tbl.Len())
	}
	// Index restarts at zero: first kept row is Artikel-0
	wantFirst := []string{"Artikel-0", "Artikel-4", "Artikel-8"}
	for i, want := range wantFirst {
		if got := tbl.Get(i, "Artikel"); got != want {
			t.Errorf("row %d = %q, want %q", i, got, want)
		}
	}
	for i := 0; i < tbl.Len(); i++ {
		if got := tbl.Get(i, "Mengenart"); got != "Produkteinheit" {
			t.Errorf("row %d Mengenart = %q, want Produkteinheit", i, got)
		}
	}
}

func TestUnitLayoutMissingQuantityColumn(t *testing.T) {
	doc := buildDoc(
		row("", "a"),
		row("", "b"),
		row("", "c"),
		row("", "Artikel", "Preis"),
		row("", "x", "1"),
	)

	_, err := Extract(strings.NewReader(doc), LayoutUnit)
	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

func TestUnimplementedLayouts(t *testing.T) {
	doc := buildDoc(row("", "a", "b"))

	for _, layout := range []Layout{LayoutPriceList, LayoutStock, LayoutSupplier, LayoutOrderHistory, LayoutVariant} {
		_, err := Extract(strings.NewReader(doc), layout)
		if !errors.Is(err, ErrNotImplemented) {
			t.Errorf("layout %s: expected ErrNotImplemented, got %v", layout, err)
		}
		if err != nil && !strings.Contains(err.Error(), layout.String()) {
			t.Errorf("layout %s: error %q does not name the layout", layout, err)
		}
	}
}

func TestMalformedDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not xml", "definitely not xml"},
		{"no worksheet", `<?xml version="1.0"?><Workbook xmlns="urn:schemas-microsoft-com:office:spreadsheet"></Workbook>`},
		{"too few rows", buildDoc(row("", "only", "one"))},
		{"narrow header", buildDoc(
			row("", ""),
			row("", "Nr", "Name"),
			row("", "1", "Hose"),
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(strings.NewReader(tt.doc), LayoutGeneralMaterial)
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Errorf("expected FormatError, got %v", err)
			}
		})
	}
}

func TestParseLayout(t *testing.T) {
	tests := []struct {
		in      string
		want    Layout
		wantErr bool
	}{
		{"general_material", LayoutGeneralMaterial, false},
		{"unit", LayoutUnit, false},
		{" Unit ", LayoutUnit, false},
		{"price_list", LayoutPriceList, false},
		{"bogus", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseLayout(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLayout(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLayout(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLayout(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// Extraction never touches session state: the returned table must be
// self-contained.
func TestExtractReturnsFreshTable(t *testing.T) {
	doc := buildDoc(
		row("", "", ""),
		row("", "Nr", "Name", "Typ", "Kategorie"),
		row("", "1", "Hose", "A", "Garden"),
	)

	a, err := Extract(strings.NewReader(doc), LayoutGeneralMaterial)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	b, err := Extract(strings.NewReader(doc), LayoutGeneralMaterial)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	a.Set(0, "Produktname (intern)", "changed")
	if got := b.Get(0, "Produktname (intern)"); got != "Hose" {
		t.Errorf("tables share state: %q", got)
	}
}
