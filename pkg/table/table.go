package table

import "fmt"

// Canonical product column names. Uploads are validated against the
// required set; the description column is created lazily by the first
// enrichment run.
const (
	ColCategory     = "Category"
	ColCategoryRank = "Category Rank"
	ColPrice        = "Price"
	ColRating       = "Rating"
	ColSalesVolume  = "Sales Volume"
	ColProductName  = "Product Name"
	ColProductURL   = "Product URL"
	ColImageURL     = "Image URL"
	ColYear         = "Year"
	ColDescription  = "Image Description"

	// Trend summary table columns
	ColTrendCategory = "Category"
	ColTrendSummary  = "Trend Summary"
)

// RequiredUploadColumns is the minimum schema a tabular upload must carry.
var RequiredUploadColumns = []string{
	ColCategory,
	ColCategoryRank,
	ColPrice,
	ColRating,
	ColSalesVolume,
	ColProductName,
	ColProductURL,
	ColImageURL,
	ColYear,
}

// Table is an ordered collection of rows sharing a fixed column schema.
// Row identity is the row index. The zero value is not usable; construct
// with New.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

func New(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{
		Columns: cols,
		Rows:    make([][]string, 0),
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AppendRow adds a row, padding or truncating to the column count.
func (t *Table) AppendRow(values []string) {
	row := make([]string, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}

// EnsureColumn returns the index of the named column, creating it (and
// padding every existing row with an empty cell) when absent.
func (t *Table) EnsureColumn(name string) int {
	if idx := t.ColumnIndex(name); idx != -1 {
		return idx
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
	return len(t.Columns) - 1
}

// Get reads a cell by row index and column name. Out-of-range access
// returns the empty string.
func (t *Table) Get(row int, column string) string {
	col := t.ColumnIndex(column)
	if col == -1 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][col]
}

// Set writes a single cell. The row must already exist: the enrichment
// merge step is not allowed to grow the table.
func (t *Table) Set(row int, column, value string) error {
	if row < 0 || row >= len(t.Rows) {
		return fmt.Errorf("table: row %d out of range (len %d)", row, len(t.Rows))
	}
	col := t.ColumnIndex(column)
	if col == -1 {
		return fmt.Errorf("table: unknown column %q", column)
	}
	t.Rows[row][col] = value
	return nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := New(t.Columns)
	for _, row := range t.Rows {
		out.AppendRow(row)
	}
	return out
}

// MissingColumns reports which of the wanted columns the table lacks.
func (t *Table) MissingColumns(wanted []string) []string {
	var missing []string
	for _, w := range wanted {
		if t.ColumnIndex(w) == -1 {
			missing = append(missing, w)
		}
	}
	return missing
}
