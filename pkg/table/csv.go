package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// EncodeCSV renders the table as UTF-8 comma-separated bytes with a
// header row. The output is stable for a given table.
func EncodeCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}
	for i, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("encode row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeCSV parses comma-separated input whose first record is the
// header row.
func DecodeCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("decode: empty document")
	}
	if err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}

	t := New(header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", t.Len(), err)
		}
		t.AppendRow(record)
	}
	return t, nil
}
