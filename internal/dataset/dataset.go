package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrEmpty means the uploaded file had no header row.
var ErrEmpty = errors.New("dataset has no header row")

// Dataset is an in-memory table: ordered columns and rows as column->value
// maps. Cell values stay strings; the QA model does its own typing.
type Dataset struct {
	Name       string
	Columns    []string
	Rows       []map[string]string
	UploadedAt time.Time
}

// ParseCSV reads an entire CSV stream into a Dataset. The first record is the
// header; every data record must have the same field count (encoding/csv
// enforces this, so ragged files fail with a positioned error).
func ParseCSV(name string, r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	ds := &Dataset{Name: name, Columns: header, UploadedAt: time.Now()}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(ds.Rows)+2, err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			row[col] = rec[i]
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}

// Head returns up to n rows in column order, for previews.
func (d *Dataset) Head(n int) [][]string {
	if n > len(d.Rows) {
		n = len(d.Rows)
	}

	out := make([][]string, 0, n)
	for _, row := range d.Rows[:n] {
		vals := make([]string, len(d.Columns))
		for i, col := range d.Columns {
			vals[i] = row[col]
		}
		out = append(out, vals)
	}
	return out
}

// ColumnTable returns the column-oriented view the QA bridge consumes:
// column name -> cell values, row order preserved.
func (d *Dataset) ColumnTable() map[string][]string {
	table := make(map[string][]string, len(d.Columns))
	for _, col := range d.Columns {
		vals := make([]string, len(d.Rows))
		for i, row := range d.Rows {
			vals[i] = row[col]
		}
		table[col] = vals
	}
	return table
}
