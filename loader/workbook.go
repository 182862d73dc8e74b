package loader

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/huongly92/nestmap/table"
)

// SheetColumn is the synthetic provenance column added when a multi-sheet
// union tags each row with its source sheet.
const SheetColumn = "_sheet_name"

// Workbook is a spreadsheet source addressed by sheet name. The first row
// of a sheet is its header; cell values get the same type inference as CSV
// cells.
type Workbook struct {
	f *excelize.File
}

// OpenWorkbook opens an xlsx file from disk.
func OpenWorkbook(filename string) (*Workbook, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook %s: %w", filename, err)
	}
	return &Workbook{f: f}, nil
}

// OpenWorkbookReader opens an xlsx workbook from already-materialized bytes,
// e.g. a buffer fetched by some remote-storage layer.
func OpenWorkbookReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook: %w", err)
	}
	return &Workbook{f: f}, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// SheetNames lists the workbook's sheets in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Sheet reads one sheet into a table.
func (w *Workbook) Sheet(name string) (*table.Table, error) {
	rows, err := w.f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return table.NewTable(nil), nil
	}

	columns := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		columns[i] = strings.TrimSpace(h)
	}

	t := table.NewTable(columns)
	for _, row := range rows[1:] {
		vals := make([]table.Value, len(columns))
		for i := range columns {
			if i < len(row) {
				vals[i] = parseValue(strings.TrimSpace(row[i]))
			} else {
				// excelize trims trailing empty cells
				vals[i] = table.Null()
			}
		}
		t.AddRow(vals)
	}
	return t, nil
}

// Union reads several sheets and concatenates their rows in listed order.
// Columns are unioned into a superset; cells a sheet does not have are null.
// With tagSheet, every row carries its source sheet in SheetColumn.
func (w *Workbook) Union(sheets []string, tagSheet bool) (*table.Table, error) {
	if len(sheets) == 1 && !tagSheet {
		return w.Sheet(sheets[0])
	}

	tables := make([]*table.Table, len(sheets))
	colSet := make(map[string]bool)
	var columns []string
	for i, name := range sheets {
		st, err := w.Sheet(name)
		if err != nil {
			return nil, err
		}
		tables[i] = st
		for _, col := range st.Columns {
			if !colSet[col] {
				colSet[col] = true
				columns = append(columns, col)
			}
		}
	}
	if tagSheet && !colSet[SheetColumn] {
		columns = append(columns, SheetColumn)
	}

	result := table.NewTable(columns)
	for i, st := range tables {
		for _, row := range st.Rows {
			vals := make([]table.Value, len(columns))
			for j, col := range columns {
				if tagSheet && col == SheetColumn {
					vals[j] = table.StrVal(sheets[i])
					continue
				}
				idx := st.ColIndex(col)
				if idx < 0 {
					vals[j] = table.Null()
					continue
				}
				vals[j] = row.Values[idx]
			}
			result.AddRow(vals)
		}
	}
	return result, nil
}

// firstSheet loads the workbook's first sheet, mirroring what spreadsheet
// readers default to when no sheet is named.
func (w *Workbook) firstSheet() (*table.Table, error) {
	sheets := w.SheetNames()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return w.Sheet(sheets[0])
}
