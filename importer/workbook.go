package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/consultorio-iudc/estudiantes_db/dataset"
	"github.com/consultorio-iudc/estudiantes_db/formats"
)

// OutputSheet is the sheet every exported workbook is written to
const OutputSheet = "Sheet1"

// Sheet is one worksheet read through a format layout
type Sheet struct {
	Name string
	Data *dataset.Dataset
}

// ReadSheets reads every sheet of the workbook at path in workbook order,
// applying the row offset and column window of layout.
func ReadSheets(path string, layout formats.Layout) ([]Sheet, error) {
	first, last, err := columnWindow(layout)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, newImportError(CodeReadFailed, "error opening workbook", err,
			map[string]string{"file": filepath.Base(path)})
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, newImportError(CodeReadFailed, fmt.Sprintf("error reading sheet %s", name), err,
				map[string]string{"file": filepath.Base(path), "sheet": name})
		}
		if len(rows) > layout.SkipRows {
			rows = rows[layout.SkipRows:]
		} else {
			rows = nil
		}
		sheets = append(sheets, Sheet{Name: name, Data: frameFromRows(rows, first, last)})
	}
	return sheets, nil
}

// ReadWorkbook loads the first sheet of a workbook with its header on the first row
func ReadWorkbook(path string) (string, *dataset.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", nil, newImportError(CodeReadFailed, "error opening workbook", err,
			map[string]string{"file": filepath.Base(path)})
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, newImportError(CodeReadFailed, "workbook has no sheets", nil,
			map[string]string{"file": filepath.Base(path)})
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return "", nil, newImportError(CodeReadFailed, fmt.Sprintf("error reading sheet %s", sheets[0]), err,
			map[string]string{"file": filepath.Base(path), "sheet": sheets[0]})
	}
	return sheets[0], frameFromRows(rows, 0, -1), nil
}

// WriteWorkbook saves d to path as a single sheet with a header row and no index column
func WriteWorkbook(path string, d *dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(d.Columns))
	for i, c := range d.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(OutputSheet, "A1", &header); err != nil {
		return newImportError(CodeWriteFailed, "error writing header", err, nil)
	}

	for r, row := range d.Rows {
		values := make([]interface{}, len(d.Columns))
		for i := range d.Columns {
			if i < len(row) {
				values[i] = row[i]
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(OutputSheet, cell, &values); err != nil {
			return newImportError(CodeWriteFailed, fmt.Sprintf("error writing row %d", r+1), err, nil)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return newImportError(CodeWriteFailed, "error saving workbook", err,
			map[string]string{"file": filepath.Base(path)})
	}
	return nil
}

// columnWindow converts layout column letters to zero-based bounds. last is -1
// when the window is open ended.
func columnWindow(layout formats.Layout) (int, int, error) {
	first, last := 0, -1
	if layout.FirstColumn != "" {
		n, err := excelize.ColumnNameToNumber(layout.FirstColumn)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid first column %q: %w", layout.FirstColumn, err)
		}
		first = n - 1
	}
	if layout.LastColumn != "" {
		n, err := excelize.ColumnNameToNumber(layout.LastColumn)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid last column %q: %w", layout.LastColumn, err)
		}
		last = n - 1
	}
	if last != -1 && last < first {
		return 0, 0, fmt.Errorf("invalid column window %s:%s", layout.FirstColumn, layout.LastColumn)
	}
	return first, last, nil
}

// frameFromRows turns raw sheet rows into a dataset. The first row is the
// header; blank header cells become "Unnamed: <index>".
func frameFromRows(rows [][]string, first, last int) *dataset.Dataset {
	if len(rows) == 0 {
		return dataset.New()
	}

	width := last - first + 1
	if last == -1 {
		width = 0
		for _, row := range rows {
			if n := len(row) - first; n > width {
				width = n
			}
		}
	}

	header := window(rows[0], first, width)
	columns := make([]string, width)
	for i, h := range header {
		h = norm.NFC.String(strings.TrimSpace(h))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		columns[i] = h
	}

	d := dataset.New(columns...)
	for _, row := range rows[1:] {
		cells := window(row, first, width)
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		d.Append(cells...)
	}
	return d
}

func window(row []string, first, width int) []string {
	out := make([]string, width)
	for i := 0; i < width; i++ {
		if j := first + i; j < len(row) {
			out[i] = row[j]
		}
	}
	return out
}
