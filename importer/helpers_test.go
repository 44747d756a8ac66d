package importer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type testSheet struct {
	name    string
	skip    int // filler rows written above the header
	offset  int // first column, 1 based
	header  []interface{}
	records [][]interface{}
}

var activosHeader = []interface{}{
	"CEDULA", "APELLIDO 1", "APELLIDO 2", "NOMBRE 1", "NOMBRE 2", "# CELULAR", "CORREO ELECTRÓNICO",
}

func activosSheet(name string, records ...[]interface{}) testSheet {
	return testSheet{name: name, skip: 6, offset: 2, header: activosHeader, records: records}
}

func writeTestWorkbook(t *testing.T, dir, fileName string, sheets ...testSheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r := 1; r <= s.skip; r++ {
			cell, err := excelize.CoordinatesToCellName(1, r)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(s.name, cell, "INSTITUCION UNIVERSITARIA"))
		}
		offset := s.offset
		if offset == 0 {
			offset = 1
		}
		rows := append([][]interface{}{s.header}, s.records...)
		for r, row := range rows {
			if len(row) == 0 {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(offset, s.skip+r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(s.name, cell, &values))
		}
	}

	path := filepath.Join(dir, fileName)
	require.NoError(t, f.SaveAs(path))
	return path
}
