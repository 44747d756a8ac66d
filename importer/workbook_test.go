package importer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"github.com/consultorio-iudc/estudiantes_db/dataset"
	"github.com/consultorio-iudc/estudiantes_db/formats"
)

func TestFrameFromRows(t *testing.T) {
	rows := [][]string{
		{"x", " CEDULA ", "", norm.NFD.String("CORREO ELECTRÓNICO")},
		{"x", " 1 ", "y", "a@x.com"},
		{"x", "2"},
	}

	d := frameFromRows(rows, 1, 3)

	assert.Equal(t, []string{"CEDULA", "Unnamed: 1", "CORREO ELECTRÓNICO"}, d.Columns)
	assert.Equal(t, [][]string{{"1", "y", "a@x.com"}, {"2", "", ""}}, d.Rows)
}

func TestFrameFromRowsOpenWindow(t *testing.T) {
	d := frameFromRows([][]string{{"a"}, {"1", "2", "3"}}, 0, -1)

	assert.Equal(t, []string{"a", "Unnamed: 1", "Unnamed: 2"}, d.Columns)
	assert.Equal(t, []string{"1", "2", "3"}, d.Rows[0])
}

func TestColumnWindow(t *testing.T) {
	first, last, err := columnWindow(formats.Layout{FirstColumn: "B", LastColumn: "H"})
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Equal(t, 7, last)

	first, last, err = columnWindow(formats.Layout{})
	require.NoError(t, err)
	assert.Equal(t, 0, first)
	assert.Equal(t, -1, last)

	_, _, err = columnWindow(formats.Layout{FirstColumn: "H", LastColumn: "B"})
	assert.Error(t, err)
}

func TestReadSheetsAppliesLayout(t *testing.T) {
	dir := t.TempDir()
	path := writeTestWorkbook(t, dir, "activos.xlsx",
		activosSheet("Uno", []interface{}{"1", "PEREZ", "", "ANA", "", "300", "a@x.com"}),
		activosSheet("Dos"),
	)

	sheets, err := ReadSheets(path, formats.Layout{SkipRows: 6, FirstColumn: "B", LastColumn: "H"})
	require.NoError(t, err)
	require.Len(t, sheets, 2)

	assert.Equal(t, "Uno", sheets[0].Name)
	assert.Equal(t, "CEDULA", sheets[0].Data.Columns[0])
	assert.Len(t, sheets[0].Data.Columns, 7)
	assert.Equal(t, "PEREZ", sheets[0].Data.Value(0, "APELLIDO 1"))
	assert.True(t, sheets[1].Data.Empty())
}

func TestWriteAndReadWorkbook(t *testing.T) {
	d := dataset.New("cedula", "correo", "sheetname")
	d.Append("1098765432", "a@x.com,b@x.com", "GRUPO 1")
	d.Append("2", "", "GRUPO 2")

	path := filepath.Join(t.TempDir(), "combined.xlsx")
	require.NoError(t, WriteWorkbook(path, d))

	sheet, back, err := ReadWorkbook(path)
	require.NoError(t, err)

	assert.Equal(t, OutputSheet, sheet)
	assert.Equal(t, d.Columns, back.Columns)
	assert.Equal(t, d.Rows, back.Rows)
}

func TestReadWorkbookMissingFile(t *testing.T) {
	_, _, err := ReadWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)

	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, CodeReadFailed, importErr.Code)
}
