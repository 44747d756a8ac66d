package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultorio-iudc/estudiantes_db/dataset"
	"github.com/consultorio-iudc/estudiantes_db/formats"
)

func TestParseIdentity(t *testing.T) {
	v, ok := parseIdentity("1098765432")
	require.True(t, ok)
	assert.Equal(t, "1098765432", v)

	v, ok = parseIdentity(" 1098765432.0 ")
	require.True(t, ok)
	assert.Equal(t, "1098765432", v)

	v, ok = parseIdentity("1.098765432E9")
	require.True(t, ok)
	assert.Equal(t, "1098765432", v)

	v, ok = parseIdentity("12345678901234567")
	require.True(t, ok)
	assert.Equal(t, "12345678901234567", v)

	v, ok = parseIdentity("12345678901234567.0")
	require.True(t, ok)
	assert.Equal(t, "12345678901234567", v)

	v, ok = parseIdentity("9223372036854775807")
	require.True(t, ok)
	assert.Equal(t, "9223372036854775807", v)

	v, ok = parseIdentity("-42.9")
	require.True(t, ok)
	assert.Equal(t, "-42", v)

	for _, bad := range []string{
		"1.098765432,0", "", "ABC", "NaN", "Inf",
		"9223372036854775808", "99999999999999999999", "99999999999999999999.0",
		"1e20", "-1e19", "0x1p4", "0X10", "-0x1p4",
	} {
		_, ok := parseIdentity(bad)
		assert.False(t, ok, bad)
	}
}

func TestCoerceIdentityDropsAndCounts(t *testing.T) {
	d := dataset.New(formats.Cedula, formats.Telefono, formats.FileName)
	d.Append("1098765432", "3001234567", "a.xlsx")
	d.Append("1.098765432,0", "3001234567", "a.xlsx")
	d.Append("55", "", "b.xlsx")
	d.Append("77.0", "3109876543.0", "b.xlsx")

	stats := NewImportStats()
	CoerceIdentity(d, []string{formats.Cedula, formats.Telefono}, stats)

	require.Equal(t, 2, d.Len())
	assert.Equal(t, "1098765432", d.Value(0, formats.Cedula))
	assert.Equal(t, "77", d.Value(1, formats.Cedula))
	assert.Equal(t, "3109876543", d.Value(1, formats.Telefono))

	assert.Equal(t, 1, stats.DroppedByColumn[formats.Cedula])
	assert.Equal(t, 1, stats.DroppedByColumn[formats.Telefono])
	assert.Equal(t, 1, stats.DroppedByFile["a.xlsx"])
	assert.Equal(t, 1, stats.DroppedByFile["b.xlsx"])
	assert.Equal(t, 2, stats.SkippedRecords)
}

func TestCoerceIdentitySkipsAbsentColumns(t *testing.T) {
	d := dataset.New(formats.Cedula)
	d.Append("12")

	CoerceIdentity(d, []string{formats.Cedula, formats.Telefono}, NewImportStats())

	assert.Equal(t, 1, d.Len())
	assert.False(t, d.Has(formats.Telefono))
}
