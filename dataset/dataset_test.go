package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetColumnAppendsAndOverwrites(t *testing.T) {
	d := New("A")
	d.Append("1")
	d.Append("2")

	d.SetColumn("B", func(row int) string { return "b" })
	assert.Equal(t, []string{"A", "B"}, d.Columns)
	assert.Equal(t, [][]string{{"1", "b"}, {"2", "b"}}, d.Rows)

	d.SetColumn("A", func(row int) string { return "x" })
	assert.Equal(t, "x", d.Value(1, "A"))
}

func TestDedupeColumnsKeepsFirst(t *testing.T) {
	d := New("A", "B", "A")
	d.Append("1", "2", "3")

	d.DedupeColumns()

	assert.Equal(t, []string{"A", "B"}, d.Columns)
	assert.Equal(t, []string{"1", "2"}, d.Rows[0])
}

func TestDropEmptyRows(t *testing.T) {
	d := New("A", "B")
	d.Append("", "")
	d.Append("", "x")
	d.Append()

	removed := d.DropEmptyRows()

	assert.Equal(t, 2, removed)
	require.Equal(t, 1, d.Len())
	assert.Equal(t, "x", d.Value(0, "B"))
}

func TestProjectOmitsAbsentColumns(t *testing.T) {
	d := New("B", "X", "A")
	d.Append("b", "x", "a")

	p := d.Project([]string{"A", "B", "C"})

	assert.Equal(t, []string{"A", "B"}, p.Columns)
	assert.Equal(t, []string{"a", "b"}, p.Rows[0])
}

func TestConcatUnionsColumnsInEncounterOrder(t *testing.T) {
	first := New("A", "B")
	first.Append("a1", "b1")
	second := New("C", "A")
	second.Append("c2", "a2")

	out := Concat(first, second)

	assert.Equal(t, []string{"A", "B", "C"}, out.Columns)
	assert.Equal(t, [][]string{{"a1", "b1", ""}, {"a2", "", "c2"}}, out.Rows)
}

func TestConcatOfNothingIsEmpty(t *testing.T) {
	out := Concat()
	assert.True(t, out.Empty())
	assert.Empty(t, out.Columns)
}

func TestLooseIndex(t *testing.T) {
	headers := []string{"CEDULA", "APELLIDO 1", "estado_u", "Sheet_Name"}

	assert.Equal(t, 0, LooseIndex(headers, "cedula"))
	assert.Equal(t, 1, LooseIndex(headers, "apellido1"))
	assert.Equal(t, 2, LooseIndex(headers, "ESTADO_U"))
	assert.Equal(t, 3, LooseIndex(headers, "SheetName"))
	assert.Equal(t, -1, LooseIndex(headers, "jornada"))
}

func TestCloneIsIndependent(t *testing.T) {
	d := New("A")
	d.Append("1")

	c := d.Clone()
	c.Rows[0][0] = "2"
	c.Columns[0] = "Z"

	assert.Equal(t, "1", d.Value(0, "A"))
	assert.Equal(t, "A", d.Columns[0])
}
