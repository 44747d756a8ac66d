package dataset

import (
	"strings"
)

// Dataset is an ordered table of string cells. An empty string is a missing value.
// Labels are not required to be unique until DedupeColumns has run.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// New creates an empty dataset with the given labels
func New(columns ...string) *Dataset {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Dataset{Columns: cols}
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Empty reports whether the dataset holds no rows
func (d *Dataset) Empty() bool {
	return d.Len() == 0
}

// Index returns the position of the first column labelled exactly label, or -1
func (d *Dataset) Index(label string) int {
	for i, c := range d.Columns {
		if c == label {
			return i
		}
	}
	return -1
}

// Has reports whether a column with the exact label exists
func (d *Dataset) Has(label string) bool {
	return d.Index(label) != -1
}

// Value returns the cell at row for the first column labelled label
func (d *Dataset) Value(row int, label string) string {
	idx := d.Index(label)
	if idx == -1 || row < 0 || row >= len(d.Rows) {
		return ""
	}
	return cell(d.Rows[row], idx)
}

// Append adds a row, padding or truncating it to the column count
func (d *Dataset) Append(values ...string) {
	row := make([]string, len(d.Columns))
	copy(row, values)
	d.Rows = append(d.Rows, row)
}

// SetColumn overwrites the first column labelled label with fn(row), appending
// the column at the end when it does not exist yet.
func (d *Dataset) SetColumn(label string, fn func(row int) string) {
	idx := d.Index(label)
	if idx == -1 {
		d.Columns = append(d.Columns, label)
		idx = len(d.Columns) - 1
		for i := range d.Rows {
			d.Rows[i] = pad(d.Rows[i], len(d.Columns))
		}
	}
	for i := range d.Rows {
		d.Rows[i] = pad(d.Rows[i], len(d.Columns))
		d.Rows[i][idx] = fn(i)
	}
}

// DropColumns removes every column whose label satisfies drop
func (d *Dataset) DropColumns(drop func(label string) bool) {
	keep := make([]int, 0, len(d.Columns))
	for i, c := range d.Columns {
		if !drop(c) {
			keep = append(keep, i)
		}
	}
	d.selectColumns(keep)
}

// DedupeColumns keeps only the first occurrence of each label
func (d *Dataset) DedupeColumns() {
	seen := make(map[string]bool, len(d.Columns))
	keep := make([]int, 0, len(d.Columns))
	for i, c := range d.Columns {
		if seen[c] {
			continue
		}
		seen[c] = true
		keep = append(keep, i)
	}
	d.selectColumns(keep)
}

// DropEmptyRows removes rows where every cell is missing and returns how many were removed
func (d *Dataset) DropEmptyRows() int {
	return d.Filter(func(row []string) bool {
		for _, v := range row {
			if v != "" {
				return true
			}
		}
		return false
	})
}

// Filter keeps rows for which keep returns true and returns how many were removed
func (d *Dataset) Filter(keep func(row []string) bool) int {
	out := d.Rows[:0]
	removed := 0
	for _, row := range d.Rows {
		if keep(row) {
			out = append(out, row)
		} else {
			removed++
		}
	}
	d.Rows = out
	return removed
}

// Project returns a new dataset holding the columns of order that exist in d,
// in that order. Labels of order that are absent are omitted, not null-filled.
func (d *Dataset) Project(order []string) *Dataset {
	idx := make([]int, 0, len(order))
	cols := make([]string, 0, len(order))
	for _, label := range order {
		if i := d.Index(label); i != -1 {
			idx = append(idx, i)
			cols = append(cols, label)
		}
	}

	out := &Dataset{Columns: cols, Rows: make([][]string, 0, len(d.Rows))}
	for _, row := range d.Rows {
		projected := make([]string, len(idx))
		for j, i := range idx {
			projected[j] = cell(row, i)
		}
		out.Rows = append(out.Rows, projected)
	}
	return out
}

// Clone returns a deep copy
func (d *Dataset) Clone() *Dataset {
	out := New(d.Columns...)
	out.Rows = make([][]string, len(d.Rows))
	for i, row := range d.Rows {
		out.Rows[i] = pad(append([]string(nil), row...), len(d.Columns))
	}
	return out
}

// Concat stacks frames in order. The resulting columns are the union of all
// labels in first-seen order; rows lacking a column get a missing value.
// Frames must not carry duplicate labels.
func Concat(frames ...*Dataset) *Dataset {
	out := &Dataset{}
	position := make(map[string]int)
	for _, f := range frames {
		for _, c := range f.Columns {
			if _, ok := position[c]; !ok {
				position[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
	}

	for _, f := range frames {
		for _, row := range f.Rows {
			merged := make([]string, len(out.Columns))
			for i, c := range f.Columns {
				merged[position[c]] = cell(row, i)
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}

// LooseIndex returns the position of name in headers ignoring case, surrounding
// whitespace, inner spaces and underscores, or -1.
func LooseIndex(headers []string, name string) int {
	want := looseKey(name)
	for i, header := range headers {
		if strings.EqualFold(strings.TrimSpace(header), strings.TrimSpace(name)) {
			return i
		}
	}
	for i, header := range headers {
		if looseKey(header) == want {
			return i
		}
	}
	return -1
}

func looseKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "_", "")
}

func (d *Dataset) selectColumns(keep []int) {
	if len(keep) == len(d.Columns) {
		return
	}
	cols := make([]string, len(keep))
	for j, i := range keep {
		cols[j] = d.Columns[i]
	}
	for r, row := range d.Rows {
		narrowed := make([]string, len(keep))
		for j, i := range keep {
			narrowed[j] = cell(row, i)
		}
		d.Rows[r] = narrowed
	}
	d.Columns = cols
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func pad(row []string, n int) []string {
	for len(row) < n {
		row = append(row, "")
	}
	return row
}
