package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/consultorio-iudc/estudiantes_db/dataset"
)

// ReduceReport describes what the first-normal-form pass changed
type ReduceReport struct {
	DroppedColumns int
	TruncatedCells int
	DuplicateRows  int
	RenamedLabels  map[string]string
	TextColumns    []string
}

// ReduceToFirstNormalForm approximates first normal form on a copy of d:
// duplicate labels are dropped, text cells keep only the value before the
// first comma, repeated rows are removed (first occurrence wins) and any label
// still repeated gets a positional suffix.
func ReduceToFirstNormalForm(d *dataset.Dataset) (*dataset.Dataset, ReduceReport) {
	out := d.Clone()
	report := ReduceReport{RenamedLabels: make(map[string]string)}

	before := len(out.Columns)
	out.DedupeColumns()
	report.DroppedColumns = before - len(out.Columns)

	for i, label := range out.Columns {
		if !isTextColumn(out, i) {
			continue
		}
		report.TextColumns = append(report.TextColumns, label)
		for _, row := range out.Rows {
			if head, _, found := strings.Cut(row[i], ","); found {
				row[i] = head
				report.TruncatedCells++
			}
		}
	}

	seen := make(map[string]bool, out.Len())
	report.DuplicateRows = out.Filter(func(row []string) bool {
		key := rowKey(row)
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	})

	uniqueLabels(out, report.RenamedLabels)
	return out, report
}

// isTextColumn reports whether column i holds at least one non-numeric value
func isTextColumn(d *dataset.Dataset, i int) bool {
	for _, row := range d.Rows {
		v := strings.TrimSpace(row[i])
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return true
		}
	}
	return false
}

func rowKey(row []string) string {
	var b strings.Builder
	for _, v := range row {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}

// uniqueLabels suffixes every repeated label except its first occurrence
// with _<index>, retrying until the label is free.
func uniqueLabels(d *dataset.Dataset, renamed map[string]string) {
	used := make(map[string]bool, len(d.Columns))
	for _, c := range d.Columns {
		used[c] = true
	}
	first := make(map[string]bool, len(d.Columns))
	for i, c := range d.Columns {
		if !first[c] {
			first[c] = true
			continue
		}
		label := fmt.Sprintf("%s_%d", c, i)
		for n := 1; used[label]; n++ {
			label = fmt.Sprintf("%s_%d_%d", c, i, n)
		}
		used[label] = true
		renamed[fmt.Sprintf("%s@%d", c, i)] = label
		d.Columns[i] = label
	}
}
