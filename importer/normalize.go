package importer

import (
	"regexp"
	"strings"

	"github.com/consultorio-iudc/estudiantes_db/dataset"
	"github.com/consultorio-iudc/estudiantes_db/formats"
)

var nameSplit = regexp.MustCompile(`(\S+)\s*(.*)`)

// Normalize maps the raw labels of one sheet frame to the profile's labels and
// drops rows left without any value. The frame is modified in place.
func Normalize(frame *dataset.Dataset, profile formats.Profile) (*dataset.Dataset, error) {
	if err := checkRequired(frame, profile.Required); err != nil {
		return nil, err
	}

	frame.DropColumns(func(label string) bool {
		return strings.HasPrefix(label, "Unnamed")
	})

	for _, split := range profile.Splits {
		splitColumn(frame, split)
	}

	for _, m := range profile.Mappings {
		applyMapping(frame, m)
	}

	if len(profile.Keep) > 0 {
		frame = frame.Project(profile.Keep)
	}

	frame.DedupeColumns()
	frame.DropEmptyRows()
	return frame, nil
}

// applyMapping copies old into new unless new already exists, then removes
// every column labelled old. Earlier mappings therefore win over later ones.
func applyMapping(frame *dataset.Dataset, m formats.ColumnMapping) {
	src := frame.Index(m.SourceColumn)
	if src == -1 {
		return
	}
	if m.SourceColumn == m.DestinationColumn {
		return
	}
	if !frame.Has(m.DestinationColumn) {
		frame.SetColumn(m.DestinationColumn, func(row int) string {
			return frame.Rows[row][src]
		})
	}
	frame.DropColumns(func(label string) bool {
		return label == m.SourceColumn
	})
}

func splitColumn(frame *dataset.Dataset, split formats.NameSplit) {
	src := frame.Index(split.SourceColumn)
	if src == -1 {
		return
	}
	primary := make([]string, frame.Len())
	remainder := make([]string, frame.Len())
	for i, row := range frame.Rows {
		primary[i], remainder[i] = splitName(row[src])
	}
	frame.SetColumn(split.Primary, func(row int) string { return primary[row] })
	frame.SetColumn(split.Remainder, func(row int) string { return remainder[row] })
}

// splitName returns the first whitespace separated token and the rest of s
func splitName(s string) (string, string) {
	m := nameSplit.FindStringSubmatch(s)
	if m == nil {
		return "", ""
	}
	return m[1], strings.TrimSpace(m[2])
}

func checkRequired(frame *dataset.Dataset, required []string) error {
	var missing []string
	for _, col := range required {
		if !frame.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return newImportError(CodeMissingColumns,
			"missing required columns: "+strings.Join(missing, ", "), nil,
			map[string]string{"columns": strings.Join(missing, ",")})
	}
	return nil
}
