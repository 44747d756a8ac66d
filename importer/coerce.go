package importer

import (
	"math"
	"strconv"
	"strings"

	"github.com/consultorio-iudc/estudiantes_db/dataset"
	"github.com/consultorio-iudc/estudiantes_db/formats"
)

// parseIdentity parses a cell the way a locale-naive numeric conversion does
// and renders it as a base 10 integer. "1.098765432,0" does not parse, and
// neither do hex forms or values outside the int64 range.
func parseIdentity(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10), true
	}
	if isHex(s) {
		return "", false
	}
	// plain decimals keep every digit of the integer part
	if whole, frac, ok := strings.Cut(s, "."); ok && isDigits(frac) {
		if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
			return strconv.FormatInt(n, 10), true
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= 1<<63 {
		return "", false
	}
	return strconv.FormatInt(int64(f), 10), true
}

func isHex(s string) bool {
	s = strings.ToLower(strings.TrimLeft(s, "+-"))
	return strings.HasPrefix(s, "0x")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CoerceIdentity coerces each of columns present in d, in order, to integer
// strings. Rows whose value cannot be parsed are removed and counted in stats.
func CoerceIdentity(d *dataset.Dataset, columns []string, stats *ImportStats) {
	for _, col := range columns {
		idx := d.Index(col)
		if idx == -1 {
			continue
		}
		file := d.Index(formats.FileName)

		d.Filter(func(row []string) bool {
			v, ok := parseIdentity(row[idx])
			if !ok {
				fileName := ""
				if file != -1 {
					fileName = row[file]
				}
				stats.AddDropped(col, fileName)
				return false
			}
			row[idx] = v
			return true
		})
	}
}
