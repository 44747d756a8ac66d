package importer

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/consultorio-iudc/estudiantes_db/formats"
)

// minHintConfidence is the similarity below which no hint is produced
const minHintConfidence = 0.6

// ColumnMatch is a suggested label for a header the profile does not know
type ColumnMatch struct {
	SourceColumn      string
	DestinationColumn string
	Confidence        float64
}

// SuggestColumns proposes, for each unknown header, the closest label the
// profile maps or emits. Headers already known and Unnamed headers are skipped.
func SuggestColumns(headers []string, profile formats.Profile) []ColumnMatch {
	candidates := knownLabels(profile)

	var matches []ColumnMatch
	for _, header := range headers {
		if strings.HasPrefix(header, "Unnamed") || profile.Known(header) {
			continue
		}
		if best, ok := bestColumnMatch(header, candidates); ok {
			matches = append(matches, best)
		}
	}
	return matches
}

func bestColumnMatch(source string, candidates []string) (ColumnMatch, bool) {
	normalizedSource := normalizeLabel(source)
	if normalizedSource == "" {
		return ColumnMatch{}, false
	}

	var matches []ColumnMatch
	for _, dest := range candidates {
		normalizedDest := normalizeLabel(dest)
		distance := levenshteinDistance(normalizedSource, normalizedDest)
		maxLen := float64(max(utf8.RuneCountInString(normalizedSource), utf8.RuneCountInString(normalizedDest)))
		confidence := 1.0 - float64(distance)/maxLen
		if confidence > minHintConfidence {
			matches = append(matches, ColumnMatch{
				SourceColumn:      source,
				DestinationColumn: dest,
				Confidence:        confidence,
			})
		}
	}
	if len(matches) == 0 {
		return ColumnMatch{}, false
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches[0], true
}

func knownLabels(profile formats.Profile) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(label string) {
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	for _, m := range profile.Mappings {
		add(m.SourceColumn)
	}
	for _, c := range profile.Required {
		add(c)
	}
	for _, c := range profile.Schema {
		add(c)
	}
	return out
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "")
	return strings.ReplaceAll(s, " ", "")
}

func levenshteinDistance(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	matrix := make([][]int, len(r1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(r2)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(r2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(r1); i++ {
		for j := 1; j <= len(r2); j++ {
			if r1[i-1] == r2[j-1] {
				matrix[i][j] = matrix[i-1][j-1]
			} else {
				matrix[i][j] = min(
					matrix[i-1][j]+1,   // deletion
					matrix[i][j-1]+1,   // insertion
					matrix[i-1][j-1]+1, // substitution
				)
			}
		}
	}

	return matrix[len(r1)][len(r2)]
}
