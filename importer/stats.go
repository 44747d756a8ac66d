package importer

import (
	"log"
	"sort"
)

// ImportStats counts what happened to the rows of one consolidation run
type ImportStats struct {
	FilesProcessed  int
	FilesFailed     int
	SheetsRead      int
	RowsRead        int
	ValidRecords    int
	SkippedRecords  int
	DroppedByColumn map[string]int
	DroppedByFile   map[string]int
}

func NewImportStats() *ImportStats {
	return &ImportStats{
		DroppedByColumn: make(map[string]int),
		DroppedByFile:   make(map[string]int),
	}
}

// AddDropped records a row removed because column could not be coerced
func (s *ImportStats) AddDropped(column, fileName string) {
	s.DroppedByColumn[column]++
	s.DroppedByFile[fileName]++
	s.SkippedRecords++
}

func (s *ImportStats) PrintSummary() {
	log.Printf("\nImport Statistics:")
	log.Printf("Files Processed: %d (failed: %d)", s.FilesProcessed, s.FilesFailed)
	log.Printf("Sheets Read: %d", s.SheetsRead)
	log.Printf("Total Records Read: %d", s.RowsRead)
	log.Printf("Valid Records: %d", s.ValidRecords)
	log.Printf("Skipped Records: %d", s.SkippedRecords)

	if len(s.DroppedByColumn) > 0 {
		log.Printf("\nDropped Rows by Column:")
		for _, col := range sortedKeys(s.DroppedByColumn) {
			log.Printf("- %s: %d rows", col, s.DroppedByColumn[col])
		}
	}

	if len(s.DroppedByFile) > 0 {
		log.Printf("\nDropped Rows by File:")
		files := sortedKeys(s.DroppedByFile)
		sort.SliceStable(files, func(i, j int) bool {
			return s.DroppedByFile[files[i]] > s.DroppedByFile[files[j]]
		})
		for i := 0; i < min(10, len(files)); i++ {
			log.Printf("- %s: %d rows", files[i], s.DroppedByFile[files[i]])
		}
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
