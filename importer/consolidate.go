package importer

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/consultorio-iudc/estudiantes_db/dataset"
	"github.com/consultorio-iudc/estudiantes_db/formats"
)

const noDataMessage = "No data found to combine."

// Result is the outcome of one consolidation run
type Result struct {
	RunID  string
	Format formats.Format
	Data   *dataset.Dataset
	Log    []string
	Stats  *ImportStats
}

// Empty reports whether no source produced a surviving row
func (r *Result) Empty() bool {
	return r.Data.Empty()
}

// ListSources expands path into the workbooks to process. A file yields
// itself; a directory yields its .xlsx entries in name order.
func ListSources(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error reading source %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("error listing directory %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".xlsx") {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Combine reads every workbook in paths with the profile of format and
// consolidates them into one dataset. A file that fails is logged and
// skipped; the context is checked between files.
func Combine(ctx context.Context, paths []string, format formats.Format) (*Result, error) {
	profile, err := formats.Lookup(format)
	if err != nil {
		return nil, newImportError(CodeUnknownFormat, err.Error(), nil,
			map[string]string{"format": string(format)})
	}

	res := &Result{
		RunID:  uuid.NewString(),
		Format: format,
		Stats:  NewImportStats(),
	}
	logf := func(format string, args ...interface{}) {
		line := fmt.Sprintf(format, args...)
		res.Log = append(res.Log, line)
		log.Printf("[Consolidator] %s %s", res.RunID, line)
	}

	var frames []*dataset.Dataset
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := filepath.Base(path)
		logf("Processing file: %s", name)
		fileFrames, err := readFile(path, profile, res.Stats)
		if err != nil {
			res.Stats.FilesFailed++
			logf("Error processing file %s: %v", name, err)
			continue
		}
		frames = append(frames, fileFrames...)
		res.Stats.FilesProcessed++
		logf("File processed successfully: %s", name)
	}

	if len(frames) == 0 {
		logf(noDataMessage)
		res.Data = dataset.New()
		return res, nil
	}

	combined := dataset.Concat(frames...)
	res.Data = finalize(combined, profile, res.Stats)
	res.Stats.ValidRecords = res.Data.Len()
	return res, nil
}

// readFile returns the non-empty tagged frames of one workbook. Frames are
// only returned when every sheet of the file was processed.
func readFile(path string, profile formats.Profile, stats *ImportStats) ([]*dataset.Dataset, error) {
	sheets, err := ReadSheets(path, profile.Layout)
	if err != nil {
		return nil, err
	}

	fileName := filepath.Base(path)
	var frames []*dataset.Dataset
	for _, sheet := range sheets {
		if len(sheet.Data.Columns) == 0 {
			continue
		}
		stats.SheetsRead++

		for _, hint := range SuggestColumns(sheet.Data.Columns, profile) {
			log.Printf("[Consolidator] %s/%s: column '%s' looks like '%s' (%.2f%% confidence)",
				fileName, sheet.Name, hint.SourceColumn, hint.DestinationColumn, hint.Confidence*100)
		}

		frame, err := Normalize(sheet.Data, profile)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet.Name, err)
		}
		if frame.Empty() {
			continue
		}
		stats.RowsRead += frame.Len()

		sheetName := sheet.Name
		frame.SetColumn(formats.SheetName, func(int) string { return sheetName })
		frame.SetColumn(formats.FileName, func(int) string { return fileName })
		frames = append(frames, frame)
	}
	return frames, nil
}

func finalize(d *dataset.Dataset, profile formats.Profile, stats *ImportStats) *dataset.Dataset {
	CoerceIdentity(d, profile.IdentityColumns, stats)
	if profile.DeriveCategories {
		DeriveCategories(d)
	}

	out := d.Project(profile.Schema)
	for i, c := range out.Columns {
		out.Columns[i] = profile.OutputLabel(c)
	}
	return out
}
