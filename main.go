package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/consultorio-iudc/estudiantes_db/config"
	"github.com/consultorio-iudc/estudiantes_db/dataset"
	"github.com/consultorio-iudc/estudiantes_db/formats"
	"github.com/consultorio-iudc/estudiantes_db/importer"
	"github.com/consultorio-iudc/estudiantes_db/migrations"
	"github.com/consultorio-iudc/estudiantes_db/store"
)

var stdin = bufio.NewReader(os.Stdin)

// session holds what the menu keeps between choices
type session struct {
	cfg   *config.Config
	store *store.Store
}

func main() {
	cfg := config.Load()
	s := &session{cfg: cfg}
	defer func() { s.store.Close() }()

	ctx := context.Background()

	for {
		displayMenu(s)
		choice, err := readChoice()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("Error reading input: %v", err)
			}
			fmt.Println()
			color.Green("Goodbye!")
			return
		}

		switch choice {
		case "1":
			handleTransform(ctx, s)
		case "2":
			handleFirstNormalForm(s)
		case "3":
			handleConnect(ctx, s)
		case "4":
			handleDisconnect(s)
		case "5":
			handleUpload(ctx, s)
		case "6":
			displayStudents(ctx, s)
		case "7":
			handleDeleteStudent(ctx, s)
		case "8":
			displayStudentCounts(ctx, s, "jornada", "Students by Jornada")
		case "9":
			displayStudentCounts(ctx, s, "estado_u", "Students by Program Level")
		case "10":
			browseDatabase(ctx, s)
		case "11":
			handleInsertRow(ctx, s)
		case "12":
			handleUpdateRow(ctx, s)
		case "13":
			handleDeleteRow(ctx, s)
		case "14":
			handleChangeSchema(ctx, s)
		case "15":
			color.Green("Goodbye!")
			return
		default:
			color.Red("Invalid choice. Please try again.")
		}
	}
}

func displayMenu(s *session) {
	color.Cyan("\n=== Student Records Management ===")
	if s.store != nil {
		fmt.Printf("Connected: %s (schema %s)\n", s.store.Driver(), s.store.Schema())
	} else {
		fmt.Println("Not connected")
	}
	fmt.Println("1. Transform Spreadsheets")
	fmt.Println("2. Apply 1NF to Combined Workbook")
	fmt.Println("3. Connect to Database")
	fmt.Println("4. Disconnect")
	fmt.Println("5. Upload Combined Workbook")
	fmt.Println("6. List Students")
	fmt.Println("7. Delete Student")
	fmt.Println("8. Students by Jornada")
	fmt.Println("9. Students by Program Level")
	fmt.Println("10. Browse Schemas and Tables")
	fmt.Println("11. Insert Row")
	fmt.Println("12. Update Row")
	fmt.Println("13. Delete Row")
	fmt.Println("14. Change Active Schema")
	fmt.Println("15. Exit")
	fmt.Print("\nEnter your choice (1-15): ")
}

func handleTransform(ctx context.Context, s *session) {
	fmt.Println("Formats:")
	for i, f := range formats.Formats() {
		p, _ := formats.Lookup(f)
		fmt.Printf("%d. %s (%s)\n", i+1, p.Description, f)
	}
	fmt.Print("Select format: ")
	format, err := selectFormat(readString())
	if err != nil {
		color.Red("%v", err)
		return
	}

	fmt.Print("Enter a workbook or a directory of workbooks: ")
	paths, err := importer.ListSources(readString())
	if err != nil {
		color.Red("%v", err)
		return
	}

	res, err := importer.Combine(ctx, paths, format)
	if err != nil {
		color.Red("Error combining files: %v", err)
		return
	}
	for _, line := range res.Log {
		if strings.HasPrefix(line, "Error") {
			color.Red("%s", line)
		} else {
			fmt.Println(line)
		}
	}
	res.Stats.PrintSummary()

	if res.Empty() {
		color.Yellow("The combined file was not created because there is no data.")
		return
	}

	renderDataset(res.Data, s.cfg.PreviewRows)

	output := readStringDefault("Save combined workbook as", s.cfg.OutputFile)
	if err := importer.WriteWorkbook(output, res.Data); err != nil {
		color.Red("Error saving workbook: %v", err)
		return
	}
	color.Green("Combined workbook saved to %s (%d rows)", output, res.Data.Len())
}

func selectFormat(input string) (formats.Format, error) {
	if n, err := strconv.Atoi(input); err == nil {
		all := formats.Formats()
		if n < 1 || n > len(all) {
			return "", fmt.Errorf("invalid format choice: %d", n)
		}
		return all[n-1], nil
	}
	return formats.Parse(input)
}

func handleFirstNormalForm(s *session) {
	input := readStringDefault("Combined workbook", s.cfg.OutputFile)
	_, d, err := importer.ReadWorkbook(input)
	if err != nil {
		color.Red("Error loading workbook: %v", err)
		return
	}

	out, report := importer.ReduceToFirstNormalForm(d)
	color.Yellow("\n1NF Report")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Step", "Result"})
	table.Append([]string{"Duplicate columns dropped", strconv.Itoa(report.DroppedColumns)})
	table.Append([]string{"Text columns", strings.Join(report.TextColumns, ", ")})
	table.Append([]string{"Cells truncated at comma", strconv.Itoa(report.TruncatedCells)})
	table.Append([]string{"Duplicate rows removed", strconv.Itoa(report.DuplicateRows)})
	table.Append([]string{"Labels renamed", strconv.Itoa(len(report.RenamedLabels))})
	table.Render()

	renderDataset(out, s.cfg.PreviewRows)

	ext := filepath.Ext(input)
	output := readStringDefault("Save normalized workbook as", strings.TrimSuffix(input, ext)+"_1fn"+ext)
	if err := importer.WriteWorkbook(output, out); err != nil {
		color.Red("Error saving normalized data: %v", err)
		return
	}
	color.Green("Normalized data saved to %s", output)
}

func handleConnect(ctx context.Context, s *session) {
	if s.store != nil {
		color.Yellow("Already connected. Disconnect first.")
		return
	}

	cfg := s.cfg.Database
	cfg.Schema = readStringDefault("Schema", cfg.Schema)

	st, err := store.Open(ctx, cfg)
	if err != nil {
		color.Red("Error connecting to database: %v", err)
		return
	}
	s.store = st
	color.Green("Connected to %s (schema %s)", st.Driver(), st.Schema())

	if err := migrations.VerifyTables(ctx, st, st.Schema()); err != nil {
		color.Yellow("Warning: %v", err)
	}
}

func handleDisconnect(s *session) {
	if s.store == nil {
		color.Yellow("Not connected.")
		return
	}
	if err := s.store.Close(); err != nil {
		color.Red("Error closing connection: %v", err)
	}
	s.store = nil
	color.Green("Disconnected.")
}

func handleUpload(ctx context.Context, s *session) {
	path := readStringDefault("Workbook to upload", s.cfg.OutputFile)
	fmt.Printf("Upload %s into %s? (y/n): ", path, store.StudentsTable)
	if strings.ToLower(readString()) != "y" {
		fmt.Println("Upload cancelled.")
		return
	}

	n, err := s.store.UploadWorkbook(ctx, path)
	if err != nil {
		reportStoreError("Error uploading data", err)
		return
	}
	color.Green("Data uploaded successfully: %d students", n)
}

func displayStudents(ctx context.Context, s *session) {
	students, err := s.store.ListStudents(ctx, s.cfg.PreviewRows)
	if err != nil {
		reportStoreError("Error listing students", err)
		return
	}

	color.Yellow("\nStudents (first %d)", s.cfg.PreviewRows)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Cedula", "Name", "Phone", "Email", "Level", "Jornada", "Sheet", "File"})
	for _, st := range students {
		table.Append([]string{
			st.Cedula,
			st.FullName(),
			getString(st.Telefono),
			getString(st.Correo),
			getString(st.EstadoU),
			getString(st.Jornada),
			getString(st.SheetName),
			getString(st.FileName),
		})
	}
	table.Render()
}

func handleDeleteStudent(ctx context.Context, s *session) {
	fmt.Print("Enter cedula(s) to delete, separated by spaces: ")
	cedulas := strings.Fields(readString())
	if len(cedulas) == 0 {
		return
	}
	for _, cedula := range cedulas {
		st, err := s.store.GetStudent(ctx, cedula)
		if err != nil {
			color.Yellow("%s: not found", cedula)
			continue
		}
		fmt.Printf("%s: %s\n", st.Cedula, st.FullName())
	}

	n, err := s.store.DeleteStudents(ctx, cedulas...)
	if err != nil {
		reportStoreError("Error deleting students", err)
		return
	}
	color.Green("Deleted %d student(s)", n)
}

func displayStudentCounts(ctx context.Context, s *session, column, title string) {
	counts, err := s.store.CountBy(ctx, column)
	if err != nil {
		reportStoreError("Error counting students", err)
		return
	}

	color.Yellow("\n%s", title)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{column, "Students"})
	for _, c := range counts {
		value := c.Value
		if value == "" {
			value = "N/A"
		}
		table.Append([]string{value, strconv.Itoa(c.Total)})
	}
	table.Render()
}

func browseDatabase(ctx context.Context, s *session) {
	schemas, err := s.store.ListSchemas(ctx)
	if err != nil {
		reportStoreError("Error listing schemas", err)
		return
	}
	color.Yellow("\nSchemas")
	renderList("Schema", schemas)

	schema := readStringDefault("Schema", s.store.Schema())
	tables, err := s.store.ListTables(ctx, schema)
	if err != nil {
		reportStoreError("Error listing tables", err)
		return
	}
	color.Yellow("\nTables in %s", schema)
	renderList("Table", tables)

	fmt.Print("Table to inspect (blank to return): ")
	table := readString()
	if table == "" {
		return
	}

	columns, err := s.store.ListColumns(ctx, schema, table)
	if err != nil {
		reportStoreError("Error listing columns", err)
		return
	}
	color.Yellow("\nColumns of %s.%s", schema, table)
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"Column", "Type"})
	for _, c := range columns {
		tw.Append([]string{c.Name, c.DataType})
	}
	tw.Render()

	rows, err := s.store.SelectAll(ctx, schema, table, s.cfg.PreviewRows)
	if err != nil {
		reportStoreError("Error reading table", err)
		return
	}
	renderDataset(rows, s.cfg.PreviewRows)
}

func handleInsertRow(ctx context.Context, s *session) {
	schema, table, columns, ok := promptTable(ctx, s)
	if !ok {
		return
	}
	values := promptValues(columns, "")

	n, err := s.store.InsertRow(ctx, schema, table, values)
	if err != nil {
		reportStoreError("Error inserting row", err)
		return
	}
	color.Green("Inserted %d row(s) into %s.%s", n, schema, table)
}

func handleUpdateRow(ctx context.Context, s *session) {
	schema, table, columns, ok := promptTable(ctx, s)
	if !ok {
		return
	}
	fmt.Print("Enter id of the row to update: ")
	id := readString()
	values := promptValues(columns, "id")
	if len(values) == 0 {
		color.Yellow("Nothing to update.")
		return
	}

	n, err := s.store.UpdateRow(ctx, schema, table, id, values)
	if err != nil {
		reportStoreError("Error updating row", err)
		return
	}
	color.Green("Updated %d row(s)", n)
}

func handleDeleteRow(ctx context.Context, s *session) {
	schema, table, _, ok := promptTable(ctx, s)
	if !ok {
		return
	}
	fmt.Print("Enter id of the row to delete: ")
	id := readString()

	n, err := s.store.DeleteRow(ctx, schema, table, id)
	if err != nil {
		reportStoreError("Error deleting row", err)
		return
	}
	color.Green("Deleted %d row(s)", n)
}

func handleChangeSchema(ctx context.Context, s *session) {
	schema := readStringDefault("New active schema", "")
	if err := s.store.SetSchema(ctx, schema); err != nil {
		reportStoreError("Error changing schema", err)
		return
	}
	color.Green("Active schema is now %s", schema)
	if err := migrations.VerifyTables(ctx, s.store, schema); err != nil {
		color.Yellow("Warning: %v", err)
	}
}

// promptTable asks for a schema and a table and returns the table's columns
func promptTable(ctx context.Context, s *session) (string, string, []string, bool) {
	if s.store == nil {
		reportStoreError("", store.ErrNotConnected)
		return "", "", nil, false
	}
	schema := readStringDefault("Schema", s.store.Schema())
	fmt.Print("Table: ")
	table := readString()

	columns, err := s.store.ListColumns(ctx, schema, table)
	if err != nil {
		reportStoreError("Error reading table", err)
		return "", "", nil, false
	}
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return schema, table, names, true
}

// promptValues asks for a value per column; blank answers are skipped
func promptValues(columns []string, skip string) map[string]string {
	values := make(map[string]string)
	fmt.Println("Enter values (blank to skip):")
	for _, c := range columns {
		if c == skip {
			continue
		}
		fmt.Printf("  %s: ", c)
		if v := readString(); v != "" {
			values[c] = v
		}
	}
	return values
}

func reportStoreError(prefix string, err error) {
	switch {
	case errors.Is(err, store.ErrNotConnected):
		color.Red("Not connected. Use option 3 to connect first.")
	case errors.Is(err, store.ErrUnknownIdentifier):
		color.Red("%s: %v (use option 10 to list valid names)", prefix, err)
	default:
		color.Red("%s: %v", prefix, err)
	}
	log.Printf("[Menu] %s: %v", prefix, err)
}

func renderDataset(d *dataset.Dataset, limit int) {
	if d.Empty() {
		fmt.Println("(no rows)")
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(d.Columns)
	table.SetAutoWrapText(false)
	for i, row := range d.Rows {
		if limit > 0 && i >= limit {
			break
		}
		table.Append(row)
	}
	table.Render()
	if limit > 0 && d.Len() > limit {
		fmt.Printf("... %d more rows\n", d.Len()-limit)
	}
}

func renderList(header string, items []string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{header})
	for _, item := range items {
		table.Append([]string{item})
	}
	table.Render()
}

// readLine returns the next trimmed input line. A final line without a
// newline is still returned; io.EOF is reported once input is exhausted.
func readLine() (string, error) {
	line, err := stdin.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readChoice() (string, error) {
	return readLine()
}

func readString() string {
	line, _ := readLine()
	return line
}

func readStringDefault(prompt, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", prompt, def)
	} else {
		fmt.Printf("%s: ", prompt)
	}
	if v := readString(); v != "" {
		return v
	}
	return def
}

func getString(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return "N/A"
}
