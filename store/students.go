package store

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/consultorio-iudc/estudiantes_db/dataset"
	"github.com/consultorio-iudc/estudiantes_db/importer"
	"github.com/consultorio-iudc/estudiantes_db/models"
)

// countableColumns are the student columns CountBy accepts
var countableColumns = []string{"jornada", "estado_u"}

// Source fills SheetName and FileName for rows that carry none
type Source struct {
	SheetName string
	FileName  string
}

// GroupCount is the number of students sharing one value
type GroupCount struct {
	Value string `db:"value"`
	Total int    `db:"total"`
}

func (s *Store) studentsTable() string {
	return qualified(s.schema, StudentsTable)
}

func (s *Store) upsertQuery() string {
	placeholders := make([]string, len(models.StudentColumns))
	for i, c := range models.StudentColumns {
		placeholders[i] = ":" + c
	}
	return fmt.Sprintf(`INSERT INTO %s AS e (%s)
		VALUES (%s)
		ON CONFLICT (cedula) DO UPDATE SET %s,
		sheetname = COALESCE(e.sheetname, EXCLUDED.sheetname)`,
		s.studentsTable(),
		strings.Join(models.StudentColumns, ", "),
		strings.Join(placeholders, ", "),
		buildUpdateClause(models.StudentColumns))
}

// buildUpdateClause overwrites every column except the key and sheetname
func buildUpdateClause(columns []string) string {
	updates := make([]string, 0, len(columns))
	for _, col := range columns {
		if col == "cedula" || col == "sheetname" {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	return strings.Join(updates, ", ")
}

// UpsertStudent inserts st or updates the stored row with the same cedula.
// A stored sheetname is never replaced.
func (s *Store) UpsertStudent(ctx context.Context, st models.Student) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if strings.TrimSpace(st.Cedula) == "" {
		return ErrMissingCedula
	}
	if _, err := db.NamedExecContext(ctx, s.upsertQuery(), st); err != nil {
		return fmt.Errorf("error upserting student %s: %w", st.Cedula, err)
	}
	return nil
}

// UploadDataset upserts every row of d inside one transaction. The first
// failing row aborts the upload and nothing from it is committed.
func (s *Store) UploadDataset(ctx context.Context, d *dataset.Dataset, src Source) (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	students, err := StudentsFromDataset(d, src)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	query := s.upsertQuery()
	for i, st := range students {
		if _, err := tx.NamedExecContext(ctx, query, st); err != nil {
			return 0, fmt.Errorf("row %d (cedula %s): %w", i+1, st.Cedula, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Printf("[Store] upserted %d students into %s", len(students), s.studentsTable())
	return len(students), nil
}

// UploadWorkbook loads the first sheet of the workbook at path and uploads it.
// Rows without SheetName or FileName get the sheet name and the file's base name.
func (s *Store) UploadWorkbook(ctx context.Context, path string) (int, error) {
	sheet, d, err := importer.ReadWorkbook(path)
	if err != nil {
		return 0, err
	}
	return s.UploadDataset(ctx, d, Source{SheetName: sheet, FileName: filepath.Base(path)})
}

// StudentsFromDataset binds the columns of d to student fields ignoring case,
// spaces and underscores. Every row must carry a cedula.
func StudentsFromDataset(d *dataset.Dataset, src Source) ([]models.Student, error) {
	idx := make(map[string]int, len(models.StudentColumns))
	for _, c := range models.StudentColumns {
		idx[c] = dataset.LooseIndex(d.Columns, c)
	}
	if idx["cedula"] == -1 {
		return nil, fmt.Errorf("no cedula column: %w", ErrMissingCedula)
	}

	value := func(row []string, col string) string {
		i := idx[col]
		if i == -1 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	orDefault := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}

	students := make([]models.Student, 0, d.Len())
	for r, row := range d.Rows {
		cedula := value(row, "cedula")
		if cedula == "" {
			return nil, fmt.Errorf("row %d: %w", r+1, ErrMissingCedula)
		}
		students = append(students, models.Student{
			Cedula:    cedula,
			Apellido1: models.NullString(value(row, "apellido1")),
			Apellido2: models.NullString(value(row, "apellido2")),
			Nombre1:   models.NullString(value(row, "nombre1")),
			Nombre2:   models.NullString(value(row, "nombre2")),
			Telefono:  models.NullString(value(row, "telefono")),
			Correo:    models.NullString(value(row, "correo")),
			EstadoU:   models.NullString(value(row, "estado_u")),
			Jornada:   models.NullString(value(row, "jornada")),
			SheetName: models.NullString(orDefault(value(row, "sheetname"), src.SheetName)),
			FileName:  models.NullString(orDefault(value(row, "filename"), src.FileName)),
		})
	}
	return students, nil
}

// ListStudents returns up to limit students ordered by cedula. A limit <= 0 means no limit.
func (s *Store) ListStudents(ctx context.Context, limit int) ([]models.Student, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY cedula",
		strings.Join(models.StudentColumns, ", "), s.studentsTable())
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var students []models.Student
	if err := db.SelectContext(ctx, &students, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	return students, nil
}

// GetStudent returns the student with cedula
func (s *Store) GetStudent(ctx context.Context, cedula string) (*models.Student, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var st models.Student
	query := fmt.Sprintf("SELECT %s FROM %s WHERE cedula = ?",
		strings.Join(models.StudentColumns, ", "), s.studentsTable())
	if err := db.GetContext(ctx, &st, db.Rebind(query), cedula); err != nil {
		return nil, fmt.Errorf("error loading student %s: %w", cedula, err)
	}
	return &st, nil
}

// DeleteStudents removes the students with the given cedulas
func (s *Store) DeleteStudents(ctx context.Context, cedulas ...string) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	if len(cedulas) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(fmt.Sprintf("DELETE FROM %s WHERE cedula IN (?)", s.studentsTable()), cedulas)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting students: %w", err)
	}
	return res.RowsAffected()
}

// CountBy counts students grouped by column, which must be jornada or estado_u
func (s *Store) CountBy(ctx context.Context, column string) ([]GroupCount, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	if err := checkIdentifier("column", column, countableColumns); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT COALESCE(%s, '') AS value, COUNT(*) AS total
		FROM %s
		GROUP BY 1
		ORDER BY 2 DESC, 1`, column, s.studentsTable())

	var counts []GroupCount
	if err := db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("error counting students by %s: %w", column, err)
	}
	return counts, nil
}
