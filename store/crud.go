package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/consultorio-iudc/estudiantes_db/dataset"
)

const idColumn = "id"

// SelectAll returns up to limit rows of schema.table. A limit <= 0 means no limit.
func (s *Store) SelectAll(ctx context.Context, schema, table string, limit int) (*dataset.Dataset, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	if err := s.checkTable(ctx, schema, table); err != nil {
		return nil, err
	}

	query := "SELECT * FROM " + qualified(schema, table)
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.QueryxContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("error querying %s.%s: %w", schema, table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := dataset.New(columns...)
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("error scanning %s.%s: %w", schema, table, err)
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = formatValue(v)
		}
		out.Append(cells...)
	}
	return out, rows.Err()
}

// InsertRow inserts values keyed by column name into schema.table
func (s *Store) InsertRow(ctx context.Context, schema, table string, values map[string]string) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	columns, err := s.columnNames(ctx, schema, table)
	if err != nil {
		return 0, err
	}
	names, args, err := boundValues(values, columns)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, fmt.Errorf("no values to insert into %s.%s", schema, table)
	}

	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quote(n)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		qualified(schema, table),
		strings.Join(quoted, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", "))

	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("error inserting into %s.%s: %w", schema, table, err)
	}
	return res.RowsAffected()
}

// UpdateRow sets values on the row of schema.table whose id matches
func (s *Store) UpdateRow(ctx context.Context, schema, table, id string, values map[string]string) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	columns, err := s.columnNames(ctx, schema, table)
	if err != nil {
		return 0, err
	}
	if !contains(columns, idColumn) {
		return 0, fmt.Errorf("%s.%s: %w", schema, table, ErrNoIDColumn)
	}
	names, args, err := boundValues(values, columns)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, fmt.Errorf("no values to update in %s.%s", schema, table)
	}

	sets := make([]string, len(names))
	for i, n := range names {
		sets[i] = quote(n) + " = ?"
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		qualified(schema, table), strings.Join(sets, ", "), quote(idColumn))

	res, err := db.ExecContext(ctx, db.Rebind(query), append(args, id)...)
	if err != nil {
		return 0, fmt.Errorf("error updating %s.%s: %w", schema, table, err)
	}
	return res.RowsAffected()
}

// DeleteRow removes the row of schema.table whose id matches
func (s *Store) DeleteRow(ctx context.Context, schema, table, id string) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	columns, err := s.columnNames(ctx, schema, table)
	if err != nil {
		return 0, err
	}
	if !contains(columns, idColumn) {
		return 0, fmt.Errorf("%s.%s: %w", schema, table, ErrNoIDColumn)
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", qualified(schema, table), quote(idColumn))
	res, err := db.ExecContext(ctx, db.Rebind(query), id)
	if err != nil {
		return 0, fmt.Errorf("error deleting from %s.%s: %w", schema, table, err)
	}
	return res.RowsAffected()
}

// boundValues validates the keys of values against columns and returns them
// in name order with their arguments. Empty strings bind as NULL.
func boundValues(values map[string]string, columns []string) ([]string, []interface{}, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		if err := checkIdentifier("column", name, columns); err != nil {
			return nil, nil, err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]interface{}, len(names))
	for i, n := range names {
		if v := values[n]; v != "" {
			args[i] = v
		}
	}
	return names, args, nil
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(val)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
