package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Column describes one column of a discovered table
type Column struct {
	Name     string `db:"name"`
	DataType string `db:"data_type"`
}

type sqliteDatabase struct {
	Seq  int    `db:"seq"`
	Name string `db:"name"`
	File string `db:"file"`
}

type sqliteColumn struct {
	CID     int            `db:"cid"`
	Name    string         `db:"name"`
	Type    string         `db:"type"`
	NotNull int            `db:"notnull"`
	Default sql.NullString `db:"dflt_value"`
	PK      int            `db:"pk"`
}

// ListSchemas returns the schemas visible to the connection
func (s *Store) ListSchemas(ctx context.Context) ([]string, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var schemas []string
	switch s.driver {
	case DriverSQLite:
		var dbs []sqliteDatabase
		if err := db.SelectContext(ctx, &dbs, "PRAGMA database_list"); err != nil {
			return nil, fmt.Errorf("error listing schemas: %w", err)
		}
		for _, d := range dbs {
			schemas = append(schemas, d.Name)
		}
	default:
		err = db.SelectContext(ctx, &schemas, `
			SELECT schema_name
			FROM information_schema.schemata
			ORDER BY schema_name`)
		if err != nil {
			return nil, fmt.Errorf("error listing schemas: %w", err)
		}
	}
	return schemas, nil
}

// ListTables returns the tables of schema in name order
func (s *Store) ListTables(ctx context.Context, schema string) ([]string, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	if err := s.checkSchema(ctx, schema); err != nil {
		return nil, err
	}

	var tables []string
	switch s.driver {
	case DriverSQLite:
		err = db.SelectContext(ctx, &tables, fmt.Sprintf(`
			SELECT name
			FROM %s.sqlite_master
			WHERE type = 'table' AND name NOT LIKE 'sqlite_%%'
			ORDER BY name`, quote(schema)))
	default:
		err = db.SelectContext(ctx, &tables, db.Rebind(`
			SELECT table_name
			FROM information_schema.tables
			WHERE table_schema = ?
			ORDER BY table_name`), schema)
	}
	if err != nil {
		return nil, fmt.Errorf("error listing tables of %s: %w", schema, err)
	}
	return tables, nil
}

// ListColumns returns the columns of schema.table in table order
func (s *Store) ListColumns(ctx context.Context, schema, table string) ([]Column, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	if err := s.checkTable(ctx, schema, table); err != nil {
		return nil, err
	}

	var columns []Column
	switch s.driver {
	case DriverSQLite:
		var info []sqliteColumn
		query := fmt.Sprintf("PRAGMA %s.table_info(%s)", quote(schema), quote(table))
		if err := db.SelectContext(ctx, &info, query); err != nil {
			return nil, fmt.Errorf("error listing columns of %s.%s: %w", schema, table, err)
		}
		for _, c := range info {
			columns = append(columns, Column{Name: c.Name, DataType: c.Type})
		}
	default:
		err = db.SelectContext(ctx, &columns, db.Rebind(`
			SELECT column_name AS name, data_type
			FROM information_schema.columns
			WHERE table_schema = ? AND table_name = ?
			ORDER BY ordinal_position`), schema, table)
		if err != nil {
			return nil, fmt.Errorf("error listing columns of %s.%s: %w", schema, table, err)
		}
	}
	return columns, nil
}

func (s *Store) checkSchema(ctx context.Context, schema string) error {
	schemas, err := s.ListSchemas(ctx)
	if err != nil {
		return err
	}
	return checkIdentifier("schema", schema, schemas)
}

func (s *Store) checkTable(ctx context.Context, schema, table string) error {
	tables, err := s.ListTables(ctx, schema)
	if err != nil {
		return err
	}
	return checkIdentifier("table", table, tables)
}

// columnNames validates table and returns its column names
func (s *Store) columnNames(ctx context.Context, schema, table string) ([]string, error) {
	columns, err := s.ListColumns(ctx, schema, table)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names, nil
}
