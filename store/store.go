package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	// StudentsTable is the table student uploads are merged into
	StudentsTable = "estudiantes"
)

var (
	ErrMissingCedula     = errors.New("missing CEDULA")
	ErrUnknownIdentifier = errors.New("unknown identifier")
	ErrNoIDColumn        = errors.New("table has no id column")
	ErrNotConnected      = errors.New("not connected to a database")
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Config holds connection parameters
type Config struct {
	Driver     string
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	Schema     string
	SSLMode    string
	SQLitePath string
}

func (c Config) dsn() (string, error) {
	switch c.Driver {
	case DriverPostgres:
		sslmode := c.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		var pairs []string
		for _, kv := range [][2]string{
			{"host", c.Host},
			{"port", c.Port},
			{"user", c.User},
			{"password", c.Password},
			{"dbname", c.Name},
			{"sslmode", sslmode},
		} {
			if kv[1] != "" {
				pairs = append(pairs, kv[0]+"="+dsnValue(kv[1]))
			}
		}
		return strings.Join(pairs, " "), nil
	case DriverSQLite:
		if c.SQLitePath == "" {
			return ":memory:", nil
		}
		return c.SQLitePath, nil
	default:
		return "", fmt.Errorf("unsupported driver: %q", c.Driver)
	}
}

// dsnValue quotes v for a lib/pq key=value connection string
func dsnValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// DefaultSchema is the schema used when none is configured
func DefaultSchema(driver string) string {
	if driver == DriverSQLite {
		return "main"
	}
	return "public"
}

// Store is a session handle over a single shared connection
type Store struct {
	db     *sqlx.DB
	driver string
	schema string
}

// Open connects, pings and activates the configured schema
func Open(ctx context.Context, cfg Config) (*Store, error) {
	dsn, err := cfg.dsn()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s: %w", cfg.Driver, err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, driver: cfg.Driver}
	schema := cfg.Schema
	if schema == "" {
		schema = DefaultSchema(cfg.Driver)
	}
	if err := s.SetSchema(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("[Store] connected to %s (schema %s)", cfg.Driver, schema)
	return s, nil
}

// Close releases the connection. Closing a nil store is a no-op.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) Driver() string { return s.driver }

func (s *Store) Schema() string { return s.schema }

// SetSchema makes schema the active schema after checking that it exists
func (s *Store) SetSchema(ctx context.Context, schema string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	schemas, err := s.ListSchemas(ctx)
	if err != nil {
		return err
	}
	if err := checkIdentifier("schema", schema, schemas); err != nil {
		return err
	}

	if s.driver == DriverPostgres {
		if _, err := db.ExecContext(ctx, "SET search_path TO "+quote(schema)); err != nil {
			return fmt.Errorf("error setting search_path: %w", err)
		}
	}
	s.schema = schema
	return nil
}

func (s *Store) conn() (*sqlx.DB, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotConnected
	}
	return s.db, nil
}

func quote(name string) string {
	return pq.QuoteIdentifier(name)
}

// qualified returns the quoted schema.table reference
func qualified(schema, table string) string {
	return quote(schema) + "." + quote(table)
}

func checkIdentifier(kind, name string, allowed []string) error {
	if contains(allowed, name) {
		return nil
	}
	return fmt.Errorf("%s %q: %w", kind, name, ErrUnknownIdentifier)
}
