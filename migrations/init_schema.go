package migrations

import (
	"context"
	"fmt"
	"strings"
)

// RequiredTables are the tables the upload and listing operations depend on
var RequiredTables = []string{"estudiantes"}

// TableLister discovers the tables of a schema
type TableLister interface {
	ListTables(ctx context.Context, schema string) ([]string, error)
}

// VerifyTables checks that all required tables exist in schema. Tables are
// never created or altered here.
func VerifyTables(ctx context.Context, lister TableLister, schema string, tables ...string) error {
	if len(tables) == 0 {
		tables = RequiredTables
	}

	existing, err := lister.ListTables(ctx, schema)
	if err != nil {
		return err
	}
	found := make(map[string]bool, len(existing))
	for _, t := range existing {
		found[strings.ToLower(t)] = true
	}

	var missing []string
	for _, table := range tables {
		if !found[strings.ToLower(table)] {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required table(s) %s do not exist in schema %s", strings.Join(missing, ", "), schema)
	}
	return nil
}
