package database

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// ErrSchemaMismatch is returned when a table is missing or lacks columns.
var ErrSchemaMismatch = errors.New("schema mismatch")

// Columns maps each column of table to its lowercase database type.
func Columns(db *gorm.DB, table string) (map[string]string, error) {
	migrator := db.Migrator()
	if !migrator.HasTable(table) {
		return nil, fmt.Errorf("%w: table %s does not exist", ErrSchemaMismatch, table)
	}
	types, err := migrator.ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}
	columns := make(map[string]string, len(types))
	for _, col := range types {
		columns[strings.ToLower(col.Name())] = strings.ToLower(col.DatabaseTypeName())
	}
	return columns, nil
}

// RequireColumns checks that table exists and has every named column.
func RequireColumns(db *gorm.DB, table string, names ...string) error {
	columns, err := Columns(db, table)
	if err != nil {
		return err
	}
	var missing []string
	for _, name := range names {
		if _, ok := columns[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: table %s is missing %s", ErrSchemaMismatch, table, strings.Join(missing, ", "))
	}
	return nil
}
