// Package database handles database connections and schema inspection.
//
// It wraps GORM to open MySQL (production) or SQLite (single-node and tests)
// connections from the application's configuration. The key-value cursor
// store in core/kv is the main consumer.
//
// # Connect
//
// Connect picks the dialector from Config.Driver, applies connection pool and
// timeout settings and pings the database before returning.
//
// # Schema Inspection
//
// Columns reads a table's columns through the GORM migrator, so both dialects
// answer the same way. RequireColumns wraps it and fails with
// ErrSchemaMismatch; the cursor store calls it after auto-migration.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	if err := database.RequireColumns(db, "feedmark_entries", "namespace", "value"); err != nil {
//	    return err
//	}
package database
