package kv

import (
	"context"
	"fmt"

	"feedmark/core/storage"

	"gorm.io/gorm"
)

// Open selects and prepares the backend named by cfg.Driver. The database
// backend needs db, the object backend needs client and bucket.
func Open(ctx context.Context, cfg Config, db *gorm.DB, client storage.Client, bucket string) (Store, error) {
	switch cfg.Driver {
	case DriverDatabase:
		if db == nil {
			return nil, fmt.Errorf("store driver %q requires a database connection", cfg.Driver)
		}
		store := NewDatabase(db)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		if err := store.Verify(); err != nil {
			return nil, err
		}
		return store, nil
	case DriverObject:
		if client == nil {
			return nil, fmt.Errorf("store driver %q requires a storage client", cfg.Driver)
		}
		store := NewObject(client, bucket, cfg.Prefix)
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
