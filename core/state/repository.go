package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"feedmark/core/kv"
	"feedmark/core/reconcile"

	"go.uber.org/zap"
)

// SchemaVersion is the layout version written by this build.
//
//	1: a bare item id per context (the last post seen).
//	2: [goalPost, witnessedIntervals(, hints)] arrays.
const SchemaVersion = 2

const (
	metaNamespace = "meta"
	versionKey    = "schema_version"
)

var (
	// ErrInvalidCursor marks malformed or inconsistent persisted state.
	ErrInvalidCursor = fmt.Errorf("%w: invalid cursor", reconcile.ErrInvariant)
	// ErrNotMigrated is returned by Load and Save before Migrate completed.
	ErrNotMigrated = errors.New("cursor schema has not been migrated")
	// ErrUnsupportedSchema is returned when the store was written by a newer build.
	ErrUnsupportedSchema = errors.New("unsupported cursor schema version")
)

// Namespace identifies where one feed variant keeps its cursors.
type Namespace struct {
	// Name is the kv namespace.
	Name string
	// Hinted is true when cursors carry adjacency hints.
	Hinted bool
}

// Repository loads and stores validated cursors.
type Repository struct {
	store      kv.Store
	logger     *zap.Logger
	namespaces []Namespace
	migrated   atomic.Bool
}

// NewRepository creates a repository over store. namespaces lists every
// cursor namespace so that Migrate can visit them.
func NewRepository(store kv.Store, logger *zap.Logger, namespaces ...Namespace) *Repository {
	return &Repository{store: store, logger: logger, namespaces: namespaces}
}

// Namespaces returns the cursor namespaces the repository was created with.
func (r *Repository) Namespaces() []Namespace {
	return r.namespaces
}

// Migrate upgrades stored cursors to SchemaVersion. It must run before any Load.
func (r *Repository) Migrate(ctx context.Context) error {
	version, err := r.Version(ctx)
	if err != nil {
		return err
	}
	if version > SchemaVersion {
		return fmt.Errorf("%w: store is at %d, this build supports %d", ErrUnsupportedSchema, version, SchemaVersion)
	}

	if version < 2 {
		for _, ns := range r.namespaces {
			n, err := r.migrateLegacy(ctx, ns)
			if err != nil {
				return err
			}
			if n > 0 {
				r.logger.Info("Migrated legacy cursors", zap.String("namespace", ns.Name), zap.Int("count", n))
			}
		}
		if err := r.store.Set(ctx, metaNamespace, versionKey, json.RawMessage(strconv.Itoa(SchemaVersion))); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}

	r.migrated.Store(true)
	return nil
}

// Version returns the stored schema version. A store without a version
// record is treated as version 1.
func (r *Repository) Version(ctx context.Context) (int, error) {
	raw, err := r.store.Get(ctx, metaNamespace, versionKey, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if raw == nil {
		return 1, nil
	}
	var version int
	if err := json.Unmarshal(raw, &version); err != nil {
		return 0, fmt.Errorf("%w: schema version %s", ErrInvalidCursor, string(raw))
	}
	return version, nil
}

// migrateLegacy rewrites bare "last post" ids in ns as cursors.
func (r *Repository) migrateLegacy(ctx context.Context, ns Namespace) (int, error) {
	keys, err := r.store.Keys(ctx, ns.Name)
	if err != nil {
		return 0, err
	}

	migrated := 0
	for _, key := range keys {
		raw, err := r.store.Get(ctx, ns.Name, key, nil)
		if err != nil {
			return migrated, err
		}
		if string(raw) == "null" {
			if err := r.store.Remove(ctx, ns.Name, key); err != nil {
				return migrated, err
			}
			continue
		}
		var lastPost int64
		if err := json.Unmarshal(raw, &lastPost); err != nil {
			// Already in the array layout.
			continue
		}
		if lastPost <= 0 {
			return migrated, fmt.Errorf("%w: legacy record %s/%s holds %d", ErrInvalidCursor, ns.Name, key, lastPost)
		}
		data, err := Encode(&reconcile.Cursor{GoalPost: lastPost}, ns.Hinted)
		if err != nil {
			return migrated, err
		}
		if err := r.store.Set(ctx, ns.Name, key, data); err != nil {
			return migrated, fmt.Errorf("failed to migrate %s/%s: %w", ns.Name, key, err)
		}
		migrated++
	}
	return migrated, nil
}

// Load returns the cursor for key, or an unvisited cursor if none is stored.
func (r *Repository) Load(ctx context.Context, ns Namespace, key string) (*reconcile.Cursor, error) {
	if !r.migrated.Load() {
		return nil, ErrNotMigrated
	}
	raw, err := r.store.Get(ctx, ns.Name, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load cursor %s/%s: %w", ns.Name, key, err)
	}
	c, err := Decode(raw, ns.Hinted)
	if err != nil {
		return nil, fmt.Errorf("cursor %s/%s: %w", ns.Name, key, err)
	}
	return c, nil
}

// Save validates and stores the cursor for key.
func (r *Repository) Save(ctx context.Context, ns Namespace, key string, c *reconcile.Cursor) error {
	if !r.migrated.Load() {
		return ErrNotMigrated
	}
	data, err := Encode(c, ns.Hinted)
	if err != nil {
		return fmt.Errorf("cursor %s/%s: %w", ns.Name, key, err)
	}
	if err := r.store.Set(ctx, ns.Name, key, data); err != nil {
		return fmt.Errorf("failed to save cursor %s/%s: %w", ns.Name, key, err)
	}
	return nil
}

// Reset forgets the cursor for key; the next visit starts from scratch.
func (r *Repository) Reset(ctx context.Context, ns Namespace, key string) error {
	if err := r.store.Remove(ctx, ns.Name, key); err != nil {
		return fmt.Errorf("failed to reset cursor %s/%s: %w", ns.Name, key, err)
	}
	return nil
}

// Keys lists the context keys stored in ns.
func (r *Repository) Keys(ctx context.Context, ns Namespace) ([]string, error) {
	return r.store.Keys(ctx, ns.Name)
}
