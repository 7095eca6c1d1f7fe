package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"feedmark/core/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TableName is the table holding key-value entries.
const TableName = "feedmark_entries"

// Entry is one stored key-value document.
type Entry struct {
	Namespace string    `gorm:"primaryKey;size:64"`
	Key       string    `gorm:"primaryKey;size:191;column:entry_key"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the gorm default.
func (Entry) TableName() string {
	return TableName
}

// Database is a Store backed by a SQL table through GORM.
type Database struct {
	db *gorm.DB
}

// NewDatabase wraps an open GORM connection.
func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// Migrate creates or updates the entries table.
func (d *Database) Migrate(ctx context.Context) error {
	if err := d.db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", TableName, err)
	}
	return nil
}

// Verify checks that the entries table exposes the columns the store relies on.
func (d *Database) Verify() error {
	return database.RequireColumns(d.db, TableName, "namespace", "entry_key", "value", "updated_at")
}

func (d *Database) Get(ctx context.Context, namespace, key string, def json.RawMessage) (json.RawMessage, error) {
	var e Entry
	err := d.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", namespace, key).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", namespace, key, err)
	}
	return json.RawMessage(e.Value), nil
}

func (d *Database) Set(ctx context.Context, namespace, key string, value json.RawMessage) error {
	e := Entry{Namespace: namespace, Key: key, Value: string(value)}
	err := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&e).Error
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (d *Database) Remove(ctx context.Context, namespace, key string) error {
	err := d.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", namespace, key).
		Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (d *Database) Keys(ctx context.Context, namespace string) ([]string, error) {
	var keys []string
	err := d.db.WithContext(ctx).
		Model(&Entry{}).
		Where("namespace = ?", namespace).
		Order("entry_key").
		Pluck("entry_key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", namespace, err)
	}
	return keys, nil
}
