// Package kv provides the namespaced key-value persistence behind cursors.
//
// Cursor state is small JSON and is addressed by (namespace, key), where the
// namespace names the feed variant and the key is the canonical context
// identity. Three backends implement Store:
//
//   - Database: one row per entry in the feedmark_entries table (GORM; MySQL or SQLite).
//   - Object: one JSON object per entry in an S3/MinIO bucket.
//   - Memory: process-local, for tests and throwaway runs.
//
// Open picks the backend from Config.Driver and prepares it (table migration
// and verification, or bucket creation).
//
// # Usage
//
//	store, err := kv.Open(ctx, cfg.Store, db, client, cfg.Storage.Bucket)
//	raw, err := store.Get(ctx, "dashboard", "dashboard", nil)
package kv
