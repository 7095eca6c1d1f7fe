// Package state persists cursors with versioning and validation.
//
// Cursors are stored through core/kv as compact JSON arrays so that the
// layout matches what earlier releases wrote:
//
//	primary feed:  [goalPostId, [[low,high], ...]]
//	tag feed:      [goalPostId, [[low,high], ...], [[timestamp, itemId], ...]]
//
// Every Load and Save validates the cursor (see reconcile.Cursor.Validate);
// malformed state is reported as ErrInvalidCursor, which wraps
// reconcile.ErrInvariant and is never repaired automatically.
//
// # Schema migration
//
// The meta/schema_version record holds the layout version. Version 1 stored a
// bare "last post" id per context; Migrate rewrites those records as cursors
// whose goal post is that id and bumps the version. Load and Save refuse to
// run until Migrate has completed on the repository.
package state
