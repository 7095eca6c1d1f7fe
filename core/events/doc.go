// Package events delivers incremental-load notifications to activations that
// are waiting for more items.
//
// A subscriber registers one callback per tag, and a tag has at most one
// subscriber at a time. Publishing a tag runs its callback synchronously on the
// publisher's goroutine, so a callback may unsubscribe itself.
package events
