package kv

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown store driver")

// Store is a namespaced key-value store holding JSON documents.
type Store interface {
	// Get returns the value stored under namespace/key, or def if there is none.
	Get(ctx context.Context, namespace, key string, def json.RawMessage) (json.RawMessage, error)
	// Set stores value under namespace/key, replacing any previous value.
	Set(ctx context.Context, namespace, key string, value json.RawMessage) error
	// Remove deletes namespace/key. Removing a missing key is not an error.
	Remove(ctx context.Context, namespace, key string) error
	// Keys lists the keys present in a namespace, in ascending order.
	Keys(ctx context.Context, namespace string) ([]string, error)
}
