package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"feedmark/core/storage"
)

const objectExtension = ".json"

// Object is a Store that keeps one JSON object per key in an S3 bucket.
// Object names follow <prefix>/<namespace>/<key>.json with path escaping.
type Object struct {
	client storage.Client
	bucket string
	prefix string
}

// NewObject creates an object-backed store.
func NewObject(client storage.Client, bucket, prefix string) *Object {
	return &Object{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (o *Object) namespacePrefix(namespace string) string {
	return path.Join(o.prefix, url.PathEscape(namespace)) + "/"
}

func (o *Object) objectName(namespace, key string) string {
	return o.namespacePrefix(namespace) + url.PathEscape(key) + objectExtension
}

func (o *Object) Get(ctx context.Context, namespace, key string, def json.RawMessage) (json.RawMessage, error) {
	name := o.objectName(namespace, key)
	data, err := o.client.ReadDocument(ctx, o.bucket, name)
	if errors.Is(err, storage.ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", name, err)
	}
	return json.RawMessage(data), nil
}

func (o *Object) Set(ctx context.Context, namespace, key string, value json.RawMessage) error {
	name := o.objectName(namespace, key)
	if err := o.client.WriteDocument(ctx, o.bucket, name, value, "application/json"); err != nil {
		return fmt.Errorf("failed to write object %s: %w", name, err)
	}
	return nil
}

func (o *Object) Remove(ctx context.Context, namespace, key string) error {
	name := o.objectName(namespace, key)
	if err := o.client.DeleteDocument(ctx, o.bucket, name); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", name, err)
	}
	return nil
}

// Keys skips objects that are not direct <key>.json children of the namespace.
func (o *Object) Keys(ctx context.Context, namespace string) ([]string, error) {
	prefix := o.namespacePrefix(namespace)
	names, err := o.client.ListDocuments(ctx, o.bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}

	var keys []string
	for _, name := range names {
		name = strings.TrimPrefix(name, prefix)
		if !strings.HasSuffix(name, objectExtension) || strings.Contains(name, "/") {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(name, objectExtension))
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (o *Object) EnsureBucket(ctx context.Context) error {
	return o.client.EnsureBucket(ctx, o.bucket)
}
