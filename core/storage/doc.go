// Package storage keeps small documents as whole objects in an S3 compatible
// bucket.
//
// Client works on entire documents. It reads, writes, deletes and lists them,
// and reports a missing object as ErrNotFound instead of a
// provider-specific error response. NewClient implements it on top of the
// MinIO Go client, so AWS S3 and self-hosted MinIO both work. The object
// backend in core/kv stores one cursor per document through it, and tests
// substitute the testify mock in core/storage/mocks.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := client.EnsureBucket(ctx, cfg.Storage.Bucket); err != nil {
//	    return err
//	}
//	data, err := client.ReadDocument(ctx, cfg.Storage.Bucket, "feedmark/dashboard/dashboard.json")
//	if errors.Is(err, storage.ErrNotFound) {
//	    // never saved
//	}
package storage
