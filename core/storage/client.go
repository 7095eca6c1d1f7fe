package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrNotFound is returned by ReadDocument when the object does not exist.
var ErrNotFound = errors.New("document not found")

// DefaultTimeout applies when Config.TimeoutSeconds is not positive.
const DefaultTimeout = 30 * time.Second

// Client stores small documents as whole objects in a bucket.
type Client interface {
	// EnsureBucket creates the bucket unless it already exists.
	EnsureBucket(ctx context.Context, bucket string) error
	// ReadDocument returns the object body, or ErrNotFound.
	ReadDocument(ctx context.Context, bucket, name string) ([]byte, error)
	// WriteDocument replaces the object with data.
	WriteDocument(ctx context.Context, bucket, name string, data []byte, contentType string) error
	// DeleteDocument removes the object. A missing object is not an error.
	DeleteDocument(ctx context.Context, bucket, name string) error
	// ListDocuments returns every object name under prefix, recursively.
	ListDocuments(ctx context.Context, bucket, prefix string) ([]string, error)
}

// NewClient connects to the S3 compatible endpoint in cfg. No request is made
// until the first operation.
func NewClient(cfg Config) (Client, error) {
	timeout := cfg.Timeout()
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
	}

	client, err := minio.New(cfg.Host(), &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &documents{client: client}, nil
}

type documents struct {
	client *minio.Client
}

func (d *documents) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := d.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := d.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return nil
}

func (d *documents) ReadDocument(ctx context.Context, bucket, name string) ([]byte, error) {
	obj, err := d.client.GetObject(ctx, bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, translate(err)
	}
	defer obj.Close()

	// GetObject is lazy; a missing key only shows up on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, translate(err)
	}
	return data, nil
}

func (d *documents) WriteDocument(ctx context.Context, bucket, name string, data []byte, contentType string) error {
	_, err := d.client.PutObject(ctx, bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (d *documents) DeleteDocument(ctx context.Context, bucket, name string) error {
	err := d.client.RemoveObject(ctx, bucket, name, minio.RemoveObjectOptions{})
	if errors.Is(translate(err), ErrNotFound) {
		return nil
	}
	return err
}

func (d *documents) ListDocuments(ctx context.Context, bucket, prefix string) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var names []string
	for info := range d.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if info.Err != nil {
			return nil, info.Err
		}
		names = append(names, info.Key)
	}
	return names, nil
}

// translate maps a missing key or bucket response onto ErrNotFound.
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

// Host returns the endpoint without its URL scheme, as minio expects it.
func (c Config) Host() string {
	host := strings.TrimPrefix(c.Endpoint, "http://")
	return strings.TrimPrefix(host, "https://")
}

// Timeout returns the connection timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
