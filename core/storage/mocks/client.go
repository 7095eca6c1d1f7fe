package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Client is a testify mock of storage.Client.
type Client struct {
	mock.Mock
}

func (m *Client) EnsureBucket(ctx context.Context, bucket string) error {
	return m.Called(ctx, bucket).Error(0)
}

func (m *Client) ReadDocument(ctx context.Context, bucket, name string) ([]byte, error) {
	args := m.Called(ctx, bucket, name)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *Client) WriteDocument(ctx context.Context, bucket, name string, data []byte, contentType string) error {
	return m.Called(ctx, bucket, name, data, contentType).Error(0)
}

func (m *Client) DeleteDocument(ctx context.Context, bucket, name string) error {
	return m.Called(ctx, bucket, name).Error(0)
}

func (m *Client) ListDocuments(ctx context.Context, bucket, prefix string) ([]string, error) {
	args := m.Called(ctx, bucket, prefix)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}
