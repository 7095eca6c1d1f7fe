package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	client, err := NewClient(Config{
		Endpoint:  "https://s3.amazonaws.com",
		AccessKey: "testkey",
		SecretKey: "testsecret",
		UseSSL:    true,
		Bucket:    "cursors",
		Region:    "us-east-1",
	})
	assert.NoError(t, err)
	assert.Implements(t, (*Client)(nil), client)
}

func TestConfig_Host(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
	}{
		{"localhost:9000", "localhost:9000"},
		{"http://localhost:9000", "localhost:9000"},
		{"https://s3.amazonaws.com", "s3.amazonaws.com"},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			assert.Equal(t, tt.want, Config{Endpoint: tt.endpoint}.Host())
		})
	}
}

func TestConfig_Timeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, Config{}.Timeout())
	assert.Equal(t, DefaultTimeout, Config{TimeoutSeconds: -5}.Timeout())
	assert.Equal(t, 5*time.Second, Config{TimeoutSeconds: 5}.Timeout())
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notFound bool
	}{
		{"Missing key", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}, true},
		{"Missing bucket", minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: 404}, true},
		{"Denied", minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}, false},
		{"Transport", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translate(tt.err)
			assert.Error(t, err)
			assert.Equal(t, tt.notFound, errors.Is(err, ErrNotFound))
		})
	}

	assert.NoError(t, translate(nil))
}
