package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"feedmark/core/storage"
	"feedmark/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestObject_ObjectNames(t *testing.T) {
	o := NewObject(nil, "cursors", "/feedmark/")
	assert.Equal(t, "feedmark/tagged/go%20lang.json", o.objectName("tagged", "go lang"))
	assert.Equal(t, "feedmark/tagged/a%2Fb.json", o.objectName("tagged", "a/b"))
	assert.Equal(t, "feedmark/dashboard/", o.namespacePrefix("dashboard"))
}

func TestObject_Get(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("ReadDocument", mock.Anything, "cursors", "feedmark/dashboard/dashboard.json").
		Return([]byte(`[50,[]]`), nil)

	store := NewObject(mockClient, "cursors", "feedmark")
	got, err := store.Get(context.Background(), "dashboard", "dashboard", nil)
	assert.NoError(t, err)
	assert.Equal(t, `[50,[]]`, string(got))
	mockClient.AssertExpectations(t)
}

func TestObject_GetMissing(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("ReadDocument", mock.Anything, "cursors", "feedmark/tagged/art.json").
		Return(nil, fmt.Errorf("%w: NoSuchKey", storage.ErrNotFound))

	store := NewObject(mockClient, "cursors", "feedmark")
	got, err := store.Get(context.Background(), "tagged", "art", json.RawMessage(`null`))
	assert.NoError(t, err)
	assert.Equal(t, `null`, string(got))
}

func TestObject_GetFailure(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("ReadDocument", mock.Anything, "cursors", mock.Anything).
		Return(nil, errors.New("access denied"))

	store := NewObject(mockClient, "cursors", "feedmark")
	_, err := store.Get(context.Background(), "tagged", "art", nil)
	assert.ErrorContains(t, err, "access denied")
}

func TestObject_Set(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("WriteDocument", mock.Anything, "cursors", "feedmark/tagged/art.json", []byte(`[1,[],[]]`), "application/json").
		Return(nil)

	store := NewObject(mockClient, "cursors", "feedmark")
	assert.NoError(t, store.Set(context.Background(), "tagged", "art", json.RawMessage(`[1,[],[]]`)))
	mockClient.AssertExpectations(t)
}

func TestObject_Remove(t *testing.T) {
	t.Run("Removed", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("DeleteDocument", mock.Anything, "cursors", "feedmark/tagged/art.json").Return(nil)

		store := NewObject(mockClient, "cursors", "feedmark")
		assert.NoError(t, store.Remove(context.Background(), "tagged", "art"))
		mockClient.AssertExpectations(t)
	})

	t.Run("Failure", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("DeleteDocument", mock.Anything, "cursors", mock.Anything).Return(errors.New("timeout"))

		store := NewObject(mockClient, "cursors", "feedmark")
		assert.ErrorContains(t, store.Remove(context.Background(), "tagged", "art"), "timeout")
	})
}

func TestObject_Keys(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("ListDocuments", mock.Anything, "cursors", "feedmark/tagged/").Return([]string{
		"feedmark/tagged/go%20lang.json",
		"feedmark/tagged/art.json",
		"feedmark/tagged/notes.txt",
		"feedmark/tagged/nested/deep.json",
	}, nil)

	store := NewObject(mockClient, "cursors", "feedmark")
	keys, err := store.Keys(context.Background(), "tagged")
	assert.NoError(t, err)
	assert.Equal(t, []string{"art", "go lang"}, keys)
}

func TestObject_KeysFailure(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("ListDocuments", mock.Anything, "cursors", mock.Anything).Return(nil, errors.New("no such bucket"))

	store := NewObject(mockClient, "cursors", "feedmark")
	_, err := store.Keys(context.Background(), "tagged")
	assert.Error(t, err)
}

func TestObject_EnsureBucket(t *testing.T) {
	t.Run("Ready", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("EnsureBucket", mock.Anything, "cursors").Return(nil)

		store, err := Open(context.Background(), Config{Driver: DriverObject, Prefix: "feedmark"}, nil, mockClient, "cursors")
		assert.NoError(t, err)
		assert.IsType(t, &Object{}, store)
		mockClient.AssertExpectations(t)
	})

	t.Run("Failure", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("EnsureBucket", mock.Anything, "cursors").Return(errors.New("forbidden"))

		_, err := Open(context.Background(), Config{Driver: DriverObject, Prefix: "feedmark"}, nil, mockClient, "cursors")
		assert.ErrorContains(t, err, "forbidden")
	})
}
