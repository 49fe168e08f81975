package mocks

import (
	"context"
	"io"

	"docregistry/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) EnsureReady(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStorage) Put(ctx context.Context, r io.Reader, originalName string) (storage.BlobInfo, error) {
	args := m.Called(ctx, r, originalName)
	if f, ok := args.Get(0).(func(context.Context, io.Reader, string) storage.BlobInfo); ok {
		return f(ctx, r, originalName), args.Error(1)
	}
	return args.Get(0).(storage.BlobInfo), args.Error(1)
}

func (m *MockStorage) Read(ctx context.Context, storedName string) ([]byte, error) {
	args := m.Called(ctx, storedName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, storedName string) error {
	args := m.Called(ctx, storedName)
	return args.Error(0)
}
