package mocks

import (
	"context"
	"io"

	"contentapi/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockOrigin struct {
	mock.Mock
}

func (m *MockOrigin) Get(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	var rc io.ReadCloser
	if v := args.Get(0); v != nil {
		rc = v.(io.ReadCloser)
	}
	return rc, args.Get(1).(storage.ObjectInfo), args.Error(2)
}
