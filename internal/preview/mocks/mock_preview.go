package mocks

import (
	"context"

	"contentapi/internal/model"
	"contentapi/internal/preview"

	"github.com/stretchr/testify/mock"
)

type MockPreviewer struct {
	mock.Mock
}

func (m *MockPreviewer) Get(ctx context.Context, doc *model.Document, wantsWebp bool) (*preview.Result, error) {
	args := m.Called(ctx, doc, wantsWebp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*preview.Result), args.Error(1)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context, guid string) []preview.Removal {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]preview.Removal)
}
