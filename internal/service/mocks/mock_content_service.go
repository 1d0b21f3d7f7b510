package mocks

import (
	"context"

	"contentapi/internal/delivery"
	"contentapi/internal/model"
	"contentapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) FindByGUID(ctx context.Context, guid string) (*model.Document, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockContentService) FindByKey(ctx context.Context, key model.LookupKey) (*model.Document, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockContentService) OpenFile(ctx context.Context, doc *model.Document) (delivery.Source, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(delivery.Source), args.Error(1)
}

func (m *MockContentService) Preview(ctx context.Context, guid string, req service.PreviewRequest) (*service.Preview, error) {
	args := m.Called(ctx, guid, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Preview), args.Error(1)
}

func (m *MockContentService) NotFoundImage(acceptSVG bool, culture string) *service.Preview {
	args := m.Called(acceptSVG, culture)
	return args.Get(0).(*service.Preview)
}

func (m *MockContentService) ClearCache(ctx context.Context, guid string) ([]string, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockContentService) ImageURL(guid, size string) string {
	args := m.Called(guid, size)
	return args.String(0)
}
