package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"contentapi/internal/repository"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, table string, doc any) (repository.Document, error) {
	args := m.Called(ctx, table, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindAll(ctx context.Context, table string, filter map[string]any) ([]repository.Document, error) {
	args := m.Called(ctx, table, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, table, id string) (repository.Document, error) {
	args := m.Called(ctx, table, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Document), args.Error(1)
}

func (m *MockDocumentRepository) UpdateByID(ctx context.Context, table, id string, patch map[string]any) (repository.Document, error) {
	args := m.Called(ctx, table, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Document), args.Error(1)
}

func (m *MockDocumentRepository) DeleteByID(ctx context.Context, table, id string) error {
	args := m.Called(ctx, table, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
