package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"contentapi/internal/repository"
)

type MockModelGateway struct {
	mock.Mock
}

func (m *MockModelGateway) Create(ctx context.Context, modelName string, payload []byte) error {
	args := m.Called(ctx, modelName, payload)
	return args.Error(0)
}

func (m *MockModelGateway) List(ctx context.Context, modelName string) ([]repository.Document, error) {
	args := m.Called(ctx, modelName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.Document), args.Error(1)
}

func (m *MockModelGateway) Get(ctx context.Context, modelName, id string) (repository.Document, error) {
	args := m.Called(ctx, modelName, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Document), args.Error(1)
}

func (m *MockModelGateway) Update(ctx context.Context, modelName, id string, patch map[string]any) error {
	args := m.Called(ctx, modelName, id, patch)
	return args.Error(0)
}

func (m *MockModelGateway) Delete(ctx context.Context, modelName, id string) error {
	args := m.Called(ctx, modelName, id)
	return args.Error(0)
}
