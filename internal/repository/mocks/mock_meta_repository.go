package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockMetaRepository struct {
	mock.Mock
}

func (m *MockMetaRepository) Get(ctx context.Context, entityID int64, key string) (string, bool, error) {
	args := m.Called(ctx, entityID, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockMetaRepository) GetAll(ctx context.Context, entityID int64, key string) ([]string, error) {
	args := m.Called(ctx, entityID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMetaRepository) GetMany(ctx context.Context, entityIDs []int64, key string) (map[int64]string, error) {
	args := m.Called(ctx, entityIDs, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]string), args.Error(1)
}

func (m *MockMetaRepository) Set(ctx context.Context, entityID int64, key, value string) error {
	args := m.Called(ctx, entityID, key, value)
	return args.Error(0)
}

func (m *MockMetaRepository) Add(ctx context.Context, entityID int64, key, value string) error {
	args := m.Called(ctx, entityID, key, value)
	return args.Error(0)
}

func (m *MockMetaRepository) DeleteValue(ctx context.Context, entityID int64, key, value string) error {
	args := m.Called(ctx, entityID, key, value)
	return args.Error(0)
}

func (m *MockMetaRepository) Replace(ctx context.Context, entityID int64, key string, values []string) error {
	args := m.Called(ctx, entityID, key, values)
	return args.Error(0)
}
