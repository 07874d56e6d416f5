package mocks

import (
	"context"

	"attachapi/internal/model"
	"attachapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockEntityRepository struct {
	mock.Mock
}

func (m *MockEntityRepository) Create(ctx context.Context, e *model.Entity) (*model.Entity, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entity), args.Error(1)
}

func (m *MockEntityRepository) FindByID(ctx context.Context, id int64) (*model.Entity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entity), args.Error(1)
}

func (m *MockEntityRepository) FindByIDs(ctx context.Context, kind string, ids []int64) ([]model.Entity, error) {
	args := m.Called(ctx, kind, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Entity), args.Error(1)
}

func (m *MockEntityRepository) List(ctx context.Context, kind string, pq repository.PageQuery) (*repository.PageResult[model.Entity], error) {
	args := m.Called(ctx, kind, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Entity]), args.Error(1)
}

func (m *MockEntityRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
