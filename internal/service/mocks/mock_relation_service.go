package mocks

import (
	"context"

	"attachapi/internal/model"
	"attachapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockRelationService struct {
	mock.Mock
}

func (m *MockRelationService) Rows(ctx context.Context, postType string, postID int64) ([]model.Attachment, error) {
	args := m.Called(ctx, postType, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attachment), args.Error(1)
}

func (m *MockRelationService) Attach(ctx context.Context, postType string, postID, attachmentID int64) error {
	args := m.Called(ctx, postType, postID, attachmentID)
	return args.Error(0)
}

func (m *MockRelationService) Detach(ctx context.Context, postType string, postID, attachmentID int64) error {
	args := m.Called(ctx, postType, postID, attachmentID)
	return args.Error(0)
}

func (m *MockRelationService) Reorder(ctx context.Context, postType string, postID int64, ids []int64) error {
	args := m.Called(ctx, postType, postID, ids)
	return args.Error(0)
}

func (m *MockRelationService) Available(ctx context.Context, limit, offset int) (*service.AttachmentListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AttachmentListResult), args.Error(1)
}
