package mocks

import (
	"context"

	"attachapi/internal/model"
	"attachapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) URLFor(attachmentID int64) string {
	args := m.Called(attachmentID)
	return args.String(0)
}

func (m *MockAttachmentService) PostURLFor(postID int64) string {
	args := m.Called(postID)
	return args.String(0)
}

func (m *MockAttachmentService) ResolveLink(ctx context.Context, attachmentID int64) (string, error) {
	args := m.Called(ctx, attachmentID)
	return args.String(0), args.Error(1)
}

func (m *MockAttachmentService) ListPostAttachments(ctx context.Context, postID int64) ([]model.Attachment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) DownloadOne(ctx context.Context, attachmentID int64) (*service.Transfer, error) {
	args := m.Called(ctx, attachmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Transfer), args.Error(1)
}

func (m *MockAttachmentService) DownloadAll(ctx context.Context, postID int64) (*service.Transfer, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Transfer), args.Error(1)
}

func (m *MockAttachmentService) Upload(ctx context.Context, in service.UploadInput) (*model.Attachment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}
