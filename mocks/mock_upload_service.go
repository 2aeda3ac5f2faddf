package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"filedrop/internal/domain"
)

// MockUploadService is a mock implementation of service.UploadService.
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) IssueUploadURL(ctx context.Context, ownerID, fileName, fileType string) (*domain.UploadTicket, error) {
	args := m.Called(ctx, ownerID, fileName, fileType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadTicket), args.Error(1)
}

func (m *MockUploadService) ListUploads(ctx context.Context, ownerID string) ([]domain.FileSummary, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FileSummary), args.Error(1)
}
