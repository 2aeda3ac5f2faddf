package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"filedrop/internal/domain"
)

// MockFileRecordRepo is a mock implementation of port.FileRecordRepository.
type MockFileRecordRepo struct {
	mock.Mock
}

func (m *MockFileRecordRepo) Create(ctx context.Context, record *domain.FileRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockFileRecordRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.FileRecord, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FileRecord), args.Error(1)
}
