package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"filedrop/internal/port"
)

// MockUploadURLSigner is a mock implementation of port.UploadURLSigner.
type MockUploadURLSigner struct {
	mock.Mock
}

func (m *MockUploadURLSigner) PresignUpload(ctx context.Context, input port.PresignUploadInput) (*port.PresignedUpload, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.PresignedUpload), args.Error(1)
}
