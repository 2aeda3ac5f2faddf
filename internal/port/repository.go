package port

import (
	"context"

	"filedrop/internal/domain"
)

// FileRecordRepository defines the contract for file metadata persistence.
type FileRecordRepository interface {
	Create(ctx context.Context, record *domain.FileRecord) error
	// ListByOwner returns the owner's records in insertion order.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.FileRecord, error)
}
