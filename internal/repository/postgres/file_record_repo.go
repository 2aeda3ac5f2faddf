package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"filedrop/internal/domain"
	"filedrop/internal/port"
)

type fileRecordRepo struct {
	db *sqlx.DB
}

// NewFileRecordRepo creates a new PostgreSQL-backed FileRecordRepository.
func NewFileRecordRepo(db *sqlx.DB) port.FileRecordRepository {
	return &fileRecordRepo{db: db}
}

func (r *fileRecordRepo) Create(ctx context.Context, record *domain.FileRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO uploaded_files
		(id, owner_id, file_name, s3_key, file_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.OwnerID, record.FileName, record.S3Key, record.FileType, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("fileRecordRepo.Create: %w", err)
	}
	return nil
}

func (r *fileRecordRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.FileRecord, error) {
	records := []domain.FileRecord{}
	err := r.db.SelectContext(ctx, &records,
		`SELECT id, owner_id, file_name, s3_key, file_type, created_at
		 FROM uploaded_files
		 WHERE owner_id = $1
		 ORDER BY seq ASC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("fileRecordRepo.ListByOwner: %w", err)
	}
	return records, nil
}
