package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"filedrop/internal/config"
	"filedrop/internal/domain"
	"filedrop/internal/port"
)

// UploadService coordinates presigned upload URL issuance and the per-owner
// file metadata that goes with it.
type UploadService interface {
	IssueUploadURL(ctx context.Context, ownerID, fileName, fileType string) (*domain.UploadTicket, error)
	ListUploads(ctx context.Context, ownerID string) ([]domain.FileSummary, error)
}

// uploadService issues an upload in two phases:
//
//  1. sign: the storage service presigns a PUT for a freshly generated key.
//  2. persist: the FileRecord is written to the metadata store.
//
// Phase 2 never runs unless phase 1 succeeded, so every record refers to a
// key for which a URL was handed out. The reverse does not hold: if phase 2
// fails the signed URL is dropped and simply expires. Nothing confirms that
// the caller actually uploads the object.
type uploadService struct {
	repo   port.FileRecordRepository
	signer port.UploadURLSigner
	cfg    *config.S3Config
	logger *slog.Logger
	now    func() time.Time
}

// NewUploadService creates a new UploadService implementation.
func NewUploadService(
	repo port.FileRecordRepository,
	signer port.UploadURLSigner,
	cfg *config.S3Config,
	logger *slog.Logger,
) UploadService {
	return &uploadService{
		repo:   repo,
		signer: signer,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "upload_service")),
		now:    time.Now,
	}
}

func (s *uploadService) IssueUploadURL(ctx context.Context, ownerID, fileName, fileType string) (*domain.UploadTicket, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := validateUploadRequest(fileName, fileType); err != nil {
		uploadURLsIssued.WithLabelValues(resultRejected).Inc()
		return nil, err
	}

	recordID := uuid.New()
	key := StorageKey(uuid.New(), fileName)
	if len(key) > domain.MaxStorageKeyLength {
		uploadURLsIssued.WithLabelValues(resultRejected).Inc()
		return nil, fmt.Errorf("%w: file_name too long", domain.ErrValidation)
	}

	signStart := s.now()
	signed, err := s.signer.PresignUpload(ctx, port.PresignUploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		ContentType: fileType,
		Expires:     s.cfg.PresignTTL(),
	})
	signDuration.Observe(s.now().Sub(signStart).Seconds())
	if err != nil {
		s.logger.ErrorContext(ctx, "uploadService.IssueUploadURL: presign failed",
			slog.String("owner_id", ownerID),
			slog.String("s3_key", key),
			slog.String("error", err.Error()),
		)
		uploadURLsIssued.WithLabelValues(resultSignFailed).Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamSigning, err)
	}

	record := &domain.FileRecord{
		ID:        recordID,
		OwnerID:   ownerID,
		FileName:  fileName,
		S3Key:     key,
		FileType:  fileType,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "uploadService.IssueUploadURL: failed to record file metadata",
			slog.String("owner_id", ownerID),
			slog.String("s3_key", key),
			slog.String("error", err.Error()),
		)
		uploadURLsIssued.WithLabelValues(resultPersistFailed).Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	s.logger.InfoContext(ctx, "uploadService.IssueUploadURL: issued upload URL",
		slog.String("owner_id", ownerID),
		slog.String("s3_key", key),
		slog.String("file_type", fileType),
		slog.Time("expires_at", signed.ExpiresAt),
	)
	uploadURLsIssued.WithLabelValues(resultIssued).Inc()

	return &domain.UploadTicket{URL: signed.URL, Key: key}, nil
}

func (s *uploadService) ListUploads(ctx context.Context, ownerID string) ([]domain.FileSummary, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}

	records, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "uploadService.ListUploads: failed to list file metadata",
			slog.String("owner_id", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	summaries := make([]domain.FileSummary, 0, len(records))
	for i := range records {
		summaries = append(summaries, records[i].Summary())
	}
	return summaries, nil
}

// StorageKey derives the object key for an upload: a random token, the
// separator, then the caller's file name verbatim.
func StorageKey(token uuid.UUID, fileName string) string {
	return token.String() + domain.StorageKeySeparator + fileName
}

func validateUploadRequest(fileName, fileType string) error {
	switch {
	case strings.TrimSpace(fileName) == "":
		return fmt.Errorf("%w: file_name is required", domain.ErrValidation)
	case strings.ContainsRune(fileName, 0):
		return fmt.Errorf("%w: file_name must not contain NUL bytes", domain.ErrValidation)
	case len(fileName) > domain.MaxFileNameLength:
		return fmt.Errorf("%w: file_name must be at most %d bytes", domain.ErrValidation, domain.MaxFileNameLength)
	case strings.TrimSpace(fileType) == "":
		return fmt.Errorf("%w: file_type is required", domain.ErrValidation)
	case strings.ContainsRune(fileType, 0):
		return fmt.Errorf("%w: file_type must not contain NUL bytes", domain.ErrValidation)
	case len(fileType) > domain.MaxFileTypeLength:
		return fmt.Errorf("%w: file_type must be at most %d bytes", domain.ErrValidation, domain.MaxFileTypeLength)
	}
	return nil
}
