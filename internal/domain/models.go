package domain

import (
	"time"

	"github.com/google/uuid"
)

// Column limits of the uploaded_files table.
const (
	MaxFileNameLength   = 255
	MaxFileTypeLength   = 100
	MaxStorageKeyLength = 500
	StorageKeySeparator = "_"
)

// FileRecord is the metadata recorded when an upload URL is issued.
// Records are written once and never updated; a record does not prove the
// object was ever uploaded.
type FileRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	FileName  string    `db:"file_name" json:"file_name"`
	S3Key     string    `db:"s3_key" json:"s3_key"`
	FileType  string    `db:"file_type" json:"file_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Summary projects the record to the fields exposed by the listing endpoint.
func (r *FileRecord) Summary() FileSummary {
	return FileSummary{
		FileName: r.FileName,
		FileType: r.FileType,
		S3Key:    r.S3Key,
	}
}

// FileSummary is the listing view of a FileRecord.
type FileSummary struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	S3Key    string `json:"s3_key"`
}

// UploadTicket is returned to the caller after a presigned URL is issued.
type UploadTicket struct {
	URL string `json:"url"`
	Key string `json:"key"`
}
