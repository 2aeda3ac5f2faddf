package port

import (
	"context"
	"time"
)

// PresignUploadInput encapsulates the parameters needed to presign an object upload.
type PresignUploadInput struct {
	Bucket      string
	Key         string
	ContentType string
	Expires     time.Duration
}

// PresignedUpload is a signed, time-limited upload URL.
type PresignedUpload struct {
	URL       string
	Method    string
	ExpiresAt time.Time
}

// UploadURLSigner abstracts the object storage service's URL-signing capability.
// Implementations must be safe for concurrent use.
type UploadURLSigner interface {
	PresignUpload(ctx context.Context, input PresignUploadInput) (*PresignedUpload, error)
}
