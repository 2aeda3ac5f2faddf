package domain

import "errors"

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrValidation      = errors.New("validation failed")
	ErrUpstreamSigning = errors.New("storage service could not sign the upload")
	ErrPersistence     = errors.New("file metadata could not be saved")
)
