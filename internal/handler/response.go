package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"filedrop/internal/domain"
	"filedrop/internal/middleware"
)

// ErrorResponse is the envelope for all error responses.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
// Messages are fixed per error kind so collaborator details never reach the
// caller; validation errors are the exception since their text is our own.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, domain.ErrUpstreamSigning):
		return http.StatusBadGateway, "UPSTREAM_SIGNING_FAILED", "could not obtain an upload URL from storage; retry later"
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusInternalServerError, "PERSISTENCE_FAILED", "file metadata could not be saved"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		slog.ErrorContext(c.Request.Context(), "internal error",
			slog.String("request_id", c.GetString(middleware.ContextKeyRequestID)),
			slog.String("code", code),
			slog.String("error", err.Error()),
		)
	}
	RespondError(c, status, code, msg)
}
