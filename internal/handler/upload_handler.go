package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"filedrop/internal/middleware"
	"filedrop/internal/service"
)

// PresignRequest is the body of POST /get-presigned-url/.
type PresignRequest struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
}

// UploadHandler handles presigned upload and file listing endpoints.
type UploadHandler struct {
	uploadService service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// GetPresignedURL handles POST /get-presigned-url/
// Responds with {url, key}; the URL accepts a single PUT with the requested
// Content-Type until it expires.
func (h *UploadHandler) GetPresignedURL(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be JSON with file_name and file_type")
		return
	}

	ticket, err := h.uploadService.IssueUploadURL(c.Request.Context(), userID, req.FileName, req.FileType)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// ListFiles handles GET /files/
// Responds with the caller's files as [{file_name, file_type, s3_key}].
func (h *UploadHandler) ListFiles(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	files, err := h.uploadService.ListUploads(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, files)
}
