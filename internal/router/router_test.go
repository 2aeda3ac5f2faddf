package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"filedrop/internal/auth/sharedsecret"
	"filedrop/internal/config"
	"filedrop/internal/domain"
	"filedrop/internal/handler"
	"filedrop/internal/port"
	"filedrop/internal/router"
	"filedrop/internal/service"
	"filedrop/mocks"
)

const testSecret = "router-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSigner struct{}

func (stubSigner) PresignUpload(_ context.Context, in port.PresignUploadInput) (*port.PresignedUpload, error) {
	return &port.PresignedUpload{
		URL:       "https://" + in.Bucket + ".s3.test/" + in.Key + "?X-Amz-Expires=300",
		Method:    http.MethodPut,
		ExpiresAt: time.Now().Add(in.Expires),
	}, nil
}

type memRepo struct {
	mu      sync.Mutex
	records []domain.FileRecord
}

func (r *memRepo) Create(_ context.Context, rec *domain.FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *rec)
	return nil
}

func (r *memRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.FileRecord{}
	for _, rec := range r.records {
		if rec.OwnerID == ownerID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEngine(verifier port.TokenVerifier, svc service.UploadService) *gin.Engine {
	return router.Setup(router.Options{
		Verifier:       verifier,
		UploadHandler:  handler.NewUploadHandler(svc),
		HealthHandler:  handler.NewHealthHandler(okPinger{}),
		AllowedOrigins: []string{"http://localhost:3000"},
		Logger:         discardLogger(),
	})
}

func newStack(t *testing.T) (*gin.Engine, *memRepo) {
	t.Helper()
	repo := &memRepo{}
	s3cfg := &config.S3Config{Bucket: "uploads", Region: "us-east-1", PresignExpiry: 300}
	svc := service.NewUploadService(repo, stubSigner{}, s3cfg, discardLogger())
	verifier := sharedsecret.NewVerifier(config.AuthConfig{Mode: config.AuthModeHMAC, Secret: testSecret, Leeway: time.Second})
	return newEngine(verifier, svc), repo
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + s
}

func presign(t *testing.T, r *gin.Engine, auth, fileName, fileType string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"file_name": fileName, "file_type": fileType})
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodPost, "/get-presigned-url/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func listFiles(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/files/", http.NoBody)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_UploadThenList(t *testing.T) {
	r, _ := newStack(t)
	alice := bearer(t, "user-a")
	bob := bearer(t, "user-b")

	keys := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		w := presign(t, r, alice, "photo.png", "image/png")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var ticket domain.UploadTicket
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticket))
		assert.True(t, strings.HasSuffix(ticket.Key, "_photo.png"))
		assert.Contains(t, ticket.URL, ticket.Key)
		keys = append(keys, ticket.Key)
	}
	assert.NotEqual(t, keys[0], keys[1])

	w := listFiles(r, alice)
	require.Equal(t, http.StatusOK, w.Code)
	var files []domain.FileSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &files))
	require.Len(t, files, 2)
	for i, f := range files {
		assert.Equal(t, "photo.png", f.FileName)
		assert.Equal(t, "image/png", f.FileType)
		assert.Equal(t, keys[i], f.S3Key)
	}

	w = listFiles(r, bob)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestRouter_ValidationRejected(t *testing.T) {
	r, repo := newStack(t)

	w := presign(t, r, bearer(t, "user-a"), "", "image/png")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	assert.Empty(t, repo.records)
}

func TestRouter_NULInFileNameRejected(t *testing.T) {
	r, repo := newStack(t)

	w := presign(t, r, bearer(t, "user-a"), "photo\u0000.png", "image/png")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	assert.Empty(t, repo.records)
}

func TestRouter_UnauthenticatedHasNoSideEffects(t *testing.T) {
	verifier := new(mocks.MockTokenVerifier)
	verifier.On("Verify", mock.Anything, "forged").Return(nil, domain.ErrUnauthorized)
	svc := new(mocks.MockUploadService)
	r := newEngine(verifier, svc)

	for _, auth := range []string{"", "Bearer forged"} {
		w := presign(t, r, auth, "photo.png", "image/png")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = listFiles(r, auth)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	}

	svc.AssertNotCalled(t, "IssueUploadURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "ListUploads", mock.Anything, mock.Anything)
}

func TestRouter_ExpiredTokenRejected(t *testing.T) {
	r, repo := newStack(t)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-a",
		"exp": jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := presign(t, r, "Bearer "+s, "photo.png", "image/png")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, repo.records)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r, _ := newStack(t)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		req, _ := http.NewRequest(http.MethodGet, path, http.NoBody)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
