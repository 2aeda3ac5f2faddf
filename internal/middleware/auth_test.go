package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"filedrop/internal/domain"
	"filedrop/internal/middleware"
	"filedrop/internal/port"
	"filedrop/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(verifier port.TokenVerifier) *gin.Engine {
	r := gin.New()
	r.Use(middleware.AuthMiddleware(verifier))
	r.GET("/test", func(c *gin.Context) {
		uid, err := middleware.GetUserID(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": uid})
	})
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	mockVerifier := new(mocks.MockTokenVerifier)
	mockVerifier.On("Verify", mock.Anything, "valid-token").
		Return(&port.Identity{Subject: "user-123", Email: "user@test.com"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer valid-token")
	newAuthRouter(mockVerifier).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "user-123", resp["user_id"])
	mockVerifier.AssertExpectations(t)
}

func TestAuthMiddleware_LowercaseScheme(t *testing.T) {
	mockVerifier := new(mocks.MockTokenVerifier)
	mockVerifier.On("Verify", mock.Anything, "tok").Return(&port.Identity{Subject: "u"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "bearer tok")
	newAuthRouter(mockVerifier).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"basic scheme", "Basic dXNlcjpwYXNz"},
		{"bearer without token", "Bearer "},
		{"no separator", "Bearertoken"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockVerifier := new(mocks.MockTokenVerifier)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			newAuthRouter(mockVerifier).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
			mockVerifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	mockVerifier := new(mocks.MockTokenVerifier)
	mockVerifier.On("Verify", mock.Anything, "bad-token").Return(nil, domain.ErrUnauthorized)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer bad-token")
	newAuthRouter(mockVerifier).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockVerifier.AssertExpectations(t)
}

func TestGetUserID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := middleware.GetUserID(c)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
