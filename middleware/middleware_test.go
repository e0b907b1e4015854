package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courtfinder/errors"
	"courtfinder/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": CurrentUserID(c)})
	})
	r.GET("/", handlers...)
	return r
}

func doRequest(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signed(t *testing.T, userID uint) string {
	t.Helper()
	token, err := services.NewUserToken(userID, testSecret)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret))

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other, err := services.NewUserToken(3, []byte("other-secret"))
	require.NoError(t, err)
	w = doRequest(r, other)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, signed(t, 3))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId": 3}`, w.Body.String())
}

func TestOptionalAuth(t *testing.T) {
	r := newRouter(OptionalAuth(testSecret))

	w := doRequest(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId": 0}`, w.Body.String())

	w = doRequest(r, signed(t, 9))
	assert.JSONEq(t, `{"userId": 9}`, w.Body.String())

	w = doRequest(r, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := newRouter(RequestIDMiddleware())

	w := doRequest(r, "")
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	existing := uuid.NewString()
	req.Header.Set(RequestIDHeader, existing)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, existing, w.Header().Get(RequestIDHeader))
}

func TestErrorHandlerWritesAppError(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(errors.NotFound("review", 7))
	})

	w := doRequest(r, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "review with ID 7 not found")
}

func TestRateLimiterPerKey(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, 2)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("user:1"))
	assert.True(t, l.allow("user:1"))
	assert.False(t, l.allow("user:1"))
	assert.True(t, l.allow("user:2"))

	now = now.Add(time.Second)
	assert.True(t, l.allow("user:1"))
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.allow("user:1")
	now = now.Add(time.Hour)
	l.allow("user:2")

	assert.Len(t, l.limiters, 1)
	assert.Contains(t, l.limiters, "user:2")
}

func TestRateLimiterMiddleware(t *testing.T) {
	l := NewRateLimiter(0.001, 1)
	r := newRouter(AuthMiddleware(testSecret), l.Middleware())
	token := signed(t, 4)

	assert.Equal(t, http.StatusOK, doRequest(r, token).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, token).Code)
	assert.Equal(t, http.StatusOK, doRequest(r, signed(t, 5)).Code)
}
