package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.Use(handlers...)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequestIDReusesValidHeader(t *testing.T) {
	r := newEngine()
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(string(domain.KeyRequestID))) })

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))
	assert.Equal(t, incoming, w.Body.String())
}

func TestRequestIDReplacesMalformedHeader(t *testing.T) {
	r := newEngine()
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	got := w.Header().Get(RequestIDHeader)
	assert.NotEqual(t, "<script>", got)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
}

func TestErrorHandler(t *testing.T) {
	r := newEngine()
	r.GET("/bad", func(c *gin.Context) { c.Error(apperror.BadRequest("Name is required").WithDetails([]string{"Name is required"})) })
	r.GET("/boom", func(c *gin.Context) { c.Error(errors.New("pq: connection refused")) })
	r.GET("/down", func(c *gin.Context) { c.Error(apperror.ServiceUnavailable("Uploads are temporarily unavailable.")) })

	cases := []struct {
		path    string
		code    int
		message string
	}{
		{"/bad", http.StatusBadRequest, "Name is required"},
		{"/boom", http.StatusInternalServerError, "An unexpected error occurred. Please try again later."},
		{"/down", http.StatusServiceUnavailable, "Uploads are temporarily unavailable."},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.code, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.message, body["message"])
			assert.NotEmpty(t, body["request_id"])
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		c.Set(string(domain.KeyUserRole), c.GetHeader("X-Test-Role"))
		c.Next()
	})
	r.GET("/recruiter", RequireRole(domain.RoleRecruiter), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/recruiter", nil)
	req.Header.Set("X-Test-Role", domain.RoleStudent)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/recruiter", nil)
	req.Header.Set("X-Test-Role", domain.RoleRecruiter)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSessionTokenPrefersCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", SessionToken(c))

	c.Request.AddCookie(&http.Cookie{Name: SessionCookie, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", SessionToken(c))
}

func TestRateLimitInMemory(t *testing.T) {
	r := newEngine(RateLimitMiddleware(RateLimitConfig{
		Limit:     2,
		Window:    time.Minute,
		KeyPrefix: "test:" + t.Name() + ":",
	}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "Rate limit exceeded. Please try again later.", decode(t, w)["message"])
}

func TestRateLimitKeysAreIndependent(t *testing.T) {
	r := newEngine(RateLimitMiddleware(RateLimitConfig{
		Limit:     1,
		Window:    time.Minute,
		KeyPrefix: "test:" + t.Name() + ":",
		KeyFunc:   func(c *gin.Context) string { return c.GetHeader("X-Key") },
	}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, key := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Key", key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code, key)
	}
}

func TestMemoryCounterResetsAfterWindow(t *testing.T) {
	m := newMemoryCounter()
	ctx := context.Background()

	w, err := m.Incr(ctx, "k", 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, w.count)
	w, _ = m.Incr(ctx, "k", 20*time.Millisecond)
	assert.Equal(t, 2, w.count)

	time.Sleep(30 * time.Millisecond)
	w, _ = m.Incr(ctx, "k", 20*time.Millisecond)
	assert.Equal(t, 1, w.count)
}

func unreachableRedis(t *testing.T) *goredis.Client {
	t.Helper()
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRateLimitRedisErrorFailsClosed(t *testing.T) {
	r := newEngine(RateLimitMiddleware(LoginRateLimitConfig(unreachableRedis(t), 5, time.Minute)))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRateLimitRedisErrorFallsBackToMemory(t *testing.T) {
	r := newEngine(RateLimitMiddleware(GlobalRateLimitConfig(unreachableRedis(t), 1, time.Minute)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
