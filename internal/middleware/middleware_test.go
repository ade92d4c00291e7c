package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/errors"
	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)

	if err := logger.Initialize(logger.Config{Level: "debug", Environment: "development"}); err != nil {
		panic(err)
	}
}

type stubVerifier struct {
	token string
	key   string
}

func (s stubVerifier) Verify(token string) (*models.AdminSession, error) {
	if token != s.token {
		return nil, errors.ErrUnauthorized
	}
	return &models.AdminSession{Subject: "admin", Role: "admin", Method: "token"}, nil
}

func (s stubVerifier) VerifyKey(key string) (*models.AdminSession, error) {
	if s.key == "" || key != s.key {
		return nil, errors.ErrUnauthorized
	}
	return &models.AdminSession{Subject: "admin", Role: "admin", Method: "key"}, nil
}

func adminRouter() *gin.Engine {
	router := gin.New()
	router.Use(AdminAuthMiddleware(stubVerifier{token: "good-token", key: "good-key"}))
	router.GET("/admin", func(c *gin.Context) {
		session, err := GetAdminSession(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, session.Method)
	})
	return router
}

func TestAdminAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantBody   string
	}{
		{name: "bearer token", headers: map[string]string{"Authorization": "Bearer good-token"}, wantStatus: http.StatusOK, wantBody: "token"},
		{name: "lowercase scheme", headers: map[string]string{"Authorization": "bearer good-token"}, wantStatus: http.StatusOK, wantBody: "token"},
		{name: "admin key", headers: map[string]string{AdminKeyHeader: "good-key"}, wantStatus: http.StatusOK, wantBody: "key"},
		{name: "bad token", headers: map[string]string{"Authorization": "Bearer nope"}, wantStatus: http.StatusUnauthorized},
		{name: "bad key", headers: map[string]string{AdminKeyHeader: "nope"}, wantStatus: http.StatusUnauthorized},
		{name: "basic scheme", headers: map[string]string{"Authorization": "Basic good-token"}, wantStatus: http.StatusUnauthorized},
		{name: "no credentials", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", http.NoBody)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			adminRouter().ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestGetAdminSession_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := GetAdminSession(c)
	assert.ErrorIs(t, err, ErrAdminSessionNotFound)

	c.Set(AdminSessionContextKey, "not a session")
	_, err = GetAdminSession(c)
	assert.ErrorIs(t, err, ErrInvalidAdminSession)
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := NewRateLimiter(ctx, rate.Limit(0.001), 2)
	router := gin.New()
	router.Use(limiter.Middleware())
	router.POST("/leads", func(c *gin.Context) { c.Status(http.StatusCreated) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leads", http.NoBody)
		req.RemoteAddr = "203.0.113.7:5000"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leads", http.NoBody)
	req.RemoteAddr = "198.51.100.1:5000"
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 2, limiter.Visitors())
}

func TestRateLimiter_SweepDropsIdleVisitors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	limiter := NewRateLimiter(ctx, rate.Limit(10), 1)
	limiter.getVisitor("203.0.113.7")
	require.Equal(t, 1, limiter.Visitors())

	limiter.sweep()
	assert.Equal(t, 0, limiter.Visitors())
}

func TestBodySizeLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(BodySizeLimitMiddleware(8))
	router.PUT("/content/:slot", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/content/homepage", strings.NewReader(`{"a":"0123456789"}`))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/content/homepage", strings.NewReader(`{}`))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware(), ObservabilityMiddleware())
	router.GET("/content", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/content", http.NoBody))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, w.Header().Get("Cache-Control"))
}
