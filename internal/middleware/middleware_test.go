package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixphool/healthtwin/internal/domain"
)

func testRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_RejectsWithDomainCode(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	router := testRouter(limiter.Middleware())

	require.Equal(t, http.StatusOK, get(router, "/ok").Code)

	rec := get(router, "/ok")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.ErrCodeRateLimit, body["code"])
}

func TestRecovery_ReturnsInternalErrorJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gin.DefaultErrorWriter = io.Discard

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := gin.New()
	router.Use(RequestID())
	router.Use(Recovery(logger))
	router.GET("/boom", func(c *gin.Context) {
		panic("unreachable measurement bundle")
	})

	rec := get(router, "/boom")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.ErrCodeInternal, body["code"])
	assert.Equal(t, "internal server error", body["error"])
	assert.NotEmpty(t, body["request_id"])
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	router := testRouter(SecurityHeaders(), RequestID())

	rec := get(router, "/ok")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
