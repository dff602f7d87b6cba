package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/eshaffer321/saletrack/internal/api/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLogging(t *testing.T) {
	t.Run("logs request and passes through", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		r := gin.New()
		r.Use(middleware.Logging(logger))
		r.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "OK") })

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
		assert.Contains(t, buf.String(), "level=INFO")
		assert.Contains(t, buf.String(), "path=/test")
		assert.Contains(t, buf.String(), "status=200")
	})

	t.Run("captures non-200 status codes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		r := gin.New()
		r.Use(middleware.Logging(logger))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notfound", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "status=404")
	})
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.GET("/api/orders", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("sets headers for allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("rejects unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("answers preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	})
}

func TestCORS_EmptyConfigUsesDefaults(t *testing.T) {
	assert.NotPanics(t, func() { middleware.CORS(middleware.CORSConfig{}) })
}
