package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serveWithHeaders(cfg SecurityConfig, path string) http.Header {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders(cfg))
	r.GET(path, func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w.Header()
}

func TestSecurityHeaders_Development(t *testing.T) {
	h := serveWithHeaders(SecurityConfig{ImageBaseURL: "/uploads"}, "/api/menus")

	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "no-store", h.Get("Cache-Control"))
	assert.Contains(t, h.Get("Content-Security-Policy"), "img-src 'self' data: blob:;")
	assert.Empty(t, h.Get("Strict-Transport-Security"))
}

func TestSecurityHeaders_ProductionWithBucket(t *testing.T) {
	h := serveWithHeaders(SecurityConfig{
		IsProduction: true,
		ImageBaseURL: "https://cdn.aromakopi.id/images",
	}, "/health")

	assert.Contains(t, h.Get("Content-Security-Policy"), "img-src 'self' data: blob: https://cdn.aromakopi.id;")
	assert.Contains(t, h.Get("Strict-Transport-Security"), "max-age=31536000")
	assert.Empty(t, h.Get("Cache-Control"))
}
