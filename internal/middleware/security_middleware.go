package middleware

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

type SecurityConfig struct {
	IsProduction bool
	// ImageBaseURL is where uploaded menu and profile images are served
	// from. An absolute URL adds its origin to img-src.
	ImageBaseURL string
}

// SecurityHeaders adds browser hardening headers to every response. API
// responses carry account data and are never cached. HSTS is only sent in
// production.
func SecurityHeaders(cfg SecurityConfig) gin.HandlerFunc {
	imgSrc := "'self' data: blob:"
	if origin := originOf(cfg.ImageBaseURL); origin != "" {
		imgSrc += " " + origin
	}
	csp := strings.Join([]string{
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"img-src " + imgSrc,
		"font-src 'self'",
		"connect-src 'self'",
		"frame-ancestors 'none'",
	}, "; ") + ";"

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", csp)
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")

		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			h.Set("Cache-Control", "no-store")
		}
		if cfg.IsProduction {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		c.Next()
	}
}

func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
