package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aromakopi/pos-backend/internal/config"
	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/utils"
)

// TestJWTSecret signs every token issued in tests.
const TestJWTSecret = "test-secret-key-for-testing-only"

// TokenFor issues a valid token for user, signed with TestJWTSecret.
func TokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(user, TestJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

// ExpiredTokenFor issues a token that expired a minute ago.
func ExpiredTokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := utils.GenerateTokenAt(user, TestJWTSecret, time.Hour, time.Now().Add(-61*time.Minute))
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

// TokenCookie wraps a token in the cookie the auth middleware reads.
func TokenCookie(token string) *http.Cookie {
	return &http.Cookie{Name: "token", Value: token}
}

// FindCookie returns the named cookie from a response, or nil.
func FindCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// TestConfig returns a development config suitable for routing tests.
func TestConfig() *config.Config {
	return &config.Config{
		ServerPort:           ":0",
		Environment:          "test",
		JWTSecret:            TestJWTSecret,
		JWTExpiry:            time.Hour,
		RateLimitMaxRequests: 1000,
		RateLimitWindow:      time.Minute,
		RateLimitBlockTime:   time.Minute,
		CORSAllowedOrigins:   []string{"http://localhost:5173"},
		LoginURL:             "http://localhost:5173/auth/login",
		StoragePublicBaseURL: "/uploads",
		UploadMaxBytes:       5 << 20,
	}
}

// DecodeBody unmarshals a JSON response envelope.
func DecodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Response is not JSON: %v (%s)", err, w.Body.String())
	}
	return body
}

// JSONRequest builds a request with a JSON body; a nil body sends none.
func JSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}
