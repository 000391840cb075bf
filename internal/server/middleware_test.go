package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware_Headers(t *testing.T) {
	s := &Server{corsOrigin: "https://app.example.com"}
	handler := s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	s := &Server{corsOrigin: "*"}
	called := false
	handler := s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called, "preflight must not reach the handler")
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	s := &Server{}
	called := false
	handler := s.rateLimitMiddleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.True(t, called)
}

func TestRateLimitMiddleware_Enforced(t *testing.T) {
	s := &Server{rateLimiter: NewRateLimiter(1, 0, 0, 0)}
	handler := s.rateLimitMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "minute", rec.Header().Get("X-RateLimit-Type"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:5555"
	assert.Equal(t, "192.168.1.10", getClientIP(req))

	req.Header.Set("X-Real-IP", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.2")
	assert.Equal(t, "198.51.100.1", getClientIP(req))
}
