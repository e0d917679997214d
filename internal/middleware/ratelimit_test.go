package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		require.True(t, rl.Allow("10.0.0.1"))
	}
	require.False(t, rl.Allow("10.0.0.1"))

	// Limits are tracked per IP
	require.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	require.True(t, rl.Allow("10.0.0.1"))
	require.False(t, rl.Allow("10.0.0.1"))

	time.Sleep(15 * time.Millisecond)
	require.True(t, rl.Allow("10.0.0.1"))
}

func TestRateLimitAuthMiddleware(t *testing.T) {
	limited := RateLimitAuth()(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	r.RemoteAddr = "10.0.0.1:5000"

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		limited(rec, r)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	limited(rec, r)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.JSONEq(t, `{"success":false,"error":"too many requests, try again later"}`, rec.Body.String())
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(r *http.Request)
		expect string
	}{
		{
			name:   "remote addr",
			setup:  func(r *http.Request) { r.RemoteAddr = "10.0.0.1:5000" },
			expect: "10.0.0.1",
		},
		{
			name: "forwarded for takes first hop",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
			},
			expect: "203.0.113.7",
		},
		{
			name:   "real ip",
			setup:  func(r *http.Request) { r.Header.Set("X-Real-IP", "203.0.113.9") },
			expect: "203.0.113.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(r)
			require.Equal(t, tt.expect, getClientIP(r))
		})
	}
}
