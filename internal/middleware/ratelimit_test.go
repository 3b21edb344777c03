package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/holadocker/usuarios/internal/cache"
	"github.com/holadocker/usuarios/internal/metrics"
)

type stubLimiter struct {
	result *cache.RateLimitResult
	err    error
	lastIP string
}

func (s *stubLimiter) CheckIPRateLimit(ctx context.Context, ip string, rps, burst int) (*cache.RateLimitResult, error) {
	s.lastIP = ip
	return s.result, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitIP(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		enabled        bool
		limiter        *stubLimiter
		wantStatus     int
		wantRetryAfter string
		wantLimited    uint64
	}{
		{
			name:       "disabled passes through",
			enabled:    false,
			limiter:    &stubLimiter{result: &cache.RateLimitResult{Allowed: false}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "allowed",
			enabled:    true,
			limiter:    &stubLimiter{result: &cache.RateLimitResult{Allowed: true, Remaining: 3}},
			wantStatus: http.StatusOK,
		},
		{
			name:           "rejected",
			enabled:        true,
			limiter:        &stubLimiter{result: &cache.RateLimitResult{Allowed: false, RetryAfter: 2 * time.Second}},
			wantStatus:     http.StatusTooManyRequests,
			wantRetryAfter: "2",
			wantLimited:    1,
		},
		{
			name:           "rejected with sub-second retry rounds up",
			enabled:        true,
			limiter:        &stubLimiter{result: &cache.RateLimitResult{Allowed: false}},
			wantStatus:     http.StatusTooManyRequests,
			wantRetryAfter: "1",
			wantLimited:    1,
		},
		{
			name:       "limiter error fails open",
			enabled:    true,
			limiter:    &stubLimiter{err: errors.New("redis down")},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recorder := metrics.NewInMemory()
			handler := RateLimitIP(RateLimitConfig{
				Logger:   logger,
				Limiter:  tt.limiter,
				Recorder: recorder,
				Enabled:  tt.enabled,
				RPS:      1,
				Burst:    5,
			})(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/usuarios", nil)
			req.RemoteAddr = "203.0.113.9:4321"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Retry-After"); got != tt.wantRetryAfter {
				t.Errorf("Retry-After = %q, want %q", got, tt.wantRetryAfter)
			}
			if got := recorder.Snapshot().RateLimited; got != tt.wantLimited {
				t.Errorf("rate limited counter = %d, want %d", got, tt.wantLimited)
			}
			if tt.enabled && tt.limiter.lastIP != "203.0.113.9" {
				t.Errorf("limiter saw IP %q, want 203.0.113.9", tt.limiter.lastIP)
			}
		})
	}
}
