package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type routeRecorder struct {
	routes   []string
	statuses []int
}

func (r *routeRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	r.routes = append(r.routes, route)
	r.statuses = append(r.statuses, status)
}
func (r *routeRecorder) IncRateLimited()                             {}
func (r *routeRecorder) IncDBConnectionOpened()                      {}
func (r *routeRecorder) IncDBConnectionClosed()                      {}
func (r *routeRecorder) IncDBFailure(kind string)                    {}
func (r *routeRecorder) ObserveQueryDuration(duration time.Duration) {}

func TestMetrics_RoutePattern(t *testing.T) {
	t.Parallel()

	rec := &routeRecorder{}
	r := chi.NewRouter()
	r.Use(Metrics(rec))
	r.Get("/usuarios", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/usuarios", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/random/path", nil))

	if len(rec.routes) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(rec.routes))
	}
	if rec.routes[0] != "/usuarios" || rec.statuses[0] != http.StatusServiceUnavailable {
		t.Errorf("first observation = %s %d", rec.routes[0], rec.statuses[0])
	}
	if rec.routes[1] != unmatchedRoute || rec.statuses[1] != http.StatusNotFound {
		t.Errorf("second observation = %s %d", rec.routes[1], rec.statuses[1])
	}
}
