package middleware

import (
	"net/http"
	"time"

	"github.com/holadocker/usuarios/internal/metrics"
)

// unmatchedRoute labels requests that matched no route, keeping the
// label set bounded.
const unmatchedRoute = "unmatched"

// Metrics records one observation per request, labelled by the chi route
// pattern rather than the raw path.
func Metrics(recorder metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := wrapResponseWriter(w)

			next.ServeHTTP(rec, r)

			recorder.ObserveHTTPRequest(r.Method, routePattern(r), rec.status, time.Since(start))
		})
	}
}
