// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Failure kinds reported through IncDBFailure.
const (
	FailureConnection = "connection"
	FailureQuery      = "query"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory.
type Recorder interface {
	// HTTP metrics
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
	IncRateLimited()

	// Database metrics
	IncDBConnectionOpened()
	IncDBConnectionClosed()
	IncDBFailure(kind string) // kind: FailureConnection or FailureQuery
	ObserveQueryDuration(duration time.Duration)
}
