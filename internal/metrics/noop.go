package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// ObserveHTTPRequest is a no-op.
func (n *NoopRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {}

// IncRateLimited is a no-op.
func (n *NoopRecorder) IncRateLimited() {}

// IncDBConnectionOpened is a no-op.
func (n *NoopRecorder) IncDBConnectionOpened() {}

// IncDBConnectionClosed is a no-op.
func (n *NoopRecorder) IncDBConnectionClosed() {}

// IncDBFailure is a no-op.
func (n *NoopRecorder) IncDBFailure(kind string) {}

// ObserveQueryDuration is a no-op.
func (n *NoopRecorder) ObserveQueryDuration(duration time.Duration) {}
