package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	HTTPRequests         uint64
	RateLimited          uint64
	DBConnectionsOpened  uint64
	DBConnectionsClosed  uint64
	DBConnectionFailures uint64
	DBQueryFailures      uint64
	QueryDurationCount   uint64
	QueryDurationTotalNs int64
}

// OpenConnections returns connections opened but not yet closed.
func (s Snapshot) OpenConnections() int64 {
	return int64(s.DBConnectionsOpened) - int64(s.DBConnectionsClosed)
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	httpRequests         uint64
	rateLimited          uint64
	dbConnectionsOpened  uint64
	dbConnectionsClosed  uint64
	dbConnectionFailures uint64
	dbQueryFailures      uint64
	queryDurationCount   uint64
	queryDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		HTTPRequests:         atomic.LoadUint64(&m.httpRequests),
		RateLimited:          atomic.LoadUint64(&m.rateLimited),
		DBConnectionsOpened:  atomic.LoadUint64(&m.dbConnectionsOpened),
		DBConnectionsClosed:  atomic.LoadUint64(&m.dbConnectionsClosed),
		DBConnectionFailures: atomic.LoadUint64(&m.dbConnectionFailures),
		DBQueryFailures:      atomic.LoadUint64(&m.dbQueryFailures),
		QueryDurationCount:   atomic.LoadUint64(&m.queryDurationCount),
		QueryDurationTotalNs: atomic.LoadInt64(&m.queryDurationTotalNs),
	}
}

// ObserveHTTPRequest increments the request counter.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	atomic.AddUint64(&m.httpRequests, 1)
}

// IncRateLimited increments the rate limited counter.
func (m *InMemoryRecorder) IncRateLimited() {
	atomic.AddUint64(&m.rateLimited, 1)
}

// IncDBConnectionOpened increments the opened connections counter.
func (m *InMemoryRecorder) IncDBConnectionOpened() {
	atomic.AddUint64(&m.dbConnectionsOpened, 1)
}

// IncDBConnectionClosed increments the closed connections counter.
func (m *InMemoryRecorder) IncDBConnectionClosed() {
	atomic.AddUint64(&m.dbConnectionsClosed, 1)
}

// IncDBFailure increments the failure counter for kind.
func (m *InMemoryRecorder) IncDBFailure(kind string) {
	switch kind {
	case FailureConnection:
		atomic.AddUint64(&m.dbConnectionFailures, 1)
	case FailureQuery:
		atomic.AddUint64(&m.dbQueryFailures, 1)
	}
}

// ObserveQueryDuration records query duration.
func (m *InMemoryRecorder) ObserveQueryDuration(duration time.Duration) {
	atomic.AddUint64(&m.queryDurationCount, 1)
	atomic.AddInt64(&m.queryDurationTotalNs, duration.Nanoseconds())
}
