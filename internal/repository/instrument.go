package repository

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/holadocker/usuarios/internal/metrics"
	"github.com/holadocker/usuarios/internal/model"
)

// Instrument wraps a Connector so every connection is counted, timed and
// tagged with a ULID in logs.
func Instrument(next Connector, recorder metrics.Recorder, logger *slog.Logger) Connector {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &instrumentedConnector{next: next, recorder: recorder, logger: logger}
}

type instrumentedConnector struct {
	next     Connector
	recorder metrics.Recorder
	logger   *slog.Logger
}

func (c *instrumentedConnector) Open(ctx context.Context) (Conn, error) {
	start := time.Now()
	conn, err := c.next.Open(ctx)
	if err != nil {
		c.recorder.IncDBFailure(metrics.FailureConnection)
		return nil, err
	}

	id := ulid.Make().String()
	c.recorder.IncDBConnectionOpened()
	c.logger.DebugContext(ctx, "database connection opened",
		slog.String("conn_id", id),
		slog.Float64("dial_ms", float64(time.Since(start).Microseconds())/1000),
	)

	return &instrumentedConn{
		next:     conn,
		id:       id,
		recorder: c.recorder,
		logger:   c.logger,
	}, nil
}

type instrumentedConn struct {
	next     Conn
	id       string
	recorder metrics.Recorder
	logger   *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

func (c *instrumentedConn) QueryRows(ctx context.Context, query string) (model.Rows, error) {
	start := time.Now()
	rows, err := c.next.QueryRows(ctx, query)
	c.recorder.ObserveQueryDuration(time.Since(start))
	if err != nil {
		c.recorder.IncDBFailure(metrics.FailureQuery)
		return nil, err
	}

	c.logger.DebugContext(ctx, "query executed",
		slog.String("conn_id", c.id),
		slog.Int("rows", len(rows)),
	)
	return rows, nil
}

// Close is idempotent; the connection is counted as closed once.
func (c *instrumentedConn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.next.Close()
		c.recorder.IncDBConnectionClosed()
		if c.closeErr != nil {
			c.logger.Warn("database connection close error",
				slog.String("conn_id", c.id),
				slog.String("error", c.closeErr.Error()),
			)
			return
		}
		c.logger.Debug("database connection closed", slog.String("conn_id", c.id))
	})
	return c.closeErr
}
