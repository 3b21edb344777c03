// Package repository provides database access layer.
//
// The service deliberately holds no connection pool: every operation opens
// one connection through a Connector and closes it before returning.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/holadocker/usuarios/internal/config"
	"github.com/holadocker/usuarios/internal/metrics"
	"github.com/holadocker/usuarios/internal/model"
)

// Error kinds surfaced to the HTTP layer. Driver errors are wrapped, so
// callers should match with errors.Is.
var (
	// ErrConnectionFailure means the database was unreachable or rejected the credentials.
	ErrConnectionFailure = errors.New("database connection failed")
	// ErrQueryFailure means the statement failed, e.g. the table does not exist.
	ErrQueryFailure = errors.New("database query failed")
)

// Connector opens database connections.
type Connector interface {
	Open(ctx context.Context) (Conn, error)
}

// Conn is a single open database connection.
type Conn interface {
	// QueryRows runs query and returns every row with values normalized for JSON.
	QueryRows(ctx context.Context, query string) (model.Rows, error)
	Close() error
}

// NewConnector returns an instrumented Connector for the configured driver.
func NewConnector(cfg config.DatabaseConfig, recorder metrics.Recorder, logger *slog.Logger) (Connector, error) {
	var c Connector

	switch cfg.Driver {
	case config.DriverPgx:
		c = NewPgxConnector(cfg.DSN(), cfg.ConnectTimeout)
	case config.DriverMySQL, config.DriverPostgres, config.DriverSQLite:
		c = NewSQLConnector(cfg.Driver, cfg.DSN(), cfg.ConnectTimeout)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	return Instrument(c, recorder, logger), nil
}

// Repository provides database access methods.
type Repository struct {
	connector Connector
}

// New creates a new Repository on top of connector.
func New(connector Connector) *Repository {
	return &Repository{connector: connector}
}

// Ping checks database connectivity by opening and closing one connection.
func (r *Repository) Ping(ctx context.Context) error {
	conn, err := r.connector.Open(ctx)
	if err != nil {
		return err
	}
	return conn.Close()
}
