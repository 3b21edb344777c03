package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/holadocker/usuarios/internal/model"
)

// PgxConnector opens native pgx connections to PostgreSQL.
type PgxConnector struct {
	dsn            string
	connectTimeout time.Duration
}

// NewPgxConnector creates a connector for a postgres:// URL or keyword DSN.
func NewPgxConnector(dsn string, connectTimeout time.Duration) *PgxConnector {
	return &PgxConnector{dsn: dsn, connectTimeout: connectTimeout}
}

// Open dials a single *pgx.Conn.
func (c *PgxConnector) Open(ctx context.Context) (Conn, error) {
	cfg, err := pgx.ParseConfig(c.dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse database URL: %w", ErrConnectionFailure, err)
	}
	if c.connectTimeout > 0 {
		cfg.ConnectTimeout = c.connectTimeout
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: connect pgx: %w", ErrConnectionFailure, err)
	}

	return &pgxConn{conn: conn}, nil
}

type pgxConn struct {
	conn *pgx.Conn
}

func (c *pgxConn) QueryRows(ctx context.Context, query string) (model.Rows, error) {
	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailure, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	typeNames := make([]string, len(fields))
	for i, f := range fields {
		if t, ok := c.conn.TypeMap().TypeForOID(f.DataTypeOID); ok {
			typeNames[i] = t.Name
		}
	}

	result := make(model.Rows, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("%w: decode row: %w", ErrQueryFailure, err)
		}

		row := make(model.Row, len(values))
		for i, v := range values {
			row[i] = normalizeValue(v, typeNames[i])
		}
		result = append(result, row)
	}

	// pgx reports statement errors such as a missing table here.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailure, err)
	}

	return result, nil
}

func (c *pgxConn) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.conn.Close(ctx)
}
