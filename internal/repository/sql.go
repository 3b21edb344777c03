package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/holadocker/usuarios/internal/model"
)

// SQLConnector opens connections through database/sql.
// Registered drivers: mysql, postgres (lib/pq) and sqlite3.
type SQLConnector struct {
	driver         string
	dsn            string
	connectTimeout time.Duration
}

// NewSQLConnector creates a connector for a database/sql driver name.
func NewSQLConnector(driver, dsn string, connectTimeout time.Duration) *SQLConnector {
	return &SQLConnector{
		driver:         driver,
		dsn:            dsn,
		connectTimeout: connectTimeout,
	}
}

// Open dials exactly one connection. The sql.DB handle is capped at one
// connection and lives only as long as the returned Conn.
func (c *SQLConnector) Open(ctx context.Context) (Conn, error) {
	db, err := sql.Open(c.driver, c.dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrConnectionFailure, c.driver, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	dialCtx, cancel := withTimeout(ctx, c.connectTimeout)
	defer cancel()

	conn, err := db.Conn(dialCtx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: connect %s: %w", ErrConnectionFailure, c.driver, err)
	}

	if err := conn.PingContext(dialCtx); err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrConnectionFailure, c.driver, err)
	}

	return &sqlConn{db: db, conn: conn}, nil
}

type sqlConn struct {
	db   *sql.DB
	conn *sql.Conn
}

func (c *sqlConn) QueryRows(ctx context.Context, query string) (model.Rows, error) {
	rows, err := c.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailure, err)
	}
	defer rows.Close()

	columns, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("%w: column types: %w", ErrQueryFailure, err)
	}

	result := make(model.Rows, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scan: %w", ErrQueryFailure, err)
		}

		row := make(model.Row, len(values))
		for i, v := range values {
			row[i] = normalizeValue(v, columns[i].DatabaseTypeName())
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailure, err)
	}

	return result, nil
}

// Close releases the connection and then the handle that owns it.
func (c *sqlConn) Close() error {
	return errors.Join(c.conn.Close(), c.db.Close())
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
