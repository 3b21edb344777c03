package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/holadocker/usuarios/internal/model"
	"github.com/holadocker/usuarios/internal/repository"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// UsersTableDDL is the usuarios schema used by tests. The real table is
// owned by the database; the service never creates it.
const UsersTableDDL = `CREATE TABLE usuarios (id INTEGER, nombre TEXT)`

// NewUsersDB creates a SQLite database file holding a usuarios table with
// the given (id, nombre) rows and returns its path.
func NewUsersDB(t testing.TB, rows ...model.Row) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "usuarios.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(UsersTableDDL); err != nil {
		t.Fatalf("create usuarios: %v", err)
	}

	for _, row := range rows {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(row)), ",")
		if _, err := db.Exec(fmt.Sprintf("INSERT INTO usuarios VALUES (%s)", placeholders), row...); err != nil {
			t.Fatalf("insert usuario %v: %v", row, err)
		}
	}

	return path
}

// NewEmptyDB creates a SQLite database file without any tables.
func NewEmptyDB(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "empty.db")
}

// FakeConnector is an in-memory repository.Connector that counts the
// connections it hands out.
type FakeConnector struct {
	Rows     model.Rows
	OpenErr  error
	QueryErr error

	opened  atomic.Int64
	closed  atomic.Int64
	queries atomic.Int64

	mu   sync.Mutex
	last []string
}

// Open returns a new fake connection or OpenErr.
func (f *FakeConnector) Open(ctx context.Context) (repository.Conn, error) {
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	f.opened.Add(1)
	return &fakeConn{parent: f}, nil
}

// Opened returns how many connections were opened.
func (f *FakeConnector) Opened() int64 { return f.opened.Load() }

// Closed returns how many connections were closed.
func (f *FakeConnector) Closed() int64 { return f.closed.Load() }

// Queries returns how many statements were executed.
func (f *FakeConnector) Queries() int64 { return f.queries.Load() }

// Statements returns the executed statements in order.
func (f *FakeConnector) Statements() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.last...)
}

type fakeConn struct {
	parent *FakeConnector
	closed atomic.Bool
}

func (c *fakeConn) QueryRows(ctx context.Context, query string) (model.Rows, error) {
	c.parent.queries.Add(1)
	c.parent.mu.Lock()
	c.parent.last = append(c.parent.last, query)
	c.parent.mu.Unlock()

	if c.parent.QueryErr != nil {
		return nil, c.parent.QueryErr
	}
	return c.parent.Rows, nil
}

func (c *fakeConn) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		c.parent.closed.Add(1)
	}
	return nil
}
