package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holadocker/usuarios/internal/config"
	"github.com/holadocker/usuarios/internal/metrics"
	"github.com/holadocker/usuarios/internal/model"
	"github.com/holadocker/usuarios/internal/repository"
	"github.com/holadocker/usuarios/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSQLiteRepo(t *testing.T, path string) (*repository.Repository, *metrics.InMemoryRecorder) {
	t.Helper()

	recorder := metrics.NewInMemory()
	connector, err := repository.NewConnector(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Name:   path,
	}, recorder, discardLogger())
	require.NoError(t, err)

	return repository.New(connector), recorder
}

func TestListUsers_ReturnsAllRows(t *testing.T) {
	t.Parallel()

	path := testutil.NewUsersDB(t, model.Row{1, "a"}, model.Row{2, "b"})
	repo, recorder := newSQLiteRepo(t, path)

	rows, err := repo.ListUsers(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, model.Rows{{int64(1), "a"}, {int64(2), "b"}}, rows)

	snap := recorder.Snapshot()
	assert.Equal(t, uint64(1), snap.DBConnectionsOpened)
	assert.Equal(t, uint64(1), snap.DBConnectionsClosed)
}

func TestListUsers_EmptyTable(t *testing.T) {
	t.Parallel()

	repo, _ := newSQLiteRepo(t, testutil.NewUsersDB(t))

	rows, err := repo.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)

	body, err := json.Marshal(rows)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
}

func TestListUsers_NullColumn(t *testing.T) {
	t.Parallel()

	repo, _ := newSQLiteRepo(t, testutil.NewUsersDB(t, model.Row{7, nil}))

	rows, err := repo.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.Row{int64(7), nil}, rows[0])
}

func TestListUsers_MissingTableIsQueryFailure(t *testing.T) {
	t.Parallel()

	repo, recorder := newSQLiteRepo(t, testutil.NewEmptyDB(t))

	_, err := repo.ListUsers(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrQueryFailure)
	assert.NotErrorIs(t, err, repository.ErrConnectionFailure)

	snap := recorder.Snapshot()
	assert.Equal(t, uint64(1), snap.DBQueryFailures)
	assert.Equal(t, int64(0), snap.OpenConnections(), "connection must be released on the error path")
}

func TestListUsers_UnreachableIsConnectionFailure(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "dir", "usuarios.db")
	repo, recorder := newSQLiteRepo(t, path)

	_, err := repo.ListUsers(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrConnectionFailure)

	snap := recorder.Snapshot()
	assert.Equal(t, uint64(1), snap.DBConnectionFailures)
	assert.Equal(t, uint64(0), snap.DBConnectionsOpened)
}

func TestListUsers_OneConnectionPerCall(t *testing.T) {
	t.Parallel()

	fake := &testutil.FakeConnector{Rows: model.Rows{{int64(1), "a"}}}
	repo := repository.New(fake)

	for i := 0; i < 3; i++ {
		_, err := repo.ListUsers(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, int64(3), fake.Opened())
	assert.Equal(t, int64(3), fake.Closed())
	assert.Equal(t, int64(3), fake.Queries())
	assert.Equal(t, []string{
		"SELECT * FROM usuarios;",
		"SELECT * FROM usuarios;",
		"SELECT * FROM usuarios;",
	}, fake.Statements())
}

func TestListUsers_ClosesOnQueryError(t *testing.T) {
	t.Parallel()

	fake := &testutil.FakeConnector{QueryErr: errors.New("boom")}
	repo := repository.New(fake)

	_, err := repo.ListUsers(context.Background())
	require.Error(t, err)
	assert.Equal(t, int64(1), fake.Opened())
	assert.Equal(t, int64(1), fake.Queries())
	assert.Equal(t, int64(1), fake.Closed())
}

func TestPing(t *testing.T) {
	t.Parallel()

	fake := &testutil.FakeConnector{}
	require.NoError(t, repository.New(fake).Ping(context.Background()))
	assert.Equal(t, int64(1), fake.Opened())
	assert.Equal(t, int64(1), fake.Closed())

	failing := &testutil.FakeConnector{OpenErr: repository.ErrConnectionFailure}
	assert.ErrorIs(t, repository.New(failing).Ping(context.Background()), repository.ErrConnectionFailure)
}

func TestNewConnector_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := repository.NewConnector(config.DatabaseConfig{Driver: "oracle"}, nil, nil)
	assert.Error(t, err)
}
