package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/holadocker/usuarios/internal/config"
	"github.com/holadocker/usuarios/internal/metrics"
	"github.com/holadocker/usuarios/internal/repository"
	"github.com/holadocker/usuarios/internal/testutil"
)

// These tests expect a usuarios table to exist in the target database.

func TestListUsers_MySQL_Integration(t *testing.T) {
	dsn := testutil.RequireEnv(t, "TEST_MYSQL_DSN")
	runIntegration(t, config.DatabaseConfig{Driver: config.DriverMySQL, URL: dsn, ConnectTimeout: 5 * time.Second})
}

func TestListUsers_Pgx_Integration(t *testing.T) {
	url := testutil.RequireEnv(t, "TEST_POSTGRES_URL")
	runIntegration(t, config.DatabaseConfig{Driver: config.DriverPgx, URL: url, ConnectTimeout: 5 * time.Second})
}

func TestListUsers_LibPQ_Integration(t *testing.T) {
	url := testutil.RequireEnv(t, "TEST_POSTGRES_URL")
	runIntegration(t, config.DatabaseConfig{Driver: config.DriverPostgres, URL: url, ConnectTimeout: 5 * time.Second})
}

func runIntegration(t *testing.T, cfg config.DatabaseConfig) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	recorder := metrics.NewInMemory()
	connector, err := repository.NewConnector(cfg, recorder, discardLogger())
	require.NoError(t, err)

	repo := repository.New(connector)
	require.NoError(t, repo.Ping(ctx))

	rows, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.NotNil(t, rows)

	snap := recorder.Snapshot()
	require.Equal(t, uint64(2), snap.DBConnectionsOpened)
	require.Equal(t, int64(0), snap.OpenConnections())
}
