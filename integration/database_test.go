//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestStorecastWithMySQL tests the storecast CLI with a MySQL backend.
func TestStorecastWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "storecast",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/storecast?parseTime=true", host, port.Port())
	runBackendScenario(t, "mysql", connStr)
}

// TestStorecastWithPostgres tests the storecast CLI with a PostgreSQL backend.
func TestStorecastWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runBackendScenario(t, "postgresql", connStr)
}

// runBackendScenario drives the cache and history commands against one database backend.
func runBackendScenario(t *testing.T, backend, connStr string) {
	stub := startStubEndpoints(t)
	env := []string{
		"STORECAST_FORECAST_URL=" + stub.forecastURL(),
		"STORECAST_RECOMMEND_URL=" + stub.recommendURL(),
		"STORECAST_CACHE_BACKEND=" + backend,
		"STORECAST_CACHE_DB_CONNECT=" + connStr,
		"STORECAST_HISTORY_BACKEND=" + backend,
		"STORECAST_HISTORY_DB_CONNECT=" + connStr,
	}

	// Start from empty stores
	_, err := runStorecast(t, env, "cache", "clear")
	require.NoError(t, err)
	_, err = runStorecast(t, env, "history", "clear")
	require.NoError(t, err)

	// Submit the same forecast twice
	for range 2 {
		_, err = runStorecast(t, env, "forecast", "-d", "2", "-s", "3", "--output", "csv")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), stub.forecastCalls.Load())

	_, err = runStorecast(t, env, "recommend", "-c", "7")
	require.NoError(t, err)

	_, err = runStorecast(t, env, "cache", "status")
	require.NoError(t, err)

	out, err := runStorecast(t, env, "history", "status", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_submissions": 3`)

	out, err = runStorecast(t, env, "history", "list", "--limit", "2", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "recommendation")

	out, err = runStorecast(t, env, "history", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "No migration needed")
}
