package clickhouse

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a ClickHouse container and returns a connection.
// Returns a cleanup function that must be called when done.
func setupTestDB(t *testing.T) (*Conn, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.1-alpine",
		ExposedPorts: []string{"9000/tcp", "8123/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Application: Ready for connections").
				WithStartupTimeout(60 * time.Second),
			wait.ForListeningPort("9000/tcp"),
		),
		Env: map[string]string{
			"CLICKHOUSE_DB":       "test",
			"CLICKHOUSE_USER":     "default",
			"CLICKHOUSE_PASSWORD": "",
		},
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	dsn := fmt.Sprintf("clickhouse://%s:%s/test", host, port.Port())

	conn, err := NewConn(ctx, dsn)
	require.NoError(t, err)

	runTestMigrations(t, conn)

	cleanup := func() {
		conn.Close()
		_ = container.Terminate(ctx)
	}

	return conn, cleanup
}

// runTestMigrations applies the price_history migration. The migration files
// are read from disk because the migrations package imports this one.
func runTestMigrations(t *testing.T, conn *Conn) {
	t.Helper()
	ctx := context.Background()

	migrations := []string{
		"001_create_price_history.sql",
	}

	basePath := findSQLDir()

	for _, m := range migrations {
		path := basePath + "/" + m
		content, err := os.ReadFile(path)
		if err != nil {
			t.Logf("Could not read migration %s: %v, using inline migrations", m, err)
			runInlineMigrations(t, conn)
			return
		}

		err = conn.Exec(ctx, string(content))
		require.NoError(t, err, "failed to apply migration %s", m)
	}
}

// findSQLDir attempts to locate the clickhouse migrations directory.
func findSQLDir() string {
	paths := []string{
		"../migrations/clickhouse",
		"../../storage/migrations/clickhouse",
		"internal/storage/migrations/clickhouse",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return "../migrations/clickhouse"
}

// runInlineMigrations applies the schema directly without reading files.
func runInlineMigrations(t *testing.T, conn *Conn) {
	t.Helper()
	ctx := context.Background()

	err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS price_history (
			id               String,
			product_id       String,
			timestamp        DateTime64(3, 'UTC'),
			original_price   Float64,
			dynamic_price    Float64,
			demand_score     Int32,
			inventory        Int32,
			competitor_price Float64,
			strategy_used    String
		) ENGINE = MergeTree()
		ORDER BY (product_id, timestamp, id)
	`)
	require.NoError(t, err)
}
