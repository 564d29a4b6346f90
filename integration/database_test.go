//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/salespulse/internal/salesdb"
	"github.com/huangsam/salespulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startMySQL starts a MySQL container and returns its connection string.
func startMySQL(t *testing.T) string {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "salespulse",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mysqlC.Terminate(ctx) })

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	return fmt.Sprintf("root:secret123@tcp(%s:%s)/salespulse?parseTime=true", host, port.Port())
}

// startPostgres starts a PostgreSQL container and returns its connection string.
func startPostgres(t *testing.T) string {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
}

// exerciseStore migrates, seeds and queries a live database in-process.
func exerciseStore(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	ctx := context.Background()
	store, err := salesdb.Open(backend, connStr)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, _, err := salesdb.Migrate(store.DB(), backend, -1)
	require.NoError(t, err)
	assert.Equal(t, uint(3), status.Version)

	end := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	summary, err := salesdb.Seed(ctx, store.DB(), backend, salesdb.SeedOptions{End: end, Months: 24, OrdersPerMonth: 10, Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Branches)

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	branches, err := store.ListBranches(ctx)
	require.NoError(t, err)
	require.Len(t, branches, 4)
	assert.Equal(t, "CHI01", branches[0].ID)

	obs, err := store.FetchMonthlyTotals(ctx, nil, start, last)
	require.NoError(t, err)
	assert.Len(t, obs, 4*24)

	var monthlyTotal float64
	for _, o := range obs {
		monthlyTotal += o.Amount
	}
	kpis, err := store.FetchKPIs(ctx, nil, start, last)
	require.NoError(t, err)
	assert.InDelta(t, kpis.TotalSales, monthlyTotal, 0.01)
	assert.Equal(t, summary.Orders, kpis.Orders)

	years, err := store.FetchAnnualTotals(ctx, []string{"NYC01"})
	require.NoError(t, err)
	assert.Len(t, years, 2)

	products, err := store.FetchEntityAggregates(ctx, schema.ProductDimension, nil, start, last)
	require.NoError(t, err)
	assert.Len(t, products, 8)

	coverage, err := store.DataRange(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2023, coverage.MinDate.Year())
	assert.Equal(t, time.January, coverage.MinDate.Month())
	assert.Equal(t, summary.Lines, coverage.Rows)
}

// exerciseCLI runs the commands against a live database with the cache in the same server.
func exerciseCLI(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	env := []string{
		"SALESPULSE_SALES_BACKEND=" + string(backend),
		"SALESPULSE_SALES_DB_CONNECT=" + connStr,
		"SALESPULSE_CACHE_BACKEND=" + string(backend),
		"SALESPULSE_CACHE_DB_CONNECT=" + connStr,
	}

	_, err := runCommand(t, env, "cache", "clear")
	require.NoError(t, err)

	out, err := runCommand(t, env, "compare", "-b", "NYC01,SEA01", "--start", "2024-01", "--end", "2024-12", "--output", "json")
	require.NoError(t, err)
	var cmp schema.BranchComparison
	require.NoError(t, json.Unmarshal(out, &cmp))
	assert.Equal(t, 12, cmp.Months)
	require.NotNil(t, cmp.TTest)

	// The second run is served from the cache and must match.
	again, err := runCommand(t, env, "compare", "-b", "NYC01,SEA01", "--start", "2024-01", "--end", "2024-12", "--output", "json")
	require.NoError(t, err)
	var cached schema.BranchComparison
	require.NoError(t, json.Unmarshal(again, &cached))
	assert.Equal(t, cmp.Means, cached.Means)

	out, err = runCommand(t, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Connected: true")

	_, err = runCommand(t, env, "report", "--start", "2023-01", "--end", "2024-12")
	require.NoError(t, err)

	out, err = runCommand(t, env, "db", "status")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Schema Version: 3")
}

// TestSalesPulseWithMySQL tests the store and the CLI with a MySQL backend.
func TestSalesPulseWithMySQL(t *testing.T) {
	connStr := startMySQL(t)
	exerciseStore(t, schema.MySQLBackend, connStr)
	exerciseCLI(t, schema.MySQLBackend, connStr)
}

// TestSalesPulseWithPostgres tests the store and the CLI with a PostgreSQL backend.
func TestSalesPulseWithPostgres(t *testing.T) {
	connStr := startPostgres(t)
	exerciseStore(t, schema.PostgreSQLBackend, connStr)
	exerciseCLI(t, schema.PostgreSQLBackend, connStr)
}
