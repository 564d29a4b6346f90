// Package dbconn opens database handles and hides per-backend SQL dialect differences.
package dbconn

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/salespulse/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// DriverName returns the database/sql driver registered for a backend.
func DriverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported database backend: %s. Must be sqlite, mysql, or postgresql", backend)
	}
}

// Open connects to backend and verifies the connection. For SQLite an empty
// connStr falls back to sqlitePath and the pool is limited to one connection.
func Open(backend schema.DatabaseBackend, connStr, sqlitePath string) (*sql.DB, error) {
	driverName, err := DriverName(backend)
	if err != nil {
		return nil, err
	}

	dsn := connStr
	if backend == schema.SQLiteBackend && dsn == "" {
		dsn = sqlitePath
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// ValidateIdentifier ensures name is a safe SQL identifier.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern ^[a-zA-Z_][a-zA-Z0-9_]*$)", name)
	}
	return nil
}

// QuoteIdentifier quotes a table or column name for the backend.
func QuoteIdentifier(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// Placeholder returns the n-th (1-based) bind parameter marker.
func Placeholder(backend schema.DatabaseBackend, n int) string {
	if backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Placeholders returns count markers starting at position from, joined by ", ".
func Placeholders(backend schema.DatabaseBackend, from, count int) string {
	parts := make([]string, count)
	for i := range count {
		parts[i] = Placeholder(backend, from+i)
	}
	return strings.Join(parts, ", ")
}

// YearExpr extracts the calendar year of a date column as an integer.
func YearExpr(backend schema.DatabaseBackend, col string) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("YEAR(%s)", col)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf("CAST(EXTRACT(YEAR FROM %s) AS INTEGER)", col)
	default:
		return fmt.Sprintf("CAST(strftime('%%Y', %s) AS INTEGER)", col)
	}
}

// MonthExpr extracts the calendar month (1-12) of a date column as an integer.
func MonthExpr(backend schema.DatabaseBackend, col string) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("MONTH(%s)", col)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf("CAST(EXTRACT(MONTH FROM %s) AS INTEGER)", col)
	default:
		return fmt.Sprintf("CAST(strftime('%%m', %s) AS INTEGER)", col)
	}
}

// DateParam wraps a bind parameter so it compares as a date.
func DateParam(backend schema.DatabaseBackend, n int) string {
	if backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d::date", n)
	}
	return "?"
}
