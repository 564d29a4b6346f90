package salesdb

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/salespulse/schema"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// newMigrator builds a migrate instance over db using the embedded scripts for backend.
func newMigrator(db *sql.DB, backend schema.DatabaseBackend) (*migrate.Migrate, error) {
	var driver database.Driver
	var err error
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	migrationFS, err := fs.Sub(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "salespulse", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// Migrate moves the sales schema to targetVersion and reports the resulting status.
//   - If targetVersion < 0, it migrates to the latest version.
//   - If targetVersion == 0, it rolls back all migrations.
//   - If targetVersion > 0, it migrates to the specified version.
//
// The returned bool is false when the database was already at the target.
func Migrate(db *sql.DB, backend schema.DatabaseBackend, targetVersion int) (schema.MigrationStatus, bool, error) {
	status := schema.MigrationStatus{Backend: string(backend)}

	m, err := newMigrator(db, backend)
	if err != nil {
		return status, false, err
	}

	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return status, false, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return status, false, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", current)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	changed := true
	if errors.Is(err, migrate.ErrNoChange) {
		changed, err = false, nil
	}
	if err != nil {
		return status, false, fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
	}

	status, err = Version(db, backend)
	return status, changed, err
}

// Version returns the current schema version of the sales database.
func Version(db *sql.DB, backend schema.DatabaseBackend) (schema.MigrationStatus, error) {
	status := schema.MigrationStatus{Backend: string(backend)}

	m, err := newMigrator(db, backend)
	if err != nil {
		return status, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return status, nil
	}
	if err != nil {
		return status, fmt.Errorf("failed to get current migration version: %w", err)
	}
	status.Version = version
	status.Dirty = dirty
	return status, nil
}
