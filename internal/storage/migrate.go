package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SchemaVersion is the newest migration shipped in migrations/.
const SchemaVersion uint = 2

// RunMigrations brings the schema at dbPath up to SchemaVersion and reports
// whether the ledger tables were created by this call.
//
// Upgrades are destructive: a database on an older version is migrated all
// the way down, which drops every ledger table, and then back up. No data is
// carried across.
func RunMigrations(dbPath string) (created bool, err error) {
	// Create a separate connection for migrations to avoid interfering with the main connection
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return false, fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	m, err := newMigrator(migrateDB)
	if err != nil {
		return false, err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		created = true
	case err != nil:
		return false, fmt.Errorf("read schema version: %w", err)
	case dirty:
		return false, fmt.Errorf("schema version %d is dirty, fix the database manually", version)
	case version > SchemaVersion:
		return false, fmt.Errorf("schema version %d is newer than supported version %d", version, SchemaVersion)
	case version < SchemaVersion:
		slog.Warn("Schema upgrade drops all ledger tables",
			"from_version", version,
			"to_version", SchemaVersion)
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return false, fmt.Errorf("drop old schema: %w", err)
		}
		created = true
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return false, fmt.Errorf("run migrations: %w", err)
	}

	return created, nil
}

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("create sqlite driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}
