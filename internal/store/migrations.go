package store

import (
	"database/sql"
	"fmt"
	"sort"
)

// Migration represents a schema migration step.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// MigrationStatus reports the current and available migration versions.
type MigrationStatus struct {
	CurrentVersion   int             `json:"current_version"`
	AvailableVersion int             `json:"available_version"`
	Pending          []MigrationInfo `json:"pending"`
}

// MigrationInfo describes a single migration.
type MigrationInfo struct {
	Version     int    `json:"version"`
	Description string `json:"description"`
}

// migrations is the ordered list of all schema migrations.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema: products table and indexes",
		SQL: `
CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  sku TEXT,
  notes TEXT,
  cutsheet_filename TEXT,
  cert_filename TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_products_sku ON products(sku);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);
`,
	},
	{
		Version:     2,
		Description: "add model_number and photo_filename, backfill model_number from sku",
		SQL: `
ALTER TABLE products ADD COLUMN model_number TEXT;
ALTER TABLE products ADD COLUMN photo_filename TEXT;

UPDATE products SET model_number = COALESCE(model_number, sku)
  WHERE (model_number IS NULL OR model_number = '') AND sku IS NOT NULL;

CREATE INDEX IF NOT EXISTS idx_products_model_number ON products(model_number);
`,
	},
}

const migrationsTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  applied_at TEXT NOT NULL
);
`

// ensureMigrationsTable creates the schema_migrations table if it doesn't exist.
func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(migrationsTableSQL)
	return err
}

// currentVersion returns the highest applied migration version, or 0 if none.
func currentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// detectPreMigrationDB checks if the products table exists but no migrations
// have been recorded. This indicates a database created before the migration
// framework was added.
func detectPreMigrationDB(db *sql.DB) (bool, error) {
	var productsExist int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='products'").Scan(&productsExist)
	if err != nil {
		return false, err
	}
	if productsExist == 0 {
		return false, nil
	}

	var migrationsExist int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_migrations'").Scan(&migrationsExist)
	if err != nil {
		return false, err
	}
	if migrationsExist == 0 {
		return true, nil
	}

	// Table exists but may be empty (created but no versions recorded).
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// runMigrations applies all pending migrations in order.
func runMigrations(db *sql.DB) error {
	// Detect pre-migration databases BEFORE creating the migrations table.
	preMigration, err := detectPreMigrationDB(db)
	if err != nil {
		return fmt.Errorf("detect pre-migration db: %w", err)
	}

	if err := ensureMigrationsTable(db); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	if preMigration {
		// Mark migration 1 as applied since the base schema already exists.
		if _, err := db.Exec("INSERT OR IGNORE INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))", 1); err != nil {
			return fmt.Errorf("stamp pre-migration db: %w", err)
		}
	}

	applied, err := currentVersion(db)
	if err != nil {
		return fmt.Errorf("read current version: %w", err)
	}

	ordered := make([]Migration, len(migrations))
	copy(ordered, migrations)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Version < ordered[j].Version })

	for _, migration := range ordered {
		if migration.Version <= applied {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", migration.Version, err)
		}
		if _, err := tx.Exec(migration.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d (%s): %w", migration.Version, migration.Description, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))", migration.Version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", migration.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// Status reports applied and pending migration versions.
func (s *Store) Status() (MigrationStatus, error) {
	if s == nil || s.db == nil {
		return MigrationStatus{}, fmt.Errorf("store is not open")
	}
	return MigrationPlan(s.db)
}

// MigrationPlan reports migration status on a raw connection, without
// applying anything. Usable before the first migration has run.
func MigrationPlan(db *sql.DB) (MigrationStatus, error) {
	var status MigrationStatus

	var tableExists int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_migrations'").Scan(&tableExists); err != nil {
		return status, err
	}

	applied := 0
	if tableExists > 0 {
		var err error
		if applied, err = currentVersion(db); err != nil {
			return status, err
		}
	}
	status.CurrentVersion = applied

	for _, migration := range migrations {
		if migration.Version > status.AvailableVersion {
			status.AvailableVersion = migration.Version
		}
		if migration.Version > applied {
			status.Pending = append(status.Pending, MigrationInfo{
				Version:     migration.Version,
				Description: migration.Description,
			})
		}
	}
	sort.Slice(status.Pending, func(i, j int) bool { return status.Pending[i].Version < status.Pending[j].Version })

	return status, nil
}
