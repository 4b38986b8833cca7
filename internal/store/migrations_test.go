package store

import (
	"context"
	"database/sql"
	"net/url"
	"path/filepath"
	"testing"
)

func openRaw(t *testing.T, path string) *sql.DB {
	t.Helper()
	u := url.URL{Scheme: "file", Path: path}
	db, err := sql.Open("sqlite", u.String())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	return db
}

func TestMigrationsFreshDatabase(t *testing.T) {
	st := newTestStore(t)

	status, err := st.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.CurrentVersion != status.AvailableVersion {
		t.Fatalf("CurrentVersion = %d, AvailableVersion = %d; want equal", status.CurrentVersion, status.AvailableVersion)
	}
	if len(status.Pending) != 0 {
		t.Fatalf("Pending = %v, want none", status.Pending)
	}
}

func TestMigrationsStampPreMigrationDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	// A database from before the migration framework: base schema present,
	// sku populated, no schema_migrations table.
	raw := openRaw(t, path)
	_, err := raw.Exec(`
		CREATE TABLE products (
		  id INTEGER PRIMARY KEY AUTOINCREMENT,
		  name TEXT NOT NULL,
		  sku TEXT,
		  notes TEXT,
		  cutsheet_filename TEXT,
		  cert_filename TEXT,
		  created_at TEXT NOT NULL,
		  updated_at TEXT NOT NULL
		);
		INSERT INTO products (name, sku, created_at, updated_at)
		  VALUES ('Legacy Light', 'LL-9', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z');
	`)
	if err != nil {
		t.Fatalf("seed legacy db: %v", err)
	}
	if err := raw.Close(); err != nil {
		t.Fatalf("close raw db: %v", err)
	}

	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open legacy db: %v", err)
	}
	defer st.Close()

	status, err := st.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(status.Pending) != 0 {
		t.Fatalf("Pending = %v, want none after open", status.Pending)
	}

	// Migration 2 backfills model_number from the legacy sku column.
	products, err := st.ListProducts(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("got %d products, want 1", len(products))
	}
	if products[0].ModelNumber != "LL-9" {
		t.Fatalf("ModelNumber = %q, want backfilled sku", products[0].ModelNumber)
	}
}

func TestMigrationPlanBeforeFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.db")
	raw := openRaw(t, path)
	defer raw.Close()

	plan, err := MigrationPlan(raw)
	if err != nil {
		t.Fatalf("MigrationPlan: %v", err)
	}
	if plan.CurrentVersion != 0 {
		t.Fatalf("CurrentVersion = %d, want 0", plan.CurrentVersion)
	}
	if len(plan.Pending) != plan.AvailableVersion {
		t.Fatalf("Pending = %v, want all %d migrations", plan.Pending, plan.AvailableVersion)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.db")

	st, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer st.Close()

	status, err := st.Status()
	if err != nil || len(status.Pending) != 0 {
		t.Fatalf("Status = %+v, %v", status, err)
	}
}
