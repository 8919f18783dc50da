package migration

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTestMigrations(t *testing.T, migrations map[string]string) string {
	dir := t.TempDir()
	for filename, content := range migrations {
		if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write test migration %s: %v", filename, err)
		}
	}
	return dir
}

func newTestRunner(t *testing.T, db *sql.DB, migrations map[string]string) (*Runner, string) {
	dir := setupTestMigrations(t, migrations)
	return NewRunner(db, os.DirFS(dir), DriverSQLite), dir
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count == 1
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name   string
		driver Driver
		query  string
		want   string
	}{
		{
			name:   "sqlite unchanged",
			driver: DriverSQLite,
			query:  "INSERT INTO awards (id, points) VALUES (?, ?)",
			want:   "INSERT INTO awards (id, points) VALUES (?, ?)",
		},
		{
			name:   "postgres numbered",
			driver: DriverPostgres,
			query:  "INSERT INTO awards (id, points) VALUES (?, ?)",
			want:   "INSERT INTO awards (id, points) VALUES ($1, $2)",
		},
		{
			name:   "quoted question mark kept",
			driver: DriverPostgres,
			query:  "SELECT '?' FROM settings WHERE key = ?",
			want:   "SELECT '?' FROM settings WHERE key = $1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.driver.Rebind(tt.query); got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetCurrentVersion(t *testing.T) {
	db := setupTestDB(t)
	runner, _ := newTestRunner(t, db, map[string]string{
		"001_init.sql": "CREATE TABLE ledger (key TEXT PRIMARY KEY);",
	})

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	version, err = runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	db := setupTestDB(t)
	runner, _ := newTestRunner(t, db, map[string]string{
		"001_init.sql":    "CREATE TABLE ledger (key TEXT);",
		"002_update.sql":  "ALTER TABLE ledger ADD COLUMN data TEXT;",
		"003_another.sql": "CREATE TABLE awards (id TEXT);",
		"README.md":       "not a migration",
	})

	migrations, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}

	wantNames := []string{"init", "update", "another"}
	for i, m := range migrations {
		if m.Version != i+1 || m.Name != wantNames[i] {
			t.Errorf("migration %d: got version %d name %q", i, m.Version, m.Name)
		}
	}
}

func TestApplyMigrationsFromScratch(t *testing.T) {
	db := setupTestDB(t)
	runner, _ := newTestRunner(t, db, map[string]string{
		"001_init.sql":   `CREATE TABLE ledger (key TEXT PRIMARY KEY, data TEXT);`,
		"002_awards.sql": `CREATE TABLE awards (id TEXT PRIMARY KEY, points INTEGER);`,
	})

	var logged []string
	count, err := runner.ApplyMigrations(func(s string) { logged = append(logged, s) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}
	if len(logged) == 0 {
		t.Error("expected progress messages")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	if !tableExists(t, db, "ledger") || !tableExists(t, db, "awards") {
		t.Error("tables were not created")
	}
}

func TestApplyMigrationsIncremental(t *testing.T) {
	db := setupTestDB(t)
	runner, dir := newTestRunner(t, db, map[string]string{
		"001_init.sql": `CREATE TABLE ledger (key TEXT PRIMARY KEY);`,
	})

	count, err := runner.ApplyMigrations(nil)
	if err != nil || count != 1 {
		t.Fatalf("ApplyMigrations (1st) = %d, %v", count, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "002_awards.sql"), []byte(`CREATE TABLE awards (id TEXT);`), 0644); err != nil {
		t.Fatalf("failed to write new migration: %v", err)
	}

	pending, err := runner.Pending()
	if err != nil || len(pending) != 1 || pending[0].Version != 2 {
		t.Fatalf("Pending() = %v, %v", pending, err)
	}

	count, err = runner.ApplyMigrations(nil)
	if err != nil || count != 1 {
		t.Fatalf("ApplyMigrations (2nd) = %d, %v", count, err)
	}

	count, err = runner.ApplyMigrations(nil)
	if err != nil || count != 0 {
		t.Errorf("ApplyMigrations (3rd) = %d, %v; want no-op", count, err)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	runner, _ := newTestRunner(t, db, map[string]string{
		"001_init.sql": `
			CREATE TABLE ledger (key TEXT PRIMARY KEY);
			THIS IS INVALID SQL;
		`,
	})

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with invalid SQL")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 after failed migration, got %d", version)
	}
	if tableExists(t, db, "ledger") {
		t.Error("table should not exist after failed migration")
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner, _ := newTestRunner(t, db, map[string]string{
		"001_init.sql": `CREATE TABLE ledger (key TEXT PRIMARY KEY);`,
	})

	if err := runner.SetVersion(10); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if err := runner.ValidateVersion(); err == nil {
		t.Fatal("ValidateVersion should have failed with newer database version")
	}
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with newer database version")
	}
}

func TestGetLatestVersion(t *testing.T) {
	db := setupTestDB(t)
	runner, _ := newTestRunner(t, db, map[string]string{
		"001_init.sql":   `CREATE TABLE ledger (key TEXT);`,
		"003_awards.sql": `CREATE TABLE awards (id TEXT);`,
		"002_update.sql": `ALTER TABLE ledger ADD COLUMN data TEXT;`,
	})

	latest, err := runner.GetLatestVersion()
	if err != nil {
		t.Fatalf("GetLatestVersion failed: %v", err)
	}
	if latest != 3 {
		t.Errorf("expected latest version 3, got %d", latest)
	}
}

func TestReadMigrationFilesErrors(t *testing.T) {
	tests := []struct {
		name       string
		migrations map[string]string
		wantErr    string
	}{
		{
			name:       "missing underscore",
			migrations: map[string]string{"001init.sql": `CREATE TABLE ledger (key TEXT);`},
			wantErr:    "invalid migration filename format",
		},
		{
			name:       "version zero",
			migrations: map[string]string{"000_init.sql": `CREATE TABLE ledger (key TEXT);`},
			wantErr:    "version must be at least 1",
		},
		{
			name: "duplicate version",
			migrations: map[string]string{
				"001_init.sql":  `CREATE TABLE ledger (key TEXT);`,
				"001_other.sql": `CREATE TABLE awards (id TEXT);`,
			},
			wantErr: "duplicate migration version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, _ := newTestRunner(t, setupTestDB(t), tt.migrations)
			_, err := runner.ReadMigrationFiles()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadMigrationFiles() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
