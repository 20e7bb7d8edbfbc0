package migration

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationsSorted(t *testing.T) {
	fsys := fstest.MapFS{
		"002_second.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"001_first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"README.md":      {Data: []byte("ignored")},
	}

	migrations, err := NewRunner(openTestDB(t), fsys).Migrations()
	if err != nil {
		t.Fatalf("Migrations() failed: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("Migrations() returned %d entries, want 2", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "first" {
		t.Errorf("first migration = %+v", migrations[0])
	}
	if migrations[1].Version != 2 || migrations[1].Name != "second" {
		t.Errorf("second migration = %+v", migrations[1])
	}
}

func TestMigrationsInvalidNames(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"missing separator", fstest.MapFS{"001.sql": {Data: []byte("")}}},
		{"non-numeric version", fstest.MapFS{"abc_init.sql": {Data: []byte("")}}},
		{"zero version", fstest.MapFS{"000_init.sql": {Data: []byte("")}}},
		{"duplicate version", fstest.MapFS{
			"001_a.sql": {Data: []byte("")},
			"01_b.sql":  {Data: []byte("")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRunner(openTestDB(t), tt.fsys).Migrations(); err == nil {
				t.Error("Migrations() should fail")
			}
		})
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_init.sql":  {Data: []byte("CREATE TABLE responses (resource TEXT PRIMARY KEY);")},
		"002_index.sql": {Data: []byte("CREATE INDEX idx_resource ON responses(resource);")},
	}
	runner := NewRunner(db, fsys)

	applied, err := runner.Apply(ctx)
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("Apply() applied %d, want 2", applied)
	}

	version, err := runner.CurrentVersion(ctx)
	if err != nil {
		t.Fatalf("CurrentVersion() failed: %v", err)
	}
	if version != 2 {
		t.Errorf("CurrentVersion() = %d, want 2", version)
	}

	applied, err = runner.Apply(ctx)
	if err != nil {
		t.Fatalf("second Apply() failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("second Apply() applied %d, want 0", applied)
	}

	if err := runner.Validate(ctx); err != nil {
		t.Errorf("Validate() failed: %v", err)
	}
}

func TestApplyFailureKeepsPreviousVersion(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_init.sql":   {Data: []byte("CREATE TABLE responses (resource TEXT PRIMARY KEY);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE oops (")},
	}
	runner := NewRunner(db, fsys)

	applied, err := runner.Apply(ctx)
	if err == nil {
		t.Fatal("Apply() should fail on broken SQL")
	}
	if applied != 1 {
		t.Errorf("Apply() applied %d before failing, want 1", applied)
	}
	if version, _ := runner.CurrentVersion(ctx); version != 1 {
		t.Errorf("CurrentVersion() = %d, want 1", version)
	}
}

func TestValidateNewerDatabase(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	runner := NewRunner(db, fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE responses (resource TEXT PRIMARY KEY);")},
	})

	if _, err := runner.Apply(ctx); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if _, err := db.ExecContext(ctx, "UPDATE schema_version SET version = 9"); err != nil {
		t.Fatalf("Failed to bump version: %v", err)
	}

	if err := runner.Validate(ctx); err == nil {
		t.Error("Validate() should reject a database newer than the binary")
	}
	if _, err := runner.Apply(ctx); err == nil {
		t.Error("Apply() should reject a database newer than the binary")
	}
}
