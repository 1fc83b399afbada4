package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/drummonds/pdfpresenter/config"
)

func TestBunSQLiteDatabase(t *testing.T) {
	setupTestLogger()

	dbFile := filepath.Join(t.TempDir(), "test_pdfpresenter.sqlite")
	db, err := NewRepository(config.ServerConfig{DatabaseType: "sqlite", DatabaseDbname: dbFile})
	if err != nil {
		t.Fatalf("Failed to set up sqlite database: %v", err)
	}
	defer db.Close()

	t.Log("Bun SQLite database setup successfully")
	exerciseRepository(t, db)
}

func TestBunSQLiteMigrationsAreIdempotent(t *testing.T) {
	setupTestLogger()

	dbFile := filepath.Join(t.TempDir(), "reopen.sqlite")
	cfg := config.ServerConfig{DatabaseType: "sqlite", DatabaseDbname: dbFile}

	db, err := NewRepository(cfg)
	if err != nil {
		t.Fatalf("Failed to set up sqlite database: %v", err)
	}
	if err := db.SetCurrentPDFPath("/decks/kept.pdf"); err != nil {
		t.Fatalf("SetCurrentPDFPath failed: %v", err)
	}
	db.Close()

	reopened, err := NewRepository(cfg)
	if err != nil {
		t.Fatalf("Failed to reopen sqlite database: %v", err)
	}
	defer reopened.Close()

	path, ok, err := reopened.GetCurrentPDFPath()
	if err != nil || !ok || path != "/decks/kept.pdf" {
		t.Errorf("Expected current path to survive a restart, got %q ok=%v err=%v", path, ok, err)
	}

	var applied []BunSchemaMigration
	if err := reopened.db.NewSelect().Model(&applied).Order("version").Scan(context.Background()); err != nil {
		t.Fatalf("Failed to read applied migrations: %v", err)
	}
	if len(applied) != len(sqliteMigrations) {
		t.Fatalf("Expected %d applied migrations, got %d", len(sqliteMigrations), len(applied))
	}
	for i, m := range applied {
		if m.Version != sqliteMigrations[i].version || m.Name != sqliteMigrations[i].name {
			t.Errorf("Unexpected migration record %+v", m)
		}
	}
}

func TestUnknownDatabaseType(t *testing.T) {
	setupTestLogger()

	if _, err := NewRepository(config.ServerConfig{DatabaseType: "mongodb"}); err == nil {
		t.Error("Expected an error for an unknown database type")
	}
}
