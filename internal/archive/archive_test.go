package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/lecteur/internal/store"
	"codeberg.org/snonux/lecteur/internal/testutil"
)

func TestArchiveDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "lecteur.db")

	// Create a real database with one entry
	kv, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := kv.Set("savedWords", `{"version":1,"words":["bonjour"]}`); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("Failed to close store: %v", err)
	}

	archivePath, err := ArchiveDatabase(dbPath)
	if err != nil {
		t.Fatalf("ArchiveDatabase failed: %v", err)
	}

	// Check that the database no longer exists
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Error("Database still exists after archiving")
	}

	if filepath.Dir(archivePath) != filepath.Join(tmpDir, "archive") {
		t.Errorf("Archive placed in %s", filepath.Dir(archivePath))
	}

	name := filepath.Base(archivePath)
	if !strings.HasPrefix(name, "lecteur-") || !strings.HasSuffix(name, ".db") {
		t.Errorf("Unexpected archive name: %s", name)
	}

	// The archived file is still a readable database
	archived, err := store.Open(archivePath)
	if err != nil {
		t.Fatalf("Failed to open archive: %v", err)
	}
	defer archived.Close()

	value, ok, err := archived.Get("savedWords")
	if err != nil || !ok {
		t.Fatalf("Get() = %q, %v, %v", value, ok, err)
	}

	// A fresh database at the old path starts empty
	fresh, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer fresh.Close()
	if _, ok, _ := fresh.Get("savedWords"); ok {
		t.Error("Expected a fresh database to be empty")
	}
}

func TestArchiveDatabase_Sidecars(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "state.db")

	for _, name := range []string{"state.db", "state.db-wal"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}

	archivePath, err := ArchiveDatabase(dbPath)
	if err != nil {
		t.Fatalf("ArchiveDatabase failed: %v", err)
	}

	testutil.AssertFileExists(t, archivePath+"-wal")
	testutil.AssertFileNotExists(t, dbPath+"-wal")
}

func TestArchiveDatabase_NonExistent(t *testing.T) {
	_, err := ArchiveDatabase(filepath.Join(t.TempDir(), "missing.db"))
	if err == nil {
		t.Fatal("Expected error for non-existent database")
	}

	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected 'does not exist' error, got: %v", err)
	}
}

func TestArchiveDatabase_MultipleArchives(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "lecteur.db")

	for i := 0; i < 2; i++ {
		if err := os.WriteFile(dbPath, []byte("db"), 0644); err != nil {
			t.Fatalf("Failed to create database: %v", err)
		}

		// Small delay to ensure different timestamps
		if i == 1 {
			time.Sleep(10 * time.Millisecond)
		}

		if _, err := ArchiveDatabase(dbPath); err != nil {
			t.Fatalf("ArchiveDatabase failed on iteration %d: %v", i, err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(tmpDir, "archive"))
	if err != nil {
		t.Fatalf("Failed to read archive directory: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries in archive directory, got %d", len(entries))
	}

	if entries[0].Name() == entries[1].Name() {
		t.Error("Archive names are not unique")
	}
}
