package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database", "users.db")

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	if err := database.Ping(); err != nil {
		t.Errorf("ping: %v", err)
	}
}

// TestOpen_DegradedOnBadDir checks that a store that cannot be placed on disk
// still yields a handle, so the server can run degraded instead of dying.
func TestOpen_DegradedOnBadDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	// The parent "directory" is a regular file, so MkdirAll must fail.
	database, err := Open(filepath.Join(blocker, "users.db"))
	if err == nil {
		t.Fatal("Open: want error when the data dir cannot be created")
	}
	if database == nil {
		t.Fatal("Open: handle must still be returned for degraded operation")
	}
	database.Close()
}

func TestInit_Idempotent(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	if err := Init(ctx, database); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if err := Init(ctx, database); err != nil {
		t.Fatalf("second Init: %v", err)
	}

	var n int
	err = database.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='accounts'`).Scan(&n)
	if err != nil || n != 1 {
		t.Errorf("accounts table: n=%d err=%v", n, err)
	}
}
