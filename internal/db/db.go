package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	username        TEXT PRIMARY KEY,
	password_digest TEXT NOT NULL,
	email           TEXT NOT NULL,
	created_at      TEXT NOT NULL
)`

// Open opens the embedded store at path, creating the parent directory if it
// does not exist. WAL mode lets readers proceed while a write is in flight;
// SQLite serializes the writes themselves.
//
// When the directory cannot be created or the ping fails, the handle is still
// returned alongside the error: the caller keeps serving and queries surface
// backend errors until the store recovers. The handle is nil only if the
// driver itself is missing.
func Open(path string) (*sql.DB, error) {
	var dirErr error
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			dirErr = fmt.Errorf("create data dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if dirErr != nil {
		return database, dirErr
	}
	if err := database.Ping(); err != nil {
		return database, err
	}

	return database, nil
}

// Init ensures the accounts table exists. Idempotent; safe to call on every
// process start.
func Init(ctx context.Context, database *sql.DB) error {
	if _, err := database.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
