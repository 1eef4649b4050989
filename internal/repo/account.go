package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dataqueryai/dataquery/internal/models"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrDuplicate means an account with the username already exists.
	ErrDuplicate = errors.New("account already exists")
	// ErrNotFound means no account matched. A normal outcome, not a failure.
	ErrNotFound = errors.New("account not found")
)

// ==========================
// AccountRepo
// ==========================
type AccountRepo struct {
	DB *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{DB: db}
}

// ==========================
// Insert Account
// ==========================
// The primary-key constraint is the authoritative duplicate signal: there is
// no pre-check, so two racing inserts for the same username cannot both
// succeed.
func (r *AccountRepo) Insert(ctx context.Context, a *models.Account) error {
	query := `
		INSERT INTO accounts (username, password_digest, email, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.DB.ExecContext(ctx, query,
		a.Username, a.PasswordDigest, a.Email, a.CreatedAt.UTC().Format(time.RFC3339))

	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

// ==========================
// Find By Credentials
// ==========================
func (r *AccountRepo) FindByCredentials(ctx context.Context, username, digest string) (*models.Account, error) {
	query := `
		SELECT username, password_digest, email, created_at
		FROM accounts
		WHERE username = ? AND password_digest = ?
	`

	acc := &models.Account{}
	var created string

	err := r.DB.QueryRowContext(ctx, query, username, digest).
		Scan(&acc.Username, &acc.PasswordDigest, &acc.Email, &created)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}

	if t, perr := time.Parse(time.RFC3339, created); perr == nil {
		acc.CreatedAt = t
	}

	return acc, nil
}

func isConstraintViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT,
		sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
		sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
