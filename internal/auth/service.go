package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dataqueryai/dataquery/internal/models"
	"github.com/dataqueryai/dataquery/internal/repo"
	"github.com/dataqueryai/dataquery/internal/session"
)

// AccountStore is the slice of the credential store the service needs.
type AccountStore interface {
	Insert(ctx context.Context, a *models.Account) error
	FindByCredentials(ctx context.Context, username, digest string) (*models.Account, error)
}

type Service struct {
	accounts AccountStore
	now      func() time.Time
}

func NewService(accounts AccountStore) *Service {
	return &Service{accounts: accounts, now: time.Now}
}

// Register creates a new account. It does not log the user in; the caller
// prompts for a separate login.
func (s *Service) Register(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return ErrInvalidInput
	}

	acc := &models.Account{
		Username:       username,
		PasswordDigest: Digest(password),
		Email:          email,
		CreatedAt:      s.now().UTC(),
	}

	err := s.accounts.Insert(ctx, acc)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrDuplicate):
		return ErrUsernameTaken
	default:
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
}

// Authenticate verifies the credentials and returns a logged-in session.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (session.Session, error) {
	if username == "" || password == "" {
		return session.Session{}, ErrInvalidInput
	}

	acc, err := s.accounts.FindByCredentials(ctx, username, Digest(password))
	switch {
	case err == nil:
		return session.LoggedIn(acc.Username), nil
	case errors.Is(err, repo.ErrNotFound):
		return session.Session{}, ErrInvalidCredentials
	default:
		return session.Session{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}
}
