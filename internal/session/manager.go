package session

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers expired, malformed, tampered, and revoked tokens.
var ErrInvalidToken = errors.New("invalid or expired session token")

// Manager issues and verifies session tokens (HS256 JWTs). Logout works by
// adding the token to an in-memory revocation set, so a revoked token fails
// verification before its natural expiry. The set only needs to hold a token
// until that expiry; PruneRevoked drops older entries.
type Manager struct {
	secret []byte
	ttl    time.Duration

	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewManager(secret []byte, ttl time.Duration) *Manager {
	return &Manager{
		secret:  secret,
		ttl:     ttl,
		revoked: make(map[string]time.Time),
	}
}

// Issue signs a token representing a logged-in session for username.
func (m *Manager) Issue(username string) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"exp":      time.Now().Add(m.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses tokenStr and returns the session it represents.
func (m *Manager) Verify(tokenStr string) (Session, error) {
	m.mu.RLock()
	_, revoked := m.revoked[tokenStr]
	m.mu.RUnlock()
	if revoked {
		return Session{}, ErrInvalidToken
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrInvalidToken
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return Session{}, ErrInvalidToken
	}

	return LoggedIn(username), nil
}

// Revoke transitions the session behind tokenStr to logged out. The entry is
// kept for one full ttl, an upper bound on the token's remaining lifetime.
func (m *Manager) Revoke(tokenStr string) {
	m.mu.Lock()
	m.revoked[tokenStr] = time.Now().Add(m.ttl)
	m.mu.Unlock()
}

// PruneRevoked drops revocation entries whose tokens have expired on their
// own. Returns the number removed.
func (m *Manager) PruneRevoked(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for tok, exp := range m.revoked {
		if now.After(exp) {
			delete(m.revoked, tok)
			n++
		}
	}
	return n
}
