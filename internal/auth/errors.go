package auth

import "errors"

var (
	// ErrInvalidInput means a required field was empty.
	ErrInvalidInput = errors.New("missing required field")
	// ErrUsernameTaken means registration conflicted with an existing account.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials covers both unknown usernames and wrong passwords,
	// so a caller cannot probe for account existence.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrBackend wraps credential store failures.
	ErrBackend = errors.New("credential store failure")
)
