package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the lowercase hexadecimal SHA-256 of the plaintext password.
// It must stay deterministic: the store looks accounts up by
// (username, digest) equality. Not a hardened password hash — there is no
// per-account salt and no work factor.
func Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
