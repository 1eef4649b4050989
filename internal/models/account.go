package models

import "time"

// Account is the durable credential record. Username is the primary key and
// immutable after creation. The password digest is never serialized.
type Account struct {
	Username       string    `json:"username"`
	PasswordDigest string    `json:"-"`
	Email          string    `json:"email"`
	CreatedAt      time.Time `json:"created_at"`
}
