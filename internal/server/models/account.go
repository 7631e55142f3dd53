package models

import (
	"slices"
	"time"
)

// Account is a registered user. RefreshTokens keeps insertion order; every
// token in it is valid until the account is removed.
type Account struct {
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	UserID        string    `json:"user_id"`
	RefreshTokens []string  `json:"refresh_tokens"`
	CreatedAt     time.Time `json:"created_at"`
}

// Clone returns a deep copy so callers never share the token slice with a
// store.
func (a *Account) Clone() *Account {
	c := *a
	c.RefreshTokens = slices.Clone(a.RefreshTokens)
	return &c
}

// HasRefreshToken reports whether token was issued to the account.
func (a *Account) HasRefreshToken(token string) bool {
	return slices.Contains(a.RefreshTokens, token)
}
