package domain

import (
	"context"
	"time"
)

// AccessAuth is the token class issued for interactive sessions.
const AccessAuth = "auth"

// TokenEntry is one live session token held by a user. Access discriminates
// the token class; only "auth" is issued today.
type TokenEntry struct {
	Access string
	Token  string
}

// User represents a registered user of the application. ID is an opaque
// UUID assigned when the record is first persisted. Tokens holds every
// currently valid session token, in issue order.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Tokens       []TokenEntry
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines persistence operations for users and their token
// lists. AppendToken and RemoveToken must be additive/subtractive against
// the stored list so that concurrent calls for the same user never drop an
// unrelated entry.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByIDAndToken returns the user only if the exact token string is
	// present in their token list.
	GetByIDAndToken(ctx context.Context, id, token string) (*User, error)
	AppendToken(ctx context.Context, userID string, entry TokenEntry) error
	// RemoveToken deletes a single matching entry. Removing a token that is
	// not present is not an error.
	RemoveToken(ctx context.Context, userID, token string) error
	RemoveAllTokens(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}
