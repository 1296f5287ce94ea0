// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/staybook/internal/platform/apperr"
)

var (
	// ErrUserNotFound is returned by [UserRepository] lookups that match no row.
	ErrUserNotFound = apperr.NotFound("User")

	// ErrUserExists is returned when an email is already registered.
	ErrUserExists = apperr.BadRequest("User already exists")
)

// UserRepository defines the data access contract for the Credential Store.
//
// Emails passed in are already normalized by the service.
type UserRepository interface {
	// FindByID returns the account with the given ID, or [ErrUserNotFound].
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email, or [ErrUserNotFound].
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a brand-new account.
	//
	// Returns [ErrUserExists] if the email unique constraint fails.
	Create(ctx context.Context, user *User) error
}

// RevocationStore is the optional denylist of session token ids.
//
// Entries only need to live as long as the token itself; after that the
// signature check rejects the token anyway.
type RevocationStore interface {
	// Revoke records tokenID as revoked for ttl.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error

	// IsRevoked reports whether tokenID was revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
