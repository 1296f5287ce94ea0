// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles the /users surface: enrollment and the private
profile of the signed-in user.

# Architecture

  - Domain: This package depends on the auth package for the User entity
    and the registration use case.
  - Storage: Reads go through [AccountRepository], which the auth
    Postgres repository satisfies.
*/
package account

import (
	"context"

	"github.com/taibuivan/staybook/internal/auth"
)

// # Contracts

// AccountRepository defines the read contract for user accounts.
type AccountRepository interface {
	// FindByID returns the account or [auth.ErrUserNotFound].
	FindByID(context context.Context, userID string) (*auth.User, error)
}

// Registrar enrolls a new user and opens a session for them.
type Registrar interface {
	Register(context context.Context, input auth.RegisterInput) (*auth.LoginSession, error)
}
