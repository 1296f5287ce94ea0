// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package auth implements identity registration, credential verification and
// session token issuance for the Staybook marketplace.
//
// # Architecture
//
// Entities, repository contracts and use cases live together here. The
// [Service] knows nothing about HTTP or SQL; [Handler] and the Postgres/Redis
// repositories adapt it to the outside world.
package auth

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// User represents a registered Identity.
//
// # Rules
//   - Email is unique and stored case-folded (see [NormalizeEmail]).
//   - PasswordHash is a salted bcrypt hash and never leaves the server.
//   - A User never embeds session data; sessions are self-contained tokens.
type User struct {
	ID           string    `json:"_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile is the public subset of a [User] returned after login.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Profile returns the public view of the user.
func (user *User) Profile() Profile {
	return Profile{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// NormalizeEmail trims and Unicode case-folds an address so that lookups and
// the unique index agree on identity.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}
