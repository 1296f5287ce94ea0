// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/staybook/internal/auth"
	"github.com/taibuivan/staybook/internal/platform/apperr"
)

// ErrProfileNotFound is returned when a valid token names a deleted account.
var ErrProfileNotFound = apperr.BadRequest("User not found")

// # Service Layer

// Service orchestrates business logic for user accounts.
type Service struct {
	accountRepository AccountRepository
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository) *Service {
	return &Service{accountRepository: accountRepo}
}

/*
GetProfile retrieves the private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The user profile (the password hash is never serialized)
  - error: [ErrProfileNotFound] or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}
