// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taibuivan/staybook/internal/platform/apperr"
	"github.com/taibuivan/staybook/internal/platform/constants"
	"github.com/taibuivan/staybook/internal/platform/ctxutil"
	"github.com/taibuivan/staybook/internal/platform/sec"
	"github.com/taibuivan/staybook/internal/platform/validate"
	"github.com/taibuivan/staybook/pkg/uuidv7"
)

// TokenProvider issues and verifies Session Tokens.
type TokenProvider interface {
	// Issue signs a token whose subject is the user id.
	Issue(subject string) (string, error)

	// Verify returns the claims of a valid token.
	Verify(token string) (*sec.AuthClaims, error)

	// TTL is the lifetime of issued tokens.
	TTL() time.Duration
}

// PasswordHasher hashes and compares passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) bool
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	revocations    RevocationStore
	tokenProvider  TokenProvider
	hasher         PasswordHasher
	now            func() time.Time
}

// ServiceOption customizes a [Service].
type ServiceOption func(*Service)

// WithRevocationStore enables server-side token revocation on logout.
func WithRevocationStore(store RevocationStore) ServiceOption {
	return func(service *Service) {
		service.revocations = store
	}
}

// WithServiceClock overrides the clock used for revocation TTLs.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(service *Service) {
		service.now = now
	}
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	tokenProv TokenProvider,
	hasher PasswordHasher,
	opts ...ServiceOption,
) *Service {
	service := &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
		hasher:         hasher,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// Register validates, hashes, and persists a brand new user account, then
// opens a session for it.
//
// # Returns
//   - A [*LoginSession] for the new account.
//   - [ErrUserExists] if the email is taken.
//   - A VALIDATION_ERROR [apperr.AppError] for malformed input.
//
// # Business Rules
//   - Emails are unique after normalization.
//   - Passwords are never stored in plain text.
func (service *Service) Register(context context.Context, input RegisterInput) (*LoginSession, error) {

	// ── 1. Validation ─────────────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.
		Custom("firstName", strings.TrimSpace(input.FirstName) == "", "First Name is required").
		Custom("lastName", strings.TrimSpace(input.LastName) == "", "Last Name is required")
	validateCredentials(validator, input.Email, input.Password)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	email := NormalizeEmail(input.Email)

	// ── 2. Uniqueness Check ───────────────────────────────────────────────

	_, err := service.userRepository.FindByEmail(context, email)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, ErrUserNotFound):
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}

	// ── 3. Security ───────────────────────────────────────────────────────

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	user := &User{
		ID:           uuidv7.New(),
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "auth_user_registered", slog.String("user_id", user.ID))

	// ── 5. Session ────────────────────────────────────────────────────────

	return service.openSession(user)
}

// Login validates user credentials and issues a session token.
//
// # Security
//
// An unknown email and a wrong password produce the same
// [apperr.InvalidCredentials] error so callers cannot probe for accounts.
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	validator := &validate.Validator{}
	validateCredentials(validator, input.Email, input.Password)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	logger := ctxutil.GetLogger(context)

	user, err := service.userRepository.FindByEmail(context, NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			logger.InfoContext(context, "auth_login_failed", slog.String("reason", "unknown_email"))
			return nil, apperr.InvalidCredentials()
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !service.hasher.Compare(input.Password, user.PasswordHash) {
		logger.InfoContext(context, "auth_login_failed",
			slog.String("reason", "password_mismatch"),
			slog.String("user_id", user.ID),
		)
		return nil, apperr.InvalidCredentials()
	}

	return service.openSession(user)
}

// Logout revokes token when a revocation store is configured. Without one
// it is a no-op; the caller clears the cookie either way.
//
// Tokens that do not verify are ignored since they grant nothing.
func (service *Service) Logout(context context.Context, token string) error {
	if service.revocations == nil || token == "" {
		return nil
	}

	claims, err := service.tokenProvider.Verify(token)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	remaining := claims.ExpiresAt.Sub(service.now())
	if err := service.revocations.Revoke(context, claims.ID, remaining); err != nil {
		return fmt.Errorf("auth_service_revoke_failed: %w", err)
	}

	return nil
}

// openSession signs a token for user.
func (service *Service) openSession(user *User) (*LoginSession, error) {
	token, err := service.tokenProvider.Issue(user.ID)
	if err != nil {
		if errors.Is(err, sec.ErrSigningKeyUnavailable) {
			return nil, apperr.Configuration(err)
		}
		return nil, fmt.Errorf("auth_service_issue_token_failed: %w", err)
	}

	return &LoginSession{
		Token:     token,
		ExpiresAt: service.now().Add(service.tokenProvider.TTL()),
		User:      user,
	}, nil
}

// validateCredentials applies the rules shared by login and registration.
func validateCredentials(validator *validate.Validator, email, password string) {
	validator.
		Email("email", email).
		Custom("password", utf8.RuneCountInString(password) < constants.MinPasswordLength,
			fmt.Sprintf("Password with %d or more characters required", constants.MinPasswordLength))
}
