// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/staybook/internal/auth"
	"github.com/taibuivan/staybook/internal/platform/sec"
)

// memoryUsers is an in-memory [auth.UserRepository].
type memoryUsers struct {
	mu      sync.Mutex
	byID    map[string]*auth.User
	findErr error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[string]*auth.User)}
}

func (store *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.findErr != nil {
		return nil, store.findErr
	}
	if user, ok := store.byID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, auth.ErrUserNotFound
}

func (store *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.findErr != nil {
		return nil, store.findErr
	}
	for _, user := range store.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (store *memoryUsers) Create(_ context.Context, user *auth.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, existing := range store.byID {
		if existing.Email == user.Email {
			return auth.ErrUserExists
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	store.byID[user.ID] = &copied
	return nil
}

func (store *memoryUsers) count() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.byID)
}

// memoryRevocations is an in-memory [auth.RevocationStore].
type memoryRevocations struct {
	mu      sync.Mutex
	entries map[string]time.Duration
	err     error
}

func newMemoryRevocations() *memoryRevocations {
	return &memoryRevocations{entries: make(map[string]time.Duration)}
}

func (store *memoryRevocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.err != nil {
		return store.err
	}
	store.entries[tokenID] = ttl
	return nil
}

func (store *memoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	_, ok := store.entries[tokenID]
	return ok, store.err
}

// brokenTokens simulates a missing signing secret.
type brokenTokens struct{}

func (brokenTokens) Issue(string) (string, error) { return "", sec.ErrSigningKeyUnavailable }

func (brokenTokens) Verify(string) (*sec.AuthClaims, error) { return nil, sec.ErrInvalidToken }

func (brokenTokens) TTL() time.Duration { return 24 * time.Hour }

type fixture struct {
	users       *memoryUsers
	revocations *memoryRevocations
	tokens      *sec.TokenService
	service     *auth.Service
}

func newFixture(t *testing.T, opts ...auth.ServiceOption) *fixture {
	t.Helper()

	tokens, err := sec.NewTokenService([]byte("auth-test-secret"), "staybook", 24*time.Hour)
	require.NoError(t, err)

	users := newMemoryUsers()
	return &fixture{
		users:       users,
		revocations: newMemoryRevocations(),
		tokens:      tokens,
		service:     auth.NewService(users, tokens, sec.NewPasswordHasher(bcrypt.MinCost), opts...),
	}
}

func (fixture *fixture) register(t *testing.T, email, password string) *auth.LoginSession {
	t.Helper()

	session, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		FirstName: "Ana",
		LastName:  "Lovelace",
		Email:     email,
		Password:  password,
	})
	require.NoError(t, err)
	return session
}
