// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/staybook/internal/auth"
	"github.com/taibuivan/staybook/pkg/uuidv7"
)

// These tests need live backing services and are skipped otherwise.
// The database must already be migrated.

func TestPostgresUserRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repository := auth.NewUserRepository(pool)
	user := &auth.User{
		ID:           uuidv7.New(),
		Email:        uuidv7.New() + "@example.com",
		PasswordHash: "hash",
		FirstName:    "Ana",
		LastName:     "Lovelace",
	}

	require.NoError(t, repository.Create(ctx, user))
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DELETE FROM users.account WHERE id = $1", user.ID)
	})

	byEmail, err := repository.FindByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repository.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	duplicate := *user
	duplicate.ID = uuidv7.New()
	assert.ErrorIs(t, repository.Create(ctx, &duplicate), auth.ErrUserExists)

	_, err = repository.FindByID(ctx, uuidv7.New())
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestRedisRevocationStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	options, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(options)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := auth.NewRevocationStore(client)
	tokenID := uuidv7.New()

	revoked, err := store.IsRevoked(ctx, tokenID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, tokenID, time.Minute))
	revoked, err = store.IsRevoked(ctx, tokenID)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, "auth:revoked:"+tokenID).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)

	// Already-expired tokens are not stored
	expiredID := uuidv7.New()
	require.NoError(t, store.Revoke(ctx, expiredID, -time.Second))
	revoked, err = store.IsRevoked(ctx, expiredID)
	require.NoError(t, err)
	assert.False(t, revoked)
}
