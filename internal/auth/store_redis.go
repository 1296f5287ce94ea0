// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/staybook/internal/platform/constants"
)

// RedisRevocationStore implements RevocationStore using Redis keys with TTL.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRevocationStore creates a new Redis-backed RevocationStore.
func NewRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

/*
Revoke stores the token id until the token would have expired anyway.

Parameters:
  - context: context.Context
  - tokenID: string (the jti claim)
  - ttl: time.Duration (remaining token lifetime)

Returns:
  - error: Execution errors
*/
func (repository *RedisRevocationStore) Revoke(context context.Context, tokenID string, ttl time.Duration) error {

	// Nothing to do for a token that has already expired
	if ttl <= 0 {
		return nil
	}

	if err := repository.client.Set(context, revokedKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_revocation_set_failed: %w", err)
	}

	return nil
}

/*
IsRevoked reports whether the token id is on the denylist.

Parameters:
  - context: context.Context
  - tokenID: string

Returns:
  - bool: true if revoked
  - error: connectivity errors
*/
func (repository *RedisRevocationStore) IsRevoked(context context.Context, tokenID string) (bool, error) {
	count, err := repository.client.Exists(context, revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_revocation_exists_failed: %w", err)
	}

	return count > 0, nil
}

func revokedKey(tokenID string) string {
	return constants.RedisPrefixRevokedToken + tokenID
}
