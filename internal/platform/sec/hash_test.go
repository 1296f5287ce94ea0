// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/staybook/internal/platform/sec"
)

/*
TestPasswordHasher_RoundTrip verifies hashing is salted and comparison is exact.
*/
func TestPasswordHasher_RoundTrip(t *testing.T) {
	hasher := sec.NewPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("pw-123456")
	require.NoError(t, err)
	second, err := hasher.Hash("pw-123456")
	require.NoError(t, err)

	assert.NotEqual(t, "pw-123456", first)
	assert.NotEqual(t, first, second, "hashes must be salted")

	assert.True(t, hasher.Compare("pw-123456", first))
	assert.True(t, hasher.Compare("pw-123456", second))
	assert.False(t, hasher.Compare("pw-1234567", first))
	assert.False(t, hasher.Compare("pw-123456", "not-a-hash"))
}

/*
TestNewPasswordHasher_ClampsCost falls back to the default cost when out of range.
*/
func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	hasher := sec.NewPasswordHasher(1)

	hash, err := hasher.Hash("pw-123456")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
