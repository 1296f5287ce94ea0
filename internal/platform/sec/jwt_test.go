// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/staybook/internal/platform/sec"
)

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

var fixedNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

// newService builds a TokenService whose clock is controlled by the returned pointer.
func newService(t *testing.T, secret string) (*sec.TokenService, *time.Time) {
	t.Helper()

	now := fixedNow
	service, err := sec.NewTokenService([]byte(secret), "staybook", 24*time.Hour,
		sec.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	return service, &now
}

/*
TestTokenService_IssueAndVerify checks that the subject survives a round trip
for the whole 24h window.
*/
func TestTokenService_IssueAndVerify(t *testing.T) {
	service, now := newService(t, "super-secret")

	for _, subject := range []string{"user-1", "0190b5f2-7c1a-7d2e-9f00-0123456789ab", "x"} {
		*now = fixedNow

		token, err := service.Issue(subject)
		require.NoError(t, err)

		for _, elapsed := range []time.Duration{0, time.Minute, 12 * time.Hour, 24*time.Hour - time.Second} {
			*now = fixedNow.Add(elapsed)

			claims, err := service.Verify(token)
			require.NoError(t, err, "elapsed=%s", elapsed)
			assert.Equal(t, subject, claims.Identity())
			assert.Equal(t, subject, claims.UserID)
			assert.Equal(t, "staybook", claims.Issuer)
			assert.NotEmpty(t, claims.ID)
			assert.Equal(t, fixedNow.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
		}
	}
}

/*
TestTokenService_Expired verifies that a token is rejected from its expiry instant onwards.
*/
func TestTokenService_Expired(t *testing.T) {
	service, now := newService(t, "super-secret")

	token, err := service.Issue("user-1")
	require.NoError(t, err)

	for _, elapsed := range []time.Duration{24 * time.Hour, 24*time.Hour + time.Second, 48 * time.Hour, 365 * 24 * time.Hour} {
		*now = fixedNow.Add(elapsed)

		_, err := service.Verify(token)
		assert.ErrorIs(t, err, sec.ErrInvalidToken, "elapsed=%s", elapsed)
	}
}

/*
TestTokenService_TamperedBytes flips every character of a token and expects rejection.
*/
func TestTokenService_TamperedBytes(t *testing.T) {
	service, _ := newService(t, "super-secret")

	token, err := service.Issue("user-1")
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		idx := strings.IndexByte(base64URLAlphabet, token[i])
		if idx < 0 {
			continue // segment separator
		}

		// Flipping the top bit of the sextet always changes a decoded byte.
		tampered := token[:i] + string(base64URLAlphabet[idx^32]) + token[i+1:]

		_, err := service.Verify(tampered)
		assert.ErrorIs(t, err, sec.ErrInvalidToken, "position %d", i)
	}
}

/*
TestTokenService_ForgedSubject swaps the payload subject but keeps the original signature.
*/
func TestTokenService_ForgedSubject(t *testing.T) {
	service, _ := newService(t, "super-secret")

	token, err := service.Issue("victim")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var claims map[string]any
	require.NoError(t, json.Unmarshal(payload, &claims))
	claims["sub"] = "attacker"
	claims["userId"] = "attacker"

	forged, err := json.Marshal(claims)
	require.NoError(t, err)

	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	_, err = service.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_RejectsForeignTokens covers wrong secrets, other algorithms and garbage.
*/
func TestTokenService_RejectsForeignTokens(t *testing.T) {
	service, _ := newService(t, "right-secret")
	other, _ := newService(t, "wrong-secret")

	signedElsewhere, err := other.Issue("user-1")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-1",
	}).SignedString([]byte("right-secret"))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
	}).SignedString([]byte("right-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong_secret", signedElsewhere},
		{"alg_none", unsigned},
		{"missing_exp", noExpiry},
		{"missing_subject", noSubject},
		{"malformed", "not.a.jwt"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Verify(tt.token)
			assert.ErrorIs(t, err, sec.ErrInvalidToken)
		})
	}
}

/*
TestTokenService_LegacyPayload accepts tokens that only carry the {userId} claim.
*/
func TestTokenService_LegacyPayload(t *testing.T) {
	service, _ := newService(t, "super-secret")

	legacy, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "legacy-user",
		"iat":    fixedNow.Unix(),
		"exp":    fixedNow.Add(24 * time.Hour).Unix(),
	}).SignedString([]byte("super-secret"))
	require.NoError(t, err)

	claims, err := service.Verify(legacy)
	require.NoError(t, err)
	assert.Equal(t, "legacy-user", claims.Identity())
}

/*
TestTokenService_MissingSecret verifies issuance never proceeds without a secret.
*/
func TestTokenService_MissingSecret(t *testing.T) {
	_, err := sec.NewTokenService(nil, "staybook", time.Hour)
	assert.ErrorIs(t, err, sec.ErrSigningKeyUnavailable)

	_, err = sec.NewTokenService([]byte("secret"), "staybook", 0)
	assert.Error(t, err)

	var zero sec.TokenService
	token, err := zero.Issue("user-1")
	assert.ErrorIs(t, err, sec.ErrSigningKeyUnavailable)
	assert.Empty(t, token)
}
