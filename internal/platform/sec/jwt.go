// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the [auth.TokenProvider] interface and into the
// middleware chain via [middleware.TokenVerifier].
//
// Issuance and verification are pure functions of (claims, clock, secret).
// Nothing here performs I/O.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/staybook/pkg/uuidv7"
)

var (
	// ErrSigningKeyUnavailable is returned when no signing secret is configured.
	ErrSigningKeyUnavailable = errors.New("sec: signing secret unavailable")

	// ErrInvalidToken is the single outcome of any failed verification:
	// bad signature, tampered payload, expired, or malformed.
	ErrInvalidToken = errors.New("sec: invalid token")
)

// AuthClaims represents the payload embedded inside a session token.
//
// UserID mirrors the standard subject so clients that read the legacy
// {userId} payload keep working.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"userId,omitempty"`
}

// Identity returns the authenticated identity identifier carried by the token.
func (claims *AuthClaims) Identity() string {
	if claims.Subject != "" {
		return claims.Subject
	}
	return claims.UserID
}

// TokenOption customizes a [TokenService].
type TokenOption func(*TokenService)

// WithClock replaces the wall clock used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(service *TokenService) {
		service.now = now
	}
}

// TokenService handles generation and verification of HS256 session tokens.
//
// The zero value has no secret; [TokenService.Issue] on it fails with
// [ErrSigningKeyUnavailable].
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a new TokenService.
//
// An empty secret is rejected so a misconfigured process never starts.
func NewTokenService(secret []byte, issuer string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, ErrSigningKeyUnavailable
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("sec: token ttl must be positive, got %s", ttl)
	}

	service := &TokenService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// TTL returns the fixed lifetime of issued tokens.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// Issue signs a token for subject, valid from now until now + TTL.
func (service *TokenService) Issue(subject string) (string, error) {
	if len(service.secret) == 0 {
		return "", ErrSigningKeyUnavailable
	}

	currentTime := service.clock()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuidv7.New(),
			Subject:   subject,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		UserID: subject,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and expiry of a token string.
//
// Every failure collapses to [ErrInvalidToken]; the underlying reason is
// kept in the chain for server-side logs only.
func (service *TokenService) Verify(tokenString string) (*AuthClaims, error) {
	if len(service.secret) == 0 {
		return nil, ErrSigningKeyUnavailable
	}

	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.clock),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Identity() == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// clock returns the configured current time, defaulting to the wall clock.
func (service *TokenService) clock() time.Time {
	if service.now == nil {
		return time.Now()
	}
	return service.now()
}
