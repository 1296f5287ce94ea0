// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session implements the transport policy for session tokens.

It answers two questions for every request:

  - Inbound: which channel supplies the token. An explicit
    "Authorization: Bearer <token>" header always wins over the browser-managed
    auth cookie.
  - Outbound: how the server hands a token to the browser (an http-only cookie)
    and how it takes it back on logout (an immediately-expired overwrite).

Logout only removes the cookie. A token already copied out of a response body
stays valid until its natural expiry unless a revocation store is configured.
*/
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/staybook/internal/platform/constants"
)

// Channel identifies where a candidate token was found.
type Channel string

const (
	ChannelNone   Channel = "none"
	ChannelHeader Channel = "header"
	ChannelCookie Channel = "cookie"
)

// Options configures a [Policy].
type Options struct {
	// CookieName defaults to [constants.AuthCookieName].
	CookieName string
	// Domain is written as the explicit cookie Domain attribute.
	Domain string
	// Secure marks the cookie HTTPS-only. Enabled in production.
	Secure bool
	// MaxAge defaults to [constants.SessionTokenTTL].
	MaxAge time.Duration
}

// Policy is an immutable description of the auth cookie and channel precedence.
type Policy struct {
	cookieName string
	domain     string
	secure     bool
	maxAge     time.Duration
}

// NewPolicy builds a [Policy], filling unset options with defaults.
func NewPolicy(opts Options) Policy {
	if opts.CookieName == "" {
		opts.CookieName = constants.AuthCookieName
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = constants.SessionTokenTTL
	}

	return Policy{
		cookieName: opts.CookieName,
		domain:     opts.Domain,
		secure:     opts.Secure,
		maxAge:     opts.MaxAge,
	}
}

// CookieName returns the name of the auth cookie.
func (policy Policy) CookieName() string {
	return policy.cookieName
}

// # Inbound

// TokenFromRequest resolves the candidate token in precedence order.
//
//  1. Authorization header of the form "Bearer <token>".
//  2. The auth cookie.
//
// It returns [ChannelNone] and "" when neither channel yields a token.
func (policy Policy) TokenFromRequest(request *http.Request) (string, Channel) {
	if token, ok := bearerToken(request.Header.Get(constants.HeaderAuthorization)); ok {
		return token, ChannelHeader
	}

	cookie, err := request.Cookie(policy.cookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, ChannelCookie
	}

	return "", ChannelNone
}

// bearerToken extracts <token> from "Bearer <token>". The scheme is matched
// case-insensitively; an empty token does not qualify.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// # Outbound

// Write sets the auth cookie carrying token.
func (policy Policy) Write(writer http.ResponseWriter, token string) {
	cookie := policy.cookie(token)
	cookie.MaxAge = int(policy.maxAge / time.Second)
	http.SetCookie(writer, cookie)
}

// Clear overwrites the auth cookie with an empty, already-expired value.
// It is safe to call any number of times.
func (policy Policy) Clear(writer http.ResponseWriter) {
	cookie := policy.cookie("")
	cookie.MaxAge = -1 // serialized as Max-Age=0
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(writer, cookie)
}

// cookie returns the attributes shared by Write and Clear. Browsers only
// replace a cookie when name, domain and path all match.
func (policy Policy) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     policy.cookieName,
		Value:    value,
		Path:     constants.AuthCookiePath,
		Domain:   policy.domain,
		Secure:   policy.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
