// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/taibuivan/staybook/internal/platform/apperr"
	"github.com/taibuivan/staybook/internal/platform/ctxutil"
	"github.com/taibuivan/staybook/internal/platform/respond"
	"github.com/taibuivan/staybook/internal/platform/sec"
	"github.com/taibuivan/staybook/internal/platform/session"
)

// # Session Verification

var (
	// ErrNoToken is returned when neither the header nor the cookie carries a token.
	ErrNoToken = apperr.Unauthorized("Unauthorized: no token found")

	// ErrInvalidToken covers bad signatures, tampering, expiry and malformed tokens alike.
	ErrInvalidToken = apperr.Unauthorized("Unauthorized: invalid token")
)

const tracerName = "github.com/taibuivan/staybook/internal/platform/middleware"

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// Defining it here decouples the middleware from [sec.TokenService] so tests
// can inject their own.
type TokenVerifier interface {
	Verify(token string) (*sec.AuthClaims, error)
}

// RevocationChecker reports whether a token id was revoked before its expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthOption customizes [Authenticate].
type AuthOption func(*authenticator)

// WithRevocationCheck enables the optional revocation lookup. Without it the
// verifier performs no I/O at all.
func WithRevocationCheck(checker RevocationChecker) AuthOption {
	return func(auth *authenticator) {
		auth.revocations = checker
	}
}

// WithAuthMetrics counts verification outcomes on metrics.
func WithAuthMetrics(metrics *Metrics) AuthOption {
	return func(auth *authenticator) {
		auth.metrics = metrics
	}
}

type authenticator struct {
	verifier    TokenVerifier
	policy      session.Policy
	revocations RevocationChecker
	metrics     *Metrics
}

// Authenticate rejects requests without a valid session token.
//
// # Flow
//  1. Resolve the candidate token via [session.Policy.TokenFromRequest] (header first, then cookie).
//  2. No candidate: 401 [ErrNoToken]. The verifier is not called.
//  3. Verify signature and expiry. Any failure: 401 [ErrInvalidToken].
//  4. Optionally consult the revocation set.
//  5. Attach the claims to the request context and call next.
func Authenticate(verifier TokenVerifier, policy session.Policy, opts ...AuthOption) func(http.Handler) http.Handler {
	auth := &authenticator{verifier: verifier, policy: policy}
	for _, opt := range opts {
		opt(auth)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx, span := otel.Tracer(tracerName).Start(request.Context(), "auth.authenticate")
			defer span.End()

			// ── 1. Channel Resolution ─────────────────────────────────────────
			token, channel := auth.policy.TokenFromRequest(request)
			span.SetAttributes(attribute.String("auth.channel", string(channel)))

			if channel == session.ChannelNone {
				auth.reject(writer, request.WithContext(ctx), span, channel, "missing", ErrNoToken)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := auth.verifier.Verify(token)
			if err != nil {
				auth.reject(writer, request.WithContext(ctx), span, channel, "invalid", ErrInvalidToken)
				return
			}

			// ── 3. Revocation (optional) ──────────────────────────────────────
			if auth.revoked(ctx, claims) {
				auth.reject(writer, request.WithContext(ctx), span, channel, "revoked", ErrInvalidToken)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			userID := claims.Identity()
			span.SetAttributes(attribute.String("auth.user_id", userID))
			auth.metrics.observeAuth(string(channel), "ok")

			ctx = ctxutil.WithAuthUser(ctx, claims)
			ctx = ctxutil.WithAuthChannel(ctx, string(channel))
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", userID)))

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// revoked consults the revocation set. Lookup failures are logged and treated
// as not revoked so a cache outage never locks every user out.
func (auth *authenticator) revoked(ctx context.Context, claims *sec.AuthClaims) bool {
	if auth.revocations == nil || claims.ID == "" {
		return false
	}

	revoked, err := auth.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "auth_revocation_check_failed", slog.Any("error", err))
		return false
	}
	return revoked
}

// reject writes the 401 and records the outcome.
func (auth *authenticator) reject(writer http.ResponseWriter, request *http.Request, span trace.Span, channel session.Channel, outcome string, err *apperr.AppError) {
	auth.metrics.observeAuth(string(channel), outcome)
	span.SetStatus(codes.Error, outcome)

	ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "auth_rejected",
		slog.String("channel", string(channel)),
		slog.String("outcome", outcome),
	)

	respond.Error(writer, request, err)
}
