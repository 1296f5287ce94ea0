// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/staybook/internal/platform/constants"
	"github.com/taibuivan/staybook/internal/platform/ctxutil"
)

// # Cross-Origin Resource Sharing

// OriginPolicy is the credentialed CORS allow-list, evaluated per request.
//
// An origin is allowed when it exactly matches an entry of the list or ends
// with one of the trusted hosting suffixes (e.g. ".netlify.app").
type OriginPolicy struct {
	exact      map[string]struct{}
	suffixes   []string
	logDenials bool
}

// NewOriginPolicy builds an [OriginPolicy]. Blank entries are ignored.
func NewOriginPolicy(origins, trustedSuffixes []string, logDenials bool) OriginPolicy {
	policy := OriginPolicy{
		exact:      make(map[string]struct{}, len(origins)),
		logDenials: logDenials,
	}

	for _, origin := range origins {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			policy.exact[origin] = struct{}{}
		}
	}

	for _, suffix := range trustedSuffixes {
		if suffix = strings.TrimSpace(suffix); suffix != "" {
			policy.suffixes = append(policy.suffixes, suffix)
		}
	}

	return policy
}

// Allowed reports whether a credentialed cross-origin request from origin is permitted.
func (policy OriginPolicy) Allowed(origin string) bool {
	if _, ok := policy.exact[origin]; ok {
		return true
	}

	for _, suffix := range policy.suffixes {
		if strings.HasSuffix(origin, suffix) {
			return true
		}
	}

	return false
}

// CORS applies the [OriginPolicy]. Requests without an Origin header pass
// through untouched. Cookies are only honoured cross-origin for allowed
// origins because Access-Control-Allow-Credentials is sent only to them.
func CORS(policy OriginPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Check the Origin header
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			header := writer.Header()
			header.Add(constants.HeaderVary, constants.HeaderOrigin)

			// 2. Inject standard CORS headers if authorized
			if policy.Allowed(origin) {
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Cookie, X-Requested-With, X-Request-ID")
				header.Set("Access-Control-Expose-Headers", "X-Request-ID")
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Max-Age", "300")
			} else if policy.logDenials {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "cors_origin_rejected",
					slog.String("origin", origin),
				)
			}

			// 3. Handle pre-flight requests (OPTIONS)
			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
