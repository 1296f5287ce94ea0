// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/staybook/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/staybook/internal/platform/request"
	"github.com/taibuivan/staybook/internal/platform/sec"
	"github.com/taibuivan/staybook/internal/platform/validate"
)

func TestDecodeJSON(t *testing.T) {
	var target struct {
		Email string `json:"email"`
	}

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"ana@example.com"}`))
	require.NoError(t, requestutil.DecodeJSON(httptest.NewRecorder(), request, &target))
	assert.Equal(t, "ana@example.com", target.Email)

	request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
	assert.ErrorIs(t, requestutil.DecodeJSON(httptest.NewRecorder(), request, &target), validate.ErrInvalidJSON)

	oversized := `{"email":"` + strings.Repeat("a", 2<<20) + `"}`
	request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(oversized))
	assert.ErrorIs(t, requestutil.DecodeJSON(httptest.NewRecorder(), request, &target), validate.ErrInvalidJSON)
}

func TestRequiredUserID(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := requestutil.RequiredUserID(request)
	assert.Error(t, err)

	tests := []struct {
		name   string
		claims *sec.AuthClaims
	}{
		{"subject", &sec.AuthClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}},
		{"legacy_user_id", &sec.AuthClaims{UserID: "user-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authenticated := request.WithContext(ctxutil.WithAuthUser(request.Context(), tt.claims))
			userID, err := requestutil.RequiredUserID(authenticated)
			require.NoError(t, err)
			assert.Equal(t, "user-1", userID)
		})
	}
}
