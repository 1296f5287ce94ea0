// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/staybook/internal/auth"
	"github.com/taibuivan/staybook/internal/platform/middleware"
	"github.com/taibuivan/staybook/internal/platform/session"
)

func newAuthRouter(t *testing.T, fixture *fixture) http.Handler {
	t.Helper()

	policy := session.NewPolicy(session.Options{Domain: "localhost"})
	handler := auth.NewHandler(fixture.service, policy, middleware.Authenticate(fixture.tokens, policy))
	return handler.Routes()
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func authCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == "auth_token" {
			return cookie
		}
	}
	require.FailNow(t, "auth_token cookie not set")
	return nil
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

/*
TestHandler_Login returns the token in the body and sets the cookie.
*/
func TestHandler_Login(t *testing.T) {
	fixture := newFixture(t)
	registered := fixture.register(t, "ana@example.com", "secret1")
	router := newAuthRouter(t, fixture)

	recorder := postJSON(t, router, "/login", `{"email":"ana@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decode(t, recorder)
	assert.Equal(t, "Login successful", body["message"])
	assert.Equal(t, registered.User.ID, body["userId"])

	token, ok := body["token"].(string)
	require.True(t, ok)
	assert.Equal(t, token, authCookie(t, recorder).Value)

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, registered.User.ID, user["id"])
	assert.Equal(t, "ana@example.com", user["email"])
	assert.Equal(t, "Ana", user["firstName"])
	assert.Equal(t, "Lovelace", user["lastName"])
	assert.NotContains(t, recorder.Body.String(), "passwordHash")
	assert.NotContains(t, recorder.Body.String(), registered.User.PasswordHash)
}

/*
TestHandler_Login_Failures never sets a cookie.
*/
func TestHandler_Login_Failures(t *testing.T) {
	fixture := newFixture(t)
	fixture.register(t, "ana@example.com", "secret1")
	router := newAuthRouter(t, fixture)

	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{"wrong_password", `{"email":"ana@example.com","password":"secret2"}`, "Invalid Credentials"},
		{"unknown_email", `{"email":"nobody@example.com","password":"secret1"}`, "Invalid Credentials"},
		{"short_password", `{"email":"ana@example.com","password":"123"}`, "Password with 6 or more characters required"},
		{"malformed_json", `{"email":`, "Invalid JSON payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := postJSON(t, router, "/login", tt.body)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Equal(t, tt.wantMessage, decode(t, recorder)["message"])
			assert.Empty(t, recorder.Result().Cookies())
		})
	}
}

/*
TestHandler_ValidateToken accepts either channel.
*/
func TestHandler_ValidateToken(t *testing.T) {
	fixture := newFixture(t)
	registered := fixture.register(t, "ana@example.com", "secret1")
	router := newAuthRouter(t, fixture)

	byHeader := httptest.NewRequest(http.MethodGet, "/validate-token", nil)
	byHeader.Header.Set("Authorization", "Bearer "+registered.Token)

	byCookie := httptest.NewRequest(http.MethodGet, "/validate-token", nil)
	byCookie.AddCookie(&http.Cookie{Name: "auth_token", Value: registered.Token})

	for _, request := range []*http.Request{byHeader, byCookie} {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, map[string]any{"userId": registered.User.ID}, decode(t, recorder))
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/validate-token", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Unauthorized: no token found", decode(t, recorder)["message"])
}

/*
TestHandler_Logout always succeeds and clears the cookie.
*/
func TestHandler_Logout(t *testing.T) {
	fixture := newFixture(t)
	router := newAuthRouter(t, fixture)

	// Twice in a row, without any session
	for i := 0; i < 2; i++ {
		recorder := postJSON(t, router, "/logout", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "Logout successful", decode(t, recorder)["message"])

		cookie := authCookie(t, recorder)
		assert.Empty(t, cookie.Value)
		assert.Equal(t, -1, cookie.MaxAge)
	}
}
