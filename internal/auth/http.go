// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/staybook/internal/platform/constants"
	"github.com/taibuivan/staybook/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/staybook/internal/platform/request"
	"github.com/taibuivan/staybook/internal/platform/respond"
	"github.com/taibuivan/staybook/internal/platform/session"
)

// # Definitions & Constructors

// Handler implements the /auth HTTP endpoints.
//
// This layer is strictly responsible for transport concerns (status codes,
// cookies, JSON). Credential rules live in [Service].
type Handler struct {
	authService  *Service
	policy       session.Policy
	authenticate func(http.Handler) http.Handler
}

// NewHandler constructs a new [Handler].
//
// authenticate is the middleware guarding protected routes, normally
// [middleware.Authenticate] built from the same policy.
func NewHandler(service *Service, policy session.Policy, authenticate func(http.Handler) http.Handler) *Handler {
	return &Handler{
		authService:  service,
		policy:       policy,
		authenticate: authenticate,
	}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /login          : Verifies credentials, sets the cookie, returns the token.
//   - GET  /validate-token : Reports the caller's identity.
//   - POST /logout         : Clears the cookie.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)

	router.With(handler.authenticate).Get("/validate-token", handler.validateToken)

	return router
}

// loginRequest represents the JSON payload expected for login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
POST /api/auth/login.

Description: Verifies credentials and establishes a session on both
channels: the http-only cookie and the token in the body.

Response:
  - 200: {userId, message, token, user}
  - 400: Validation failure or "Invalid Credentials"
  - 500: Signing key unavailable
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	loginSession, err := handler.authService.Login(request.Context(), LoginInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.policy.Write(writer, loginSession.Token)

	respond.OK(writer, map[string]any{
		constants.FieldUserID:  loginSession.User.ID,
		constants.FieldMessage: "Login successful",
		constants.FieldToken:   loginSession.Token,
		constants.FieldUser:    loginSession.User.Profile(),
	})
}

/*
GET /api/auth/validate-token.

Description: Runs behind the authenticate middleware and echoes the
identity it attached.

Response:
  - 200: {userId}
  - 401: No token or invalid token
*/
func (handler *Handler) validateToken(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{constants.FieldUserID: userID})
}

/*
POST /api/auth/logout.

Description: Always succeeds. The cookie is cleared; when revocation is
enabled the presented token is also denylisted until it expires.

Response:
  - 200: {message}
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	token, _ := handler.policy.TokenFromRequest(request)

	if err := handler.authService.Logout(request.Context(), token); err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "auth_logout_revoke_failed",
			slog.String("error", err.Error()),
		)
	}

	handler.policy.Clear(writer)

	respond.OK(writer, map[string]string{constants.FieldMessage: "Logout successful"})
}
