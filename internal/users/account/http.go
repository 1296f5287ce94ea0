// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/staybook/internal/auth"
	"github.com/taibuivan/staybook/internal/platform/constants"
	requestutil "github.com/taibuivan/staybook/internal/platform/request"
	"github.com/taibuivan/staybook/internal/platform/respond"
	"github.com/taibuivan/staybook/internal/platform/session"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
	registrar      Registrar
	policy         session.Policy
	authenticate   func(http.Handler) http.Handler
}

// NewHandler constructs a new account [Handler].
func NewHandler(
	service *Service,
	registrar Registrar,
	policy session.Policy,
	authenticate func(http.Handler) http.Handler,
) *Handler {
	return &Handler{
		accountService: service,
		registrar:      registrar,
		policy:         policy,
		authenticate:   authenticate,
	}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Enrollment
	router.Post("/register", handler.register)

	// Account Management
	router.With(handler.authenticate).Get("/me", handler.getMe)

	return router
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

/*
POST /api/users/register.

Description: Creates an account and signs the new user in on both channels.

Response:
  - 200: {message, userId, token}
  - 400: Validation failure or "User already exists"
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	loginSession, err := handler.registrar.Register(request.Context(), auth.RegisterInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.policy.Write(writer, loginSession.Token)

	respond.OK(writer, map[string]string{
		constants.FieldMessage: "User registered OK",
		constants.FieldUserID:  loginSession.User.ID,
		constants.FieldToken:   loginSession.Token,
	})
}

/*
GET /api/users/me.

Description: Retrieves the private profile of the authenticated user.

Response:
  - 200: User
  - 400: "User not found"
  - 401: No token or invalid token
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
