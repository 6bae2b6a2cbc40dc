// Package http provides the HTTP surface of the notes service: signup and
// login, user accounts, notes and a health probe.
package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// AuthService defines the authentication operations required by the
// HTTP handlers.
type AuthService interface {
	// Signup registers a new account.
	Signup(ctx context.Context, username, password string) error
	// Login returns a bearer token for valid credentials.
	Login(ctx context.Context, username, password string) (string, error)
}

// AuthHandler handles HTTP requests for signup and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	Log         *zap.Logger
}

// credentialsRequest is the JSON payload of signup, login, register and
// user update.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.AuthService.Signup(r.Context(), req.Username, req.Password); err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Login handles POST /api/auth/login and returns {"token": "..."}.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
