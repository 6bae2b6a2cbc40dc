package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/GophNotes/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AccountService defines the user account operations used by UserHandler.
type AccountService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	// GetByID returns nil without error when the user does not exist.
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id, username, password string) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// UserHandler serves /api/users.
type UserHandler struct {
	Accounts AccountService
	Log      *zap.Logger
}

// userResponse is the public view of a user. The password hash is never
// part of it.
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username}
}

// Get handles GET /api/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.Accounts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// Register handles POST /api/users/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.Accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// Update handles PUT /api/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.Accounts.Update(r.Context(), chi.URLParam(r, "id"), req.Username, req.Password)
	if err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
