package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/GophNotes/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NoteService defines the note operations used by NoteHandler.
type NoteService interface {
	List(ctx context.Context) ([]models.Note, error)
	GetByID(ctx context.Context, id string) (*models.Note, error)
	Create(ctx context.Context, title, content string) (*models.Note, error)
	Update(ctx context.Context, id, title, content string) (*models.Note, error)
	Delete(ctx context.Context, id string) error
	Share(ctx context.Context, id, target string) error
	Search(ctx context.Context, query string) ([]models.Note, error)
}

// NoteHandler serves /api/notes.
type NoteHandler struct {
	Notes NoteService
	Log   *zap.Logger
}

// noteRequest is the body of create and update. A client-supplied id is
// not part of it and is dropped by the decoder.
type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type noteResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type shareRequest struct {
	SharedWith string `json:"sharedWith"`
}

func toNoteResponse(n *models.Note) noteResponse {
	return noteResponse{ID: n.ID, Title: n.Title, Content: n.Content}
}

func toNoteResponses(notes []models.Note) []noteResponse {
	out := make([]noteResponse, 0, len(notes))
	for i := range notes {
		out = append(out, toNoteResponse(&notes[i]))
	}
	return out
}

// List handles GET /api/notes.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Notes.List(r.Context())
	if err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponses(notes))
}

// Get handles GET /api/notes/{id}.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	n, err := h.Notes.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(n))
}

// Create handles POST /api/notes.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	n, err := h.Notes.Create(r.Context(), req.Title, req.Content)
	if err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(n))
}

// Update handles PUT /api/notes/{id}.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	n, err := h.Notes.Update(r.Context(), chi.URLParam(r, "id"), req.Title, req.Content)
	if err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(n))
}

// Delete handles DELETE /api/notes/{id}.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Notes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Share handles POST /api/notes/{id}/share.
func (h *NoteHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Notes.Share(r.Context(), chi.URLParam(r, "id"), req.SharedWith); err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/notes/search?q=. The q parameter is required
// but may be empty, which matches every note.
func (h *NoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	if !values.Has("q") {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	notes, err := h.Notes.Search(r.Context(), values.Get("q"))
	if err != nil {
		respondError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponses(notes))
}
