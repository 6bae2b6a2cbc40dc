package http

import (
	"net/http"

	"github.com/atinyakov/GophNotes/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Auth   *AuthHandler
	Users  *UserHandler
	Notes  *NoteHandler
	Health *HealthHandler
}

// NewRouter constructs the HTTP handler that serves the notes API.
//
// Routes:
//
//	POST   /api/auth/signup         → Auth.Signup
//	POST   /api/auth/login          → Auth.Login
//	POST   /api/users/register      → Users.Register
//	GET    /api/users/{id}          → Users.Get     (protected)
//	PUT    /api/users/{id}          → Users.Update  (protected)
//	DELETE /api/users/{id}          → Users.Delete  (protected)
//	GET    /api/notes               → Notes.List    (protected)
//	POST   /api/notes               → Notes.Create  (protected)
//	GET    /api/notes/search?q=     → Notes.Search  (protected)
//	GET    /api/notes/{id}          → Notes.Get     (protected)
//	PUT    /api/notes/{id}          → Notes.Update  (protected)
//	DELETE /api/notes/{id}          → Notes.Delete  (protected)
//	POST   /api/notes/{id}/share    → Notes.Share   (protected)
//	GET    /healthz                 → Health.Health
//
// Protected routes require a bearer token checked by verifier. A nil
// verifier leaves them open.
func NewRouter(h Handlers, verifier middleware.TokenVerifier, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)

	// Bodies, when present, must be JSON.
	r.Use(chiMiddleware.AllowContentType("application/json"))

	protect := func(r chi.Router) chi.Router {
		if verifier == nil {
			return r
		}
		return r.With(middleware.BearerAuth(verifier))
	}

	r.Get("/healthz", h.Health.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Auth.Signup)
			r.Post("/login", h.Auth.Login)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", h.Users.Register)

			p := protect(r)
			p.Get("/{id}", h.Users.Get)
			p.Put("/{id}", h.Users.Update)
			p.Delete("/{id}", h.Users.Delete)
		})

		r.Route("/notes", func(r chi.Router) {
			r = protect(r)
			r.Get("/", h.Notes.List)
			r.Post("/", h.Notes.Create)
			r.Get("/search", h.Notes.Search)
			r.Get("/{id}", h.Notes.Get)
			r.Put("/{id}", h.Notes.Update)
			r.Delete("/{id}", h.Notes.Delete)
			r.Post("/{id}/share", h.Notes.Share)
		})
	})

	return r
}
