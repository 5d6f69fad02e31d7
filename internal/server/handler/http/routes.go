package http

import (
	"net/http"

	"github.com/atinyakov/quill/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves
// the blog API under /api.
//
// Routes:
//
//	POST   /api/users/login            → users.Login
//	POST   /api/users                  → users.Create
//	GET    /api/users                  → users.List
//	GET    /api/users/dashboard/stats  → users.DashboardStats
//	GET    /api/users/{id}             → users.Get
//	PUT    /api/users/{id}             → users.Update
//	DELETE /api/users/{id}             → users.Delete
//	GET    /api/posts                  → posts.List
//	POST   /api/posts                  → posts.Create
//	GET    /api/posts/{id}             → posts.Get
//	PUT    /api/posts/{id}             → posts.Update
//	DELETE /api/posts/{id}             → posts.Delete
//	GET    /api/comments               → comments.List
//	POST   /api/comments               → comments.Create
//	GET    /api/comments/post/{postId} → comments.ListByPost
//	GET    /api/comments/user/{userId} → comments.ListByUser
//	DELETE /api/comments/{id}          → comments.Delete
//
// Middleware chain (applied in order):
//  1. RequestID                          - tags the request with an id
//  2. WithRequestLogging(logger)         - logs each request on completion
//  3. Recoverer                          - turns panics into 500s
//  4. CORS(corsOrigins)                  - go-chi/cors allow-list, answers preflight requests
//  5. AllowContentType("application/json") - rejects non-JSON bodies
func NewRouter(
	users *UserHandler,
	posts *PostHandler,
	comments *CommentHandler,
	logger *zap.Logger,
	corsOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(corsOrigins))
	// Only allow request bodies with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/login", users.Login)
			r.Post("/", users.Create)
			r.Get("/", users.List)
			r.Get("/dashboard/stats", users.DashboardStats)
			r.Get("/{id}", users.Get)
			r.Put("/{id}", users.Update)
			r.Delete("/{id}", users.Delete)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.List)
			r.Post("/", posts.Create)
			r.Get("/{id}", posts.Get)
			r.Put("/{id}", posts.Update)
			r.Delete("/{id}", posts.Delete)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", comments.List)
			r.Post("/", comments.Create)
			r.Get("/post/{postId}", comments.ListByPost)
			r.Get("/user/{userId}", comments.ListByUser)
			r.Delete("/{id}", comments.Delete)
		})
	})

	return r
}
