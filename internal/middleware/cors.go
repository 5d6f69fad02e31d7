package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS answers cross-origin requests from the allowed origins. An empty
// list or a "*" entry allows any origin. Preflight requests are answered
// here and never reach the router. Credentials are not allowed: the API
// carries no cookies.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
