package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// DefaultCORS allows browser clients from origins to call the callable endpoints.
// An empty list or "*" allows any origin.
func DefaultCORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
		MaxAge:         600,
	}).Handler
}
