package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:5173", // local storefront dev
	"http://localhost:3000",
}

// CORS returns middleware that applies the API's allowed origin policy. The
// configured storefront base URL is always allowed.
func CORS(storefrontURL string) func(http.Handler) http.Handler {
	origins := defaultCORSOrigins
	if storefrontURL != "" {
		origins = append([]string{storefrontURL}, origins...)
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Session-Id", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
