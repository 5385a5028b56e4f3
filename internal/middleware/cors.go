package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"seller-backend/internal/config"
)

// NewCORS allows the configured frontend origins. Content-Disposition is exposed
// so the browser can name downloaded invoice PDFs.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	})

	return c.Handler
}
