package httpapi

import (
	"net/http"

	"github.com/rpattn/coreqc/internal/middleware"
	"github.com/rpattn/coreqc/internal/qc"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

// NewRouter mounts the validation endpoints behind CORS and request logging.
func NewRouter(service *qc.Service, allowedOrigins []string, logger *zap.Logger) http.Handler {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	mux := http.NewServeMux()
	mux.Handle("/validate", NewHTTPHandler(service))
	mux.HandleFunc("/healthz", Health)

	return middleware.LoggingMiddleware(logger)(corsHandler.Handler(mux))
}
