package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hekax/outreach-intel/internal/api/handlers"
	"github.com/hekax/outreach-intel/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	scoringHandler *handlers.ScoringHandler,
	signalHandler *handlers.SignalHandler,
	enrichHandler *handlers.EnrichmentHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api/v1").Subrouter()

	// Scoring endpoints
	api.HandleFunc("/leads/score", scoringHandler.ScoreLead).Methods("POST")
	api.HandleFunc("/leads/score/batch", scoringHandler.ScoreBatch).Methods("POST")
	api.HandleFunc("/leads/tiers", scoringHandler.GetTierDistribution).Methods("GET")
	api.HandleFunc("/leads", scoringHandler.ListByTier).Methods("GET")

	// Signal endpoints
	api.HandleFunc("/signals/detect", signalHandler.Detect).Methods("POST")
	api.HandleFunc("/signals/active", signalHandler.GetActive).Methods("GET")

	// Enrichment endpoints
	api.HandleFunc("/companies/enrich", enrichHandler.EnrichCompany).Methods("POST")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "outreach-intel-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
