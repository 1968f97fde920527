// Package api provides the dashboard HTTP server for LifeLab.
// It exposes the entry stores, monthly notebooks, insights, the win ledger
// and backup operations as JSON over REST.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lifelab-app/lifelab/internal/backup"
	"github.com/lifelab-app/lifelab/internal/entries"
	"github.com/lifelab-app/lifelab/internal/notebook"
	"github.com/lifelab-app/lifelab/internal/settings"
	"github.com/lifelab-app/lifelab/internal/wins"
)

// Server is the LifeLab HTTP API server.
type Server struct {
	entries        *entries.Store
	notebooks      *notebook.Store
	wins           *wins.Ledger
	backup         *backup.Service
	settings       *settings.Store
	metricsEnabled bool
}

// NewServer creates a new API server over the feature stores.
func NewServer(es *entries.Store, nb *notebook.Store, wl *wins.Ledger, bk *backup.Service, ss *settings.Store) *Server {
	return &Server{entries: es, notebooks: nb, wins: wl, backup: bk, settings: ss}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Minute))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/domains", s.handleListDomains)
		r.Put("/domains", s.handleSetDomains)

		r.Route("/entries/{domain}", func(r chi.Router) {
			r.Get("/", s.handleListEntries)
			r.Post("/", s.handleAddEntry)
			r.Delete("/{id}", s.handleDeleteEntry)
		})

		r.Route("/notebook/{year}/{month}", func(r chi.Router) {
			r.Get("/", s.handleGetNotebook)
			r.Put("/days/{day}", s.handleSetDay)
			r.Put("/reflection", s.handleSetReflection)
			r.Post("/close", s.handleCloseNotebook)
			r.Post("/reopen", s.handleReopenNotebook)
		})

		r.Get("/insight/{year}/{month}", s.handleGetInsight)

		r.Route("/wins", func(r chi.Router) {
			r.Get("/", s.handleListWins)
			r.Post("/", s.handleSaveWin)
			r.Get("/stats", s.handleWinStats)
		})

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the local dashboard front-end.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
