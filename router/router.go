// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/mandates/cliparse"
	"github.com/danielhkuo/mandates/handlers"
	"github.com/danielhkuo/mandates/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	runHandler := handlers.NewRunHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			middleware.ErrorResponse(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Computing runs (admin)
	mux.HandleFunc("POST /elections/{id}/runs", middleware.WithLogging(runHandler.CreateRun))

	// Election history
	mux.HandleFunc("GET /elections/{id}/runs", middleware.WithLogging(resultsHandler.ListRuns))
	mux.HandleFunc("GET /elections/{id}/latest", middleware.WithLogging(resultsHandler.GetLatest))

	// Stored results
	mux.HandleFunc("GET /runs/{id}", middleware.WithLogging(resultsHandler.GetRun))
	mux.HandleFunc("GET /runs/{id}/seats", middleware.WithLogging(resultsHandler.GetSeats))
	mux.HandleFunc("GET /runs/{id}/votes", middleware.WithLogging(resultsHandler.GetVotes))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mandates API v1"))
	})

	return middleware.CORS(mux)
}
