// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/mandates/cliparse"
	"github.com/danielhkuo/mandates/db"
	"github.com/danielhkuo/mandates/middleware"
	"github.com/danielhkuo/mandates/models"
)

type ResultsHandler struct {
	store *db.Store
	cfg   cliparse.Config
}

func NewResultsHandler(conn *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{store: db.NewStore(conn, cfg.DatabaseType), cfg: cfg}
}

// GetRun handles GET /runs/{id}
// Returns the stored input and every stage of the result
func (h *ResultsHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, run)
}

// GetSeats handles GET /runs/{id}/seats
// Returns the final Region × Party matrix with row and column totals
func (h *ResultsHandler) GetSeats(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}

	totals, err := h.store.PartySeatTotals(r.Context(), run.ID)
	if err != nil {
		slog.Error("failed to query seat totals", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	m := run.Result.Seats
	response := models.SeatsResponse{
		RunID:   run.ID,
		Regions: run.Election.Regions,
		Parties: []models.PartySummary{},
		Rows:    []models.SeatsRow{},
		Totals:  totals,
		Total:   m.Total(),
	}
	for _, ps := range run.Result.Parties {
		if ps.Eligible {
			response.Parties = append(response.Parties, ps)
		}
	}
	for ri, region := range m.Regions {
		row := models.SeatsRow{
			Region: region,
			Name:   string(region),
			Seats:  make(map[models.PartyID]int, len(m.Parties)),
			Total:  m.RegionTotal(region),
		}
		if reg, ok := run.Election.Region(region); ok && reg.Name != "" {
			row.Name = reg.Name
		}
		for pi, party := range m.Parties {
			row.Seats[party] = m.Seats[ri][pi]
		}
		response.Rows = append(response.Rows, row)
	}

	middleware.JSONResponse(w, http.StatusOK, response)
}

// GetVotes handles GET /runs/{id}/votes
// Returns vote usage per party, the totals partition, and seat prices
func (h *ResultsHandler) GetVotes(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.VotesResponse{
		RunID:   run.ID,
		Usage:   run.Result.Usage,
		Parties: run.Result.Parties,
		Prices:  run.Result.Prices,
	})
}

// ListRuns handles GET /elections/{id}/runs
func (h *ResultsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	runs, err := h.store.ListRuns(r.Context(), electionID)
	if err != nil {
		slog.Error("failed to list runs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, runs)
}

// GetLatest handles GET /elections/{id}/latest
func (h *ResultsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	run, err := h.store.LatestRun(r.Context(), electionID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "No runs for this election")
		return
	}
	if err != nil {
		slog.Error("failed to query latest run", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, run)
}

// loadRun fetches the run named in the path, writing the error response itself
func (h *ResultsHandler) loadRun(w http.ResponseWriter, r *http.Request) (*models.Run, bool) {
	runID := r.PathValue("id")
	if runID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "run id is required")
		return nil, false
	}

	run, err := h.store.GetRun(r.Context(), runID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Run not found")
		return nil, false
	}
	if err != nil {
		slog.Error("failed to query run", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil, false
	}
	return run, true
}
