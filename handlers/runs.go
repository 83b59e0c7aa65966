// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/mandates/apportion"
	"github.com/danielhkuo/mandates/auth"
	"github.com/danielhkuo/mandates/cliparse"
	"github.com/danielhkuo/mandates/db"
	"github.com/danielhkuo/mandates/middleware"
	"github.com/danielhkuo/mandates/models"
)

type RunHandler struct {
	store *db.Store
	cfg   cliparse.Config
}

func NewRunHandler(conn *sql.DB, cfg cliparse.Config) *RunHandler {
	return &RunHandler{store: db.NewStore(conn, cfg.DatabaseType), cfg: cfg}
}

// CreateRun handles POST /elections/{id}/runs
// Computes the allocation for the posted election and stores it as a run.
// Posting an election identical to an earlier run returns that run with 200.
func (h *RunHandler) CreateRun(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	// Validate admin key
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.CreateRunRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	e := req.Election
	if e.ID == "" {
		e.ID = electionID
	}
	if e.ID != electionID {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id does not match the path")
		return
	}
	if e.SeatTotal == 0 {
		e.SeatTotal = h.cfg.SeatTotal
	}
	if e.Threshold == 0 {
		e.Threshold = h.cfg.Threshold
	}
	e.ApplyDefaults()

	hash, err := auth.InputsHash(e)
	if err != nil {
		slog.Error("failed to hash election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute run")
		return
	}

	existing, err := h.store.FindByInputsHash(r.Context(), electionID, hash)
	if err == nil {
		slog.Info("run reused", "election_id", electionID, "run_id", existing.ID)
		middleware.JSONResponse(w, http.StatusOK, runResponse(existing))
		return
	}
	if !errors.Is(err, db.ErrNotFound) {
		slog.Error("failed to look up run", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	result, err := apportion.Run(e, apportion.Options{Logger: slog.Default()})
	if err != nil {
		engineError(w, err)
		return
	}

	run := &models.Run{
		ID:         auth.NewRunID(),
		ElectionID: electionID,
		Method:     result.Method,
		ComputedAt: time.Now().UTC(),
		InputsHash: hash,
		Election:   e,
		Result:     *result,
	}
	if err := h.store.SaveRun(r.Context(), run); err != nil {
		slog.Error("failed to save run", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save run")
		return
	}

	slog.Info("run created", "election_id", electionID, "run_id", run.ID, "seats", result.Seats.Total())

	middleware.JSONResponse(w, http.StatusCreated, runResponse(run))
}

func runResponse(run *models.Run) models.CreateRunResponse {
	return models.CreateRunResponse{
		RunID:      run.ID,
		ElectionID: run.ElectionID,
		ComputedAt: run.ComputedAt,
		InputsHash: run.InputsHash,
		Result:     run.Result,
	}
}

// engineError maps an allocation failure to a response naming the failed stage
func engineError(w http.ResponseWriter, err error) {
	var missing *apportion.MissingInputError
	var malformed *apportion.MalformedInputError
	var total *apportion.SeatTotalError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &missing), errors.As(err, &malformed):
		status = http.StatusBadRequest
	case errors.As(err, &total):
		status = http.StatusUnprocessableEntity
	default:
		slog.Error("allocation failed", "error", err)
	}
	middleware.StageErrorResponse(w, status, err.Error(), apportion.StageOf(err))
}
