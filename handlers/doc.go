// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the mandates API.

# Handler Types

Each handler is a struct holding a run store and the server config:

  - RunHandler: computes allocations and stores them as runs
  - ResultsHandler: reads stored runs, seat matrices, and vote usage

Handlers are created via constructor functions that accept *sql.DB and Config:

	runHandler := handlers.NewRunHandler(db, cfg)

# Runs

A run is one allocation of one election:

	POST /elections/{id}/runs  → CreateRun (201, or 200 when the input is unchanged)
	GET  /elections/{id}/runs  → ListRuns (newest first)
	GET  /elections/{id}/latest → GetLatest

Creating a run requires the X-Admin-Key header for the election. Missing or
malformed input answers 400, a seat total that cannot be honoured answers 422.
Both carry the failed stage in the "stage" field of the error body.

# Results

	GET /runs/{id}       → GetRun (input and every stage of the result)
	GET /runs/{id}/seats → GetSeats (Region × Party matrix with totals)
	GET /runs/{id}/votes → GetVotes (vote usage and seat prices)
*/
package handlers
