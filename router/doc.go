// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the mandates API.

NewRouter returns the complete handler, CORS included:

	handler := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Computing (admin, requires X-Admin-Key):

	POST /elections/{id}/runs - Allocate seats for the posted election

Results (public):

	GET /elections/{id}/runs   - Runs of an election, newest first
	GET /elections/{id}/latest - Most recent run
	GET /runs/{id}             - Stored input and full result
	GET /runs/{id}/seats       - Region × Party seat matrix
	GET /runs/{id}/votes       - Vote usage and seat prices
*/
package router
