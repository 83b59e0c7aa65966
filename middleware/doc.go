// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /runs/{id}", middleware.WithLogging(handler))

Every request gets an ID (X-Request-ID, generated when absent) that is echoed
in the response and attached to the start and completion records.

# CORS Middleware

	handler := middleware.CORS(mux)

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.StageErrorResponse(w, http.StatusUnprocessableEntity, err.Error(), "reconciliation")

ParseJSONBody rejects unknown fields.
*/
package middleware
