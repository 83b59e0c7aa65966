// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin keys, run identifiers, and input fingerprints.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(electionID, salt)
	err := auth.ValidateAdminKey(electionID, adminKey, salt)

The key is URL-safe base64 encoded without padding. The same election ID
and salt always produce the same key, so nothing is stored in the database.
Submitting a run for an election requires its admin key.

# Run IDs

	id := auth.NewRunID() // random UUID

# Inputs Hash

InputsHash fingerprints an election input with SHA-256 over its JSON
encoding. Two runs with the same hash were computed from the same input
and, the engine being deterministic, hold the same result:

	hash, err := auth.InputsHash(election) // "sha256:..."
*/
package auth
