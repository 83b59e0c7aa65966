// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The statements are portable between PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

var schema = []string{
	// Elections
	`CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    name TEXT,
    seat_total INTEGER NOT NULL,
    threshold REAL NOT NULL CHECK (threshold >= 0 AND threshold <= 100),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,

	// Runs (immutable result snapshots)
	`CREATE TABLE IF NOT EXISTS run (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    method TEXT NOT NULL,
    computed_at TIMESTAMP NOT NULL,
    inputs_hash TEXT NOT NULL,
    seat_total INTEGER NOT NULL,
    input TEXT NOT NULL,
    payload TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_run_election_id ON run(election_id)`,
	`CREATE INDEX IF NOT EXISTS idx_run_inputs_hash ON run(inputs_hash)`,

	// Final seat matrix, one row per region and party
	`CREATE TABLE IF NOT EXISTS run_seat (
    run_id TEXT NOT NULL REFERENCES run(id) ON DELETE CASCADE,
    region_id TEXT NOT NULL,
    party_id TEXT NOT NULL,
    first_seats INTEGER NOT NULL,
    seats INTEGER NOT NULL,
    PRIMARY KEY (run_id, region_id, party_id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_run_seat_party ON run_seat(run_id, party_id)`,
}
