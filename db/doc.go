// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation, and run storage.

# Connections

Open maps a database type to its database/sql driver and pings it:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

  - sqlite: modernc.org/sqlite (pure Go, default; "file::memory:" for tests)
  - postgres: github.com/lib/pq
  - pgx: github.com/jackc/pgx/v5/stdlib

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - election: seat total and threshold per election
  - run: immutable result snapshot (input and result stored as JSON)
  - run_seat: final seat matrix of a run, one row per region and party

# Relationships

	election 1──* run
	run 1──* run_seat

All foreign keys use ON DELETE CASCADE.

# Run Storage

Store builds its queries with squirrel so the same code binds $1 on
PostgreSQL and ? on SQLite:

	store := db.NewStore(conn, cfg.DatabaseType)
	err := store.SaveRun(ctx, run)
	run, err := store.GetRun(ctx, id)

Lookups of unknown runs return ErrNotFound.
*/
package db
