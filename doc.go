// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the mandates API server.

mandates allocates the seats of a parliament elected in two scrutinies:
seats are split among regions by vote count, parties above the national
threshold win seats in each region by the Hare quota, and the leftover votes
and seats are pooled nationally and placed back into regions.

# Starting the Server

The server reads CLI flags, then environment variables, then a .env file:

	ADMIN_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or pgx (default: sqlite)
  - DATABASE_URL (-d): Connection string (default: file:mandates.db for sqlite)
  - SEAT_TOTAL (--seats): Seats of an election that omits them (default: 200)
  - THRESHOLD (--threshold): Threshold percentage of an election that omits it (default: 5)
  - DEBUG (--debug): Log every allocation stage

# Architecture

  - apportion: The allocation engine (no I/O)
  - handlers: HTTP request handlers (runs, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, request IDs, JSON helpers
  - models: Domain, request and response types
  - auth: Admin keys and input hashes
  - db: Drivers, schema and the run store
  - cliparse: Configuration parsing

The offline command in cmd/apportion reads published result tables through
the ingest package and prints them with the report package.
*/
package main
