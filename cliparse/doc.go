// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite, postgres or pgx (default: sqlite)
  - DatabaseURL: connection string (default for sqlite: file:mandates.db)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - SeatTotal: seats of an election that omits them (default: 200)
  - Threshold: threshold of an election that omits it (default: 5.0)
  - Debug: log every apportionment stage

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-seats        Default seat total
	-threshold    Default threshold percentage
	-debug        Stage logging
	-admin-salt   Admin key salt
	-env          Environment file (default: .env)

# Environment Variables

The environment file is loaded first with godotenv; it never overrides
variables that are already set. Flags then fall back to:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	SEAT_TOTAL     → -seats
	THRESHOLD      → -threshold
	DEBUG          → -debug
	ADMIN_KEY_SALT → -admin-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing for postgres or pgx
  - ADMIN_KEY_SALT is missing
  - the seat total is not positive or the threshold is outside [0, 100]
  - an explicitly named environment file does not exist
*/
package cliparse
