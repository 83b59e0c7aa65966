// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypePGX      = "pgx"
)

// driverName maps a database type to its registered database/sql driver
func driverName(databaseType string) (string, error) {
	switch databaseType {
	case TypeSQLite, "":
		return "sqlite", nil
	case TypePostgres:
		return "postgres", nil
	case TypePGX:
		return "pgx", nil
	}
	return "", fmt.Errorf("unsupported database type %q", databaseType)
}

// placeholders returns the bind variable style of a database type
func placeholders(databaseType string) sq.PlaceholderFormat {
	if databaseType == TypePostgres || databaseType == TypePGX {
		return sq.Dollar
	}
	return sq.Question
}

// Open connects to the database and verifies the connection
func Open(databaseType, url string) (*sql.DB, error) {
	driver, err := driverName(databaseType)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", databaseType, err)
	}

	if driver == "sqlite" {
		// a single connection keeps in-memory databases alive and serializes writers
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}
