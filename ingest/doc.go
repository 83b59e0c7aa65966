// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ingest reads published result tables into an election.
//
// A manifest (TOML or YAML) lists the national table and one table per
// region. Party and region names are resolved to slugs once, here; the
// engine never compares display names.
package ingest
