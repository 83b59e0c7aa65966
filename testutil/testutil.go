// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/mandates/cliparse"
	"github.com/danielhkuo/mandates/db"
	"github.com/danielhkuo/mandates/models"
)

// SetupTestDB opens a private in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// db.Open keeps a single connection, so the database is private to this test
	conn, err := db.Open(db.TypeSQLite, "file::memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: db.TypeSQLite,
		DatabaseURL:  "file::memory:",
		AdminKeySalt: "test-admin-salt",
		SeatTotal:    models.DefaultSeatTotal,
		Threshold:    models.DefaultThreshold,
	}
}

// SampleElection returns a three-region, six-party election of 30 seats.
//
// Party f is below the 5% threshold. The expected allocation is
//
//	         a  b  c  d  e
//	north    5  3  2  1  1
//	centre   4  4  2  1  0
//	south    3  1  2  0  1
//
// with c and e winning one second-scrutiny seat each (pooled quota 1815).
func SampleElection() models.Election {
	return models.Election{
		ID:        "sample",
		Name:      "Sample election",
		SeatTotal: 30,
		Threshold: 5,
		Regions: []models.Region{
			{ID: "north", Name: "North"},
			{ID: "centre", Name: "Centre"},
			{ID: "south", Name: "South"},
		},
		Parties: []models.Party{
			{ID: "a", Name: "Party A"},
			{ID: "b", Name: "Party B"},
			{ID: "c", Name: "Party C"},
			{ID: "d", Name: "Party D"},
			{ID: "e", Name: "Party E", Alias: "E"},
			{ID: "f", Name: "Party F"},
		},
		Tallies: []models.RegionTally{
			{Region: "north", Votes: tally(4100, 2600, 1700, 900, 700, 300)},
			{Region: "centre", Votes: tally(3300, 3100, 1200, 1100, 400, 200)},
			{Region: "south", Votes: tally(1800, 900, 1600, 500, 600, 100)},
		},
		National: []models.NationalResult{
			{Party: "a", Votes: 9200, Percent: 36.65},
			{Party: "b", Votes: 6600, Percent: 26.29},
			{Party: "c", Votes: 4500, Percent: 17.93},
			{Party: "d", Votes: 2500, Percent: 9.96},
			{Party: "e", Votes: 1700, Percent: 6.77},
			{Party: "f", Votes: 600, Percent: 2.39},
		},
	}
}

// OverallocatedElection returns a 20-seat election whose regions win 23 seats
// in the first scrutiny, so three must be withdrawn. Party d is below the
// threshold.
func OverallocatedElection() models.Election {
	return models.Election{
		ID:        "overallocated",
		SeatTotal: 20,
		Threshold: 5,
		Regions: []models.Region{
			{ID: "north", Name: "North"},
			{ID: "centre", Name: "Centre"},
			{ID: "south", Name: "South"},
		},
		Parties: []models.Party{
			{ID: "a", Name: "Party A"},
			{ID: "b", Name: "Party B"},
			{ID: "c", Name: "Party C"},
			{ID: "d", Name: "Party D"},
		},
		Tallies: []models.RegionTally{
			{Region: "north", Votes: tally(5000, 3000, 1500, 500)},
			{Region: "centre", Votes: tally(3000, 4000, 2000, 400)},
			{Region: "south", Votes: tally(2000, 1000, 2500, 100)},
		},
		National: []models.NationalResult{
			{Party: "a", Votes: 10000, Percent: 40},
			{Party: "b", Votes: 8000, Percent: 32},
			{Party: "c", Votes: 6000, Percent: 24},
			{Party: "d", Votes: 1000, Percent: 4},
		},
	}
}

// tally assigns votes to parties a, b, c, ... in order
func tally(votes ...int64) models.VoteTally {
	t := make(models.VoteTally, len(votes))
	for i, v := range votes {
		t[i] = models.PartyVotes{Party: models.PartyID(rune('a' + i)), Votes: v}
	}
	return t
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
