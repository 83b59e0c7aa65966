// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/danielhkuo/mandates/models"
)

var ErrNotFound = errors.New("not found")

// Store persists apportionment runs
type Store struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// NewStore wraps a connection opened with Open for the given database type
func NewStore(db *sql.DB, databaseType string) *Store {
	return &Store{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(placeholders(databaseType)),
	}
}

// SaveRun stores a run, its election, and its seat matrix in one transaction
func (s *Store) SaveRun(ctx context.Context, run *models.Run) error {
	input, err := json.Marshal(run.Election)
	if err != nil {
		return fmt.Errorf("failed to encode election: %w", err)
	}
	payload, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = s.sb.Insert("election").
		Columns("id", "name", "seat_total", "threshold", "created_at").
		Values(run.ElectionID, run.Election.Name, run.Election.SeatTotal, run.Election.Threshold, run.ComputedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = excluded.name, seat_total = excluded.seat_total, threshold = excluded.threshold").
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert election: %w", err)
	}

	_, err = s.sb.Insert("run").
		Columns("id", "election_id", "method", "computed_at", "inputs_hash", "seat_total", "input", "payload").
		Values(run.ID, run.ElectionID, run.Method, run.ComputedAt, run.InputsHash, run.Result.SeatTotal, string(input), string(payload)).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	m := run.Result.Seats
	if len(m.Regions) > 0 && len(m.Parties) > 0 {
		seats := s.sb.Insert("run_seat").Columns("run_id", "region_id", "party_id", "first_seats", "seats")
		for ri, region := range m.Regions {
			for pi, party := range m.Parties {
				seats = seats.Values(run.ID, string(region), string(party),
					run.Result.FirstPass.Get(region, party), m.Seats[ri][pi])
			}
		}
		if _, err := seats.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to insert seats: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetRun loads a run by ID
func (s *Store) GetRun(ctx context.Context, id string) (*models.Run, error) {
	row := s.sb.Select("id", "election_id", "method", "computed_at", "inputs_hash", "input", "payload").
		From("run").
		Where(sq.Eq{"id": id}).
		RunWith(s.db).
		QueryRowContext(ctx)
	return scanRun(row)
}

// LatestRun loads the most recent run of an election
func (s *Store) LatestRun(ctx context.Context, electionID string) (*models.Run, error) {
	row := s.sb.Select("id", "election_id", "method", "computed_at", "inputs_hash", "input", "payload").
		From("run").
		Where(sq.Eq{"election_id": electionID}).
		OrderBy("computed_at DESC", "id DESC").
		Limit(1).
		RunWith(s.db).
		QueryRowContext(ctx)
	return scanRun(row)
}

// FindByInputsHash returns the newest run computed from identical input, if any
func (s *Store) FindByInputsHash(ctx context.Context, electionID, hash string) (*models.Run, error) {
	row := s.sb.Select("id", "election_id", "method", "computed_at", "inputs_hash", "input", "payload").
		From("run").
		Where(sq.Eq{"election_id": electionID, "inputs_hash": hash}).
		OrderBy("computed_at DESC", "id DESC").
		Limit(1).
		RunWith(s.db).
		QueryRowContext(ctx)
	return scanRun(row)
}

func scanRun(row sq.RowScanner) (*models.Run, error) {
	var run models.Run
	var input, payload string
	err := row.Scan(&run.ID, &run.ElectionID, &run.Method, &run.ComputedAt, &run.InputsHash, &input, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	if err := json.Unmarshal([]byte(input), &run.Election); err != nil {
		return nil, fmt.Errorf("failed to parse run input: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &run.Result); err != nil {
		return nil, fmt.Errorf("failed to parse run payload: %w", err)
	}
	return &run, nil
}

// ListRuns returns the runs of an election, newest first
func (s *Store) ListRuns(ctx context.Context, electionID string) ([]models.RunSummary, error) {
	rows, err := s.sb.Select("id", "election_id", "method", "computed_at", "inputs_hash", "seat_total").
		From("run").
		Where(sq.Eq{"election_id": electionID}).
		OrderBy("computed_at DESC", "id DESC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []models.RunSummary{}
	for rows.Next() {
		var r models.RunSummary
		if err := rows.Scan(&r.ID, &r.ElectionID, &r.Method, &r.ComputedAt, &r.InputsHash, &r.SeatTotal); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// PartySeatTotals sums the stored seat matrix of a run per party
func (s *Store) PartySeatTotals(ctx context.Context, runID string) (map[models.PartyID]int, error) {
	rows, err := s.sb.Select("party_id", "SUM(seats)").
		From("run_seat").
		Where(sq.Eq{"run_id": runID}).
		GroupBy("party_id").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query seats: %w", err)
	}
	defer rows.Close()

	totals := make(map[models.PartyID]int)
	for rows.Next() {
		var party string
		var seats int
		if err := rows.Scan(&party, &seats); err != nil {
			return nil, fmt.Errorf("failed to scan seats: %w", err)
		}
		totals[models.PartyID(party)] = seats
	}
	return totals, rows.Err()
}
