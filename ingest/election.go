// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/mandates/apportion"
	"github.com/danielhkuo/mandates/models"
)

// maxOpenFiles bounds concurrent reads of region tables
const maxOpenFiles = 4

// LoadElection reads every table named by the manifest and builds the election.
// Region tables are read concurrently; the result keeps manifest order.
func LoadElection(ctx context.Context, m *Manifest) (*models.Election, error) {
	national, err := readFile(m.Path(m.National), "national", "")
	if err != nil {
		return nil, err
	}

	regions := make([][]Row, len(m.Regions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxOpenFiles)
	for i, src := range m.Regions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := readFile(m.Path(src.File), "region", src.ID)
			if err != nil {
				return err
			}
			regions[i] = rows
			slog.Debug("region table loaded", "region", src.ID, "parties", len(rows))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildElection(m, national, regions)
}

func readFile(path, kind, id string) ([]Row, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		if id == "" {
			id = path
		}
		return nil, &apportion.MissingInputError{Stage: apportion.StageInput, Kind: kind, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ReadResults(f, path)
}

// BuildElection resolves identifiers and assembles an election from parsed
// tables. regions must follow m.Regions.
//
// Parties are taken from the national table in its order; a party that
// appears in a region table but not nationally is a MissingInputError.
func BuildElection(m *Manifest, national []Row, regions [][]Row) (*models.Election, error) {
	if len(national) == 0 {
		return nil, &apportion.MissingInputError{Stage: apportion.StageInput, Kind: "national"}
	}
	if len(regions) != len(m.Regions) {
		return nil, fmt.Errorf("got %d region tables for %d regions", len(regions), len(m.Regions))
	}

	e := &models.Election{
		ID:        m.ID,
		Name:      m.Name,
		SeatTotal: m.SeatTotal,
		Threshold: m.Threshold,
	}
	e.ApplyDefaults()

	byName := make(map[string]models.PartyID, len(national))
	for _, row := range national {
		id := models.PartyID(Slug(row.Name))
		if id == "" {
			return nil, &apportion.MalformedInputError{Stage: apportion.StageInput, ID: row.Name, Field: "party name", Reason: "no letters or digits"}
		}
		if _, dup := e.Party(id); dup {
			return nil, &apportion.MalformedInputError{Stage: apportion.StageInput, ID: row.Name, Field: "party name", Reason: "duplicate party"}
		}
		byName[row.Name] = id
		e.Parties = append(e.Parties, models.Party{ID: id, Name: row.Name, Alias: m.Aliases[row.Name]})
		e.National = append(e.National, models.NationalResult{Party: id, Votes: row.Votes, Percent: row.Percent})
	}

	for i, src := range m.Regions {
		e.Regions = append(e.Regions, models.Region{ID: models.RegionID(src.ID), Name: src.Name})
		tally := models.RegionTally{Region: models.RegionID(src.ID)}
		for _, row := range regions[i] {
			id, ok := byName[row.Name]
			if !ok {
				return nil, &apportion.MissingInputError{Stage: apportion.StageInput, Kind: "national party", ID: row.Name}
			}
			tally.Votes = append(tally.Votes, models.PartyVotes{Party: id, Votes: row.Votes})
		}
		e.Tallies = append(e.Tallies, tally)
	}

	if err := apportion.Validate(*e); err != nil {
		return nil, err
	}
	return e, nil
}
