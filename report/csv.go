// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/danielhkuo/mandates/models"
)

// newCSVWriter uses the separator of the published results tables
func newCSVWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	return cw
}

// WriteSeatsCSV exports the final seat matrix, one row per region plus totals
func WriteSeatsCSV(w io.Writer, e models.Election, r *models.Result) error {
	m := r.Seats
	cw := newCSVWriter(w)

	header := []string{"region"}
	for _, p := range m.Parties {
		header = append(header, string(p))
	}
	header = append(header, "total")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write seats header: %w", err)
	}

	for ri, region := range m.Regions {
		row := []string{string(region)}
		for pi := range m.Parties {
			row = append(row, strconv.Itoa(m.Seats[ri][pi]))
		}
		row = append(row, strconv.Itoa(m.RegionTotal(region)))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write seats of %s: %w", region, err)
		}
	}

	totals := []string{"total"}
	for _, p := range m.Parties {
		totals = append(totals, strconv.Itoa(m.PartyTotal(p)))
	}
	totals = append(totals, strconv.Itoa(m.Total()))
	if err := cw.Write(totals); err != nil {
		return fmt.Errorf("failed to write seat totals: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

// WriteVotesCSV exports the per-party vote usage followed by a totals row
func WriteVotesCSV(w io.Writer, e models.Election, r *models.Result) error {
	cw := newCSVWriter(w)

	header := []string{"party", "name", "votes", "percent", "eligible", "first_seats", "second_seats", "seats",
		"used_first", "used_second", "unused", "lost", "votes_per_seat"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write votes header: %w", err)
	}

	for _, ps := range r.Parties {
		row := []string{
			string(ps.Party),
			ps.Name,
			strconv.FormatInt(ps.Votes, 10),
			strconv.FormatFloat(ps.Percent, 'f', 2, 64),
			strconv.FormatBool(ps.Eligible),
			strconv.Itoa(ps.FirstSeats),
			strconv.Itoa(ps.SecondSeats),
			strconv.Itoa(ps.Seats),
			strconv.FormatInt(ps.UsedFirst, 10),
			strconv.FormatInt(ps.UsedSecond, 10),
			strconv.FormatInt(ps.Unused, 10),
			strconv.FormatInt(ps.Lost, 10),
			strconv.FormatFloat(ps.VotesPerSeat, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write votes of %s: %w", ps.Party, err)
		}
	}

	u := r.Usage
	totals := []string{"total", "", strconv.FormatInt(u.Total, 10), "100.00", "", "", "", strconv.Itoa(r.Seats.Total()),
		strconv.FormatInt(u.UsedFirst, 10), strconv.FormatInt(u.UsedSecond, 10),
		strconv.FormatInt(u.Unused, 10), strconv.FormatInt(u.LostBelowThreshold, 10), ""}
	if err := cw.Write(totals); err != nil {
		return fmt.Errorf("failed to write vote totals: %w", err)
	}

	cw.Flush()
	return cw.Error()
}
