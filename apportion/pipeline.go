// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apportion

import (
	"fmt"
	"math"

	"github.com/danielhkuo/mandates/models"
)

// Run computes the complete two-scrutiny allocation for an election.
//
// Stages run in order: regional apportionment by turnout, threshold filter,
// first scrutiny per region (trimmed when it alone exceeds the seat total),
// second scrutiny on pooled remainders, placement
// of national seats into regions, aggregation. Either every seat of
// e.SeatTotal is allocated or an error naming the failing stage is returned;
// there are no partial results.
func Run(e models.Election, opts Options) (*models.Result, error) {
	log := opts.logger()

	if err := Validate(e); err != nil {
		return nil, err
	}

	regionIDs := e.RegionIDs()
	tallies := make(map[models.RegionID]models.VoteTally, len(e.Tallies))
	regionVotes := make(map[models.RegionID]int64, len(e.Tallies))
	for _, t := range e.Tallies {
		tallies[t.Region] = t.Votes
		regionVotes[t.Region] = t.Votes.Total()
	}

	apportionment, err := ApportionRegions(regionIDs, regionVotes, e.SeatTotal, opts)
	if err != nil {
		return nil, err
	}

	eligible := Eligible(e.Parties, e.National, e.Threshold)
	log.Debug("threshold applied", "threshold", e.Threshold, "eligible", len(eligible), "parties", len(e.Parties))

	first := models.NewSeatMatrix(regionIDs, eligible)
	regional := make([]models.RegionalOutcome, 0, len(regionIDs))
	won := 0
	for _, rs := range apportionment.Regions {
		tally := restrict(tallies[rs.Region], eligible)
		ro, err := RegionalScrutiny(rs.Region, tally, rs.Seats, opts)
		if err != nil {
			return nil, err
		}
		for _, p := range ro.Parties {
			first.Add(rs.Region, p.Party, p.Seats)
		}
		won += ro.Won
		regional = append(regional, ro)
	}

	if won > e.SeatTotal {
		TrimFirstScrutiny(regional, won-e.SeatTotal, opts)
		first = models.NewSeatMatrix(regionIDs, eligible)
		won = 0
		for _, ro := range regional {
			for _, p := range ro.Parties {
				first.Add(ro.Region, p.Party, p.Seats)
			}
			won += ro.Won
		}
		if won != e.SeatTotal {
			return nil, &SeatTotalError{Stage: StageRegional, Want: e.SeatTotal, Got: won}
		}
	}

	carry := make(models.VoteTally, len(eligible))
	for i, id := range eligible {
		carry[i] = models.PartyVotes{Party: id}
		for _, ro := range regional {
			for _, p := range ro.Parties {
				if p.Party == id {
					carry[i].Votes += p.CarryRemainder
				}
			}
		}
	}

	second, err := NationalScrutiny(carry, e.SeatTotal-won, opts)
	if err != nil {
		return nil, err
	}
	if second.Unplaced > 0 {
		return nil, &SeatTotalError{Stage: StageNational, Want: e.SeatTotal, Got: e.SeatTotal - second.Unplaced}
	}

	final, placements, err := Reconcile(first, regional, second, opts)
	if err != nil {
		return nil, err
	}
	if got := final.Total(); got != e.SeatTotal {
		return nil, &SeatTotalError{Stage: StageReconcile, Want: e.SeatTotal, Got: got}
	}

	summary, err := Aggregate(e.National, e.Parties, eligible, regional, second, first, final, opts)
	if err != nil {
		return nil, err
	}

	log.Info("apportionment complete",
		"election", e.ID,
		"seats", final.Total(),
		"first_scrutiny", won,
		"second_scrutiny", second.Awarded,
		"overflow", second.Overflow,
	)

	return &models.Result{
		Method:        models.MethodTwoScrutiny,
		SeatTotal:     e.SeatTotal,
		Threshold:     e.Threshold,
		Apportionment: apportionment,
		Eligible:      eligible,
		Regional:      regional,
		National:      second,
		Placements:    placements,
		FirstPass:     first,
		Seats:         final,
		Parties:       summary.Parties,
		Usage:         summary.Usage,
		Prices:        summary.Prices,
	}, nil
}

// Eligible returns, in party order, the parties whose national percentage
// reaches the threshold
func Eligible(parties []models.Party, national []models.NationalResult, threshold float64) []models.PartyID {
	percent := make(map[models.PartyID]float64, len(national))
	for _, nr := range national {
		percent[nr.Party] = nr.Percent
	}
	eligible := []models.PartyID{}
	for _, p := range parties {
		if pct, ok := percent[p.ID]; ok && pct >= threshold {
			eligible = append(eligible, p.ID)
		}
	}
	return eligible
}

// restrict returns the tally of the given parties in their order; absent parties get zero votes
func restrict(tally models.VoteTally, parties []models.PartyID) models.VoteTally {
	out := make(models.VoteTally, len(parties))
	for i, id := range parties {
		v, _ := tally.Votes(id)
		out[i] = models.PartyVotes{Party: id, Votes: v}
	}
	return out
}

// Validate checks an election before any stage runs
func Validate(e models.Election) error {
	if e.SeatTotal <= 0 {
		return &MalformedInputError{Stage: StageInput, Field: "seat_total", Reason: fmt.Sprintf("must be positive, got %d", e.SeatTotal)}
	}
	if math.IsNaN(e.Threshold) || e.Threshold < 0 || e.Threshold > 100 {
		return &MalformedInputError{Stage: StageInput, Field: "threshold", Reason: "must be within [0, 100]"}
	}
	if len(e.Regions) == 0 {
		return &MissingInputError{Stage: StageInput, Kind: "region"}
	}
	if len(e.National) == 0 {
		return &MissingInputError{Stage: StageInput, Kind: "national"}
	}

	regions := make(map[models.RegionID]bool, len(e.Regions))
	for _, r := range e.Regions {
		if r.ID == "" {
			return &MalformedInputError{Stage: StageInput, Field: "region id", Reason: "empty identifier"}
		}
		if regions[r.ID] {
			return &MalformedInputError{Stage: StageInput, ID: string(r.ID), Field: "region id", Reason: "duplicate region"}
		}
		regions[r.ID] = true
	}

	parties := make(map[models.PartyID]bool, len(e.Parties))
	for _, p := range e.Parties {
		if p.ID == "" {
			return &MalformedInputError{Stage: StageInput, Field: "party id", Reason: "empty identifier"}
		}
		if parties[p.ID] {
			return &MalformedInputError{Stage: StageInput, ID: string(p.ID), Field: "party id", Reason: "duplicate party"}
		}
		parties[p.ID] = true
	}

	seen := make(map[models.PartyID]bool, len(e.National))
	for _, nr := range e.National {
		if !parties[nr.Party] {
			return &MalformedInputError{Stage: StageInput, ID: string(nr.Party), Field: "national party", Reason: "unknown party"}
		}
		if seen[nr.Party] {
			return &MalformedInputError{Stage: StageInput, ID: string(nr.Party), Field: "national party", Reason: "duplicate entry"}
		}
		seen[nr.Party] = true
		if nr.Votes < 0 {
			return &MalformedInputError{Stage: StageInput, ID: string(nr.Party), Field: "national votes", Reason: "negative vote count"}
		}
		if math.IsNaN(nr.Percent) || nr.Percent < 0 || nr.Percent > 100 {
			return &MalformedInputError{Stage: StageInput, ID: string(nr.Party), Field: "national percent", Reason: fmt.Sprintf("%v is outside [0, 100]", nr.Percent)}
		}
	}
	for _, p := range e.Parties {
		if !seen[p.ID] {
			return &MissingInputError{Stage: StageInput, Kind: "national party", ID: string(p.ID)}
		}
	}

	tallied := make(map[models.RegionID]bool, len(e.Tallies))
	for _, t := range e.Tallies {
		if !regions[t.Region] {
			return &MalformedInputError{Stage: StageInput, ID: string(t.Region), Field: "tally region", Reason: "unknown region"}
		}
		if tallied[t.Region] {
			return &MalformedInputError{Stage: StageInput, ID: string(t.Region), Field: "tally region", Reason: "duplicate tally"}
		}
		tallied[t.Region] = true
		for _, pv := range t.Votes {
			if !parties[pv.Party] {
				return &MalformedInputError{Stage: StageInput, ID: string(pv.Party), Field: "tally party", Reason: fmt.Sprintf("unknown party in region %s", t.Region)}
			}
			if pv.Votes < 0 {
				return &MalformedInputError{Stage: StageInput, ID: string(pv.Party), Field: "votes", Reason: fmt.Sprintf("negative vote count in region %s", t.Region)}
			}
		}
	}

	return nil
}
