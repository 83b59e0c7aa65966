// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apportion

import (
	"github.com/danielhkuo/mandates/models"
)

// RegionalDivisorOffset is added to a region's seats when computing its quota
const RegionalDivisorOffset = 2

// RegionalScrutiny performs the first scrutiny in one region.
//
// The tally must already be restricted to parties over the threshold. The
// regional quota is round(total / (seats + 2)). Each party wins votes / quota
// seats. Two remainders are kept per party: the placement remainder
// (votes % quota) ranks regions when national seats are placed, and the carry
// remainder (all votes when no seat was won, otherwise votes − seats·quota)
// is pooled nationally for the second scrutiny.
//
// With no votes, no seats, or a zero quota every party wins nothing and both
// remainders equal its votes.
func RegionalScrutiny(region models.RegionID, tally models.VoteTally, seats int, opts Options) (models.RegionalOutcome, error) {
	log := opts.logger().With("stage", StageRegional, "region", region)

	if seats < 0 {
		return models.RegionalOutcome{}, &MalformedInputError{
			Stage: StageRegional, ID: string(region), Field: "seats", Reason: "negative seat count",
		}
	}
	for _, pv := range tally {
		if pv.Votes < 0 {
			return models.RegionalOutcome{}, &MalformedInputError{
				Stage: StageRegional, ID: string(pv.Party), Field: "votes", Reason: "negative vote count",
			}
		}
	}

	out := models.RegionalOutcome{
		Region:     region,
		Seats:      seats,
		TotalVotes: tally.Total(),
		Parties:    make([]models.PartyRegionalOutcome, len(tally)),
	}

	if out.TotalVotes > 0 && seats > 0 {
		out.Quota = roundDiv(out.TotalVotes, int64(seats+RegionalDivisorOffset))
	}
	if out.Quota <= 0 {
		out.Degenerate = true
		for i, pv := range tally {
			out.Parties[i] = models.PartyRegionalOutcome{
				Party:              pv.Party,
				Votes:              pv.Votes,
				CarryRemainder:     pv.Votes,
				PlacementRemainder: pv.Votes,
			}
		}
		log.Debug("degenerate quota", "votes", out.TotalVotes, "seats", seats)
		return out, nil
	}

	for i, pv := range tally {
		won, err := seatCount(StageRegional, string(pv.Party), pv.Votes/out.Quota)
		if err != nil {
			return models.RegionalOutcome{}, err
		}
		carry := pv.Votes
		if won > 0 {
			carry = pv.Votes - int64(won)*out.Quota
		}
		out.Parties[i] = models.PartyRegionalOutcome{
			Party:              pv.Party,
			Votes:              pv.Votes,
			Seats:              won,
			CarryRemainder:     carry,
			PlacementRemainder: pv.Votes % out.Quota,
		}
		out.Won += won
	}

	log.Debug("regional quota", "votes", out.TotalVotes, "seats", seats, "quota", out.Quota, "won", out.Won)
	for _, p := range out.Parties {
		log.Debug("party result", "party", p.Party, "votes", p.Votes, "seats", p.Seats,
			"carry", p.CarryRemainder, "placement", p.PlacementRemainder)
	}

	return out, nil
}

// TrimFirstScrutiny withdraws excess seats when the regions together won more
// seats than the national total.
//
// Seats are taken one at a time from the region-party cells with the smallest
// placement remainder, ties from the last region and party first. The votes
// of a withdrawn seat return to both remainders of the party in that region.
func TrimFirstScrutiny(regional []models.RegionalOutcome, excess int, opts Options) {
	log := opts.logger().With("stage", StageRegional)

	type cell struct{ region, party int }
	var cells []cell
	var keys []int64
	for ri, ro := range regional {
		for pi, p := range ro.Parties {
			if p.Seats > 0 {
				cells = append(cells, cell{ri, pi})
				keys = append(keys, p.PlacementRemainder)
			}
		}
	}
	order := reversed(rankDescending(keys))

	for excess > 0 {
		removed := false
		for _, i := range order {
			if excess == 0 {
				break
			}
			ro := &regional[cells[i].region]
			p := &ro.Parties[cells[i].party]
			if p.Seats == 0 {
				continue
			}
			p.Seats--
			p.Withdrawn++
			p.CarryRemainder += ro.Quota
			p.PlacementRemainder += ro.Quota
			ro.Won--
			ro.Withdrawn++
			excess--
			removed = true
			log.Debug("seat withdrawn", "region", ro.Region, "party", p.Party, "remainder", p.PlacementRemainder)
		}
		if !removed {
			return
		}
	}
}
