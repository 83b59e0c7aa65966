// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apportion

import (
	"github.com/danielhkuo/mandates/models"
)

// NationalDivisorOffset is added to the unallocated seats when computing the pooled quota
const NationalDivisorOffset = 1

// NationalScrutiny allocates the seats the regions left unallocated.
//
// carry holds each party's carry remainder summed over all regions. The pooled
// quota is round(sum(carry) / (unallocated + 1)); each party wins
// carry / pooled seats and the seats still missing go one each to the largest
// ranking remainders, ties in input order, until either the seats or the
// parties run out. Seats left when the parties run out are reported in
// Unplaced.
//
// When the quotient seats exceed the unallocated count, seats are withdrawn
// one at a time from the parties with the smallest ranking remainder and the
// count is reported in Overflow.
func NationalScrutiny(carry models.VoteTally, unallocated int, opts Options) (models.NationalOutcome, error) {
	log := opts.logger().With("stage", StageNational)

	out := models.NationalOutcome{
		Unallocated: unallocated,
		Parties:     make([]models.PartyNationalOutcome, len(carry)),
	}
	for i, pv := range carry {
		if pv.Votes < 0 {
			return models.NationalOutcome{}, &MalformedInputError{
				Stage: StageNational, ID: string(pv.Party), Field: "carry_remainder", Reason: "negative remainder",
			}
		}
		out.Parties[i] = models.PartyNationalOutcome{
			Party:            pv.Party,
			CarryRemainder:   pv.Votes,
			RankingRemainder: pv.Votes,
		}
	}

	if unallocated <= 0 {
		log.Debug("no seats left for the second scrutiny", "unallocated", unallocated)
		return out, nil
	}

	out.PooledQuota = roundDiv(carry.Total(), int64(unallocated+NationalDivisorOffset))
	if out.PooledQuota <= 0 {
		out.Degenerate = true
	}
	log.Debug("pooled quota", "remainders", carry.Total(), "unallocated", unallocated, "quota", out.PooledQuota)

	direct := 0
	if !out.Degenerate {
		for i := range out.Parties {
			p := &out.Parties[i]
			won, err := seatCount(StageNational, string(p.Party), p.CarryRemainder/out.PooledQuota)
			if err != nil {
				return models.NationalOutcome{}, err
			}
			p.QuotientSeats = won
			p.Seats = won
			p.RankingRemainder = p.CarryRemainder - int64(won)*out.PooledQuota
			direct += won
		}
	}

	ranking := make([]int64, len(out.Parties))
	for i, p := range out.Parties {
		ranking[i] = p.RankingRemainder
	}
	order := rankDescending(ranking)

	left := unallocated - direct
	switch {
	case left > 0:
		for i := 0; i < left && i < len(order); i++ {
			p := &out.Parties[order[i]]
			p.RemainderSeats++
			p.Seats++
		}
		if left > len(order) {
			out.Unplaced = left - len(order)
			log.Warn("party list exhausted before all seats were placed", "unplaced", out.Unplaced)
		}
	case left < 0:
		out.Overflow = -left
		withdrawNational(out.Parties, reversed(order), out.Overflow)
		log.Warn("quotient seats exceed unallocated seats", "overflow", out.Overflow)
	}

	for _, p := range out.Parties {
		out.Awarded += p.Seats
		log.Debug("party result", "party", p.Party, "carry", p.CarryRemainder,
			"quotient", p.QuotientSeats, "ranking", p.RankingRemainder, "seats", p.Seats)
	}

	return out, nil
}

// withdrawNational removes n seats walking order cyclically, skipping parties without seats
func withdrawNational(parties []models.PartyNationalOutcome, order []int, n int) {
	for n > 0 {
		removed := false
		for _, i := range order {
			if n == 0 {
				break
			}
			if parties[i].Seats > 0 {
				parties[i].Seats--
				parties[i].Withdrawn++
				n--
				removed = true
			}
		}
		if !removed {
			return
		}
	}
}
