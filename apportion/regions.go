// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apportion

import (
	"github.com/danielhkuo/mandates/models"
)

// ApportionRegions splits total seats among regions by turnout using the
// largest remainder method.
//
// The national quota is round(sum(votes) / total). Every region gets
// votes / quota seats and the seats still missing go one each to the regions
// with the largest remainders, ties in input order. When more seats are
// missing than there are regions the ranking is walked again; when the base
// seats already exceed the total, seats are withdrawn from the smallest
// remainders. The returned seats always sum to total.
func ApportionRegions(regions []models.RegionID, votes map[models.RegionID]int64, total int, opts Options) (models.RegionApportionment, error) {
	log := opts.logger().With("stage", StageRegions)

	if total <= 0 {
		return models.RegionApportionment{}, &MalformedInputError{
			Stage: StageRegions, Field: "seat_total", Reason: "must be positive",
		}
	}
	if len(regions) == 0 {
		return models.RegionApportionment{}, &MissingInputError{Stage: StageRegions, Kind: "region"}
	}

	result := models.RegionApportionment{
		SeatTotal: total,
		Regions:   make([]models.RegionSeats, len(regions)),
	}

	for i, id := range regions {
		v, ok := votes[id]
		if !ok {
			return models.RegionApportionment{}, &MissingInputError{Stage: StageRegions, Kind: "region", ID: string(id)}
		}
		if v < 0 {
			return models.RegionApportionment{}, &MalformedInputError{
				Stage: StageRegions, ID: string(id), Field: "votes", Reason: "negative vote count",
			}
		}
		result.Regions[i] = models.RegionSeats{Region: id, Votes: v}
		result.TotalVotes += v
	}

	if result.TotalVotes == 0 {
		return models.RegionApportionment{}, &MalformedInputError{
			Stage: StageRegions, Field: "votes", Reason: "no votes cast in any region",
		}
	}

	result.Quota = roundDiv(result.TotalVotes, int64(total))
	if result.Quota == 0 {
		// fewer votes than half the seats
		result.Quota = 1
	}
	log.Debug("national quota", "votes", result.TotalVotes, "seats", total, "quota", result.Quota)

	remainders := make([]int64, len(regions))
	for i := range result.Regions {
		r := &result.Regions[i]
		base, err := seatCount(StageRegions, string(r.Region), r.Votes/result.Quota)
		if err != nil {
			return models.RegionApportionment{}, err
		}
		r.BaseSeats = base
		r.Seats = base
		r.Remainder = r.Votes % result.Quota
		remainders[i] = r.Remainder
		result.Allocated += base
	}
	result.Remaining = total - result.Allocated
	log.Debug("base seats", "allocated", result.Allocated, "remaining", result.Remaining)

	order := rankDescending(remainders)
	switch {
	case result.Remaining > 0:
		for i := 0; i < result.Remaining; i++ {
			r := &result.Regions[order[i%len(order)]]
			r.Bonus++
			r.Seats++
		}
	case result.Remaining < 0:
		withdraw(result.Regions, reversed(order), -result.Remaining)
	}

	for _, r := range result.Regions {
		log.Debug("region seats", "region", r.Region, "votes", r.Votes,
			"base", r.BaseSeats, "remainder", r.Remainder, "seats", r.Seats)
	}

	return result, nil
}

// withdraw removes n seats walking order cyclically, skipping empty regions
func withdraw(regions []models.RegionSeats, order []int, n int) {
	for n > 0 {
		removed := false
		for _, i := range order {
			if n == 0 {
				break
			}
			if regions[i].Seats > 0 {
				regions[i].Seats--
				regions[i].Bonus--
				n--
				removed = true
			}
		}
		if !removed {
			return
		}
	}
}
