// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apportion

import (
	"fmt"
	"sort"

	"github.com/danielhkuo/mandates/models"
)

// Summary holds the reporting values derived from a completed allocation
type Summary struct {
	Parties []models.PartySummary
	Usage   models.VoteUsage
	Prices  []models.SeatPrice
}

// Aggregate derives per-party statistics, the vote usage partition, and the
// seat price table.
//
// Votes are split into four disjoint parts: votes spent on first-scrutiny
// seats (seats · regional quota), votes spent on second-scrutiny seats
// (seats · pooled quota), votes of parties below the threshold, and the rest.
// A party's rest is negative when a largest-remainder seat cost more than
// the votes it had left.
func Aggregate(national []models.NationalResult, parties []models.Party, eligible []models.PartyID, regional []models.RegionalOutcome, second models.NationalOutcome, first, final models.SeatMatrix, opts Options) (Summary, error) {
	log := opts.logger().With("stage", StageAggregate)

	isEligible := make(map[models.PartyID]bool, len(eligible))
	for _, id := range eligible {
		isEligible[id] = true
	}

	var summary Summary
	seatTotal := final.Total()

	for _, nr := range national {
		summary.Usage.Total += nr.Votes
	}

	for _, nr := range national {
		ps := models.PartySummary{
			Party:    nr.Party,
			Name:     string(nr.Party),
			Votes:    nr.Votes,
			Percent:  nr.Percent,
			Eligible: isEligible[nr.Party],
		}
		for _, p := range parties {
			if p.ID == nr.Party && p.DisplayName() != "" {
				ps.Name = p.DisplayName()
				break
			}
		}

		if !ps.Eligible {
			ps.Lost = nr.Votes
			summary.Usage.LostBelowThreshold += nr.Votes
		} else {
			for _, ro := range regional {
				for _, p := range ro.Parties {
					if p.Party == nr.Party {
						ps.UsedFirst += int64(p.Seats) * ro.Quota
					}
				}
			}
			ps.FirstSeats = first.PartyTotal(nr.Party)
			ps.SecondSeats = second.Seats(nr.Party)
			ps.Seats = final.PartyTotal(nr.Party)
			ps.UsedSecond = int64(ps.SecondSeats) * second.PooledQuota
			ps.Unused = nr.Votes - ps.UsedFirst - ps.UsedSecond

			summary.Usage.UsedFirst += ps.UsedFirst
			summary.Usage.UsedSecond += ps.UsedSecond
			summary.Usage.Unused += ps.Unused
		}

		if ps.Seats > 0 {
			ps.VotesPerSeat = float64(ps.Votes) / float64(ps.Seats)
		}
		if summary.Usage.Total > 0 {
			ps.VoteShare = 100 * float64(ps.Votes) / float64(summary.Usage.Total)
		}
		if seatTotal > 0 {
			ps.SeatShare = 100 * float64(ps.Seats) / float64(seatTotal)
		}

		summary.Parties = append(summary.Parties, ps)
	}

	u := summary.Usage
	if u.UsedFirst+u.UsedSecond+u.LostBelowThreshold+u.Unused != u.Total {
		return Summary{}, fmt.Errorf("%s: vote usage does not partition %d votes", StageAggregate, u.Total)
	}
	log.Debug("vote usage", "total", u.Total, "used_first", u.UsedFirst,
		"used_second", u.UsedSecond, "lost", u.LostBelowThreshold, "unused", u.Unused)

	summary.Prices = seatPrices(regional, second)
	return summary, nil
}

// seatPrices groups seats by the quota that bought them
func seatPrices(regional []models.RegionalOutcome, second models.NationalOutcome) []models.SeatPrice {
	byQuota := make(map[int64]*models.SeatPrice)
	for _, ro := range regional {
		if ro.Won == 0 {
			continue
		}
		sp, ok := byQuota[ro.Quota]
		if !ok {
			sp = &models.SeatPrice{Scrutiny: 1, Price: ro.Quota}
			byQuota[ro.Quota] = sp
		}
		sp.Seats += ro.Won
		sp.Regions = append(sp.Regions, ro.Region)
	}

	prices := make([]models.SeatPrice, 0, len(byQuota)+1)
	for _, sp := range byQuota {
		prices = append(prices, *sp)
	}
	sort.Slice(prices, func(i, j int) bool {
		return prices[i].Price < prices[j].Price
	})

	if second.Awarded > 0 {
		prices = append(prices, models.SeatPrice{
			Scrutiny: 2,
			Price:    second.PooledQuota,
			Seats:    second.Awarded,
		})
	}
	return prices
}
