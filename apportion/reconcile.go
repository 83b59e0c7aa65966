// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apportion

import (
	"github.com/danielhkuo/mandates/models"
)

// Reconcile places the seats won in the second scrutiny back into regions.
//
// A party that won k seats nationally gets one more seat in each of the k
// regions where its placement remainder is largest, ties in region order.
// The first-pass matrix is not modified; the reconciled matrix and the list of
// placements are returned.
func Reconcile(first models.SeatMatrix, regional []models.RegionalOutcome, national models.NationalOutcome, opts Options) (models.SeatMatrix, []models.Placement, error) {
	log := opts.logger().With("stage", StageReconcile)

	if len(regional) == 0 {
		return models.SeatMatrix{}, nil, &MissingInputError{Stage: StageReconcile, Kind: "region"}
	}

	final := first.Clone()
	var placements []models.Placement

	for _, np := range national.Parties {
		if np.Seats <= 0 {
			continue
		}
		if final.PartyIndex(np.Party) < 0 {
			return models.SeatMatrix{}, nil, &MissingInputError{Stage: StageReconcile, Kind: "party", ID: string(np.Party)}
		}

		remainders := make([]int64, len(regional))
		for i, ro := range regional {
			remainders[i] = placementRemainder(ro, np.Party)
		}
		order := rankDescending(remainders)

		for k := 0; k < np.Seats; k++ {
			ro := regional[order[k%len(order)]]
			if !final.Add(ro.Region, np.Party, 1) {
				return models.SeatMatrix{}, nil, &MissingInputError{Stage: StageReconcile, Kind: "region", ID: string(ro.Region)}
			}
			placements = append(placements, models.Placement{
				Party:     np.Party,
				Region:    ro.Region,
				Remainder: remainders[order[k%len(order)]],
				Pass:      k / len(order),
			})
			log.Debug("seat placed", "party", np.Party, "region", ro.Region,
				"remainder", remainders[order[k%len(order)]])
		}
	}

	return final, placements, nil
}

func placementRemainder(ro models.RegionalOutcome, party models.PartyID) int64 {
	for _, p := range ro.Parties {
		if p.Party == party {
			return p.PlacementRemainder
		}
	}
	return 0
}
