// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apportion

import (
	"log/slog"
	"sort"

	"fortio.org/safecast"
)

// Options carries the optional side channels of the engine
type Options struct {
	// Logger receives per-stage debug records. Nil discards them.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// roundDiv divides num by den rounding half away from zero.
// Both operands must be non-negative and den positive.
func roundDiv(num, den int64) int64 {
	return (2*num + den) / (2 * den)
}

// seatCount converts an integer quotient into a seat count
func seatCount(stage, id string, n int64) (int, error) {
	seats, err := safecast.Conv[int](n)
	if err != nil {
		return 0, &MalformedInputError{Stage: stage, ID: id, Field: "seats", Reason: err.Error()}
	}
	return seats, nil
}

// rankDescending returns the indices 0..len(keys)-1 ordered by key descending.
// Equal keys keep input order (lower index first).
func rankDescending(keys []int64) []int {
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ka, kb := keys[order[a]], keys[order[b]]
		if ka != kb {
			return ka > kb
		}
		return order[a] < order[b]
	})
	return order
}

// reversed returns a reversed copy
func reversed(order []int) []int {
	out := make([]int, len(order))
	for i, v := range order {
		out[len(order)-1-i] = v
	}
	return out
}
