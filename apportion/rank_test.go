// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apportion

import (
	"reflect"
	"testing"
)

func TestRoundDiv(t *testing.T) {
	tests := []struct {
		num, den, want int64
	}{
		{5, 2, 3},
		{1, 2, 1},
		{7, 2, 4},
		{10, 3, 3},
		{11, 3, 4},
		{0, 200, 0},
		{1500099, 200, 7500},
		{1500100, 200, 7501},
	}

	for _, tt := range tests {
		if got := roundDiv(tt.num, tt.den); got != tt.want {
			t.Errorf("roundDiv(%d, %d) = %d, want %d", tt.num, tt.den, got, tt.want)
		}
	}
}

func TestRankDescending(t *testing.T) {
	tests := []struct {
		name string
		keys []int64
		want []int
	}{
		{"distinct", []int64{10, 30, 20}, []int{1, 2, 0}},
		{"ties keep input order", []int64{5, 9, 5, 9}, []int{1, 3, 0, 2}},
		{"all equal", []int64{0, 0, 0}, []int{0, 1, 2}},
		{"empty", []int64{}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rankDescending(tt.keys); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestReversed(t *testing.T) {
	in := []int{1, 2, 3}
	if got := reversed(in); !reflect.DeepEqual(got, []int{3, 2, 1}) {
		t.Errorf("Expected [3 2 1], got %v", got)
	}
	if !reflect.DeepEqual(in, []int{1, 2, 3}) {
		t.Errorf("reversed modified its input: %v", in)
	}
}

func TestSeatCount(t *testing.T) {
	if n, err := seatCount(StageRegional, "x", 42); err != nil || n != 42 {
		t.Errorf("Expected 42, got %d (%v)", n, err)
	}
}
