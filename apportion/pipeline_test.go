// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apportion

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/danielhkuo/mandates/models"
	"github.com/danielhkuo/mandates/testutil"
)

func TestRunSampleElection(t *testing.T) {
	result, err := Run(testutil.SampleElection(), Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Method != models.MethodTwoScrutiny {
		t.Errorf("Expected method %s, got %s", models.MethodTwoScrutiny, result.Method)
	}
	if result.Apportionment.Quota != 837 {
		t.Errorf("Expected national quota 837, got %d", result.Apportionment.Quota)
	}
	for region, want := range map[models.RegionID]int{"north": 12, "centre": 11, "south": 7} {
		if got, _ := result.Apportionment.Seats(region); got != want {
			t.Errorf("Region %s: expected %d seats, got %d", region, want, got)
		}
	}

	if !reflect.DeepEqual(result.Eligible, []models.PartyID{"a", "b", "c", "d", "e"}) {
		t.Errorf("Unexpected eligible parties %v", result.Eligible)
	}

	quotas := map[models.RegionID]int64{"north": 714, "centre": 700, "south": 600}
	for _, ro := range result.Regional {
		if ro.Quota != quotas[ro.Region] {
			t.Errorf("Region %s: expected quota %d, got %d", ro.Region, quotas[ro.Region], ro.Quota)
		}
	}

	if result.FirstPass.Total() != 28 {
		t.Errorf("Expected 28 first-scrutiny seats, got %d", result.FirstPass.Total())
	}
	if result.National.Unallocated != 2 || result.National.PooledQuota != 1815 {
		t.Errorf("Expected 2 seats at pooled quota 1815, got %d at %d", result.National.Unallocated, result.National.PooledQuota)
	}
	if result.National.Seats("c") != 1 || result.National.Seats("e") != 1 {
		t.Errorf("Expected c and e to win the second scrutiny, got %+v", result.National.Parties)
	}

	wantPlacements := []models.Placement{
		{Party: "c", Region: "centre", Remainder: 500},
		{Party: "e", Region: "north", Remainder: 700},
	}
	if !reflect.DeepEqual(result.Placements, wantPlacements) {
		t.Errorf("Expected placements %+v, got %+v", wantPlacements, result.Placements)
	}

	want := map[models.RegionID][]int{
		"north":  {5, 3, 2, 1, 1},
		"centre": {4, 4, 2, 1, 0},
		"south":  {3, 1, 2, 0, 1},
	}
	for region, row := range want {
		for i, party := range result.Eligible {
			if got := result.Seats.Get(region, party); got != row[i] {
				t.Errorf("%s/%s: expected %d seats, got %d", region, party, row[i], got)
			}
		}
	}
	if result.Seats.Total() != 30 {
		t.Errorf("Expected 30 seats, got %d", result.Seats.Total())
	}
	if result.Seats.PartyIndex("f") >= 0 {
		t.Error("Party below threshold must not appear in the seat matrix")
	}
}

func TestRunVoteUsage(t *testing.T) {
	result, err := Run(testutil.SampleElection(), Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := models.VoteUsage{Total: 25100, UsedFirst: 19054, UsedSecond: 3630, LostBelowThreshold: 600, Unused: 1816}
	if result.Usage != want {
		t.Errorf("Expected usage %+v, got %+v", want, result.Usage)
	}

	parties := map[models.PartyID]struct {
		seats         int
		first, second int64
		unused        int64
	}{
		"a": {12, 8170, 0, 1030},
		"b": {8, 5542, 0, 1058},
		"c": {6, 3328, 1815, -643},
		"d": {2, 1414, 0, 1086},
		"e": {2, 600, 1815, -715},
	}
	for _, ps := range result.Parties {
		if ps.Party == "f" {
			if ps.Eligible || ps.Lost != 600 || ps.Seats != 0 {
				t.Errorf("Unexpected summary for f: %+v", ps)
			}
			continue
		}
		w := parties[ps.Party]
		if ps.Seats != w.seats || ps.UsedFirst != w.first || ps.UsedSecond != w.second || ps.Unused != w.unused {
			t.Errorf("Party %s: expected %+v, got %+v", ps.Party, w, ps)
		}
		if ps.FirstSeats+ps.SecondSeats != ps.Seats {
			t.Errorf("Party %s: %d + %d != %d seats", ps.Party, ps.FirstSeats, ps.SecondSeats, ps.Seats)
		}
	}

	if result.Parties[4].Name != "E" {
		t.Errorf("Expected alias as summary name, got %q", result.Parties[4].Name)
	}
	if got := result.Parties[0].VotesPerSeat; got < 766.66 || got > 766.67 {
		t.Errorf("Expected about 766.67 votes per seat for a, got %v", got)
	}
}

func TestRunSeatPrices(t *testing.T) {
	result, err := Run(testutil.SampleElection(), Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []models.SeatPrice{
		{Scrutiny: 1, Price: 600, Seats: 7, Regions: []models.RegionID{"south"}},
		{Scrutiny: 1, Price: 700, Seats: 10, Regions: []models.RegionID{"centre"}},
		{Scrutiny: 1, Price: 714, Seats: 11, Regions: []models.RegionID{"north"}},
		{Scrutiny: 2, Price: 1815, Seats: 2},
	}
	if !reflect.DeepEqual(result.Prices, want) {
		t.Errorf("Expected prices %+v, got %+v", want, result.Prices)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	first, err := Run(testutil.SampleElection(), Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	second, err := Run(testutil.SampleElection(), Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Two runs over the same input differ")
	}
}

func TestRunMonotonic(t *testing.T) {
	base, err := Run(testutil.SampleElection(), Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	e := testutil.SampleElection()
	for i := range e.Tallies {
		for j := range e.Tallies[i].Votes {
			if e.Tallies[i].Votes[j].Party == "c" {
				e.Tallies[i].Votes[j].Votes += 100
			}
		}
	}
	e.National = []models.NationalResult{
		{Party: "a", Votes: 9200, Percent: 36.22},
		{Party: "b", Votes: 6600, Percent: 25.98},
		{Party: "c", Votes: 4800, Percent: 18.9},
		{Party: "d", Votes: 2500, Percent: 9.84},
		{Party: "e", Votes: 1700, Percent: 6.69},
		{Party: "f", Votes: 600, Percent: 2.36},
	}

	more, err := Run(e, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if more.Seats.PartyTotal("c") < base.Seats.PartyTotal("c") {
		t.Errorf("c gained votes everywhere but lost seats: %d -> %d", base.Seats.PartyTotal("c"), more.Seats.PartyTotal("c"))
	}
	if more.Seats.Total() != 30 {
		t.Errorf("Expected 30 seats, got %d", more.Seats.Total())
	}
}

func TestRunTrimsOverallocatedFirstScrutiny(t *testing.T) {
	result, err := Run(testutil.OverallocatedElection(), Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	withdrawn := 0
	for _, ro := range result.Regional {
		withdrawn += ro.Withdrawn
	}
	if withdrawn != 3 {
		t.Errorf("Expected 3 withdrawn seats, got %d", withdrawn)
	}

	want := map[models.RegionID][]int{
		"north":  {5, 2, 1},
		"centre": {3, 4, 2},
		"south":  {1, 0, 2},
	}
	for region, row := range want {
		for i, party := range []models.PartyID{"a", "b", "c"} {
			if got := result.Seats.Get(region, party); got != row[i] {
				t.Errorf("%s/%s: expected %d seats, got %d", region, party, row[i], got)
			}
		}
	}
	if result.Seats.Total() != 20 || result.National.Awarded != 0 {
		t.Errorf("Expected 20 seats and none from the second scrutiny, got %d and %d", result.Seats.Total(), result.National.Awarded)
	}

	u := result.Usage
	if u.UsedFirst+u.UsedSecond+u.LostBelowThreshold+u.Unused != u.Total {
		t.Errorf("Vote usage does not partition the total: %+v", u)
	}
}

func TestRunZeroVoteRegion(t *testing.T) {
	e := testutil.SampleElection()
	e.Regions = append(e.Regions, models.Region{ID: "empty", Name: "Empty"})
	e.Tallies = append(e.Tallies, models.RegionTally{Region: "empty"})

	result, err := Run(e, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if seats, _ := result.Apportionment.Seats("empty"); seats != 0 {
		t.Errorf("Expected no seats for a region without votes, got %d", seats)
	}
	if result.Seats.RegionTotal("empty") != 0 {
		t.Errorf("Expected empty region to stay empty, got %d", result.Seats.RegionTotal("empty"))
	}
	if result.Seats.Total() != 30 {
		t.Errorf("Expected 30 seats, got %d", result.Seats.Total())
	}
}

func TestRunLogsStages(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := Run(testutil.SampleElection(), Options{Logger: logger}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"stage=" + StageRegions, "stage=" + StageRegional, "stage=" + StageNational, "stage=" + StageReconcile, "apportionment complete"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected log output to contain %q", want)
		}
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *models.Election)
		missing bool
		stage   string
		field   string
	}{
		{"no seats", func(e *models.Election) { e.SeatTotal = 0 }, false, StageInput, "seat_total"},
		{"threshold above 100", func(e *models.Election) { e.Threshold = 101 }, false, StageInput, "threshold"},
		{"no regions", func(e *models.Election) { e.Regions = nil }, true, StageInput, ""},
		{"no national results", func(e *models.Election) { e.National = nil }, true, StageInput, ""},
		{"duplicate region", func(e *models.Election) { e.Regions = append(e.Regions, e.Regions[0]) }, false, StageInput, "region id"},
		{"party without national result", func(e *models.Election) { e.National = e.National[:5] }, true, StageInput, ""},
		{"unknown party in tally", func(e *models.Election) {
			e.Tallies[0].Votes = append(e.Tallies[0].Votes, models.PartyVotes{Party: "zz", Votes: 1})
		}, false, StageInput, "tally party"},
		{"negative regional votes", func(e *models.Election) { e.Tallies[1].Votes[0].Votes = -1 }, false, StageInput, "votes"},
		{"unknown tally region", func(e *models.Election) { e.Tallies[0].Region = "west" }, false, StageInput, "tally region"},
		{"region without tally", func(e *models.Election) { e.Tallies = e.Tallies[:2] }, true, StageRegions, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testutil.SampleElection()
			tt.mutate(&e)

			result, err := Run(e, Options{})
			if result != nil {
				t.Error("Expected no partial result")
			}
			if tt.missing {
				var missing *MissingInputError
				if !errors.As(err, &missing) {
					t.Fatalf("Expected MissingInputError, got %v", err)
				}
			} else {
				var malformed *MalformedInputError
				if !errors.As(err, &malformed) {
					t.Fatalf("Expected MalformedInputError, got %v", err)
				}
				if malformed.Field != tt.field {
					t.Errorf("Expected field %q, got %q", tt.field, malformed.Field)
				}
			}
			if StageOf(err) != tt.stage {
				t.Errorf("Expected stage %q, got %q", tt.stage, StageOf(err))
			}
		})
	}
}

func TestRunUnplacedSeats(t *testing.T) {
	// one eligible party, one region and two seats: the quota of
	// round(10/4) = 3 wins 3 seats, trimmed to 2, so this must succeed
	e := models.Election{
		ID: "tiny", SeatTotal: 2, Threshold: 5,
		Regions:  []models.Region{{ID: "r"}},
		Parties:  []models.Party{{ID: "a"}},
		Tallies:  []models.RegionTally{{Region: "r", Votes: models.VoteTally{{Party: "a", Votes: 10}}}},
		National: []models.NationalResult{{Party: "a", Votes: 10, Percent: 100}},
	}
	result, err := Run(e, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Seats.Total() != 2 {
		t.Errorf("Expected 2 seats, got %d", result.Seats.Total())
	}

	// nobody passes the threshold: seats cannot be placed
	e.National[0].Percent = 1
	_, err = Run(e, Options{})
	var total *SeatTotalError
	if !errors.As(err, &total) {
		t.Fatalf("Expected SeatTotalError, got %v", err)
	}
	if total.Want != 2 || total.Got != 0 || total.Stage != StageNational {
		t.Errorf("Unexpected error %+v", total)
	}
}

func TestEligible(t *testing.T) {
	parties := []models.Party{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	national := []models.NationalResult{
		{Party: "c", Percent: 5},
		{Party: "a", Percent: 4.99},
		{Party: "b", Percent: 50},
	}
	got := Eligible(parties, national, 5)
	if !reflect.DeepEqual(got, []models.PartyID{"b", "c"}) {
		t.Errorf("Expected [b c] in party order, got %v", got)
	}
}
