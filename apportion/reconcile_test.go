// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apportion

import (
	"errors"
	"reflect"
	"testing"

	"github.com/danielhkuo/mandates/models"
)

func reconcileFixture() (models.SeatMatrix, []models.RegionalOutcome) {
	regions := []models.RegionID{"r1", "r2", "r3"}
	first := models.NewSeatMatrix(regions, []models.PartyID{"a", "b"})
	first.Add("r1", "a", 2)
	first.Add("r3", "b", 1)

	placement := map[models.RegionID][2]int64{"r1": {50, 10}, "r2": {80, 0}, "r3": {80, 5}}
	regional := make([]models.RegionalOutcome, len(regions))
	for i, r := range regions {
		regional[i] = models.RegionalOutcome{Region: r, Parties: []models.PartyRegionalOutcome{
			{Party: "a", PlacementRemainder: placement[r][0]},
			{Party: "b", PlacementRemainder: placement[r][1]},
		}}
	}
	return first, regional
}

func national(seats map[models.PartyID]int) models.NationalOutcome {
	var n models.NationalOutcome
	for _, id := range []models.PartyID{"a", "b"} {
		n.Parties = append(n.Parties, models.PartyNationalOutcome{Party: id, Seats: seats[id]})
		n.Awarded += seats[id]
	}
	return n
}

func TestReconcile(t *testing.T) {
	first, regional := reconcileFixture()
	before := first.Clone()

	final, placements, err := Reconcile(first, regional, national(map[models.PartyID]int{"a": 2, "b": 1}), Options{})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	want := []models.Placement{
		{Party: "a", Region: "r2", Remainder: 80},
		{Party: "a", Region: "r3", Remainder: 80},
		{Party: "b", Region: "r1", Remainder: 10},
	}
	if !reflect.DeepEqual(placements, want) {
		t.Errorf("Expected placements %+v, got %+v", want, placements)
	}

	if final.Get("r1", "a") != 2 || final.Get("r2", "a") != 1 || final.Get("r3", "a") != 1 {
		t.Errorf("Unexpected seats for a: %v", final.Seats)
	}
	if final.Get("r1", "b") != 1 || final.Get("r3", "b") != 1 {
		t.Errorf("Unexpected seats for b: %v", final.Seats)
	}
	if final.Total() != first.Total()+3 {
		t.Errorf("Expected %d seats, got %d", first.Total()+3, final.Total())
	}
	if !reflect.DeepEqual(first, before) {
		t.Error("Reconcile modified the first-pass matrix")
	}
}

func TestReconcileMoreSeatsThanRegions(t *testing.T) {
	first, regional := reconcileFixture()

	_, placements, err := Reconcile(first, regional, national(map[models.PartyID]int{"a": 4}), Options{})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	wantRegions := []models.RegionID{"r2", "r3", "r1", "r2"}
	wantPasses := []int{0, 0, 0, 1}
	if len(placements) != len(wantRegions) {
		t.Fatalf("Expected %d placements, got %d", len(wantRegions), len(placements))
	}
	for i, p := range placements {
		if p.Region != wantRegions[i] || p.Pass != wantPasses[i] {
			t.Errorf("Placement %d: expected %s pass %d, got %s pass %d", i, wantRegions[i], wantPasses[i], p.Region, p.Pass)
		}
	}
}

func TestReconcileErrors(t *testing.T) {
	first, regional := reconcileFixture()

	_, _, err := Reconcile(first, nil, national(map[models.PartyID]int{"a": 1}), Options{})
	var missing *MissingInputError
	if !errors.As(err, &missing) || missing.Kind != "region" {
		t.Errorf("Expected missing region, got %v", err)
	}

	stray := models.NationalOutcome{Parties: []models.PartyNationalOutcome{{Party: "zz", Seats: 1}}}
	_, _, err = Reconcile(first, regional, stray, Options{})
	if !errors.As(err, &missing) || missing.ID != "zz" || missing.Stage != StageReconcile {
		t.Errorf("Expected missing party zz, got %v", err)
	}
}
