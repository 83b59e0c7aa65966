// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/danielhkuo/mandates/apportion"
)

func TestReadResults(t *testing.T) {
	input := "\ufeffnazev_strany;hlasy_celkem;hlasy_procenta;mandaty_pocet;mandaty_procenta\n" +
		"ANO 2011;1 940 583;34,51;80;40\n" +
		"SPOLU;1 356 141.0;24,11%;52;26\n" +
		";;;;\n" +
		"Přísaha;63 077;1.12;;\n"

	rows, err := ReadResults(strings.NewReader(input), "CR.csv")
	if err != nil {
		t.Fatalf("ReadResults failed: %v", err)
	}

	want := []Row{
		{Name: "ANO 2011", Votes: 1940583, Percent: 34.51, Seats: 80},
		{Name: "SPOLU", Votes: 1356141, Percent: 24.11, Seats: 52},
		{Name: "Přísaha", Votes: 63077, Percent: 1.12},
	}
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(rows))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("Row %d: expected %+v, got %+v", i, want[i], rows[i])
		}
	}
}

func TestReadResultsEnglishHeaders(t *testing.T) {
	input := "party;votes;percent\nA;100;50\nB;100;50\n"
	rows, err := ReadResults(strings.NewReader(input), "x.csv")
	if err != nil {
		t.Fatalf("ReadResults failed: %v", err)
	}
	if len(rows) != 2 || rows[1].Name != "B" || rows[1].Votes != 100 {
		t.Errorf("Unexpected rows: %+v", rows)
	}
}

func TestReadResultsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
		id    string
	}{
		{"empty file", "", "header", "t.csv"},
		{"missing votes column", "nazev_strany;hlasy_procenta\nA;10\n", "header", "t.csv"},
		{"no rows", "nazev_strany;hlasy_celkem;hlasy_procenta\n", "rows", "t.csv"},
		{"negative votes", "nazev_strany;hlasy_celkem;hlasy_procenta\nA;-5;1\n", "votes", "t.csv:2"},
		{"text votes", "nazev_strany;hlasy_celkem;hlasy_procenta\nA;1;1\nB;many;1\n", "votes", "t.csv:3"},
		{"percent over 100", "nazev_strany;hlasy_celkem;hlasy_procenta\nA;5;101\n", "percent", "t.csv:2"},
		{"empty name", "nazev_strany;hlasy_celkem;hlasy_procenta\n;5;1\n", "party name", "t.csv:2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadResults(strings.NewReader(tt.input), "t.csv")
			var malformed *apportion.MalformedInputError
			if !errors.As(err, &malformed) {
				t.Fatalf("Expected MalformedInputError, got %v", err)
			}
			if malformed.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, malformed.Field)
			}
			if malformed.ID != tt.id {
				t.Errorf("Expected id %q, got %q", tt.id, malformed.ID)
			}
			if malformed.Stage != apportion.StageInput {
				t.Errorf("Expected stage %q, got %q", apportion.StageInput, malformed.Stage)
			}
		})
	}
}
