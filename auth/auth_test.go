// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/danielhkuo/mandates/models"
)

func TestNewRunID(t *testing.T) {
	id1 := NewRunID()
	id2 := NewRunID()

	if _, err := uuid.Parse(id1); err != nil {
		t.Errorf("NewRunID() = %q is not a UUID: %v", id1, err)
	}
	if id1 == id2 {
		t.Error("NewRunID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateAdminKey(t *testing.T) {
	tests := []struct {
		name       string
		electionID string
		salt       string
	}{
		{"standard", "ps2025", "secret-salt"},
		{"empty election id", "", "salt"},
		{"empty salt", "ps2021", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateAdminKey(tt.electionID, tt.salt)

			if key == "" {
				t.Error("GenerateAdminKey() returned empty string")
			}

			// Should be deterministic
			if key != GenerateAdminKey(tt.electionID, tt.salt) {
				t.Error("GenerateAdminKey() is not deterministic")
			}

			if tt.electionID != "" && tt.salt != "" {
				if key == GenerateAdminKey(tt.electionID+"x", tt.salt) {
					t.Error("GenerateAdminKey() produced same key for different election IDs")
				}
			}

			// URL-safe, no padding
			if strings.ContainsAny(key, "+/=") {
				t.Errorf("GenerateAdminKey() = %q contains non URL-safe characters", key)
			}
		})
	}
}

func TestValidateAdminKey(t *testing.T) {
	salt := "test-salt"
	key := GenerateAdminKey("ps2025", salt)

	if err := ValidateAdminKey("ps2025", key, salt); err != nil {
		t.Errorf("ValidateAdminKey() with valid key error = %v", err)
	}

	if err := ValidateAdminKey("ps2021", key, salt); !errors.Is(err, ErrInvalidAdminKey) {
		t.Errorf("ValidateAdminKey() with wrong election = %v, want ErrInvalidAdminKey", err)
	}

	if err := ValidateAdminKey("ps2025", "forged", salt); !errors.Is(err, ErrInvalidAdminKey) {
		t.Errorf("ValidateAdminKey() with forged key = %v, want ErrInvalidAdminKey", err)
	}

	if err := ValidateAdminKey("ps2025", key, ""); !errors.Is(err, ErrMissingSalt) {
		t.Errorf("ValidateAdminKey() with empty salt = %v, want ErrMissingSalt", err)
	}
}

func TestInputsHash(t *testing.T) {
	e := models.Election{
		ID:        "ps2025",
		SeatTotal: 200,
		Threshold: 5,
		Regions:   []models.Region{{ID: "praha", Name: "Praha"}},
		Parties:   []models.Party{{ID: "ano", Name: "ANO 2011", Alias: "ANO"}},
		Tallies: []models.RegionTally{
			{Region: "praha", Votes: models.VoteTally{{Party: "ano", Votes: 1000}}},
		},
		National: []models.NationalResult{{Party: "ano", Votes: 1000, Percent: 100}},
	}

	h1, err := InputsHash(e)
	if err != nil {
		t.Fatalf("InputsHash() error = %v", err)
	}
	if !strings.HasPrefix(h1, "sha256:") || len(h1) != len("sha256:")+64 {
		t.Errorf("InputsHash() = %q, want sha256:<64 hex>", h1)
	}

	h2, _ := InputsHash(e)
	if h1 != h2 {
		t.Error("InputsHash() is not deterministic")
	}

	e.Tallies[0].Votes[0].Votes = 1001
	h3, _ := InputsHash(e)
	if h1 == h3 {
		t.Error("InputsHash() did not change when a vote count changed")
	}
}
