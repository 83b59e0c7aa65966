// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/mandates/models"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrMissingSalt     = errors.New("admin key salt is empty")
)

// NewRunID creates a random identifier for a run
func NewRunID() string {
	return uuid.NewString()
}

// GenerateAdminKey creates an HMAC-based admin key for an election
// This is deterministic and verifiable
func GenerateAdminKey(electionID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(electionID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the election
func ValidateAdminKey(electionID, adminKey, salt string) error {
	if salt == "" {
		return ErrMissingSalt
	}
	expected := GenerateAdminKey(electionID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// InputsHash fingerprints the input of a run.
// Identical elections (same order of regions, parties, and tallies) hash equally.
func InputsHash(e models.Election) (string, error) {
	canonical, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("failed to encode election: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}
