// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apportion

import (
	"errors"
	"fmt"
)

// Pipeline stages, reported on every error
const (
	StageInput     = "input"
	StageRegions   = "region-apportionment"
	StageRegional  = "first-scrutiny"
	StageNational  = "second-scrutiny"
	StageReconcile = "reconciliation"
	StageAggregate = "aggregation"
)

// MissingInputError reports a required region, party, or dataset that is absent
type MissingInputError struct {
	Stage string
	Kind  string // "region", "party", "national", ...
	ID    string
}

func (e *MissingInputError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: missing %s data", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: missing %s data for %q", e.Stage, e.Kind, e.ID)
}

// MalformedInputError reports a value that cannot be used
type MalformedInputError struct {
	Stage  string
	ID     string
	Field  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: malformed %s: %s", e.Stage, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: malformed %s for %q: %s", e.Stage, e.Field, e.ID, e.Reason)
}

// SeatTotalError reports a run that could not allocate exactly the seat total
type SeatTotalError struct {
	Stage string
	Want  int
	Got   int
}

func (e *SeatTotalError) Error() string {
	return fmt.Sprintf("%s: allocated %d seats, want %d", e.Stage, e.Got, e.Want)
}

// StageOf returns the stage recorded on an engine error, or "" for other errors
func StageOf(err error) string {
	var missing *MissingInputError
	var malformed *MalformedInputError
	var total *SeatTotalError
	switch {
	case errors.As(err, &missing):
		return missing.Stage
	case errors.As(err, &malformed):
		return malformed.Stage
	case errors.As(err, &total):
		return total.Stage
	}
	return ""
}
