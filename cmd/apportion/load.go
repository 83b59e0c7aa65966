// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"github.com/spf13/cobra"

	"github.com/danielhkuo/mandates/apportion"
	"github.com/danielhkuo/mandates/ingest"
	"github.com/danielhkuo/mandates/models"
)

// loadAndRun reads the election named by --manifest and allocates its seats
func loadAndRun(cmd *cobra.Command) (*models.Election, *models.Result, error) {
	path, _ := cmd.Flags().GetString("manifest")
	m, err := ingest.LoadManifest(path)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("seats") {
		m.SeatTotal, _ = cmd.Flags().GetInt("seats")
	}
	if cmd.Flags().Changed("threshold") {
		m.Threshold, _ = cmd.Flags().GetFloat64("threshold")
	}

	e, err := ingest.LoadElection(cmd.Context(), m)
	if err != nil {
		return nil, nil, err
	}

	logger := stageLogger(cmd)
	logger.Debug("election loaded", "election_id", e.ID, "regions", len(e.Regions), "parties", len(e.Parties))

	result, err := apportion.Run(*e, apportion.Options{Logger: logger})
	if err != nil {
		return nil, nil, err
	}
	return e, result, nil
}
