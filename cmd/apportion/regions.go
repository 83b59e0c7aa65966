// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"github.com/spf13/cobra"

	"github.com/danielhkuo/mandates/report"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Print how the seats are split among regions",
	Args:  cobra.NoArgs,
	RunE:  runRegions,
}

func runRegions(cmd *cobra.Command, _ []string) error {
	e, result, err := loadAndRun(cmd)
	if err != nil {
		return err
	}
	return report.WriteRegions(cmd.OutOrStdout(), *e, result)
}
