// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "apportion",
	Short:         "Allocate parliamentary seats from published election results",
	Long:          `apportion splits the seats among regions, runs both scrutinies, and reports the allocation and how the votes were used.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var warn = color.New(color.FgRed, color.Bold)

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(regionsCmd)

	rootCmd.PersistentFlags().StringP("manifest", "m", "election.toml", "election manifest (.toml or .yaml)")
	rootCmd.PersistentFlags().Int("seats", 0, "override the seat total of the manifest")
	rootCmd.PersistentFlags().Float64("threshold", 0, "override the threshold percentage of the manifest")
	rootCmd.PersistentFlags().Bool("debug", false, "trace every allocation stage on stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		warn.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// stageLogger returns the logger handed to the engine
func stageLogger(cmd *cobra.Command) *slog.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
