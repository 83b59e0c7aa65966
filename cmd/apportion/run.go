// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/mandates/auth"
	"github.com/danielhkuo/mandates/db"
	"github.com/danielhkuo/mandates/models"
	"github.com/danielhkuo/mandates/report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Allocate the seats and print the full report",
	Args:  cobra.NoArgs,
	RunE:  runRun,
}

func init() {
	runCmd.Flags().String("json", "", "write the full result as JSON to this file")
	runCmd.Flags().String("csv", "", "write seats.csv and votes.csv to this directory")
	runCmd.Flags().String("db", "", "store the run in this database")
	runCmd.Flags().String("db-type", db.TypeSQLite, "database type (sqlite, postgres or pgx)")
}

func runRun(cmd *cobra.Command, _ []string) error {
	e, result, err := loadAndRun(cmd)
	if err != nil {
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), *e, result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if path, _ := cmd.Flags().GetString("json"); path != "" {
		if err := writeFile(path, func(f *os.File) error { return report.WriteJSON(f, result) }); err != nil {
			return err
		}
	}

	if dir, _ := cmd.Flags().GetString("csv"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		err := writeFile(filepath.Join(dir, "seats.csv"), func(f *os.File) error { return report.WriteSeatsCSV(f, *e, result) })
		if err != nil {
			return err
		}
		err = writeFile(filepath.Join(dir, "votes.csv"), func(f *os.File) error { return report.WriteVotesCSV(f, *e, result) })
		if err != nil {
			return err
		}
	}

	if url, _ := cmd.Flags().GetString("db"); url != "" {
		databaseType, _ := cmd.Flags().GetString("db-type")
		runID, err := saveRun(cmd.Context(), databaseType, url, *e, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "stored run %s\n", runID)
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// saveRun stores the result the same way the server does
func saveRun(ctx context.Context, databaseType, url string, e models.Election, result *models.Result) (string, error) {
	conn, err := db.Open(databaseType, url)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if err := db.CreateSchema(conn); err != nil {
		return "", fmt.Errorf("failed to create schema: %w", err)
	}

	hash, err := auth.InputsHash(e)
	if err != nil {
		return "", err
	}
	run := &models.Run{
		ID:         auth.NewRunID(),
		ElectionID: e.ID,
		Method:     result.Method,
		ComputedAt: time.Now().UTC(),
		InputsHash: hash,
		Election:   e,
		Result:     *result,
	}
	if err := db.NewStore(conn, databaseType).SaveRun(ctx, run); err != nil {
		return "", err
	}
	return run.ID, nil
}
