// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/danielhkuo/mandates/apportion"
)

// Row is one party line of a published results table
type Row struct {
	Name    string
	Votes   int64
	Percent float64
	// Seats is the published seat count; it is never used for computation.
	Seats int
}

// Column names of the results tables, with English alternatives
var (
	nameColumns    = []string{"nazev_strany", "party"}
	votesColumns   = []string{"hlasy_celkem", "votes"}
	percentColumns = []string{"hlasy_procenta", "percent"}
	seatsColumns   = []string{"mandaty_pocet", "seats"}
)

// ReadResults parses a semicolon separated results table.
// source names the table in errors (usually its file name).
func ReadResults(r io.Reader, source string) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &apportion.MalformedInputError{Stage: apportion.StageInput, ID: source, Field: "header", Reason: "empty file"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", source, err)
	}

	index := mapHeaders(header)
	nameCol, votesCol := findColumn(index, nameColumns), findColumn(index, votesColumns)
	percentCol, seatsCol := findColumn(index, percentColumns), findColumn(index, seatsColumns)
	if nameCol < 0 || votesCol < 0 || percentCol < 0 {
		return nil, &apportion.MalformedInputError{
			Stage: apportion.StageInput, ID: source, Field: "header",
			Reason: fmt.Sprintf("need columns %s, %s and %s", nameColumns[0], votesColumns[0], percentColumns[0]),
		}
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read %s line %d: %w", source, line, err)
		}
		if isBlank(record) {
			continue
		}

		at := fmt.Sprintf("%s:%d", source, line)
		name := field(record, nameCol)
		if name == "" {
			return nil, &apportion.MalformedInputError{Stage: apportion.StageInput, ID: at, Field: "party name", Reason: "empty"}
		}

		votes, err := parseVotes(field(record, votesCol))
		if err != nil {
			return nil, &apportion.MalformedInputError{Stage: apportion.StageInput, ID: at, Field: "votes", Reason: err.Error()}
		}
		percent, err := parsePercent(field(record, percentCol))
		if err != nil {
			return nil, &apportion.MalformedInputError{Stage: apportion.StageInput, ID: at, Field: "percent", Reason: err.Error()}
		}

		row := Row{Name: name, Votes: votes, Percent: percent}
		if seatsCol >= 0 {
			if s := field(record, seatsCol); s != "" {
				// published seats are informational only
				row.Seats, _ = strconv.Atoi(s)
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &apportion.MalformedInputError{Stage: apportion.StageInput, ID: source, Field: "rows", Reason: "no party rows"}
	}
	return rows, nil
}

func mapHeaders(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}

func findColumn(index map[string]int, names []string) int {
	for _, n := range names {
		if i, ok := index[n]; ok {
			return i
		}
	}
	return -1
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseVotes accepts plain integers, thousands separated by spaces, and a
// trailing ".0" left by spreadsheet exports
func parseVotes(s string) (int64, error) {
	s = strings.NewReplacer(" ", "", "\u00a0", "").Replace(s)
	s = strings.TrimSuffix(s, ".0")
	if s == "" {
		return 0, errors.New("empty vote count")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a vote count", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative vote count %d", v)
	}
	return v, nil
}

// parsePercent accepts a decimal point or comma
func parsePercent(s string) (float64, error) {
	s = strings.TrimSuffix(strings.ReplaceAll(s, ",", "."), "%")
	if s == "" {
		return 0, errors.New("empty percentage")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a percentage", s)
	}
	if math.IsNaN(v) || v < 0 || v > 100 {
		return 0, fmt.Errorf("%v is outside [0, 100]", v)
	}
	return v, nil
}
