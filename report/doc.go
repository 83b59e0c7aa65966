// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package report renders a computed allocation for people and spreadsheets.

Text output is a set of tables (regional apportionment, the Region × Party
seat matrix, vote usage, seat prices) drawn with lipgloss; numbers are
grouped with go-humanize and titles coloured with fatih/color when the output
is a terminal:

	report.Write(os.Stdout, election, result)

CSV exports use the same semicolon separator as the published results
tables:

	report.WriteSeatsCSV(f, election, result)
	report.WriteVotesCSV(f, election, result)

WriteJSON writes the full result, including every intermediate stage.
*/
package report
