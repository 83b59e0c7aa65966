// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/danielhkuo/mandates/models"
)

var (
	title   = color.New(color.FgCyan, color.Bold)
	warning = color.New(color.FgYellow)

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

// Write renders every section of the report
func Write(w io.Writer, e models.Election, r *models.Result) error {
	sections := []func(io.Writer, models.Election, *models.Result) error{
		WriteRegions, WriteSeats, WriteVotes, WritePrices,
	}
	for i, section := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := section(w, e, r); err != nil {
			return err
		}
	}
	return nil
}

// WriteRegions renders how the seats were split among regions
func WriteRegions(w io.Writer, e models.Election, r *models.Result) error {
	a := r.Apportionment
	title.Fprintf(w, "Regional apportionment (%d seats, quota %s)\n", a.SeatTotal, humanize.Comma(a.Quota))

	rows := make([][]string, 0, len(a.Regions)+1)
	for _, rs := range a.Regions {
		rows = append(rows, []string{
			regionName(e, rs.Region),
			humanize.Comma(rs.Votes),
			strconv.Itoa(rs.BaseSeats),
			humanize.Comma(rs.Remainder),
			fmt.Sprintf("%+d", rs.Bonus),
			strconv.Itoa(rs.Seats),
		})
	}
	rows = append(rows, []string{"Total", humanize.Comma(a.TotalVotes), strconv.Itoa(a.Allocated), "", fmt.Sprintf("%+d", a.Remaining), strconv.Itoa(a.SeatTotal)})

	return render(w, []string{"Region", "Votes", "Base", "Remainder", "Bonus", "Seats"}, rows)
}

// WriteSeats renders the final Region × Party matrix with totals
func WriteSeats(w io.Writer, e models.Election, r *models.Result) error {
	m := r.Seats
	title.Fprintf(w, "Seats (%d, threshold %s%%)\n", m.Total(), strconv.FormatFloat(r.Threshold, 'f', -1, 64))

	headers := []string{"Region"}
	for _, p := range m.Parties {
		headers = append(headers, partyName(e, p))
	}
	headers = append(headers, "Total")

	rows := make([][]string, 0, len(m.Regions)+1)
	for ri, region := range m.Regions {
		row := []string{regionName(e, region)}
		for pi := range m.Parties {
			row = append(row, strconv.Itoa(m.Seats[ri][pi]))
		}
		row = append(row, strconv.Itoa(m.RegionTotal(region)))
		rows = append(rows, row)
	}
	totals := []string{"Total"}
	for _, p := range m.Parties {
		totals = append(totals, strconv.Itoa(m.PartyTotal(p)))
	}
	totals = append(totals, strconv.Itoa(m.Total()))
	rows = append(rows, totals)

	if err := render(w, headers, rows); err != nil {
		return err
	}

	if n := r.National; n.Overflow > 0 {
		warning.Fprintf(w, "%d quotient seats exceeded the second scrutiny and were withdrawn\n", n.Overflow)
	}
	for _, ro := range r.Regional {
		if ro.Withdrawn > 0 {
			warning.Fprintf(w, "%s: %d first-scrutiny seats withdrawn\n", regionName(e, ro.Region), ro.Withdrawn)
		}
	}
	return nil
}

// WriteVotes renders how each party's votes were used
func WriteVotes(w io.Writer, e models.Election, r *models.Result) error {
	title.Fprintln(w, "Vote usage")

	rows := make([][]string, 0, len(r.Parties)+1)
	for _, ps := range r.Parties {
		row := []string{
			ps.Name,
			humanize.Comma(ps.Votes),
			fmt.Sprintf("%.2f", ps.Percent),
			strconv.Itoa(ps.Seats),
		}
		if ps.Eligible {
			row = append(row,
				humanize.Comma(ps.UsedFirst),
				humanize.Comma(ps.UsedSecond),
				humanize.Comma(ps.Unused),
				"",
			)
		} else {
			row = append(row, "", "", "", humanize.Comma(ps.Lost))
		}
		if ps.Seats > 0 {
			row = append(row, humanize.CommafWithDigits(ps.VotesPerSeat, 0))
		} else {
			row = append(row, "")
		}
		rows = append(rows, row)
	}
	u := r.Usage
	rows = append(rows, []string{
		"Total", humanize.Comma(u.Total), "", strconv.Itoa(r.Seats.Total()),
		humanize.Comma(u.UsedFirst), humanize.Comma(u.UsedSecond),
		humanize.Comma(u.Unused), humanize.Comma(u.LostBelowThreshold), "",
	})

	headers := []string{"Party", "Votes", "%", "Seats", "Used (1st)", "Used (2nd)", "Unused", "Lost", "Votes/seat"}
	if err := render(w, headers, rows); err != nil {
		return err
	}

	if u.Total > 0 {
		_, err := fmt.Fprintf(w, "Votes without a seat: %s (%.2f%% of %s)\n",
			humanize.Comma(u.Unused+u.LostBelowThreshold),
			100*float64(u.Unused+u.LostBelowThreshold)/float64(u.Total),
			humanize.Comma(u.Total))
		return err
	}
	return nil
}

// WritePrices renders the number of votes one seat cost in each scrutiny
func WritePrices(w io.Writer, e models.Election, r *models.Result) error {
	title.Fprintln(w, "Seat prices")

	rows := make([][]string, 0, len(r.Prices))
	for _, sp := range r.Prices {
		where := "national pool"
		if sp.Scrutiny == 1 {
			where = ""
			for i, id := range sp.Regions {
				if i > 0 {
					where += ", "
				}
				where += regionName(e, id)
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(sp.Scrutiny),
			humanize.Comma(sp.Price),
			strconv.Itoa(sp.Seats),
			where,
		})
	}
	return render(w, []string{"Scrutiny", "Price", "Seats", "Regions"}, rows)
}

func render(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			}
			return numberStyle
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func regionName(e models.Election, id models.RegionID) string {
	if r, ok := e.Region(id); ok && r.Name != "" {
		return r.Name
	}
	return string(id)
}

func partyName(e models.Election, id models.PartyID) string {
	if p, ok := e.Party(id); ok && p.DisplayName() != "" {
		return p.DisplayName()
	}
	return string(id)
}
