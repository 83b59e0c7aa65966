// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain, result, request, and response types
shared by the apportionment engine, the run store, and the API.

# Identifiers

RegionID and PartyID are stable identifiers resolved once when input is
parsed. All computation is keyed by them; display names (Region.Name,
Party.Alias) are only used at the reporting boundary.

# Input Types

  - Election: seat total, threshold, ordered regions and parties,
    per-region tallies and the national results
  - VoteTally: ordered party → votes mapping (order is the tie-break order)
  - NationalResult: national votes and percentage of a party

# Stage Outcomes

  - RegionApportionment: seats per region by turnout
  - RegionalOutcome: first scrutiny in one region (quota, seats,
    carry and placement remainders)
  - NationalOutcome: second scrutiny (pooled quota, seats, unplaced and
    overflow counts)
  - Placement: one second-scrutiny seat mapped back to a region

# Result Types

  - SeatMatrix: Region × Party seats
  - PartySummary: per-party seats, vote usage and efficiency
  - VoteUsage: four-way partition of every vote cast
  - SeatPrice: quota paired with the seats bought at it
  - Result: everything above for one run
  - Run: a stored Result with its input and inputs hash

# Constants

	DefaultSeatTotal  = 200
	DefaultThreshold  = 5.0
	MethodTwoScrutiny = "two-scrutiny"
*/
package models
