// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Defaults for Czech Chamber of Deputies elections
const (
	DefaultSeatTotal = 200
	DefaultThreshold = 5.0
)

// Apportionment method constants
const (
	MethodTwoScrutiny = "two-scrutiny"
)

// Identifiers

// RegionID is the stable identifier of an electoral region
type RegionID string

// PartyID is the stable identifier of a party or coalition
type PartyID string

// Domain types

type Region struct {
	ID   RegionID `json:"id"`
	Name string   `json:"name"`
}

type Party struct {
	ID    PartyID `json:"id"`
	Name  string  `json:"name"`
	Alias string  `json:"alias,omitempty"`
}

// DisplayName returns the alias when one is set
func (p Party) DisplayName() string {
	if p.Alias != "" {
		return p.Alias
	}
	return p.Name
}

type PartyVotes struct {
	Party PartyID `json:"party"`
	Votes int64   `json:"votes"`
}

// VoteTally is an ordered party → votes mapping for one region or the nation.
// Order is significant: it is the tie-break order of every ranking.
type VoteTally []PartyVotes

// Total returns the sum of all votes in the tally
func (t VoteTally) Total() int64 {
	var sum int64
	for _, pv := range t {
		sum += pv.Votes
	}
	return sum
}

// Votes returns the votes recorded for a party
func (t VoteTally) Votes(id PartyID) (int64, bool) {
	for _, pv := range t {
		if pv.Party == id {
			return pv.Votes, true
		}
	}
	return 0, false
}

type RegionTally struct {
	Region RegionID  `json:"region"`
	Votes  VoteTally `json:"votes"`
}

type NationalResult struct {
	Party   PartyID `json:"party"`
	Votes   int64   `json:"votes"`
	Percent float64 `json:"percent"`
}

// Election is the complete input of one apportionment run
type Election struct {
	ID        string           `json:"id"`
	Name      string           `json:"name,omitempty"`
	SeatTotal int              `json:"seat_total"`
	Threshold float64          `json:"threshold"`
	Regions   []Region         `json:"regions"`
	Parties   []Party          `json:"parties"`
	Tallies   []RegionTally    `json:"tallies"`
	National  []NationalResult `json:"national"`
}

// ApplyDefaults fills an unset seat total and threshold
func (e *Election) ApplyDefaults() {
	if e.SeatTotal == 0 {
		e.SeatTotal = DefaultSeatTotal
	}
	if e.Threshold == 0 {
		e.Threshold = DefaultThreshold
	}
}

// Party looks up a party by identifier
func (e *Election) Party(id PartyID) (Party, bool) {
	for _, p := range e.Parties {
		if p.ID == id {
			return p, true
		}
	}
	return Party{}, false
}

// Region looks up a region by identifier
func (e *Election) Region(id RegionID) (Region, bool) {
	for _, r := range e.Regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

// RegionIDs returns region identifiers in input order
func (e *Election) RegionIDs() []RegionID {
	ids := make([]RegionID, len(e.Regions))
	for i, r := range e.Regions {
		ids[i] = r.ID
	}
	return ids
}

// Seat matrix

// SeatMatrix is a Region × Party table of seat counts.
// Seats is indexed [region][party] following Regions and Parties.
type SeatMatrix struct {
	Regions []RegionID `json:"regions"`
	Parties []PartyID  `json:"parties"`
	Seats   [][]int    `json:"seats"`
}

func NewSeatMatrix(regions []RegionID, parties []PartyID) SeatMatrix {
	seats := make([][]int, len(regions))
	for i := range seats {
		seats[i] = make([]int, len(parties))
	}
	return SeatMatrix{
		Regions: append([]RegionID(nil), regions...),
		Parties: append([]PartyID(nil), parties...),
		Seats:   seats,
	}
}

// Clone returns a deep copy
func (m SeatMatrix) Clone() SeatMatrix {
	c := NewSeatMatrix(m.Regions, m.Parties)
	for i := range m.Seats {
		copy(c.Seats[i], m.Seats[i])
	}
	return c
}

func (m SeatMatrix) RegionIndex(id RegionID) int {
	for i, r := range m.Regions {
		if r == id {
			return i
		}
	}
	return -1
}

func (m SeatMatrix) PartyIndex(id PartyID) int {
	for i, p := range m.Parties {
		if p == id {
			return i
		}
	}
	return -1
}

// Get returns the seats of a party in a region, zero for unknown cells
func (m SeatMatrix) Get(region RegionID, party PartyID) int {
	ri, pi := m.RegionIndex(region), m.PartyIndex(party)
	if ri < 0 || pi < 0 {
		return 0
	}
	return m.Seats[ri][pi]
}

// Add adds n seats to a cell and reports whether the cell exists
func (m SeatMatrix) Add(region RegionID, party PartyID, n int) bool {
	ri, pi := m.RegionIndex(region), m.PartyIndex(party)
	if ri < 0 || pi < 0 {
		return false
	}
	m.Seats[ri][pi] += n
	return true
}

func (m SeatMatrix) RegionTotal(region RegionID) int {
	ri := m.RegionIndex(region)
	if ri < 0 {
		return 0
	}
	sum := 0
	for _, n := range m.Seats[ri] {
		sum += n
	}
	return sum
}

func (m SeatMatrix) PartyTotal(party PartyID) int {
	pi := m.PartyIndex(party)
	if pi < 0 {
		return 0
	}
	sum := 0
	for _, row := range m.Seats {
		sum += row[pi]
	}
	return sum
}

func (m SeatMatrix) Total() int {
	sum := 0
	for _, row := range m.Seats {
		for _, n := range row {
			sum += n
		}
	}
	return sum
}

// Stage outcomes

type RegionSeats struct {
	Region    RegionID `json:"region"`
	Votes     int64    `json:"votes"`
	BaseSeats int      `json:"base_seats"`
	Remainder int64    `json:"remainder"`
	Bonus     int      `json:"bonus"` // negative when seats were withdrawn
	Seats     int      `json:"seats"`
}

type RegionApportionment struct {
	SeatTotal  int           `json:"seat_total"`
	TotalVotes int64         `json:"total_votes"`
	Quota      int64         `json:"quota"`
	Allocated  int           `json:"allocated"`
	Remaining  int           `json:"remaining"`
	Regions    []RegionSeats `json:"regions"`
}

// Seats returns the apportioned seats of a region
func (a RegionApportionment) Seats(id RegionID) (int, bool) {
	for _, r := range a.Regions {
		if r.Region == id {
			return r.Seats, true
		}
	}
	return 0, false
}

type PartyRegionalOutcome struct {
	Party              PartyID `json:"party"`
	Votes              int64   `json:"votes"`
	Seats              int     `json:"seats"`
	CarryRemainder     int64   `json:"carry_remainder"`
	PlacementRemainder int64   `json:"placement_remainder"`
	Withdrawn          int     `json:"withdrawn,omitempty"`
}

type RegionalOutcome struct {
	Region     RegionID               `json:"region"`
	Seats      int                    `json:"seats"`
	TotalVotes int64                  `json:"total_votes"`
	Quota      int64                  `json:"quota"`
	Degenerate bool                   `json:"degenerate"`
	Won        int                    `json:"won"`
	Withdrawn  int                    `json:"withdrawn,omitempty"`
	Parties    []PartyRegionalOutcome `json:"parties"`
}

type PartyNationalOutcome struct {
	Party            PartyID `json:"party"`
	CarryRemainder   int64   `json:"carry_remainder"`
	QuotientSeats    int     `json:"quotient_seats"`
	RankingRemainder int64   `json:"ranking_remainder"`
	RemainderSeats   int     `json:"remainder_seats"`
	Withdrawn        int     `json:"withdrawn"`
	Seats            int     `json:"seats"`
}

type NationalOutcome struct {
	Unallocated int                    `json:"unallocated"`
	PooledQuota int64                  `json:"pooled_quota"`
	Degenerate  bool                   `json:"degenerate"`
	Awarded     int                    `json:"awarded"`
	Unplaced    int                    `json:"unplaced"` // seats left when the party list ran out
	Overflow    int                    `json:"overflow"` // quotient seats beyond the unallocated count
	Parties     []PartyNationalOutcome `json:"parties"`
}

// Seats returns the seats a party won in the second scrutiny
func (n NationalOutcome) Seats(id PartyID) int {
	for _, p := range n.Parties {
		if p.Party == id {
			return p.Seats
		}
	}
	return 0
}

// Placement records one second-scrutiny seat assigned to a region
type Placement struct {
	Party     PartyID  `json:"party"`
	Region    RegionID `json:"region"`
	Remainder int64    `json:"remainder"`
	Pass      int      `json:"pass"`
}

// Summary types

type PartySummary struct {
	Party        PartyID `json:"party"`
	Name         string  `json:"name"`
	Votes        int64   `json:"votes"`
	Percent      float64 `json:"percent"`
	Eligible     bool    `json:"eligible"`
	FirstSeats   int     `json:"first_seats"`
	SecondSeats  int     `json:"second_seats"`
	Seats        int     `json:"seats"`
	UsedFirst    int64   `json:"used_first"`
	UsedSecond   int64   `json:"used_second"`
	Unused       int64   `json:"unused"` // negative when seats overflowed the remainder
	Lost         int64   `json:"lost"`   // votes of a party below the threshold
	VotesPerSeat float64 `json:"votes_per_seat"`
	VoteShare    float64 `json:"vote_share"`
	SeatShare    float64 `json:"seat_share"`
}

// VoteUsage partitions every vote cast in the nation.
// UsedFirst + UsedSecond + LostBelowThreshold + Unused == Total.
type VoteUsage struct {
	Total              int64 `json:"total"`
	UsedFirst          int64 `json:"used_first"`
	UsedSecond         int64 `json:"used_second"`
	LostBelowThreshold int64 `json:"lost_below_threshold"`
	Unused             int64 `json:"unused"`
}

// SeatPrice pairs a quota with the number of seats bought at it
type SeatPrice struct {
	Scrutiny int        `json:"scrutiny"`
	Price    int64      `json:"price"`
	Seats    int        `json:"seats"`
	Regions  []RegionID `json:"regions,omitempty"`
}

// Result is the complete output of an apportionment run
type Result struct {
	Method        string              `json:"method"`
	SeatTotal     int                 `json:"seat_total"`
	Threshold     float64             `json:"threshold"`
	Apportionment RegionApportionment `json:"apportionment"`
	Eligible      []PartyID           `json:"eligible"`
	Regional      []RegionalOutcome   `json:"regional"`
	National      NationalOutcome     `json:"national"`
	Placements    []Placement         `json:"placements"`
	FirstPass     SeatMatrix          `json:"first_pass"`
	Seats         SeatMatrix          `json:"seats"`
	Parties       []PartySummary      `json:"parties"`
	Usage         VoteUsage           `json:"usage"`
	Prices        []SeatPrice         `json:"prices"`
}

// Stored runs

type Run struct {
	ID         string    `json:"id"`
	ElectionID string    `json:"election_id"`
	Method     string    `json:"method"`
	ComputedAt time.Time `json:"computed_at"`
	InputsHash string    `json:"inputs_hash"`
	Election   Election  `json:"election"`
	Result     Result    `json:"result"`
}

type RunSummary struct {
	ID         string    `json:"id"`
	ElectionID string    `json:"election_id"`
	Method     string    `json:"method"`
	ComputedAt time.Time `json:"computed_at"`
	InputsHash string    `json:"inputs_hash"`
	SeatTotal  int       `json:"seat_total"`
}

// Request types

type CreateRunRequest struct {
	Election Election `json:"election"`
}

// Response types

type CreateRunResponse struct {
	RunID      string    `json:"run_id"`
	ElectionID string    `json:"election_id"`
	ComputedAt time.Time `json:"computed_at"`
	InputsHash string    `json:"inputs_hash"`
	Result     Result    `json:"result"`
}

type SeatsResponse struct {
	RunID   string          `json:"run_id"`
	Regions []Region        `json:"regions"`
	Parties []PartySummary  `json:"parties"`
	Rows    []SeatsRow      `json:"rows"`
	Totals  map[PartyID]int `json:"totals"`
	Total   int             `json:"total"`
}

type SeatsRow struct {
	Region RegionID        `json:"region"`
	Name   string          `json:"name"`
	Seats  map[PartyID]int `json:"seats"`
	Total  int             `json:"total"`
}

type VotesResponse struct {
	RunID   string         `json:"run_id"`
	Usage   VoteUsage      `json:"usage"`
	Parties []PartySummary `json:"parties"`
	Prices  []SeatPrice    `json:"prices"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Stage   string `json:"stage,omitempty"`
}
