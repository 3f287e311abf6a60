package models

import (
	"slices"
	"strings"
	"time"
)

type PositionType int

const (
	Hitter PositionType = iota
	Pitcher
)

func (p PositionType) String() string {
	if p == Pitcher {
		return "P"
	}
	return "B"
}

// StatLine holds a candidate's projected stats. With a weekly schedule these
// are per-game averages, otherwise season totals. Zero means missing.
type StatLine struct {
	// Hitting
	AB  float64
	H   float64
	BB  float64
	R   float64
	HR  float64
	RBI float64
	SB  float64

	// Pitching
	IP           float64
	ER           float64
	HitsAllowed  float64
	WalksAllowed float64
	SO           float64
	SV           float64
	HLD          float64
	W            float64
}

// Candidate is a player that can be placed on a roster. Candidates are
// values; the position a candidate occupies lives in the roster holding it.
type Candidate struct {
	ID                int
	Name              string
	Team              string
	PositionType      PositionType
	EligiblePositions []string
	Stats             StatLine
	ProjectedGames    float64
	ProjectedStarts   float64
	Status            string
	PercentOwned      float64
}

func (c Candidate) IsAvailable() bool {
	return c.Status == "" || c.Status == "ACTIVE"
}

// IsInjured reports whether the player is on the injured list and may fill
// an IL slot.
func (c Candidate) IsInjured() bool {
	return strings.HasSuffix(c.Status, "_DL") || c.Status == "OUT"
}

func (c Candidate) IsEligible(pos string) bool {
	return slices.Contains(c.EligiblePositions, pos)
}

// Placement is a candidate together with the position it was selected for.
type Placement struct {
	Candidate
	Position string
}

type LeagueMetadata struct {
	LeagueID             int
	Name                 string
	CurrentWeek          int
	CurrentScoringPeriod int
	SeasonID             int
	FirstWeek            int
	LastWeek             int
	IsActive             bool
	LastUpdated          time.Time
}

const (
	BenchSlot   = "BE"
	InjuredSlot = "IL"
)

// TeamRoster is a fantasy team's players with the lineup slot each one
// currently fills.
type TeamRoster struct {
	TeamID  int
	Name    string
	Players []Placement
}

func (t TeamRoster) Candidates() []Candidate {
	out := make([]Candidate, len(t.Players))
	for i, p := range t.Players {
		out[i] = p.Candidate
	}
	return out
}

// Starters returns the players not on the bench or injured list.
func (t TeamRoster) Starters() []Candidate {
	var out []Candidate
	for _, p := range t.Players {
		if p.Position != BenchSlot && p.Position != InjuredSlot {
			out = append(out, p.Candidate)
		}
	}
	return out
}
