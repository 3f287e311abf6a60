package models

type LeagueResponse struct {
	ID              int               `json:"id"`
	ScoringPeriodID int               `json:"scoringPeriodId"`
	SeasonID        int               `json:"seasonId"`
	Status          Status            `json:"status"`
	Teams           []Team            `json:"teams"`
	Settings        Settings          `json:"settings"`
	Schedule        []MatchupResponse `json:"schedule"`
}

type Settings struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type Status struct {
	CurrentMatchupPeriod int  `json:"currentMatchupPeriod"`
	FinalScoringPeriod   int  `json:"finalScoringPeriod"`
	FirstScoringPeriod   int  `json:"firstScoringPeriod"`
	IsActive             bool `json:"isActive"`
}

type Team struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbrev"`
	Name         string `json:"name"`
	Roster       Roster `json:"roster"`
}

type Roster struct {
	Entries []RosterEntry `json:"entries"`
}

type MatchupResponse struct {
	ID              int           `json:"id"`
	MatchupPeriodID int           `json:"matchupPeriodId"`
	Away            MatchupTeamID `json:"away"`
	Home            MatchupTeamID `json:"home"`
}

type MatchupTeamID struct {
	TeamID int `json:"teamId"`
}

type RosterEntry struct {
	PlayerPoolEntry PlayerPoolEntry `json:"playerPoolEntry"`
	LineupSlotID    int             `json:"lineupSlotId"`
}

type PlayerCardResponse struct {
	Players []PlayerPoolEntry `json:"players"`
}

type PlayerPoolEntry struct {
	ID       int    `json:"id"`
	OnTeamID int    `json:"onTeamId"`
	Player   Player `json:"player"`
}

type Player struct {
	ID                int       `json:"id"`
	FullName          string    `json:"fullName"`
	DefaultPositionID int       `json:"defaultPositionId"`
	EligibleSlots     []int     `json:"eligibleSlots"`
	ProTeamID         int       `json:"proTeamId"`
	Ownership         Ownership `json:"ownership"`
	Stats             []Stat    `json:"stats"`
	InjuryStatus      string    `json:"injuryStatus"`
}

type Ownership struct {
	PercentOwned float64 `json:"percentOwned"`
}

type Stat struct {
	SeasonID        int                `json:"seasonId"`
	StatSourceID    int                `json:"statSourceId"`
	StatSplitTypeID int                `json:"statSplitTypeId"`
	ScoringPeriodID int                `json:"scoringPeriodId"`
	Stats           map[string]float64 `json:"stats"`
}
