package espn

import (
	"github.com/omarshaarawi/rosterbot/internal/models"
)

// ESPN baseball stat ids as they appear in the stats map.
const (
	statAB  = "0"
	statH   = "1"
	statHR  = "5"
	statBB  = "10"
	statR   = "20"
	statRBI = "21"
	statSB  = "23"
	statG   = "81"

	statGP           = "32"
	statGS           = "33"
	statOuts         = "34"
	statHitsAllowed  = "37"
	statWalksAllowed = "39"
	statER           = "45"
	statK            = "48"
	statW            = "53"
	statSV           = "57"
	statHLD          = "60"
)

const (
	sourceProjected = 1
	splitSeason     = 0
)

const (
	positionStarter  = 1
	positionReliever = 11
)

var slotLabels = map[int]string{
	0:  "C",
	1:  "1B",
	2:  "2B",
	3:  "3B",
	4:  "SS",
	5:  "OF",
	6:  "2B/SS",
	7:  "1B/3B",
	8:  "LF",
	9:  "CF",
	10: "RF",
	11: "DH",
	12: "Util",
	13: "P",
	14: "SP",
	15: "RP",
	16: models.BenchSlot,
	17: models.InjuredSlot,
}

var proTeams = map[int]string{
	1: "BAL", 2: "BOS", 3: "LAA", 4: "CHW", 5: "CLE", 6: "DET", 7: "KC", 8: "MIL",
	9: "MIN", 10: "NYY", 11: "OAK", 12: "SEA", 13: "TEX", 14: "TOR", 15: "ATL", 16: "CHC",
	17: "CIN", 18: "HOU", 19: "LAD", 20: "WSH", 21: "NYM", 22: "PHI", 23: "PIT", 24: "STL",
	25: "SD", 26: "SF", 27: "COL", 28: "MIA", 29: "ARI", 30: "TB",
}

// Projection controls how season projections become candidate stats. With
// Weekly set, stats are per-game averages and the game counts are the
// expected appearances in one scoring week.
type Projection struct {
	Weekly            bool
	HitterGames       float64
	ReliefAppearances float64
	StarterStarts     float64
}

func slotLabel(slotID int) string {
	if label, ok := slotLabels[slotID]; ok {
		return label
	}
	return "Unknown"
}

func getProTeamString(proTeamID int) string {
	if team, ok := proTeams[proTeamID]; ok {
		return team
	}
	return "FA"
}

func positionType(defaultPositionID int) models.PositionType {
	if defaultPositionID == positionStarter || defaultPositionID == positionReliever {
		return models.Pitcher
	}
	return models.Hitter
}

// eligiblePositions maps ESPN slot ids to labels, dropping bench and IL
// which are never filled by the optimizer.
func eligiblePositions(slots []int) []string {
	out := make([]string, 0, len(slots))
	for _, id := range slots {
		label, ok := slotLabels[id]
		if !ok || label == models.BenchSlot || label == models.InjuredSlot {
			continue
		}
		out = append(out, label)
	}
	return out
}

func projectedStats(stats []models.Stat, seasonID int) map[string]float64 {
	var fallback map[string]float64
	for _, s := range stats {
		if s.StatSourceID != sourceProjected || s.StatSplitTypeID != splitSeason {
			continue
		}
		if s.SeasonID == seasonID {
			return s.Stats
		}
		if fallback == nil {
			fallback = s.Stats
		}
	}
	return fallback
}

func (p Projection) toCandidate(entry models.PlayerPoolEntry, seasonID int) models.Candidate {
	player := entry.Player
	c := models.Candidate{
		ID:                player.ID,
		Name:              player.FullName,
		Team:              getProTeamString(player.ProTeamID),
		PositionType:      positionType(player.DefaultPositionID),
		EligiblePositions: eligiblePositions(player.EligibleSlots),
		Status:            player.InjuryStatus,
		PercentOwned:      player.Ownership.PercentOwned,
	}
	raw := projectedStats(player.Stats, seasonID)
	if c.PositionType == models.Pitcher {
		p.applyPitching(&c, raw)
	} else {
		p.applyHitting(&c, raw)
	}
	return c
}

func (p Projection) applyHitting(c *models.Candidate, raw map[string]float64) {
	games := raw[statG]
	scale := 1.0
	c.ProjectedGames = games
	if p.Weekly {
		scale = perGame(games)
		c.ProjectedGames = p.HitterGames
	}
	c.Stats = models.StatLine{
		AB:  raw[statAB] * scale,
		H:   raw[statH] * scale,
		BB:  raw[statBB] * scale,
		R:   raw[statR] * scale,
		HR:  raw[statHR] * scale,
		RBI: raw[statRBI] * scale,
		SB:  raw[statSB] * scale,
	}
}

// applyPitching treats a pitcher with projected starts as a starter whose
// stats are averaged per start. Everyone else is averaged per appearance.
func (p Projection) applyPitching(c *models.Candidate, raw map[string]float64) {
	appearances, starts := raw[statGP], raw[statGS]
	scale := 1.0
	c.ProjectedGames = appearances
	c.ProjectedStarts = starts
	if p.Weekly {
		if starts > 0 {
			scale = perGame(starts)
			c.ProjectedStarts = p.StarterStarts
			c.ProjectedGames = p.StarterStarts
		} else {
			scale = perGame(appearances)
			c.ProjectedStarts = 0
			c.ProjectedGames = p.ReliefAppearances
		}
	}
	c.Stats = models.StatLine{
		IP:           raw[statOuts] / 3 * scale,
		ER:           raw[statER] * scale,
		HitsAllowed:  raw[statHitsAllowed] * scale,
		WalksAllowed: raw[statWalksAllowed] * scale,
		SO:           raw[statK] * scale,
		SV:           raw[statSV] * scale,
		HLD:          raw[statHLD] * scale,
		W:            raw[statW] * scale,
	}
}

func perGame(games float64) float64 {
	if games <= 0 {
		return 0
	}
	return 1 / games
}
