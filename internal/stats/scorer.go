package stats

import (
	"github.com/omarshaarawi/rosterbot/internal/models"
)

// Summary maps each scoring category to its total for a set of candidates.
type Summary map[Category]float64

// rawStat indexes the projected stats the scorer sums. Ratio categories are
// derived from these after summing.
type rawStat int

const (
	rawAB rawStat = iota
	rawH
	rawBB
	rawR
	rawHR
	rawRBI
	rawSB
	rawIP
	rawER
	rawHitsAllowed
	rawWalksAllowed
	rawSO
	rawSV
	rawHLD
	rawW
	numRawStats
)

type totals [numRawStats]float64

func (r rawStat) positionType() models.PositionType {
	if r >= rawIP {
		return models.Pitcher
	}
	return models.Hitter
}

func (r rawStat) value(s models.StatLine) float64 {
	switch r {
	case rawAB:
		return s.AB
	case rawH:
		return s.H
	case rawBB:
		return s.BB
	case rawR:
		return s.R
	case rawHR:
		return s.HR
	case rawRBI:
		return s.RBI
	case rawSB:
		return s.SB
	case rawIP:
		return s.IP
	case rawER:
		return s.ER
	case rawHitsAllowed:
		return s.HitsAllowed
	case rawWalksAllowed:
		return s.WalksAllowed
	case rawSO:
		return s.SO
	case rawSV:
		return s.SV
	case rawHLD:
		return s.HLD
	case rawW:
		return s.W
	}
	panic("stats: unknown raw stat")
}

var countingSource = map[Category]rawStat{
	Runs:         rawR,
	HomeRuns:     rawHR,
	RunsBattedIn: rawRBI,
	StolenBases:  rawSB,
	Wins:         rawW,
	Strikeouts:   rawSO,
	Saves:        rawSV,
	Holds:        rawHLD,
}

// Scorer turns candidate projections into category totals.
type Scorer struct {
	categories        []Category
	useWeeklySchedule bool
}

func NewScorer(categories []Category, useWeeklySchedule bool) *Scorer {
	return &Scorer{
		categories:        append([]Category(nil), categories...),
		useWeeklySchedule: useWeeklySchedule,
	}
}

func (s *Scorer) Categories() []Category {
	return s.categories
}

// contribution is what one candidate adds to a raw stat total. Hitting stats
// only count for hitters and pitching stats only for pitchers.
func (s *Scorer) contribution(c models.Candidate, r rawStat) float64 {
	if r.positionType() != c.PositionType {
		return 0
	}
	v := r.value(c.Stats)
	if !s.useWeeklySchedule {
		return v
	}
	games := c.ProjectedGames
	if c.PositionType == models.Pitcher && c.ProjectedStarts > 0 {
		games = c.ProjectedStarts
	}
	return v * games
}

func (s *Scorer) accumulate(t *totals, c models.Candidate, sign float64) {
	for r := rawStat(0); r < numRawStats; r++ {
		t[r] += sign * s.contribution(c, r)
	}
}

// SumStatForCandidate returns the candidate's contribution to a category.
// For ratio categories this is the candidate's own ratio.
func (s *Scorer) SumStatForCandidate(c models.Candidate, cat Category) float64 {
	var t totals
	s.accumulate(&t, c, 1)
	return categoryValue(cat, &t)
}

// Summarize sums the candidates into one value per scoring category. Ratio
// categories are computed once from the summed components.
func (s *Scorer) Summarize(candidates []models.Candidate) Summary {
	var t totals
	for _, c := range candidates {
		s.accumulate(&t, c, 1)
	}
	return s.summaryFromTotals(&t)
}

func (s *Scorer) summaryFromTotals(t *totals) Summary {
	sum := make(Summary, len(s.categories))
	for _, cat := range s.categories {
		sum[cat] = categoryValue(cat, t)
	}
	return sum
}

func categoryValue(cat Category, t *totals) float64 {
	if r, ok := countingSource[cat]; ok {
		return t[r]
	}
	switch cat {
	case BattingAverage:
		return ratio(t[rawH], t[rawAB])
	case OnBasePct:
		return ratio(t[rawH]+t[rawBB], t[rawAB]+t[rawBB])
	case ERA:
		return ratio(t[rawER]*9, t[rawIP])
	case WHIP:
		return ratio(t[rawWalksAllowed]+t[rawHitsAllowed], t[rawIP])
	}
	panic("stats: no formula for category " + cat.String())
}

func ratio(num, denom float64) float64 {
	if denom == 0 {
		return 0
	}
	return num / denom
}
