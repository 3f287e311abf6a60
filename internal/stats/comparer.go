package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Lineup is anything that can summarize its stats, typically a roster.
type Lineup interface {
	StatSummary() Summary
}

type Outcome int

const (
	Tie Outcome = iota
	Win
	Loss
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "W"
	case Loss:
		return "L"
	}
	return "T"
}

type CategoryResult struct {
	Left    float64
	Right   float64
	Outcome Outcome
}

// Comparer scores lineups against a fixed baseline. Each category's
// difference from the baseline is measured in league standard deviations and
// clamped so a single runaway category cannot dominate the total.
type Comparer struct {
	scorer   *Scorer
	baseline Summary
	stdev    Summary
	clamp    float64
	best     float64
}

// NewComparer builds a comparer from the baseline to beat (usually the
// opponent) and a set of league lineups used to derive per-category standard
// deviations. A nil baseline falls back to the league mean. A clamp <= 0
// disables clamping.
func NewComparer(scorer *Scorer, baseline Summary, league []Summary, clamp float64) *Comparer {
	c := &Comparer{
		scorer:   scorer,
		baseline: make(Summary, len(scorer.categories)),
		stdev:    make(Summary, len(scorer.categories)),
		clamp:    clamp,
		best:     math.Inf(-1),
	}
	for _, cat := range scorer.categories {
		values := make([]float64, 0, len(league))
		for _, sum := range league {
			values = append(values, sum[cat])
		}

		sd := 1.0
		if len(values) > 1 {
			if v := stat.StdDev(values, nil); v > 0 && !math.IsNaN(v) {
				sd = v
			}
		}
		c.stdev[cat] = sd

		switch {
		case baseline != nil:
			c.baseline[cat] = baseline[cat]
		case len(values) > 0:
			c.baseline[cat] = stat.Mean(values, nil)
		}
	}
	return c
}

// ComputeScore reduces a summary to a single fitness value. Higher is better.
func (c *Comparer) ComputeScore(sum Summary) float64 {
	score := 0.0
	for _, cat := range c.scorer.categories {
		term := (sum[cat] - c.baseline[cat]) / c.stdev[cat]
		if !cat.IsHighestBetter() {
			term = -term
		}
		if c.clamp > 0 {
			term = math.Max(-c.clamp, math.Min(c.clamp, term))
		}
		score += term
	}
	return score
}

// CompareLineups reports whether the lineup strictly beats the best score
// seen so far, and if so makes it the new best.
func (c *Comparer) CompareLineups(l Lineup) bool {
	score := c.ComputeScore(l.StatSummary())
	if score > c.best {
		c.best = score
		return true
	}
	return false
}

func (c *Comparer) UpdateScore(l Lineup) {
	c.best = c.ComputeScore(l.StatSummary())
}

func (c *Comparer) BestScore() float64 {
	return c.best
}

// CompareScores tallies category wins and losses of left against right.
// Counting stats are compared as whole numbers and ratios to three decimals.
func (c *Comparer) CompareScores(left, right Summary) (int, int, map[Category]CategoryResult) {
	var wins, losses int
	results := make(map[Category]CategoryResult, len(c.scorer.categories))
	for _, cat := range c.scorer.categories {
		l, r := roundForCategory(cat, left[cat]), roundForCategory(cat, right[cat])
		outcome := Tie
		switch {
		case l == r:
		case (l > r) == cat.IsHighestBetter():
			outcome = Win
		default:
			outcome = Loss
		}
		switch outcome {
		case Win:
			wins++
		case Loss:
			losses++
		}
		results[cat] = CategoryResult{Left: left[cat], Right: right[cat], Outcome: outcome}
	}
	return wins, losses, results
}

func roundForCategory(cat Category, v float64) float64 {
	if cat.IsCounting() {
		return math.Round(v)
	}
	return math.Round(v*1000) / 1000
}
