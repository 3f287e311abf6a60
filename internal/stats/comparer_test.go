package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedLineup Summary

func (f fixedLineup) StatSummary() Summary { return Summary(f) }

func TestNewComparer_Stdev(t *testing.T) {
	scorer := NewScorer([]Category{HomeRuns, ERA}, false)
	league := []Summary{
		{HomeRuns: 8, ERA: 3.0},
		{HomeRuns: 10, ERA: 4.0},
		{HomeRuns: 12, ERA: 5.0},
	}

	c := NewComparer(scorer, Summary{HomeRuns: 9, ERA: 4.5}, league, 0)

	assert.InDelta(t, 2.0, c.stdev[HomeRuns], 1e-9)
	assert.InDelta(t, 1.0, c.stdev[ERA], 1e-9)
	assert.Equal(t, 9.0, c.baseline[HomeRuns])
}

func TestNewComparer_MeanBaselineAndDegenerateStdev(t *testing.T) {
	scorer := NewScorer([]Category{HomeRuns, Saves}, false)
	league := []Summary{
		{HomeRuns: 8, Saves: 2},
		{HomeRuns: 12, Saves: 2},
	}

	c := NewComparer(scorer, nil, league, 0)

	assert.InDelta(t, 10.0, c.baseline[HomeRuns], 1e-9)
	// identical values give a zero deviation which falls back to one
	assert.Equal(t, 1.0, c.stdev[Saves])

	single := NewComparer(scorer, Summary{HomeRuns: 1}, league[:1], 0)
	assert.Equal(t, 1.0, single.stdev[HomeRuns])
}

func TestComputeScore(t *testing.T) {
	scorer := NewScorer([]Category{HomeRuns, ERA}, false)
	league := []Summary{{HomeRuns: 8, ERA: 3}, {HomeRuns: 12, ERA: 5}}
	// stdev: HR = 2.828..., ERA = 1.414...
	c := NewComparer(scorer, Summary{HomeRuns: 10, ERA: 4}, league, 0)

	score := c.ComputeScore(Summary{HomeRuns: 10 + math.Sqrt(8), ERA: 4 - math.Sqrt(2)})

	assert.InDelta(t, 2.0, score, 1e-9)
}

func TestComputeScore_Clamp(t *testing.T) {
	scorer := NewScorer([]Category{HomeRuns, Saves}, false)
	league := []Summary{{HomeRuns: 9, Saves: 1}, {HomeRuns: 11, Saves: 3}}
	c := NewComparer(scorer, Summary{HomeRuns: 10, Saves: 2}, league, 1.5)

	// a huge saves lead is capped while the home run deficit counts fully
	score := c.ComputeScore(Summary{HomeRuns: 10 - math.Sqrt(2), Saves: 100})

	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestComputeScore_MonotonicInHighestBetter(t *testing.T) {
	scorer := NewScorer([]Category{Runs, HomeRuns, WHIP}, false)
	league := []Summary{{Runs: 30, HomeRuns: 8, WHIP: 1.1}, {Runs: 40, HomeRuns: 12, WHIP: 1.3}}
	c := NewComparer(scorer, nil, league, 2)

	prev := math.Inf(-1)
	for hr := 0.0; hr <= 30; hr += 0.5 {
		score := c.ComputeScore(Summary{Runs: 35, HomeRuns: hr, WHIP: 1.2})
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
}

func TestCompareLineups_StrictImprovement(t *testing.T) {
	scorer := NewScorer([]Category{HomeRuns}, false)
	c := NewComparer(scorer, Summary{HomeRuns: 10}, nil, 0)

	c.UpdateScore(fixedLineup{HomeRuns: 10})
	assert.Equal(t, 0.0, c.BestScore())

	assert.False(t, c.CompareLineups(fixedLineup{HomeRuns: 10}), "tie is not an improvement")
	assert.True(t, c.CompareLineups(fixedLineup{HomeRuns: 11}))
	assert.Equal(t, 1.0, c.BestScore())
	assert.False(t, c.CompareLineups(fixedLineup{HomeRuns: 10.5}))
}

func TestCompareScores(t *testing.T) {
	scorer := NewScorer([]Category{HomeRuns, Runs, BattingAverage, ERA, Saves}, false)
	c := NewComparer(scorer, nil, nil, 0)

	left := Summary{HomeRuns: 10.2, Runs: 30, BattingAverage: 0.2671, ERA: 3.5, Saves: 2}
	right := Summary{HomeRuns: 9.9, Runs: 35, BattingAverage: 0.2669, ERA: 3.9, Saves: 2}

	wins, losses, results := c.CompareScores(left, right)

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)
	assert.Equal(t, Tie, results[HomeRuns].Outcome, "10.2 and 9.9 both round to 10")
	assert.Equal(t, Loss, results[Runs].Outcome)
	assert.Equal(t, Tie, results[BattingAverage].Outcome)
	assert.Equal(t, Win, results[ERA].Outcome)
	assert.Equal(t, Tie, results[Saves].Outcome)
	assert.Equal(t, 10.2, results[HomeRuns].Left)
}
