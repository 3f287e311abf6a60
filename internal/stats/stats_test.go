package stats

import (
	"testing"

	"github.com/omarshaarawi/rosterbot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hitter(id int, line models.StatLine) models.Candidate {
	return models.Candidate{
		ID:                id,
		Name:              "Hitter",
		PositionType:      models.Hitter,
		EligiblePositions: []string{"Util"},
		Stats:             line,
		ProjectedGames:    1,
	}
}

func pitcher(id int, line models.StatLine) models.Candidate {
	return models.Candidate{
		ID:                id,
		Name:              "Pitcher",
		PositionType:      models.Pitcher,
		EligiblePositions: []string{"P"},
		Stats:             line,
		ProjectedGames:    1,
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Category
		wantErr  bool
	}{
		{name: "counting stat", input: "HR", expected: HomeRuns},
		{name: "case insensitive", input: "whip", expected: WHIP},
		{name: "espn strikeout label", input: "K", expected: Strikeouts},
		{name: "surrounding space", input: " AVG ", expected: BattingAverage},
		{name: "unknown", input: "QS", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := ParseCategory(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cat)
		})
	}
}

func TestParseCategories_StopsAtFirstInvalid(t *testing.T) {
	_, err := ParseCategories([]string{"R", "HR", "bogus"})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestCategoryMetadata(t *testing.T) {
	assert.True(t, HomeRuns.IsCounting())
	assert.False(t, BattingAverage.IsCounting())
	assert.False(t, ERA.IsCounting())
	assert.False(t, ERA.IsHighestBetter())
	assert.False(t, WHIP.IsHighestBetter())
	assert.True(t, StolenBases.IsHighestBetter())
	assert.Equal(t, models.Pitcher, Saves.PositionType())
	assert.Equal(t, models.Hitter, OnBasePct.PositionType())
	assert.Equal(t, "OBP", OnBasePct.String())
}

func TestSummarize_RatioFromComponents(t *testing.T) {
	scorer := NewScorer([]Category{BattingAverage}, false)
	sum := scorer.Summarize([]models.Candidate{
		hitter(1, models.StatLine{AB: 10, H: 3}),
		hitter(2, models.StatLine{AB: 20, H: 5}),
	})

	assert.InDelta(t, 8.0/30.0, sum[BattingAverage], 1e-9)
	assert.NotEqual(t, 0.275, sum[BattingAverage])
}

func TestSummarize_ZeroDenominator(t *testing.T) {
	scorer := NewScorer([]Category{BattingAverage, ERA, WHIP}, false)
	sum := scorer.Summarize(nil)

	assert.Equal(t, 0.0, sum[BattingAverage])
	assert.Equal(t, 0.0, sum[ERA])
	assert.Equal(t, 0.0, sum[WHIP])
}

func TestSummarize_PitchingRatios(t *testing.T) {
	scorer := NewScorer([]Category{ERA, WHIP, Strikeouts}, false)
	sum := scorer.Summarize([]models.Candidate{
		pitcher(1, models.StatLine{IP: 6, ER: 2, HitsAllowed: 5, WalksAllowed: 1, SO: 7}),
		pitcher(2, models.StatLine{IP: 3, ER: 1, HitsAllowed: 2, WalksAllowed: 1, SO: 4}),
	})

	assert.InDelta(t, 3.0*9/9, sum[ERA], 1e-9)
	assert.InDelta(t, 9.0/9, sum[WHIP], 1e-9)
	assert.Equal(t, 11.0, sum[Strikeouts])
}

func TestSummarize_IgnoresOtherPositionType(t *testing.T) {
	scorer := NewScorer([]Category{HomeRuns, Strikeouts}, false)
	p := pitcher(1, models.StatLine{HR: 4, SO: 10})
	h := hitter(2, models.StatLine{HR: 2, SO: 30})

	sum := scorer.Summarize([]models.Candidate{p, h})

	assert.Equal(t, 2.0, sum[HomeRuns])
	assert.Equal(t, 10.0, sum[Strikeouts])
}

func TestSumStatForCandidate_WeeklySchedule(t *testing.T) {
	scorer := NewScorer([]Category{HomeRuns, Wins}, true)

	h := hitter(1, models.StatLine{HR: 0.25})
	h.ProjectedGames = 6
	assert.InDelta(t, 1.5, scorer.SumStatForCandidate(h, HomeRuns), 1e-9)

	sp := pitcher(2, models.StatLine{W: 0.4})
	sp.ProjectedGames = 6
	sp.ProjectedStarts = 2
	assert.InDelta(t, 0.8, scorer.SumStatForCandidate(sp, Wins), 1e-9)

	raw := NewScorer([]Category{HomeRuns}, false)
	assert.InDelta(t, 0.25, raw.SumStatForCandidate(h, HomeRuns), 1e-9)
}

func TestAccumulator_SplitAndMergeMatchesSummarize(t *testing.T) {
	cats := []Category{Runs, HomeRuns, BattingAverage, OnBasePct, ERA, WHIP, Strikeouts}
	scorer := NewScorer(cats, true)
	players := []models.Candidate{
		hitter(1, models.StatLine{AB: 4.1, H: 1.2, BB: 0.4, R: 0.7, HR: 0.2}),
		hitter(2, models.StatLine{AB: 3.8, H: 0.9, BB: 0.6, R: 0.5, HR: 0.1}),
		pitcher(3, models.StatLine{IP: 6.1, ER: 2.3, HitsAllowed: 5.2, WalksAllowed: 1.9, SO: 6.4}),
		pitcher(4, models.StatLine{IP: 1, ER: 0.4, HitsAllowed: 0.9, WalksAllowed: 0.3, SO: 1.2}),
	}
	players[0].ProjectedGames = 6
	players[1].ProjectedGames = 5
	players[2].ProjectedStarts = 2
	players[3].ProjectedGames = 3

	whole := scorer.Summarize(players)

	left, right := NewAccumulator(scorer), NewAccumulator(scorer)
	for _, p := range players[:2] {
		left.AddPlayer(p)
	}
	for _, p := range players[2:] {
		right.AddPlayer(p)
	}
	left.merge(right)
	merged := left.Summary()

	for _, cat := range cats {
		assert.InDelta(t, whole[cat], merged[cat], 1e-9, "category %s", cat)
	}
}

func TestAccumulator_RemoveRestoresTotals(t *testing.T) {
	scorer := NewScorer([]Category{HomeRuns, BattingAverage}, false)
	a := hitter(1, models.StatLine{AB: 10, H: 3, HR: 1})
	b := hitter(2, models.StatLine{AB: 20, H: 5, HR: 2})

	acc := NewAccumulator(scorer)
	acc.AddPlayer(a)
	before := acc.Summary()

	clone := acc.Clone()
	acc.AddPlayer(b)
	acc.RemovePlayer(b)

	assert.InDelta(t, before[HomeRuns], acc.Summary()[HomeRuns], 1e-9)
	assert.InDelta(t, before[BattingAverage], acc.Summary()[BattingAverage], 1e-9)
	assert.Equal(t, before, clone.Summary())
}
