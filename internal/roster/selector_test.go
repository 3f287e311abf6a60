package roster

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/omarshaarawi/rosterbot/internal/models"
	"github.com/omarshaarawi/rosterbot/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selected(s *Selector) []int {
	var ids []int
	for c := range s.Select() {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestSelector_Rank(t *testing.T) {
	scorer := stats.NewScorer([]stats.Category{stats.HomeRuns, stats.ERA}, false)
	pool := []models.Candidate{
		{ID: 1, PositionType: models.Hitter, Stats: models.StatLine{HR: 5}},
		{ID: 2, PositionType: models.Hitter, Stats: models.StatLine{HR: 20}},
		{ID: 3, PositionType: models.Pitcher, Stats: models.StatLine{IP: 9, ER: 2}},
		{ID: 4, PositionType: models.Pitcher, Stats: models.StatLine{IP: 9, ER: 6}},
	}
	s := NewSelector(pool)

	s.Rank(scorer, scorer.Categories())

	// HR ranks: 1->3, 2->4, pitchers tie at 1.5
	// ERA ranks (low is better): 4->1, 3->2, hitters tie at 0 ERA and get 3.5
	// totals: 1=6.5 2=7.5 3=3.5 4=2.5
	assert.Equal(t, []int{2, 1, 3, 4}, selected(s))
}

func TestSelector_RankByNames(t *testing.T) {
	scorer := stats.NewScorer([]stats.Category{stats.Saves}, false)
	s := NewSelector([]models.Candidate{
		{ID: 1, PositionType: models.Pitcher, Stats: models.StatLine{SV: 1}},
		{ID: 2, PositionType: models.Pitcher, Stats: models.StatLine{SV: 3}},
	})

	require.NoError(t, s.RankByNames(scorer, []string{"sv"}))
	assert.Equal(t, []int{2, 1}, selected(s))

	assert.ErrorIs(t, s.RankByNames(scorer, []string{"XBH"}), stats.ErrInvalidCategory)
}

func TestSelector_RankByOwnership(t *testing.T) {
	pool := []models.Candidate{
		{ID: 1, PercentOwned: 12},
		{ID: 2, PercentOwned: 98},
		{ID: 3, PercentOwned: 45},
	}
	s := NewSelector(pool)

	s.RankByOwnership()

	assert.Equal(t, []int{2, 3, 1}, selected(s))
	assert.Equal(t, 1, pool[0].ID, "selector must not reorder the caller's slice")
}

func TestSelector_ShuffleKeepsEveryone(t *testing.T) {
	var pool []models.Candidate
	for id := range 20 {
		pool = append(pool, models.Candidate{ID: id})
	}
	s := NewSelector(pool)

	s.Shuffle(rand.New(rand.NewSource(1)))

	ids := selected(s)
	slices.Sort(ids)
	assert.Len(t, ids, 20)
	assert.Equal(t, 0, ids[0])
	assert.Equal(t, 19, ids[19])
}
