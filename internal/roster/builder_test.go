package roster

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/omarshaarawi/rosterbot/internal/models"
	"github.com/omarshaarawi/rosterbot/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testScorer = stats.NewScorer([]stats.Category{stats.HomeRuns, stats.BattingAverage}, false)

func player(id int, positions ...string) models.Candidate {
	return models.Candidate{
		ID:                id,
		Name:              fmt.Sprintf("Player %d", id),
		EligiblePositions: positions,
		Stats:             models.StatLine{AB: 10, H: float64(id % 4), HR: float64(id)},
	}
}

func positionOf(t *testing.T, r *Container, id int) string {
	t.Helper()
	i := r.IndexOf(id)
	require.GreaterOrEqual(t, i, 0, "player %d not on roster", id)
	return r.Players()[i].Position
}

func assertCapacity(t *testing.T, b *Builder, r *Container) {
	t.Helper()
	counts := make(map[string]int)
	for _, p := range r.Players() {
		counts[p.Position]++
		assert.True(t, p.IsEligible(p.Position), "%s placed at ineligible %s", p.Name, p.Position)
	}
	for pos, n := range counts {
		assert.LessOrEqual(t, n, b.Capacity(pos), "position %s over capacity", pos)
		assert.Equal(t, n, r.NumPlayersAtPosition(pos))
	}
}

func TestFitIfSpace_FirstListedPosition(t *testing.T) {
	b := NewBuilder([]string{"C", "1B"}, nil)
	r := NewContainer(testScorer)

	_, err := b.FitIfSpace(r, player(1, "C", "1B"))
	require.NoError(t, err)
	assert.Equal(t, "C", positionOf(t, r, 1))

	_, err = b.FitIfSpace(r, player(2, "C", "1B"))
	require.NoError(t, err)
	assert.Equal(t, "1B", positionOf(t, r, 2))
	assert.True(t, b.IsFull(r))
}

func TestFitIfSpace_DisplacesToOpenPosition(t *testing.T) {
	b := NewBuilder([]string{"C", "1B"}, nil)
	r := NewContainer(testScorer)
	r.AddPlayer(player(1, "C", "1B"), "C")

	got, err := b.FitIfSpace(r, player(2, "C"))
	require.NoError(t, err)

	assert.Same(t, r, got)
	assert.Equal(t, "1B", positionOf(t, r, 1))
	assert.Equal(t, "C", positionOf(t, r, 2))
	assertCapacity(t, b, r)
}

func TestFitIfSpace_ClosedCycleHasNoSpace(t *testing.T) {
	b := NewBuilder([]string{"1B", "3B", "LF"}, nil)
	r := NewContainer(testScorer)
	r.AddPlayer(player(1, "1B", "3B"), "1B")
	r.AddPlayer(player(2, "3B", "LF"), "3B")
	r.AddPlayer(player(3, "LF", "1B"), "LF")
	before := r.Players()
	beforeSummary := r.StatSummary()

	got, err := b.FitIfSpace(r, player(4, "1B"))

	assert.ErrorIs(t, err, ErrNoSpace)
	assert.Nil(t, got)
	assert.Equal(t, before, r.Players())
	assert.Equal(t, beforeSummary, r.StatSummary())
}

func TestFitIfSpace_PrefersEmptySecondaryPosition(t *testing.T) {
	positions := []string{"SP", "SP", "SP", "SP", "SP", "RP", "RP"}
	b := NewBuilder(positions, nil)
	r := NewContainer(testScorer)
	for id := 1; id <= 5; id++ {
		_, err := b.FitIfSpace(r, player(id, "SP"))
		require.NoError(t, err)
	}

	_, err := b.FitIfSpace(r, player(6, "SP", "RP"))
	require.NoError(t, err)

	assert.Equal(t, "RP", positionOf(t, r, 6))
	assert.Equal(t, 5, r.NumPlayersAtPosition("SP"))
}

func TestFitIfSpace_MultiStepChain(t *testing.T) {
	b := NewBuilder([]string{"C", "1B", "2B"}, nil)
	r := NewContainer(testScorer)
	r.AddPlayer(player(1, "C", "1B"), "C")
	r.AddPlayer(player(2, "1B", "2B"), "1B")

	_, err := b.FitIfSpace(r, player(3, "C"))
	require.NoError(t, err)

	assert.Equal(t, "C", positionOf(t, r, 3))
	assert.Equal(t, "1B", positionOf(t, r, 1))
	assert.Equal(t, "2B", positionOf(t, r, 2))
}

func TestFitIfSpace_UntrackedPositionIsNeverOpen(t *testing.T) {
	b := NewBuilder([]string{"C"}, nil)
	r := NewContainer(testScorer)

	_, err := b.FitIfSpace(r, player(1, "IL"))

	assert.ErrorIs(t, err, ErrNoSpace)
	assert.Equal(t, 0, r.Len())
}

func TestFitIfSpace_AlreadyPlaced(t *testing.T) {
	b := NewBuilder([]string{"C", "1B"}, nil)
	r := NewContainer(testScorer)
	p := player(1, "C", "1B")
	_, err := b.FitIfSpace(r, p)
	require.NoError(t, err)

	_, err = b.FitIfSpace(r, p)
	assert.ErrorIs(t, err, ErrAlreadyPlaced)
	assert.Equal(t, 1, r.Len())
}

func TestFitIfSpace_RandomizedInvariants(t *testing.T) {
	positions := []string{"C", "1B", "2B", "SS", "3B", "LF", "CF", "RF", "Util", "Util"}
	labels := []string{"C", "1B", "2B", "SS", "3B", "LF", "CF", "RF", "Util", "IL"}
	b := NewBuilder(positions, nil)
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		r := NewContainer(testScorer)
		for id := 1; id <= 40; id++ {
			n := 1 + rng.Intn(3)
			eligible := make([]string, 0, n)
			for len(eligible) < n {
				l := labels[rng.Intn(len(labels))]
				if !slices.Contains(eligible, l) {
					eligible = append(eligible, l)
				}
			}
			cand := player(id, eligible...)

			size := r.Len()
			before := r.Players()
			_, err := b.FitIfSpace(r, cand)
			if err != nil {
				require.ErrorIs(t, err, ErrNoSpace)
				assert.Equal(t, before, r.Players())
				continue
			}
			assert.Equal(t, size+1, r.Len())
			assert.Contains(t, cand.EligiblePositions, positionOf(t, r, id))
			assertCapacity(t, b, r)
		}
	}
}

func TestEnumerateFit(t *testing.T) {
	b := NewBuilder([]string{"C", "1B", "2B"}, nil)
	r := NewContainer(testScorer)
	r.AddPlayer(player(1, "C", "1B"), "C")
	r.AddPlayer(player(2, "1B"), "1B")
	r.AddPlayer(player(3, "2B"), "2B")
	before := r.Players()

	var results [][]int
	for alt := range b.EnumerateFit(r, player(4, "C")) {
		assert.Equal(t, 3, alt.Len())
		assertCapacity(t, b, alt)
		results = append(results, alt.IDs())
	}

	// benching 2 lets 1 slide over to 1B; benching 3 opens nothing reachable
	assert.Equal(t, [][]int{{2, 3, 4}, {1, 3, 4}}, results)
	assert.Equal(t, before, r.Players(), "input roster must not change")
}

func TestEnumerateFit_EmptyRoster(t *testing.T) {
	b := NewBuilder([]string{"C"}, nil)
	r := NewContainer(testScorer)

	count := 0
	for range b.EnumerateFit(r, player(1, "C")) {
		count++
	}
	assert.Zero(t, count)

	untracked := NewBuilder(nil, nil)
	for range untracked.EnumerateFit(r, player(1, "C")) {
		count++
	}
	assert.Zero(t, count)
}

func TestEnumerateFit_StopsEarly(t *testing.T) {
	b := NewBuilder([]string{"Util", "Util", "Util"}, nil)
	r := NewContainer(testScorer)
	for id := 1; id <= 3; id++ {
		_, err := b.FitIfSpace(r, player(id, "Util"))
		require.NoError(t, err)
	}

	count := 0
	for range b.EnumerateFit(r, player(9, "Util")) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
