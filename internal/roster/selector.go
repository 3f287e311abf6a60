package roster

import (
	"iter"
	"math/rand"
	"slices"
	"sort"

	"github.com/omarshaarawi/rosterbot/internal/models"
	"github.com/omarshaarawi/rosterbot/internal/stats"
)

// Selector iterates over a pool of candidates in a chosen order: ranked by
// stat categories, by ownership, or shuffled.
type Selector struct {
	pool []models.Candidate
	rank []float64
}

func NewSelector(pool []models.Candidate) *Selector {
	return &Selector{
		pool: slices.Clone(pool),
		rank: make([]float64, len(pool)),
	}
}

// Rank orders the pool by the sum of each candidate's rank in every
// category. A higher rank is better; lower-is-better categories are ranked
// in reverse.
func (s *Selector) Rank(scorer *stats.Scorer, categories []stats.Category) {
	clear(s.rank)
	values := make([]float64, len(s.pool))
	for _, cat := range categories {
		for i, c := range s.pool {
			values[i] = scorer.SumStatForCandidate(c, cat)
		}
		s.addRanks(values, !cat.IsHighestBetter())
	}
	s.sortByRank()
}

func (s *Selector) RankByNames(scorer *stats.Scorer, names []string) error {
	cats, err := stats.ParseCategories(names)
	if err != nil {
		return err
	}
	s.Rank(scorer, cats)
	return nil
}

// RankByOwnership puts the most owned players first.
func (s *Selector) RankByOwnership() {
	clear(s.rank)
	values := make([]float64, len(s.pool))
	for i, c := range s.pool {
		values[i] = c.PercentOwned
	}
	s.addRanks(values, false)
	s.sortByRank()
}

func (s *Selector) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(s.pool), func(i, j int) {
		s.pool[i], s.pool[j] = s.pool[j], s.pool[i]
		s.rank[i], s.rank[j] = s.rank[j], s.rank[i]
	})
}

// Select yields the candidates in the current order.
func (s *Selector) Select() iter.Seq[models.Candidate] {
	return func(yield func(models.Candidate) bool) {
		for _, c := range s.pool {
			if !yield(c) {
				return
			}
		}
	}
}

// addRanks adds each value's average rank (1 = lowest) to the running rank.
// When reverse is set the lowest value gets the highest rank.
func (s *Selector) addRanks(values []float64, reverse bool) {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if reverse {
			return values[idx[a]] > values[idx[b]]
		}
		return values[idx[a]] < values[idx[b]]
	})
	for start := 0; start < len(idx); {
		end := start + 1
		for end < len(idx) && values[idx[end]] == values[idx[start]] {
			end++
		}
		avg := float64(start+end+1) / 2
		for _, i := range idx[start:end] {
			s.rank[i] += avg
		}
		start = end
	}
}

func (s *Selector) sortByRank() {
	idx := make([]int, len(s.pool))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return s.rank[idx[a]] > s.rank[idx[b]]
	})
	pool := make([]models.Candidate, len(idx))
	rank := make([]float64, len(idx))
	for i, j := range idx {
		pool[i] = s.pool[j]
		rank[i] = s.rank[j]
	}
	s.pool, s.rank = pool, rank
}
