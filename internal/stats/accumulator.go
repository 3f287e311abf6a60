package stats

import "github.com/omarshaarawi/rosterbot/internal/models"

// Accumulator keeps running totals for a changing set of candidates so a
// roster edit does not require summarizing every player again.
type Accumulator struct {
	scorer *Scorer
	totals totals
}

func NewAccumulator(scorer *Scorer) *Accumulator {
	return &Accumulator{scorer: scorer}
}

func (a *Accumulator) AddPlayer(c models.Candidate) {
	a.scorer.accumulate(&a.totals, c, 1)
}

func (a *Accumulator) RemovePlayer(c models.Candidate) {
	a.scorer.accumulate(&a.totals, c, -1)
}

// merge folds another accumulator's totals into this one.
func (a *Accumulator) merge(other *Accumulator) {
	for i := range a.totals {
		a.totals[i] += other.totals[i]
	}
}

func (a *Accumulator) Clone() *Accumulator {
	clone := *a
	return &clone
}

func (a *Accumulator) Summary() Summary {
	return a.scorer.summaryFromTotals(&a.totals)
}
