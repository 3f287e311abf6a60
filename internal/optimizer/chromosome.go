package optimizer

import (
	"fmt"
	"slices"

	"github.com/omarshaarawi/rosterbot/internal/roster"
)

// Chromosome is one lineup in the population. Signature is the sorted list
// of player ids; two chromosomes with the same signature are the same lineup.
type Chromosome struct {
	Roster    *roster.Container
	Score     float64
	ID        int
	Signature []int
}

func (c *Chromosome) sameLineup(other *Chromosome) bool {
	return slices.Equal(c.Signature, other.Signature)
}

func (c *Chromosome) describe() []string {
	players := c.Roster.Players()
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = fmt.Sprintf("%s - %s (%.0f%%)", p.Position, p.Name, p.PercentOwned)
	}
	return out
}
