package roster

import (
	"fmt"
	"slices"

	"github.com/omarshaarawi/rosterbot/internal/models"
	"github.com/omarshaarawi/rosterbot/internal/stats"
)

// Container holds a roster of placed players, the number of players at each
// position and a live accumulator of their stats.
type Container struct {
	players  []models.Placement
	posCount map[string]int
	acc      *stats.Accumulator
}

func NewContainer(scorer *stats.Scorer) *Container {
	return &Container{
		posCount: make(map[string]int),
		acc:      stats.NewAccumulator(scorer),
	}
}

// Clone returns an independent copy. Candidates are values so nothing mutable
// is shared with the original.
func (c *Container) Clone() *Container {
	clone := &Container{
		players:  slices.Clone(c.players),
		posCount: make(map[string]int, len(c.posCount)),
		acc:      c.acc.Clone(),
	}
	for pos, n := range c.posCount {
		clone.posCount[pos] = n
	}
	return clone
}

func (c *Container) Len() int {
	return len(c.players)
}

// Players returns a copy of the placed players in insertion order.
func (c *Container) Players() []models.Placement {
	return slices.Clone(c.players)
}

func (c *Container) Candidates() []models.Candidate {
	out := make([]models.Candidate, len(c.players))
	for i, p := range c.players {
		out[i] = p.Candidate
	}
	return out
}

func (c *Container) Contains(id int) bool {
	return c.IndexOf(id) >= 0
}

// IndexOf returns the offset of the player with the given id, or -1.
func (c *Container) IndexOf(id int) int {
	return slices.IndexFunc(c.players, func(p models.Placement) bool {
		return p.ID == id
	})
}

// AddPlayer places a candidate at pos. It does not check capacity; that is
// the Builder's job.
func (c *Container) AddPlayer(cand models.Candidate, pos string) {
	if c.Contains(cand.ID) {
		panic(fmt.Sprintf("roster: player %d (%s) already on roster", cand.ID, cand.Name))
	}
	c.players = append(c.players, models.Placement{Candidate: cand, Position: pos})
	c.posCount[pos]++
	c.acc.AddPlayer(cand)
}

func (c *Container) RemovePlayerAt(offset int) models.Placement {
	if offset < 0 || offset >= len(c.players) {
		panic(fmt.Sprintf("roster: offset %d out of range [0,%d)", offset, len(c.players)))
	}
	p := c.players[offset]
	c.acc.RemovePlayer(p.Candidate)
	c.posCount[p.Position]--
	c.players = slices.Delete(c.players, offset, offset+1)
	return p
}

func (c *Container) ChangePosition(offset int, pos string) {
	old := c.players[offset].Position
	if c.posCount[old] <= 0 {
		panic(fmt.Sprintf("roster: no player tracked at %s", old))
	}
	c.posCount[old]--
	c.players[offset].Position = pos
	c.posCount[pos]++
}

func (c *Container) NumPlayersAtPosition(pos string) int {
	return c.posCount[pos]
}

// PlayerAtPosition returns the offset of the occurrence'th player at pos.
func (c *Container) PlayerAtPosition(pos string, occurrence int) (int, bool) {
	seen := 0
	for i, p := range c.players {
		if p.Position != pos {
			continue
		}
		if seen == occurrence {
			return i, true
		}
		seen++
	}
	return -1, false
}

func (c *Container) StatSummary() stats.Summary {
	return c.acc.Summary()
}

// IDs returns the sorted player ids, which identify the roster's make-up
// regardless of positions.
func (c *Container) IDs() []int {
	ids := make([]int, len(c.players))
	for i, p := range c.players {
		ids[i] = p.ID
	}
	slices.Sort(ids)
	return ids
}
