package roster

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/omarshaarawi/rosterbot/internal/models"
)

var (
	ErrNoSpace       = errors.New("no space for player on roster")
	ErrAlreadyPlaced = errors.New("player already on roster")
)

// Builder fits players onto rosters according to the league's position
// slots. It holds no per-roster state.
type Builder struct {
	positions []string
	order     []string
	capacity  map[string]int
	logger    *slog.Logger
}

// NewBuilder takes the league's positions as a multiset, e.g.
// ["C", "1B", "SP", "SP"]. Positions not listed (such as IL) are never
// considered open.
func NewBuilder(positions []string, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Builder{
		positions: append([]string(nil), positions...),
		capacity:  make(map[string]int),
		logger:    logger,
	}
	for _, p := range positions {
		if b.capacity[p] == 0 {
			b.order = append(b.order, p)
		}
		b.capacity[p]++
	}
	return b
}

func (b *Builder) MaxPlayers() int {
	return len(b.positions)
}

func (b *Builder) Positions() []string {
	return b.positions
}

func (b *Builder) Capacity(pos string) int {
	return b.capacity[pos]
}

func (b *Builder) IsFull(r *Container) bool {
	return r.Len() >= b.MaxPlayers()
}

func (b *Builder) hasEmptySlot(r *Container, pos string) bool {
	capacity, ok := b.capacity[pos]
	return ok && r.NumPlayersAtPosition(pos) < capacity
}

// FitIfSpace places the candidate on the roster, moving other players to
// different eligible positions if that frees a slot. Earlier eligible
// positions are preferred. On failure the roster is left untouched and
// ErrNoSpace is returned.
func (b *Builder) FitIfSpace(r *Container, cand models.Candidate) (*Container, error) {
	if r.Contains(cand.ID) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyPlaced, cand.Name)
	}
	b.logger.Debug("Fit player", "player", cand.Name, "positions", cand.EligiblePositions)

	for _, pos := range cand.EligiblePositions {
		if b.hasEmptySlot(r, pos) {
			b.logger.Debug("Fit at empty position", "player", cand.Name, "position", pos)
			r.AddPlayer(cand, pos)
			return r, nil
		}
	}

	// Players already tried in this fit. A player that could not be moved
	// once will not be moved by a later chain either.
	tried := make(map[int]bool)

	for _, pos := range cand.EligiblePositions {
		for occurrence := range b.capacity[pos] {
			offset := b.mustPlayerAt(r, pos, occurrence)
			if tried[r.players[offset].ID] {
				continue
			}
			b.logger.Debug("Attempt swap", "player", cand.Name, "position", pos, "occupant", r.players[offset].Name)
			if b.relocate(r, offset, tried) {
				if !b.hasEmptySlot(r, pos) {
					panic(fmt.Sprintf("roster: relocation did not free %s", pos))
				}
				r.AddPlayer(cand, pos)
				return r, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNoSpace, cand.Name)
}

// relocate moves the player at offset to another eligible position, first
// looking for an empty slot and then recursively moving the occupants of
// full ones. Moves are only made along a chain that succeeds.
func (b *Builder) relocate(r *Container, offset int, tried map[int]bool) bool {
	p := r.players[offset]
	tried[p.ID] = true

	for _, pos := range p.EligiblePositions {
		if pos != p.Position && b.hasEmptySlot(r, pos) {
			b.logger.Debug("Move player", "player", p.Name, "from", p.Position, "to", pos)
			r.ChangePosition(offset, pos)
			return true
		}
	}

	for _, pos := range p.EligiblePositions {
		if pos == p.Position {
			continue
		}
		for occurrence := range b.capacity[pos] {
			other := b.mustPlayerAt(r, pos, occurrence)
			if tried[r.players[other].ID] {
				continue
			}
			if b.relocate(r, other, tried) {
				b.logger.Debug("Move player", "player", p.Name, "from", p.Position, "to", pos)
				r.ChangePosition(offset, pos)
				return true
			}
		}
	}
	return false
}

// mustPlayerAt is only called for full positions, so a missing occupant means
// the position counts are corrupt.
func (b *Builder) mustPlayerAt(r *Container, pos string, occurrence int) int {
	offset, ok := r.PlayerAtPosition(pos, occurrence)
	if !ok {
		panic(fmt.Sprintf("roster: nobody at %s #%d with %d tracked", pos, occurrence, r.NumPlayersAtPosition(pos)))
	}
	return offset
}

// EnumerateFit yields, for every occupied slot, a copy of the roster with
// that slot's player removed and the candidate fitted in. Slots where the
// candidate still does not fit are skipped. The input roster is not
// modified.
func (b *Builder) EnumerateFit(r *Container, cand models.Candidate) iter.Seq[*Container] {
	return func(yield func(*Container) bool) {
		if r.Contains(cand.ID) {
			return
		}
		for _, pos := range b.order {
			for occurrence := range b.capacity[pos] {
				offset, ok := r.PlayerAtPosition(pos, occurrence)
				if !ok {
					break
				}
				trial := r.Clone()
				benched := trial.RemovePlayerAt(offset)
				if _, err := b.FitIfSpace(trial, cand); err != nil {
					b.logger.Debug("No fit after benching", "benched", benched.Name, "player", cand.Name)
					continue
				}
				if !yield(trial) {
					return
				}
			}
		}
	}
}
