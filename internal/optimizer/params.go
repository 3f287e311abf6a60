package optimizer

import (
	"errors"
	"fmt"
)

var (
	ErrSeedConflict  = errors.New("locked players do not fit in one lineup")
	ErrPoolExhausted = errors.New("player pool cannot complete a lineup")
	ErrInvalidParams = errors.New("invalid optimizer parameters")
)

// Params tunes the genetic search.
type Params struct {
	PopulationSize int
	// Generations is used when Run is not given a generation count.
	Generations int
	// TournamentSize must be a power of two.
	TournamentSize int
	// MutationPct is the chance, between 0 and 1, that a non-locked player
	// is swapped out during mutation.
	MutationPct float64
	Offspring   int
}

func DefaultParams() Params {
	return Params{
		PopulationSize: 100,
		Generations:    100,
		TournamentSize: 16,
		MutationPct:    0.05,
		Offspring:      4,
	}
}

func (p Params) Validate() error {
	switch {
	case p.PopulationSize < 1:
		return fmt.Errorf("%w: population size %d", ErrInvalidParams, p.PopulationSize)
	case p.Generations < 0:
		return fmt.Errorf("%w: generations %d", ErrInvalidParams, p.Generations)
	case p.TournamentSize < 2 || p.TournamentSize&(p.TournamentSize-1) != 0:
		return fmt.Errorf("%w: tournament size %d is not a power of two", ErrInvalidParams, p.TournamentSize)
	case p.MutationPct < 0 || p.MutationPct > 1:
		return fmt.Errorf("%w: mutation pct %v outside [0,1]", ErrInvalidParams, p.MutationPct)
	case p.Offspring < 0:
		return fmt.Errorf("%w: offspring %d", ErrInvalidParams, p.Offspring)
	}
	return nil
}
