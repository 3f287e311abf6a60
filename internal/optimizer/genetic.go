package optimizer

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math/bits"
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/omarshaarawi/rosterbot/internal/models"
	"github.com/omarshaarawi/rosterbot/internal/roster"
	"github.com/omarshaarawi/rosterbot/internal/stats"
)

// Genetic searches for a strong lineup by evolving a population of complete
// lineups. Lineups are built and repaired with the roster Builder and scored
// with the Comparer.
//
// A Genetic is not safe for concurrent use.
type Genetic struct {
	params    Params
	comparer  *stats.Comparer
	builder   *roster.Builder
	scorer    *stats.Scorer
	pool      []models.Candidate
	locked    []models.Candidate
	lockedIDs map[int]bool
	rng       *rand.Rand
	logger    *slog.Logger

	// per run
	log        *slog.Logger
	seed       *roster.Container
	population []*Chromosome
	lastID     int
}

// NewGenetic sets up an optimizer over the available players. Locked players
// are placed in every lineup and never mutated out. Unavailable players are
// dropped from the pool. A nil rng is seeded from the clock and a nil logger
// falls back to slog.Default.
func NewGenetic(
	params Params,
	comparer *stats.Comparer,
	builder *roster.Builder,
	scorer *stats.Scorer,
	available, locked []models.Candidate,
	rng *rand.Rand,
	logger *slog.Logger,
) (*Genetic, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}

	g := &Genetic{
		params:    params,
		comparer:  comparer,
		builder:   builder,
		scorer:    scorer,
		locked:    slices.Clone(locked),
		lockedIDs: make(map[int]bool, len(locked)),
		rng:       rng,
		logger:    logger,
		log:       logger,
	}
	for _, c := range locked {
		g.lockedIDs[c.ID] = true
	}
	for _, c := range available {
		if c.IsAvailable() {
			g.pool = append(g.pool, c)
		}
	}
	return g, nil
}

// Run evolves the population for the given number of generations and returns
// the best lineup found. found is false, with a nil error, when the locked
// players cannot share a lineup or no complete lineup could be built from the
// pool. Cancelling ctx stops the run between generations. A generation count
// of zero or less runs Params.Generations generations.
func (g *Genetic) Run(ctx context.Context, generations int) (best *roster.Container, found bool, err error) {
	if generations <= 0 {
		generations = g.params.Generations
	}
	g.log = g.logger.With("run_id", uuid.NewString())
	g.population = nil
	g.lastID = 0

	g.seed, err = g.seedLineup()
	if err != nil {
		g.log.Warn("Could not generate a seed lineup", "error", err)
		return nil, false, nil
	}

	g.initPopulation()
	if len(g.population) == 0 {
		g.log.Warn("Could not generate any population", "pool", len(g.pool), "positions", g.builder.MaxPlayers())
		return nil, false, nil
	}

	for gen := range generations {
		if err := ctx.Err(); err != nil {
			return nil, false, fmt.Errorf("optimizer stopped at generation %d: %w", gen, err)
		}
		if err := g.mate(); err != nil {
			return nil, false, err
		}
		if err := g.mutate(); err != nil {
			return nil, false, err
		}
		g.log.Debug("Generation done", "generation", gen+1, "population", len(g.population), "best_score", g.best().Score)
	}

	winner := g.best()
	g.log.Info("Optimizer finished",
		"generations", generations,
		"population", len(g.population),
		"best_id", winner.ID,
		"best_score", winner.Score,
	)
	g.logLineup("Best", winner)
	return winner.Roster, true, nil
}

func (g *Genetic) seedLineup() (*roster.Container, error) {
	lineup := roster.NewContainer(g.scorer)
	for _, c := range g.locked {
		if _, err := g.builder.FitIfSpace(lineup, c); err != nil {
			return nil, fmt.Errorf("%w: placed %d of %d: %w", ErrSeedConflict, lineup.Len(), len(g.locked), err)
		}
	}
	return lineup, nil
}

// initPopulation fills the population first with lineups drawn in ownership
// order and then with lineups from repeatedly shuffled pools.
func (g *Genetic) initPopulation() {
	if g.builder.IsFull(g.seed) {
		g.addCompleted(g.seed.Clone())
		return
	}

	selector := roster.NewSelector(g.pool)
	selector.RankByOwnership()
	g.generateLineups(selector)

	for range g.params.PopulationSize * 2 {
		if len(g.population) >= g.params.PopulationSize {
			break
		}
		selector.Shuffle(g.rng)
		g.generateLineups(selector)
	}

	g.log.Info("Initial population", "size", len(g.population))
	for i, c := range g.population {
		g.logLineup(fmt.Sprintf("Initial population %d", i), c)
	}
}

// generateLineups walks the selector, putting each player in the first
// partial lineup that has room and starting a new lineup from the seed when
// none does. Lineups are added to the population as they fill up.
func (g *Genetic) generateLineups(selector *roster.Selector) {
	var lineups []*roster.Container
	for c := range selector.Select() {
		if len(g.population) >= g.params.PopulationSize {
			return
		}
		if g.lockedIDs[c.ID] {
			continue
		}

		placed := false
		for _, lineup := range lineups {
			if g.builder.IsFull(lineup) {
				continue
			}
			if g.fitToLineup(lineup, c) {
				placed = true
				break
			}
		}
		if !placed {
			lineup := g.seed.Clone()
			if g.fitToLineup(lineup, c) {
				lineups = append(lineups, lineup)
			}
		}
	}
}

func (g *Genetic) fitToLineup(lineup *roster.Container, c models.Candidate) bool {
	if _, err := g.builder.FitIfSpace(lineup, c); err != nil {
		return false
	}
	if g.builder.IsFull(lineup) {
		g.addCompleted(lineup)
	}
	return true
}

func (g *Genetic) addCompleted(lineup *roster.Container) {
	c := g.newChromosome(lineup)
	if g.isDup(c) {
		return
	}
	g.population = append(g.population, c)
}

func (g *Genetic) newChromosome(lineup *roster.Container) *Chromosome {
	g.lastID++
	return &Chromosome{
		Roster:    lineup,
		Score:     g.comparer.ComputeScore(lineup.StatSummary()),
		ID:        g.lastID,
		Signature: lineup.IDs(),
	}
}

func (g *Genetic) isDup(c *Chromosome) bool {
	return slices.ContainsFunc(g.population, c.sameLineup)
}

func (g *Genetic) removeFromPop(c *Chromosome) {
	i := slices.IndexFunc(g.population, func(p *Chromosome) bool { return p.ID == c.ID })
	if i < 0 {
		panic(fmt.Sprintf("optimizer: lineup %d not in population", c.ID))
	}
	g.population = slices.Delete(g.population, i, i+1)
}

func (g *Genetic) best() *Chromosome {
	best := g.population[0]
	for _, c := range g.population[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best
}

// mate picks two lineups by tournament and replaces them with the best two
// distinct lineups among them and their offspring.
func (g *Genetic) mate() error {
	mates := g.pickLineups()
	if mates == nil {
		return nil
	}
	g.removeFromPop(mates[0])
	g.removeFromPop(mates[1])

	offspring, err := g.produceOffspring(mates)
	if err != nil {
		return err
	}
	for i, c := range offspring {
		g.logLineup(fmt.Sprintf("Offspring %d", i), c)
	}
	g.population = append(g.population, offspring...)
	return nil
}

// pickLineups runs a single elimination tournament over a random sample of
// the population until two lineups remain. It returns nil when the
// population is too small to hold a tournament.
func (g *Genetic) pickLineups() []*Chromosome {
	n := len(g.population)
	if n < 2 {
		return nil
	}
	k := g.params.TournamentSize
	if k > n {
		k = 1 << (bits.Len(uint(n)) - 1)
	}

	participants := make([]*Chromosome, k)
	for i, j := range g.rng.Perm(n)[:k] {
		participants[i] = g.population[j]
	}
	for len(participants) > 2 {
		next := participants[:0]
		for i := 0; i < len(participants); i += 2 {
			a, b := participants[i], participants[i+1]
			if a.Score > b.Score {
				next = append(next, a)
			} else {
				next = append(next, b)
			}
		}
		participants = next
	}
	return participants
}

// produceOffspring builds new lineups from the mates' combined players and
// returns the top two that are distinct from each other and from the rest of
// the population. The mates themselves are candidates too.
func (g *Genetic) produceOffspring(mates []*Chromosome) ([]*Chromosome, error) {
	pool := playerPool(mates)
	family := slices.Clone(mates)
	for range g.params.Offspring {
		lineup, err := g.completeLineup(pool, g.seed.Clone())
		if err != nil {
			return nil, err
		}
		family = append(family, g.newChromosome(lineup))
	}

	slices.SortStableFunc(family, func(a, b *Chromosome) int {
		return cmp.Compare(b.Score, a.Score)
	})

	survivors := make([]*Chromosome, 0, 2)
	for _, c := range family {
		if slices.ContainsFunc(survivors, c.sameLineup) || g.isDup(c) {
			continue
		}
		survivors = append(survivors, c)
		if len(survivors) == 2 {
			break
		}
	}
	return survivors, nil
}

func playerPool(lineups []*Chromosome) []models.Candidate {
	seen := make(map[int]bool)
	var pool []models.Candidate
	for _, l := range lineups {
		for _, c := range l.Roster.Candidates() {
			if !seen[c.ID] {
				seen[c.ID] = true
				pool = append(pool, c)
			}
		}
	}
	return pool
}

// completeLineup fits randomly drawn players from the pool until the lineup
// is full.
func (g *Genetic) completeLineup(pool []models.Candidate, lineup *roster.Container) (*roster.Container, error) {
	if g.builder.IsFull(lineup) {
		return lineup, nil
	}
	selector := roster.NewSelector(pool)
	selector.Shuffle(g.rng)
	for c := range selector.Select() {
		if lineup.Contains(c.ID) {
			continue
		}
		if _, err := g.builder.FitIfSpace(lineup, c); err != nil {
			continue
		}
		if g.builder.IsFull(lineup) {
			return lineup, nil
		}
	}
	return nil, fmt.Errorf("%w: filled %d of %d positions from %d players",
		ErrPoolExhausted, lineup.Len(), g.builder.MaxPlayers(), len(pool))
}

// mutate swaps random players out of each lineup. A mutated lineup replaces
// its original only if it scores strictly higher and is not already in the
// population.
func (g *Genetic) mutate() error {
	var added, replaced []*Chromosome
	for _, c := range g.population {
		lineup := g.removeMutations(c)
		if lineup == nil {
			continue
		}
		lineup, err := g.completeLineup(g.pool, lineup)
		if err != nil {
			return err
		}
		mutant := g.newChromosome(lineup)
		if g.isDup(mutant) || slices.ContainsFunc(added, mutant.sameLineup) {
			continue
		}
		if mutant.Score <= c.Score {
			continue
		}
		g.logLineup("(Pre) Mutated lineup", c)
		g.logLineup("(Post) Mutated lineup", mutant)
		added = append(added, mutant)
		replaced = append(replaced, c)
	}
	for _, c := range replaced {
		g.removeFromPop(c)
	}
	g.population = append(g.population, added...)
	return nil
}

// removeMutations returns a copy of the lineup with the players picked for
// mutation removed, or nil if none were picked.
func (g *Genetic) removeMutations(c *Chromosome) *roster.Container {
	var offsets []int
	for i, p := range c.Roster.Players() {
		if g.lockedIDs[p.ID] {
			continue
		}
		if g.rng.Float64() < g.params.MutationPct {
			g.log.Debug("Mutating player", "player", p.Name, "lineup", c.ID)
			offsets = append(offsets, i)
		}
	}
	if len(offsets) == 0 {
		return nil
	}
	lineup := c.Roster.Clone()
	for _, i := range slices.Backward(offsets) {
		lineup.RemovePlayerAt(i)
	}
	return lineup
}

func (g *Genetic) logLineup(descr string, c *Chromosome) {
	if !g.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	g.log.Debug("Lineup", "id", c.ID, "desc", descr, "score", c.Score, "players", c.describe())
}
