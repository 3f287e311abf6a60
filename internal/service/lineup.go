package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/omarshaarawi/rosterbot/internal/config"
	"github.com/omarshaarawi/rosterbot/internal/models"
	"github.com/omarshaarawi/rosterbot/internal/optimizer"
	"github.com/omarshaarawi/rosterbot/internal/repository/memory"
	"github.com/omarshaarawi/rosterbot/internal/roster"
	"github.com/omarshaarawi/rosterbot/internal/stats"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoOpponent         = errors.New("no opponent this matchup period")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrIneligiblePosition = errors.New("player is not eligible for that position")
	ErrPlayerUnavailable  = errors.New("player is not available")
	ErrAmbiguousPlayer    = errors.New("more than one player matches")
	ErrUnknownPosition    = errors.New("unknown lineup position")
)

// CandidateSource supplies league data for the lineup service.
type CandidateSource interface {
	LeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error)
	TeamRosters(ctx context.Context, scoringPeriod int) ([]models.TeamRoster, error)
	FreeAgents(ctx context.Context, scoringPeriod int) ([]models.Candidate, error)
	Opponent(ctx context.Context, teamID, matchupPeriod int) (int, error)
}

// LineupService manages our team's lineup: it optimizes it against this
// week's opponent, reports the projected category score and applies the
// manager's manual changes.
type LineupService struct {
	source  CandidateSource
	repo    *memory.Repository
	league  config.League
	opt     config.Optimizer
	teamID  int
	scorer  *stats.Scorer
	builder *roster.Builder
	logger  *slog.Logger

	// mu serializes lineup changes and use of rng.
	mu  sync.Mutex
	rng *rand.Rand
}

func NewLineupService(source CandidateSource, repo *memory.Repository, cfg *config.Config, logger *slog.Logger) (*LineupService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	categories, err := cfg.League.ParsedCategories()
	if err != nil {
		return nil, err
	}
	seed := cfg.Optimizer.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &LineupService{
		source:  source,
		repo:    repo,
		league:  cfg.League,
		opt:     cfg.Optimizer,
		teamID:  cfg.ESPNAPI.TeamID,
		scorer:  stats.NewScorer(categories, cfg.League.UseWeeklySchedule),
		builder: roster.NewBuilder(cfg.League.Positions, logger),
		logger:  logger,
		rng:     rand.New(rand.NewSource(seed)),
	}, nil
}

// leagueState is everything fetched for one command.
type leagueState struct {
	metadata   *models.LeagueMetadata
	mine       models.TeamRoster
	opponent   models.TeamRoster
	pool       []models.Candidate
	oppSummary stats.Summary
	comparer   *stats.Comparer
}

func (s *LineupService) getLeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error) {
	metadata := s.repo.GetMetadata()
	if metadata == nil || time.Since(metadata.LastUpdated) > 24*time.Hour {
		newMetadata, err := s.source.LeagueMetadata(ctx)
		if err != nil {
			return nil, err
		}
		s.repo.SaveMetadata(newMetadata)
		return newMetadata, nil
	}
	return metadata, nil
}

func (s *LineupService) freeAgents(ctx context.Context, scoringPeriod int) ([]models.Candidate, error) {
	if pool, ok := s.repo.GetFreeAgents(s.league.PoolExpiry); ok {
		return pool, nil
	}
	pool, err := s.source.FreeAgents(ctx, scoringPeriod)
	if err != nil {
		return nil, err
	}
	s.repo.SaveFreeAgents(pool, time.Now())
	s.logger.Info("Fetched free agents", "count", len(pool))
	return pool, nil
}

// loadState fetches rosters, free agents and the opponent concurrently and
// builds a comparer that measures lineups against the opponent's starters.
func (s *LineupService) loadState(ctx context.Context) (*leagueState, error) {
	metadata, err := s.getLeagueMetadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching league metadata: %w", err)
	}

	var (
		rosters    []models.TeamRoster
		freeAgents []models.Candidate
		opponentID int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rosters, err = s.source.TeamRosters(gctx, metadata.CurrentScoringPeriod)
		return err
	})
	g.Go(func() error {
		var err error
		freeAgents, err = s.freeAgents(gctx, metadata.CurrentScoringPeriod)
		return err
	})
	g.Go(func() error {
		var err error
		opponentID, err = s.source.Opponent(gctx, s.teamID, metadata.CurrentWeek)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error fetching league data: %w", err)
	}

	state := &leagueState{metadata: metadata}
	var found bool
	if state.mine, found = findTeam(rosters, s.teamID); !found {
		return nil, fmt.Errorf("team %d is not in the league", s.teamID)
	}
	if opponentID == 0 {
		return nil, fmt.Errorf("%w: week %d", ErrNoOpponent, metadata.CurrentWeek)
	}
	if state.opponent, found = findTeam(rosters, opponentID); !found {
		return nil, fmt.Errorf("%w: team %d has no roster", ErrNoOpponent, opponentID)
	}

	league := make([]stats.Summary, len(rosters))
	for i, r := range rosters {
		league[i] = s.scorer.Summarize(r.Starters())
	}
	state.oppSummary = s.scorer.Summarize(state.opponent.Starters())
	state.comparer = stats.NewComparer(s.scorer, state.oppSummary, league, s.opt.StdevClamp)
	state.pool = s.buildPool(state.mine, freeAgents)

	s.logger.Debug("Loaded league state",
		"week", metadata.CurrentWeek,
		"opponent", state.opponent.Name,
		"pool", len(state.pool),
	)
	return state, nil
}

func findTeam(rosters []models.TeamRoster, teamID int) (models.TeamRoster, bool) {
	i := slices.IndexFunc(rosters, func(r models.TeamRoster) bool { return r.TeamID == teamID })
	if i < 0 {
		return models.TeamRoster{}, false
	}
	return rosters[i], true
}

// buildPool is our own players plus free agents owned in enough leagues to
// matter. Blacklisted players are left out.
func (s *LineupService) buildPool(mine models.TeamRoster, freeAgents []models.Candidate) []models.Candidate {
	seen := make(map[int]bool)
	var pool []models.Candidate
	add := func(c models.Candidate) {
		if seen[c.ID] || s.repo.IsBlacklisted(c.ID) {
			return
		}
		seen[c.ID] = true
		pool = append(pool, c)
	}
	for _, c := range mine.Candidates() {
		add(c)
	}
	for _, c := range freeAgents {
		if c.PercentOwned >= s.league.MinPercentOwned {
			add(c)
		}
	}
	return pool
}

// currentLineup rebuilds the saved lineup with fresh projections, or starts
// from the ESPN lineup when nothing is saved. Open spots are filled from our
// roster and then the pool.
func (s *LineupService) currentLineup(state *leagueState) *roster.Container {
	byID := make(map[int]models.Candidate, len(state.pool))
	for _, c := range state.pool {
		byID[c.ID] = c
	}

	placements, _ := s.repo.GetLineup()
	if len(placements) == 0 {
		placements = state.mine.Players
	}

	lineup := roster.NewContainer(s.scorer)
	for _, p := range placements {
		c, ok := byID[p.ID]
		if !ok || !c.IsAvailable() || !c.IsEligible(p.Position) {
			continue
		}
		if lineup.NumPlayersAtPosition(p.Position) >= s.builder.Capacity(p.Position) {
			continue
		}
		lineup.AddPlayer(c, p.Position)
	}

	s.FillEmptySpots(lineup, state.mine.Candidates())
	s.FillEmptySpots(lineup, state.pool)
	return lineup
}

// FillEmptySpots fits the best ranked candidates into the lineup's open
// spots. Hitters are ranked on the hitting categories and pitchers on the
// pitching ones.
func (s *LineupService) FillEmptySpots(lineup *roster.Container, candidates []models.Candidate) {
	for _, pt := range []models.PositionType{models.Hitter, models.Pitcher} {
		var group []models.Candidate
		for _, c := range candidates {
			if c.PositionType == pt && c.IsAvailable() && !lineup.Contains(c.ID) && !s.repo.IsBlacklisted(c.ID) {
				group = append(group, c)
			}
		}
		selector := roster.NewSelector(group)
		selector.Rank(s.scorer, s.categoriesFor(pt))
		for c := range selector.Select() {
			if s.builder.IsFull(lineup) {
				return
			}
			if _, err := s.builder.FitIfSpace(lineup, c); err != nil {
				s.logger.Debug("No spot for player", "player", c.Name, "error", err)
			}
		}
	}
}

func (s *LineupService) categoriesFor(pt models.PositionType) []stats.Category {
	var out []stats.Category
	for _, c := range s.scorer.Categories() {
		if c.PositionType() == pt {
			out = append(out, c)
		}
	}
	return out
}

// lockedInPool returns the locked players with fresh projections. Locked
// players no longer in the pool are ignored.
func (s *LineupService) lockedInPool(pool []models.Candidate) []models.Candidate {
	var out []models.Candidate
	for _, l := range s.repo.Locked() {
		if i := slices.IndexFunc(pool, func(c models.Candidate) bool { return c.ID == l.ID }); i >= 0 {
			out = append(out, pool[i])
		}
	}
	return out
}

// Optimize searches for a lineup that beats the current one against this
// week's opponent and saves whichever is better together with a bench and the
// injured reserve.
func (s *LineupService) Optimize(ctx context.Context) (string, error) {
	return s.optimize(ctx, false)
}

// OptimizeRoster is Optimize limited to the players already on our roster.
// No free agents are considered.
func (s *LineupService) OptimizeRoster(ctx context.Context) (string, error) {
	return s.optimize(ctx, true)
}

func (s *LineupService) optimize(ctx context.Context, rosterOnly bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return "", err
	}
	if rosterOnly {
		state.pool = s.buildPool(state.mine, nil)
	}

	current := s.currentLineup(state)
	state.comparer.UpdateScore(current)
	before := state.comparer.BestScore()

	params := optimizer.Params{
		PopulationSize: s.opt.PopulationSize,
		Generations:    s.opt.Generations,
		TournamentSize: s.opt.TournamentSize,
		MutationPct:    s.opt.MutationPct,
		Offspring:      s.opt.Offspring,
	}
	genetic, err := optimizer.NewGenetic(params, state.comparer, s.builder, s.scorer,
		state.pool, s.lockedInPool(state.pool), s.rng, s.logger)
	if err != nil {
		return "", err
	}

	best, found, err := genetic.Run(ctx, 0)
	if err != nil {
		return "", fmt.Errorf("error optimizing lineup: %w", err)
	}

	lineup, improved := current, false
	if found && state.comparer.CompareLineups(best) {
		lineup, improved = best, true
	}
	bench := s.pickBench(lineup, state.pool)
	injured := s.pickInjuryReserve(state.mine)
	s.repo.SaveLineup(lineup.Players(), bench)
	s.repo.SaveInjuryReserve(injured)

	s.logger.Info("Lineup optimized",
		"improved", improved,
		"roster_only", rosterOnly,
		"score_before", before,
		"score_after", state.comparer.BestScore(),
	)
	return s.formatOptimizeReport(state, lineup, bench, injured, improved, before), nil
}

// pickBench fills the bench with the most owned available players who did
// not make the lineup.
func (s *LineupService) pickBench(lineup *roster.Container, pool []models.Candidate) []models.Candidate {
	var rest []models.Candidate
	for _, c := range pool {
		if !lineup.Contains(c.ID) && c.IsAvailable() {
			rest = append(rest, c)
		}
	}
	selector := roster.NewSelector(rest)
	selector.RankByOwnership()

	bench := make([]models.Candidate, 0, s.league.BenchSpots)
	for c := range selector.Select() {
		if len(bench) >= s.league.BenchSpots {
			break
		}
		bench = append(bench, c)
	}
	return bench
}

// pickInjuryReserve keeps our injured players in the IL slots. Players already
// in an IL slot come first, then the most owned.
func (s *LineupService) pickInjuryReserve(mine models.TeamRoster) []models.Candidate {
	if s.league.IRSpots <= 0 {
		return nil
	}
	var injured []models.Placement
	for _, p := range mine.Players {
		if p.IsInjured() && !s.repo.IsBlacklisted(p.ID) {
			injured = append(injured, p)
		}
	}
	outOfSlot := func(p models.Placement) int {
		if p.Position == models.InjuredSlot {
			return 0
		}
		return 1
	}
	slices.SortStableFunc(injured, func(a, b models.Placement) int {
		return cmp.Or(cmp.Compare(outOfSlot(a), outOfSlot(b)), cmp.Compare(b.PercentOwned, a.PercentOwned))
	})
	if len(injured) > s.league.IRSpots {
		s.logger.Warn("More injured players than IL slots", "injured", len(injured), "slots", s.league.IRSpots)
		injured = injured[:s.league.IRSpots]
	}

	out := make([]models.Candidate, len(injured))
	for i, p := range injured {
		out[i] = p.Candidate
	}
	return out
}

// ShowScore compares the current lineup with the opponent's starters
// category by category.
func (s *LineupService) ShowScore(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return "", err
	}
	lineup := s.currentLineup(state)
	wins, losses, results := state.comparer.CompareScores(lineup.StatSummary(), state.oppSummary)
	return s.formatScore(state, wins, losses, results), nil
}

// WhatIf reports the best way to fit the named player into the current
// lineup by benching one of its players.
func (s *LineupService) WhatIf(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return "", err
	}
	lineup := s.currentLineup(state)
	cand, err := findByName(name, notIn(state.pool, lineup))
	if err != nil {
		return "", err
	}
	if !cand.IsAvailable() {
		return "", fmt.Errorf("%w: %s is %s", ErrPlayerUnavailable, cand.Name, cand.Status)
	}

	current := state.comparer.ComputeScore(lineup.StatSummary())
	best, benched, bestScore := s.bestFit(lineup, cand, state.comparer)
	if best == nil {
		return fmt.Sprintf("🤷 *%s* does not fit in the lineup.", cand.Name), nil
	}
	return formatWhatIf(cand, benched, current, bestScore), nil
}

// bestFit tries the candidate in an open spot and in place of each lineup
// player. It returns the best scoring lineup, the players it leaves out and
// its score, or a nil lineup when the candidate fits nowhere.
func (s *LineupService) bestFit(lineup *roster.Container, cand models.Candidate, comparer *stats.Comparer) (*roster.Container, []models.Candidate, float64) {
	var (
		best      *roster.Container
		bestScore float64
	)
	consider := func(alt *roster.Container) {
		score := comparer.ComputeScore(alt.StatSummary())
		if best == nil || score > bestScore {
			best, bestScore = alt, score
		}
	}

	if !s.builder.IsFull(lineup) {
		if alt, err := s.builder.FitIfSpace(lineup.Clone(), cand); err == nil {
			consider(alt)
		}
	}
	for alt := range s.builder.EnumerateFit(lineup, cand) {
		consider(alt)
	}
	if best == nil {
		return nil, nil, 0
	}
	return best, notIn(lineup.Candidates(), best), bestScore
}

// Swap replaces a lineup player with a pool player at the same position.
func (s *LineupService) Swap(ctx context.Context, outName, inName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return "", err
	}
	lineup := s.currentLineup(state)

	out, err := findByName(outName, lineup.Candidates())
	if err != nil {
		return "", err
	}
	in, err := findByName(inName, notIn(state.pool, lineup))
	if err != nil {
		return "", err
	}
	if !in.IsAvailable() {
		return "", fmt.Errorf("%w: %s is %s", ErrPlayerUnavailable, in.Name, in.Status)
	}

	offset := lineup.IndexOf(out.ID)
	pos := lineup.Players()[offset].Position
	if !in.IsEligible(pos) {
		return "", fmt.Errorf("%w: %s cannot play %s", ErrIneligiblePosition, in.Name, pos)
	}
	lineup.RemovePlayerAt(offset)
	lineup.AddPlayer(in, pos)

	s.repo.SaveLineup(lineup.Players(), s.pickBench(lineup, state.pool))
	s.logger.Info("Swapped player", "out", out.Name, "in", in.Name, "position", pos)
	return fmt.Sprintf("🔁 %s: *%s* replaces *%s*", pos, in.Name, out.Name), nil
}

// Lineup shows the saved lineup and bench.
func (s *LineupService) Lineup() string {
	players, bench := s.repo.GetLineup()
	if len(players) == 0 {
		return "No lineup yet. Use /optimize to build one."
	}
	return s.formatLineup("📋 *Current Lineup*", players, bench, s.repo.InjuryReserve())
}

// Players lists the pool players eligible for a lineup position, best first.
// They are ranked on the given categories, or on the league categories of
// their player type when none are given.
func (s *LineupService) Players(ctx context.Context, pos string, categories []string) (string, error) {
	positions := s.builder.Positions()
	i := slices.IndexFunc(positions, func(p string) bool { return strings.EqualFold(p, pos) })
	if i < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownPosition, pos)
	}
	pos = positions[i]

	s.mu.Lock()
	defer s.mu.Unlock()

	mine, freeAgents, err := s.fetchRoster(ctx)
	if err != nil {
		return "", err
	}
	pool := s.buildPool(mine, freeAgents)

	var eligible []models.Candidate
	for _, c := range pool {
		if c.IsEligible(pos) && c.IsAvailable() {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return fmt.Sprintf("No available players can play %s.", pos), nil
	}

	selector := roster.NewSelector(eligible)
	if len(categories) > 0 {
		if err := selector.RankByNames(s.scorer, categories); err != nil {
			return "", err
		}
	} else {
		selector.Rank(s.scorer, s.categoriesFor(eligible[0].PositionType))
	}

	lineup := s.currentLineup(&leagueState{mine: mine, pool: pool})
	return formatPlayers(pos, selector, lineup), nil
}

// fetchRoster returns our roster and the free agents.
func (s *LineupService) fetchRoster(ctx context.Context) (models.TeamRoster, []models.Candidate, error) {
	metadata, err := s.getLeagueMetadata(ctx)
	if err != nil {
		return models.TeamRoster{}, nil, fmt.Errorf("error fetching league metadata: %w", err)
	}
	rosters, err := s.source.TeamRosters(ctx, metadata.CurrentScoringPeriod)
	if err != nil {
		return models.TeamRoster{}, nil, fmt.Errorf("error fetching rosters: %w", err)
	}
	freeAgents, err := s.freeAgents(ctx, metadata.CurrentScoringPeriod)
	if err != nil {
		return models.TeamRoster{}, nil, fmt.Errorf("error fetching free agents: %w", err)
	}
	mine, found := findTeam(rosters, s.teamID)
	if !found {
		return models.TeamRoster{}, nil, fmt.Errorf("team %d is not in the league", s.teamID)
	}
	return mine, freeAgents, nil
}

func (s *LineupService) poolForLookup(ctx context.Context) ([]models.Candidate, error) {
	mine, freeAgents, err := s.fetchRoster(ctx)
	if err != nil {
		return nil, err
	}
	return append(mine.Candidates(), freeAgents...), nil
}

// Lock keeps the named player in every optimized lineup.
func (s *LineupService) Lock(ctx context.Context, name string) (string, error) {
	pool, err := s.poolForLookup(ctx)
	if err != nil {
		return "", err
	}
	c, err := findByName(name, pool)
	if err != nil {
		return "", err
	}
	if s.repo.IsBlacklisted(c.ID) {
		return "", fmt.Errorf("%s is blacklisted, unblacklist first", c.Name)
	}
	s.repo.Lock(c)
	return fmt.Sprintf("🔒 Locked *%s*", c.Name), nil
}

func (s *LineupService) Unlock(name string) (string, error) {
	c, err := findByName(name, s.repo.Locked())
	if err != nil {
		return "", err
	}
	s.repo.Unlock(c.ID)
	return fmt.Sprintf("🔓 Unlocked *%s*", c.Name), nil
}

// Blacklist keeps the named player out of every lineup.
func (s *LineupService) Blacklist(ctx context.Context, name string) (string, error) {
	pool, err := s.poolForLookup(ctx)
	if err != nil {
		return "", err
	}
	c, err := findByName(name, pool)
	if err != nil {
		return "", err
	}
	s.repo.Blacklist(c)
	return fmt.Sprintf("🚫 Blacklisted *%s*", c.Name), nil
}

func (s *LineupService) Unblacklist(name string) (string, error) {
	c, err := findByName(name, s.repo.Blacklisted())
	if err != nil {
		return "", err
	}
	s.repo.Unblacklist(c.ID)
	return fmt.Sprintf("✅ Removed *%s* from the blacklist", c.Name), nil
}
