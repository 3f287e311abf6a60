package memory

import (
	"cmp"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/omarshaarawi/rosterbot/internal/models"
)

// Repository keeps the bot's state between commands: cached league data,
// the chosen lineup and the manager's locked and blacklisted players.
type Repository struct {
	metadata *models.LeagueMetadata

	freeAgents        []models.Candidate
	freeAgentsFetched time.Time

	lineup    []models.Placement
	bench     []models.Candidate
	injured   []models.Candidate
	locked    map[int]models.Candidate
	blacklist map[int]models.Candidate

	mu sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{
		locked:    make(map[int]models.Candidate),
		blacklist: make(map[int]models.Candidate),
	}
}

func (r *Repository) SaveMetadata(metadata *models.LeagueMetadata) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metadata = metadata
}

func (r *Repository) GetMetadata() *models.LeagueMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.metadata
}

func (r *Repository) SaveFreeAgents(pool []models.Candidate, fetched time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.freeAgents = slices.Clone(pool)
	r.freeAgentsFetched = fetched
}

// GetFreeAgents returns the cached pool if it was fetched less than expiry
// ago.
func (r *Repository) GetFreeAgents(expiry time.Duration) ([]models.Candidate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.freeAgents == nil || time.Since(r.freeAgentsFetched) > expiry {
		return nil, false
	}
	return slices.Clone(r.freeAgents), true
}

func (r *Repository) SaveLineup(lineup []models.Placement, bench []models.Candidate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lineup = slices.Clone(lineup)
	r.bench = slices.Clone(bench)
}

func (r *Repository) GetLineup() ([]models.Placement, []models.Candidate) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.lineup), slices.Clone(r.bench)
}

// SaveInjuryReserve replaces the players kept in IL slots.
func (r *Repository) SaveInjuryReserve(injured []models.Candidate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.injured = slices.Clone(injured)
}

func (r *Repository) InjuryReserve() []models.Candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.injured)
}

func (r *Repository) Lock(c models.Candidate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked[c.ID] = c
}

// Unlock reports whether the player was locked.
func (r *Repository) Unlock(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.locked[id]
	delete(r.locked, id)
	return ok
}

func (r *Repository) Locked() []models.Candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedByName(r.locked)
}

func (r *Repository) Blacklist(c models.Candidate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blacklist[c.ID] = c
	delete(r.locked, c.ID)
}

// Unblacklist reports whether the player was blacklisted.
func (r *Repository) Unblacklist(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.blacklist[id]
	delete(r.blacklist, id)
	return ok
}

func (r *Repository) IsBlacklisted(id int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.blacklist[id]
	return ok
}

func (r *Repository) Blacklisted() []models.Candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedByName(r.blacklist)
}

func sortedByName(m map[int]models.Candidate) []models.Candidate {
	out := slices.Collect(maps.Values(m))
	slices.SortFunc(out, func(a, b models.Candidate) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out
}
