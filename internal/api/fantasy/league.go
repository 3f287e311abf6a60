package fantasy

import (
	"context"

	"github.com/omarshaarawi/rosterbot/internal/api/espn"
	"github.com/omarshaarawi/rosterbot/internal/models"
)

// freeAgentLimit caps the free agent pool. Past the few hundred most owned
// players nobody is worth starting.
const freeAgentLimit = 300

type API struct {
	espnAPI *espn.API
}

func NewAPI(espnAPI *espn.API) *API {
	return &API{espnAPI: espnAPI}
}

func (a *API) LeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error) {
	return a.espnAPI.GetLeagueMetadata(ctx)
}

func (a *API) TeamRosters(ctx context.Context, scoringPeriod int) ([]models.TeamRoster, error) {
	return a.espnAPI.GetTeamRosters(ctx, scoringPeriod)
}

func (a *API) FreeAgents(ctx context.Context, scoringPeriod int) ([]models.Candidate, error) {
	return a.espnAPI.GetFreeAgents(ctx, scoringPeriod, freeAgentLimit)
}

func (a *API) Opponent(ctx context.Context, teamID, matchupPeriod int) (int, error) {
	return a.espnAPI.GetOpponent(ctx, teamID, matchupPeriod)
}
