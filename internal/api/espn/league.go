package espn

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/omarshaarawi/rosterbot/internal/models"
)

type API struct {
	client     *Client
	projection Projection
}

func NewAPI(client *Client, projection Projection) *API {
	return &API{client: client, projection: projection}
}

func (a *API) leagueEndpoint() string {
	return fmt.Sprintf("/seasons/%s/segments/0/leagues/%s", a.client.Config.Year, a.client.Config.LeagueID)
}

func (a *API) GetLeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error) {
	var espnResponse models.LeagueResponse
	params := map[string]string{
		"view": "mSettings",
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), params, nil, &espnResponse); err != nil {
		return nil, fmt.Errorf("fetching league metadata: %w", err)
	}

	metadata := &models.LeagueMetadata{
		LeagueID:             espnResponse.ID,
		Name:                 espnResponse.Settings.Name,
		CurrentWeek:          espnResponse.Status.CurrentMatchupPeriod,
		CurrentScoringPeriod: espnResponse.ScoringPeriodID,
		SeasonID:             espnResponse.SeasonID,
		FirstWeek:            espnResponse.Status.FirstScoringPeriod,
		LastWeek:             espnResponse.Status.FinalScoringPeriod,
		IsActive:             espnResponse.Status.IsActive,
		LastUpdated:          time.Now(),
	}

	return metadata, nil
}

// GetTeamRosters returns every team's roster for the scoring period with
// players converted to candidates.
func (a *API) GetTeamRosters(ctx context.Context, scoringPeriod int) ([]models.TeamRoster, error) {
	var leagueResponse models.LeagueResponse
	params := map[string]string{
		"view":            "mTeam,mRoster",
		"scoringPeriodId": fmt.Sprintf("%d", scoringPeriod),
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), params, nil, &leagueResponse); err != nil {
		return nil, fmt.Errorf("fetching league rosters: %w", err)
	}

	rosters := make([]models.TeamRoster, len(leagueResponse.Teams))
	for i, team := range leagueResponse.Teams {
		name := team.Name
		if name == "" {
			name = team.Abbreviation
		}
		rosters[i] = models.TeamRoster{TeamID: team.ID, Name: name}
		for _, entry := range team.Roster.Entries {
			rosters[i].Players = append(rosters[i].Players, models.Placement{
				Candidate: a.projection.toCandidate(entry.PlayerPoolEntry, leagueResponse.SeasonID),
				Position:  slotLabel(entry.LineupSlotID),
			})
		}
	}
	return rosters, nil
}

// GetOpponent returns the team the given team plays in the matchup period,
// or 0 if it has no matchup.
func (a *API) GetOpponent(ctx context.Context, teamID, matchupPeriod int) (int, error) {
	var leagueResponse models.LeagueResponse
	headers, err := filterHeader(map[string]any{
		"schedule": map[string]any{
			"filterMatchupPeriodIds": map[string]any{
				"value": []int{matchupPeriod},
			},
		},
	})
	if err != nil {
		return 0, err
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), map[string]string{"view": "mMatchup"}, headers, &leagueResponse); err != nil {
		return 0, fmt.Errorf("fetching matchups: %w", err)
	}

	for _, m := range leagueResponse.Schedule {
		if m.MatchupPeriodID != matchupPeriod {
			continue
		}
		switch teamID {
		case m.Home.TeamID:
			return m.Away.TeamID, nil
		case m.Away.TeamID:
			return m.Home.TeamID, nil
		}
	}
	return 0, nil
}

// GetFreeAgents returns up to limit free agents and waiver players, most
// owned first.
func (a *API) GetFreeAgents(ctx context.Context, scoringPeriod, limit int) ([]models.Candidate, error) {
	var response struct {
		SeasonID int                      `json:"seasonId"`
		Players  []models.PlayerPoolEntry `json:"players"`
	}
	params := map[string]string{
		"view":            "kona_player_info",
		"scoringPeriodId": fmt.Sprintf("%d", scoringPeriod),
	}
	headers, err := filterHeader(map[string]any{
		"players": map[string]any{
			"filterStatus":  map[string]any{"value": []string{"FREEAGENT", "WAIVERS"}},
			"limit":         limit,
			"sortPercOwned": map[string]any{"sortPriority": 1, "sortAsc": false},
		},
	})
	if err != nil {
		return nil, err
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), params, headers, &response); err != nil {
		return nil, fmt.Errorf("fetching free agents: %w", err)
	}

	season := response.SeasonID
	if season == 0 {
		season, _ = strconv.Atoi(a.client.Config.Year)
	}
	candidates := make([]models.Candidate, 0, len(response.Players))
	for _, entry := range response.Players {
		candidates = append(candidates, a.projection.toCandidate(entry, season))
	}
	return candidates, nil
}
