package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/crickarena/fantasy-cricket/internal/domain/fantasyteam"
)

type FantasyTeamRepository struct {
	mu    sync.RWMutex
	items map[string]fantasyteam.Team
}

func NewFantasyTeamRepository() *FantasyTeamRepository {
	return &FantasyTeamRepository{items: make(map[string]fantasyteam.Team)}
}

func (r *FantasyTeamRepository) GetByID(_ context.Context, teamID string) (fantasyteam.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.items[teamID]
	if !ok {
		return fantasyteam.Team{}, false, nil
	}
	return cloneTeam(team), true, nil
}

func (r *FantasyTeamRepository) ListByMatch(_ context.Context, matchID string) ([]fantasyteam.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teams := make([]fantasyteam.Team, 0)
	for _, team := range r.items {
		if team.MatchID == matchID {
			teams = append(teams, cloneTeam(team))
		}
	}
	return teams, nil
}

func (r *FantasyTeamRepository) UpdatePoints(_ context.Context, teamID string, perPlayerFinalPoints map[string]float64, totalPoints float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, ok := r.items[teamID]
	if !ok {
		return fmt.Errorf("team %s not found", teamID)
	}

	points := make(map[string]float64, len(perPlayerFinalPoints))
	for playerID, value := range perPlayerFinalPoints {
		points[playerID] = value
	}
	team.PerPlayerFinalPoints = points
	team.TotalPoints = totalPoints
	team.UpdatedAt = time.Now().UTC()
	r.items[teamID] = team
	return nil
}

func (r *FantasyTeamRepository) Upsert(_ context.Context, team fantasyteam.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[team.ID] = cloneTeam(team)
	return nil
}

func cloneTeam(t fantasyteam.Team) fantasyteam.Team {
	copied := t
	copied.PlayerIDs = append([]string(nil), t.PlayerIDs...)
	if t.PerPlayerFinalPoints != nil {
		points := make(map[string]float64, len(t.PerPlayerFinalPoints))
		for playerID, value := range t.PerPlayerFinalPoints {
			points[playerID] = value
		}
		copied.PerPlayerFinalPoints = points
	}
	return copied
}
