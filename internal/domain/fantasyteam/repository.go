package fantasyteam

import "context"

// Repository describes fantasy-team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Team, error)
	UpdatePoints(ctx context.Context, teamID string, perPlayerFinalPoints map[string]float64, totalPoints float64) error
}
