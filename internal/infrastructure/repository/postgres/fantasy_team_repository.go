package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/crickarena/fantasy-cricket/internal/domain/fantasyteam"
	qb "github.com/crickarena/fantasy-cricket/internal/platform/querybuilder"
)

type FantasyTeamRepository struct {
	db *sqlx.DB
}

func NewFantasyTeamRepository(db *sqlx.DB) *FantasyTeamRepository {
	return &FantasyTeamRepository{db: db}
}

func (r *FantasyTeamRepository) GetByID(ctx context.Context, teamID string) (fantasyteam.Team, bool, error) {
	query, args, err := qb.Select("*").
		From("fantasy_teams").
		Where(qb.Eq("public_id", teamID)).
		ToSQL()
	if err != nil {
		return fantasyteam.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row fantasyTeamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fantasyteam.Team{}, false, nil
		}
		return fantasyteam.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	team, err := row.toDomain()
	if err != nil {
		return fantasyteam.Team{}, false, err
	}
	return team, true, nil
}

func (r *FantasyTeamRepository) ListByMatch(ctx context.Context, matchID string) ([]fantasyteam.Team, error) {
	query, args, err := qb.Select("*").
		From("fantasy_teams").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []fantasyTeamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]fantasyteam.Team, 0, len(rows))
	for _, row := range rows {
		team, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, team)
	}
	return out, nil
}

func (r *FantasyTeamRepository) UpdatePoints(ctx context.Context, teamID string, perPlayerFinalPoints map[string]float64, totalPoints float64) error {
	payload, err := encodePerPlayerPoints(perPlayerFinalPoints)
	if err != nil {
		return err
	}

	query, args, err := qb.Update("fantasy_teams").
		Set("per_player_points", payload).
		Set("total_points", totalPoints).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", teamID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team points query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update team points: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update team points affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("team %s not found", teamID)
	}
	return nil
}
