package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/crickarena/fantasy-cricket/internal/domain/playerstat"
	qb "github.com/crickarena/fantasy-cricket/internal/platform/querybuilder"
)

type PlayerStatRepository struct {
	db *sqlx.DB
}

func NewPlayerStatRepository(db *sqlx.DB) *PlayerStatRepository {
	return &PlayerStatRepository{db: db}
}

// CreateForPlayingXI inserts the whole XI in one transaction. The unique
// index on (match_public_id, player_public_id) turns a second finalization
// into ErrDuplicateStats.
func (r *PlayerStatRepository) CreateForPlayingXI(ctx context.Context, matchID string, rows []playerstat.PlayerRawStat) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin playing XI tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing int
	countQuery, countArgs, err := qb.Select("COUNT(*)").
		From("player_raw_stats").
		Where(qb.Eq("match_public_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build count stats query: %w", err)
	}
	if err := tx.GetContext(ctx, &existing, countQuery, countArgs...); err != nil {
		return fmt.Errorf("count existing stats: %w", err)
	}
	if existing > 0 {
		return playerstat.ErrDuplicateStats
	}

	for _, row := range rows {
		query, args, err := qb.InsertModel("player_raw_stats", playerStatToInsertModel(row), "")
		if err != nil {
			return fmt.Errorf("build insert stat query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if isUniqueViolation(err) {
				return playerstat.ErrDuplicateStats
			}
			return fmt.Errorf("insert stat row player=%s: %w", row.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit playing XI tx: %w", err)
	}
	return nil
}

func (r *PlayerStatRepository) GetByMatchAndPlayer(ctx context.Context, matchID, playerID string) (playerstat.PlayerRawStat, bool, error) {
	query, args, err := qb.Select("*").
		From("player_raw_stats").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.Eq("player_public_id", playerID),
		).
		ToSQL()
	if err != nil {
		return playerstat.PlayerRawStat{}, false, fmt.Errorf("build get stat query: %w", err)
	}

	var row playerStatTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return playerstat.PlayerRawStat{}, false, nil
		}
		return playerstat.PlayerRawStat{}, false, fmt.Errorf("get stat row: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerStatRepository) ListByMatch(ctx context.Context, matchID string) ([]playerstat.PlayerRawStat, error) {
	query, args, err := qb.Select("*").
		From("player_raw_stats").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("player_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list stats query: %w", err)
	}

	var rows []playerStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list stat rows: %w", err)
	}

	out := make([]playerstat.PlayerRawStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PlayerStatRepository) Update(ctx context.Context, stat playerstat.PlayerRawStat) error {
	query, args, err := qb.Update("player_raw_stats").
		Set("runs", stat.Batting.Runs).
		Set("balls_faced", stat.Batting.BallsFaced).
		Set("fours", stat.Batting.Fours).
		Set("sixes", stat.Batting.Sixes).
		Set("is_out", stat.Batting.IsOut).
		Set("strike_rate", stat.Batting.StrikeRate).
		Set("overs_bowled", stat.Bowling.OversBowled).
		Set("wickets_taken", stat.Bowling.WicketsTaken).
		Set("maiden_overs", stat.Bowling.MaidenOvers).
		Set("lbw_count", stat.Bowling.LBWCount).
		Set("bowled_count", stat.Bowling.BowledCount).
		Set("runs_given", stat.Bowling.RunsGiven).
		Set("economy_rate", stat.Bowling.EconomyRate).
		Set("catches", stat.Fielding.Catches).
		Set("stumpings", stat.Fielding.Stumpings).
		Set("run_outs", stat.Fielding.RunOuts).
		Set("is_man_of_match", stat.IsManOfMatch).
		Set("batting_points", stat.Breakdown.BattingPoints).
		Set("bowling_points", stat.Breakdown.BowlingPoints).
		Set("fielding_points", stat.Breakdown.FieldingPoints).
		Set("bonus_points", stat.Breakdown.BonusPoints).
		Set("total_points", stat.Breakdown.TotalPoints).
		Set("updated_at", stat.UpdatedAt).
		Where(
			qb.Eq("match_public_id", stat.MatchID),
			qb.Eq("player_public_id", stat.PlayerID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update stat query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update stat row: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update stat row affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("stat row for match=%s player=%s not found", stat.MatchID, stat.PlayerID)
	}
	return nil
}
