package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/crickarena/fantasy-cricket/internal/domain/contest"
	qb "github.com/crickarena/fantasy-cricket/internal/platform/querybuilder"
)

type ContestRepository struct {
	db *sqlx.DB
}

func NewContestRepository(db *sqlx.DB) *ContestRepository {
	return &ContestRepository{db: db}
}

func (r *ContestRepository) Create(ctx context.Context, item contest.Contest) error {
	insertModel := contestInsertModel{
		PublicID:            item.ID,
		MatchID:             item.MatchID,
		Format:              string(item.Format),
		EntryFee:            item.EntryFee,
		PrizePool:           item.PrizePool,
		TotalSpots:          item.TotalSpots,
		CurrentParticipants: item.CurrentParticipants,
		MaxTeamPerUser:      item.MaxTeamPerUser,
		Status:              string(item.Status),
		CreatedAt:           item.CreatedAt,
	}
	query, args, err := qb.InsertModel("contests", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert contest query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert contest: %w", err)
	}
	return nil
}

func (r *ContestRepository) GetByID(ctx context.Context, contestID string) (contest.Contest, bool, error) {
	row, entries, found, err := r.fetch(ctx, r.db, contestID, false)
	if err != nil || !found {
		return contest.Contest{}, false, err
	}
	return row.toDomain(entries), true, nil
}

func (r *ContestRepository) ListByMatch(ctx context.Context, matchID string) ([]contest.Contest, error) {
	query, args, err := qb.Select("*").
		From("contests").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list contests query: %w", err)
	}

	var rows []contestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list contests: %w", err)
	}

	out := make([]contest.Contest, 0, len(rows))
	for _, row := range rows {
		entries, err := r.listEntries(ctx, r.db, row.PublicID)
		if err != nil {
			return nil, err
		}
		out = append(out, row.toDomain(entries))
	}
	return out, nil
}

// AppendEntryIfOpen locks the contest row, re-checks every gate against the
// locked state, then appends and bumps the participant count in the same
// transaction. FOR UPDATE serializes racing joins on the capacity check.
func (r *ContestRepository) AppendEntryIfOpen(ctx context.Context, contestID string, entry contest.Entry) (contest.Contest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("begin join tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row, entries, found, err := r.fetch(ctx, tx, contestID, true)
	if err != nil {
		return contest.Contest{}, err
	}
	if !found {
		return contest.Contest{}, fmt.Errorf("contest %s not found", contestID)
	}

	locked := row.toDomain(entries)
	if locked.Status != contest.StatusOpen {
		return contest.Contest{}, contest.ErrContestClosed
	}
	if locked.CurrentParticipants >= locked.TotalSpots {
		return contest.Contest{}, contest.ErrContestFull
	}
	if locked.EntriesByUser(entry.UserID) >= locked.MaxTeamPerUser {
		return contest.Contest{}, contest.ErrTeamLimitExceeded
	}
	for _, existing := range locked.Entries {
		if existing.TeamID == entry.TeamID {
			return contest.Contest{}, contest.ErrDuplicateEntry
		}
	}

	insertModel := contestEntryInsertModel{
		PublicID:        entry.ID,
		ContestPublicID: contestID,
		UserID:          entry.UserID,
		TeamID:          entry.TeamID,
		JoinedAt:        entry.JoinedAt,
	}
	insertQuery, insertArgs, err := qb.InsertModel("contest_entries", insertModel, "")
	if err != nil {
		return contest.Contest{}, fmt.Errorf("build insert entry query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		if isUniqueViolation(err) {
			return contest.Contest{}, contest.ErrDuplicateEntry
		}
		return contest.Contest{}, fmt.Errorf("insert contest entry: %w", err)
	}

	nextParticipants := locked.CurrentParticipants + 1
	nextStatus := locked.Status
	if nextParticipants == locked.TotalSpots {
		nextStatus = contest.StatusClosed
	}
	updateQuery, updateArgs, err := qb.Update("contests").
		Set("current_participants", nextParticipants).
		Set("status", string(nextStatus)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", contestID)).
		ToSQL()
	if err != nil {
		return contest.Contest{}, fmt.Errorf("build update contest query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
		return contest.Contest{}, fmt.Errorf("update contest participants: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return contest.Contest{}, fmt.Errorf("commit join tx: %w", err)
	}

	locked.Entries = append(locked.Entries, entry)
	locked.CurrentParticipants = nextParticipants
	locked.Status = nextStatus
	return locked, nil
}

type queryer interface {
	sqlx.QueryerContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

func (r *ContestRepository) fetch(ctx context.Context, q queryer, contestID string, forUpdate bool) (contestTableModel, []contestEntryTableModel, bool, error) {
	builder := qb.Select("*").
		From("contests").
		Where(qb.Eq("public_id", contestID))
	query, args, err := builder.ToSQL()
	if err != nil {
		return contestTableModel{}, nil, false, fmt.Errorf("build get contest query: %w", err)
	}
	if forUpdate {
		query += " FOR UPDATE"
	}

	var row contestTableModel
	if err := q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return contestTableModel{}, nil, false, nil
		}
		return contestTableModel{}, nil, false, fmt.Errorf("get contest: %w", err)
	}

	entries, err := r.listEntries(ctx, q, contestID)
	if err != nil {
		return contestTableModel{}, nil, false, err
	}
	return row, entries, true, nil
}

func (r *ContestRepository) listEntries(ctx context.Context, q queryer, contestID string) ([]contestEntryTableModel, error) {
	query, args, err := qb.Select("*").
		From("contest_entries").
		Where(qb.Eq("contest_public_id", contestID)).
		OrderBy("joined_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list entries query: %w", err)
	}

	var rows []contestEntryTableModel
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list contest entries: %w", err)
	}
	return rows, nil
}
