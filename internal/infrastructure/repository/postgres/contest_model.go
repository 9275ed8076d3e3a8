package postgres

import (
	"time"

	"github.com/crickarena/fantasy-cricket/internal/domain/contest"
	"github.com/crickarena/fantasy-cricket/internal/domain/match"
)

type contestTableModel struct {
	ID                  int64     `db:"id"`
	PublicID            string    `db:"public_id"`
	MatchID             string    `db:"match_public_id"`
	Format              string    `db:"format"`
	EntryFee            int64     `db:"entry_fee"`
	PrizePool           int64     `db:"prize_pool"`
	TotalSpots          int       `db:"total_spots"`
	CurrentParticipants int       `db:"current_participants"`
	MaxTeamPerUser      int       `db:"max_team_per_user"`
	Status              string    `db:"status"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

type contestInsertModel struct {
	PublicID            string    `db:"public_id"`
	MatchID             string    `db:"match_public_id"`
	Format              string    `db:"format"`
	EntryFee            int64     `db:"entry_fee"`
	PrizePool           int64     `db:"prize_pool"`
	TotalSpots          int       `db:"total_spots"`
	CurrentParticipants int       `db:"current_participants"`
	MaxTeamPerUser      int       `db:"max_team_per_user"`
	Status              string    `db:"status"`
	CreatedAt           time.Time `db:"created_at"`
}

type contestEntryTableModel struct {
	ID              int64     `db:"id"`
	PublicID        string    `db:"public_id"`
	ContestPublicID string    `db:"contest_public_id"`
	UserID          string    `db:"user_id"`
	TeamID          string    `db:"team_public_id"`
	JoinedAt        time.Time `db:"joined_at"`
}

type contestEntryInsertModel struct {
	PublicID        string    `db:"public_id"`
	ContestPublicID string    `db:"contest_public_id"`
	UserID          string    `db:"user_id"`
	TeamID          string    `db:"team_public_id"`
	JoinedAt        time.Time `db:"joined_at"`
}

func (m contestTableModel) toDomain(entries []contestEntryTableModel) contest.Contest {
	out := contest.Contest{
		ID:                  m.PublicID,
		MatchID:             m.MatchID,
		Format:              match.Format(m.Format),
		EntryFee:            m.EntryFee,
		PrizePool:           m.PrizePool,
		TotalSpots:          m.TotalSpots,
		CurrentParticipants: m.CurrentParticipants,
		MaxTeamPerUser:      m.MaxTeamPerUser,
		Status:              contest.Status(m.Status),
		CreatedAt:           m.CreatedAt,
	}
	for _, entry := range entries {
		out.Entries = append(out.Entries, contest.Entry{
			ID:       entry.PublicID,
			UserID:   entry.UserID,
			TeamID:   entry.TeamID,
			JoinedAt: entry.JoinedAt,
		})
	}
	return out
}
