package postgres

import (
	"time"

	"github.com/crickarena/fantasy-cricket/internal/domain/match"
)

type matchTableModel struct {
	ID         int64     `db:"id"`
	PublicID   string    `db:"public_id"`
	Sport      string    `db:"sport"`
	Format     string    `db:"format"`
	HomeTeamID string    `db:"home_team_id"`
	AwayTeamID string    `db:"away_team_id"`
	Status     string    `db:"status"`
	StartsAt   time.Time `db:"starts_at"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:         m.PublicID,
		Sport:      m.Sport,
		Format:     match.Format(m.Format),
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		Status:     match.Status(m.Status),
		StartsAt:   m.StartsAt,
	}
}
