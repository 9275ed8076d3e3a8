package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/lib/pq"

	"github.com/crickarena/fantasy-cricket/internal/domain/fantasyteam"
)

type fantasyTeamTableModel struct {
	ID              int64          `db:"id"`
	PublicID        string         `db:"public_id"`
	UserID          string         `db:"user_id"`
	MatchID         string         `db:"match_public_id"`
	PlayerIDs       pq.StringArray `db:"player_ids"`
	CaptainID       string         `db:"captain_id"`
	ViceCaptainID   string         `db:"vice_captain_id"`
	PerPlayerPoints []byte         `db:"per_player_points"`
	TotalPoints     float64        `db:"total_points"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (m fantasyTeamTableModel) toDomain() (fantasyteam.Team, error) {
	team := fantasyteam.Team{
		ID:            m.PublicID,
		UserID:        m.UserID,
		MatchID:       m.MatchID,
		PlayerIDs:     append([]string(nil), m.PlayerIDs...),
		CaptainID:     m.CaptainID,
		ViceCaptainID: m.ViceCaptainID,
		TotalPoints:   m.TotalPoints,
		UpdatedAt:     m.UpdatedAt,
	}
	if len(m.PerPlayerPoints) > 0 {
		points := make(map[string]float64)
		if err := sonic.Unmarshal(m.PerPlayerPoints, &points); err != nil {
			return fantasyteam.Team{}, fmt.Errorf("decode per-player points for team %s: %w", m.PublicID, err)
		}
		team.PerPlayerFinalPoints = points
	}
	return team, nil
}

func encodePerPlayerPoints(points map[string]float64) ([]byte, error) {
	if points == nil {
		points = map[string]float64{}
	}
	payload, err := sonic.Marshal(points)
	if err != nil {
		return nil, fmt.Errorf("encode per-player points: %w", err)
	}
	return payload, nil
}
