package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/crickarena/fantasy-cricket/internal/domain/contest"
	"github.com/crickarena/fantasy-cricket/internal/domain/fantasyteam"
	"github.com/crickarena/fantasy-cricket/internal/domain/match"
	"github.com/crickarena/fantasy-cricket/internal/platform/logging"
)

type LeaderboardRow struct {
	Rank     int
	EntryID  string
	UserID   string
	TeamID   string
	Points   float64
	JoinedAt time.Time
}

type LeaderboardView struct {
	ContestID   string
	MatchID     string
	MatchStatus match.Status
	GeneratedAt time.Time
	Rows        []LeaderboardRow
}

// LeaderboardService ranks contest entries by team points. It is a pure
// read model over state the other services maintain: it never writes, and
// its freshness is exactly the freshness of the last points propagation.
type LeaderboardService struct {
	contestRepo contest.Repository
	matchRepo   match.Repository
	teamRepo    fantasyteam.Repository
	logger      *logging.Logger
	now         func() time.Time
}

func NewLeaderboardService(
	contestRepo contest.Repository,
	matchRepo match.Repository,
	teamRepo fantasyteam.Repository,
	logger *logging.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeaderboardService{
		contestRepo: contestRepo,
		matchRepo:   matchRepo,
		teamRepo:    teamRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Leaderboard builds the ranked standings for one contest. Ordering is
// points descending with the earlier join winning ties, which makes the
// order total and the ranks a plain 1..n sequence.
func (s *LeaderboardService) Leaderboard(ctx context.Context, contestID string) (LeaderboardView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Leaderboard")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return LeaderboardView{}, fmt.Errorf("%w: contest_id is required", ErrInvalidInput)
	}

	item, exists, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return LeaderboardView{}, fmt.Errorf("get contest by id: %w", err)
	}
	if !exists {
		return LeaderboardView{}, fmt.Errorf("%w: contest=%s", ErrNotFound, contestID)
	}

	matchItem, exists, err := s.matchRepo.GetByID(ctx, item.MatchID)
	if err != nil {
		return LeaderboardView{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return LeaderboardView{}, fmt.Errorf("%w: match=%s", ErrNotFound, item.MatchID)
	}

	pointsByTeam := make(map[string]float64, len(item.Entries))
	teams, err := s.teamRepo.ListByMatch(ctx, item.MatchID)
	if err != nil {
		return LeaderboardView{}, fmt.Errorf("list teams by match: %w", err)
	}
	for _, team := range teams {
		pointsByTeam[team.ID] = team.TotalPoints
	}

	rows := make([]LeaderboardRow, 0, len(item.Entries))
	for _, entry := range item.Entries {
		rows = append(rows, LeaderboardRow{
			EntryID:  entry.ID,
			UserID:   entry.UserID,
			TeamID:   entry.TeamID,
			Points:   pointsByTeam[entry.TeamID],
			JoinedAt: entry.JoinedAt,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].JoinedAt.Before(rows[j].JoinedAt)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return LeaderboardView{
		ContestID:   item.ID,
		MatchID:     item.MatchID,
		MatchStatus: matchItem.Status,
		GeneratedAt: s.now().UTC(),
		Rows:        rows,
	}, nil
}
