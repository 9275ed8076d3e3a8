package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/crickarena/fantasy-cricket/internal/domain/match"
	"github.com/crickarena/fantasy-cricket/internal/domain/playerstat"
	"github.com/crickarena/fantasy-cricket/internal/domain/scoring"
	"github.com/crickarena/fantasy-cricket/internal/platform/logging"
	"github.com/crickarena/fantasy-cricket/internal/platform/resilience"
)

const (
	statRowStatusApplied = "applied"
	statRowStatusFailed  = "failed"

	defaultPlayingXIBonus    = 4
	defaultStatUpdateWorkers = 8
)

// BattingUpdate replaces the stored batting section wholesale: batches carry
// the latest known truth, never deltas.
type BattingUpdate struct {
	Runs       int
	BallsFaced int
	Fours      int
	Sixes      int
	IsOut      bool
}

type BowlingUpdate struct {
	OversBowled  float64
	WicketsTaken int
	MaidenOvers  int
	LBWCount     int
	BowledCount  int
	RunsGiven    int
}

type FieldingUpdate struct {
	Catches   int
	Stumpings int
	RunOuts   int
}

type StatUpdate struct {
	PlayerID     string
	Batting      *BattingUpdate
	Bowling      *BowlingUpdate
	Fielding     *FieldingUpdate
	IsManOfMatch *bool
}

type StatRowResult struct {
	PlayerID    string
	Status      string
	TotalPoints int
	Message     string
}

type StatBatchResult struct {
	MatchID     string
	Applied     int
	Failed      int
	Rows        []StatRowResult
	Propagation RefreshResult
}

type PlayingXISelection struct {
	PlayerID string
	Role     playerstat.Role
}

type teamPointsRefresher interface {
	RefreshTeamPoints(ctx context.Context, matchID string) (RefreshResult, error)
}

// StatService ingests operator-submitted stat correction batches and keeps
// downstream team points fresh relative to each batch.
type StatService struct {
	matchRepo     match.Repository
	statRepo      playerstat.Repository
	refresher     teamPointsRefresher
	logger        *logging.Logger
	matchLocks    resilience.KeyedMutex
	now           func() time.Time
	xiBonusPoints int
	updateWorkers int
}

func NewStatService(
	matchRepo match.Repository,
	statRepo playerstat.Repository,
	logger *logging.Logger,
) *StatService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatService{
		matchRepo:     matchRepo,
		statRepo:      statRepo,
		logger:        logger,
		now:           time.Now,
		xiBonusPoints: defaultPlayingXIBonus,
		updateWorkers: defaultStatUpdateWorkers,
	}
}

// SetRefresher breaks the construction cycle with TeamPointsService.
func (s *StatService) SetRefresher(refresher teamPointsRefresher) {
	s.refresher = refresher
}

// FinalizePlayingXI creates the initial stat rows for a match, granting the
// write-once selection bonus. A second finalization is a state conflict.
func (s *StatService) FinalizePlayingXI(ctx context.Context, matchID string, selections []PlayingXISelection) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatService.FinalizePlayingXI")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	if len(selections) == 0 {
		return fmt.Errorf("%w: playing XI selections are required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if !item.AcceptsStatUpdates() {
		return fmt.Errorf("%w: match %s is cancelled", ErrStateConflict, matchID)
	}

	now := s.now().UTC()
	seen := make(map[string]struct{}, len(selections))
	rows := make([]playerstat.PlayerRawStat, 0, len(selections))
	for _, selection := range selections {
		playerID := strings.TrimSpace(selection.PlayerID)
		if playerID == "" {
			return fmt.Errorf("%w: player id is required", ErrInvalidInput)
		}
		if _, exists := seen[playerID]; exists {
			return fmt.Errorf("%w: duplicate player %s in playing XI", ErrInvalidInput, playerID)
		}
		seen[playerID] = struct{}{}
		if _, ok := playerstat.AllRoles[selection.Role]; !ok {
			return fmt.Errorf("%w: unknown role %q for player %s", ErrInvalidInput, selection.Role, playerID)
		}

		rows = append(rows, playerstat.PlayerRawStat{
			MatchID:        matchID,
			PlayerID:       playerID,
			Role:           selection.Role,
			PlayingXIBonus: s.xiBonusPoints,
			UpdatedAt:      now,
		})
	}

	unlock := s.matchLocks.Lock(matchID)
	defer unlock()

	if err := s.statRepo.CreateForPlayingXI(ctx, matchID, rows); err != nil {
		if errors.Is(err, playerstat.ErrDuplicateStats) {
			return fmt.Errorf("%w: stat rows already exist for match %s", ErrStateConflict, matchID)
		}
		return fmt.Errorf("create playing XI stat rows: %w", err)
	}

	s.logger.InfoContext(ctx, "playing XI finalized", "match_id", matchID, "players", len(rows))
	return nil
}

// ApplyStatUpdates validates and persists one correction batch.
// Validation is all-or-nothing; persistence is reported per row. A batch
// with at least one applied row triggers team-point propagation before
// returning, so dependent leaderboard reads are never stale relative to it.
func (s *StatService) ApplyStatUpdates(ctx context.Context, matchID string, updates []StatUpdate) (StatBatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatService.ApplyStatUpdates")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return StatBatchResult{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	if len(updates) == 0 {
		return StatBatchResult{}, fmt.Errorf("%w: updates are required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return StatBatchResult{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return StatBatchResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if !item.AcceptsStatUpdates() {
		return StatBatchResult{}, fmt.Errorf("%w: match %s no longer accepts stat updates", ErrStateConflict, matchID)
	}

	// Batches for one match serialize: each merge reads the stored row, so
	// two interleaved batches could otherwise drop each other's sections.
	unlock := s.matchLocks.Lock(matchID)
	defer unlock()

	stored, err := s.statRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return StatBatchResult{}, fmt.Errorf("list stat rows by match: %w", err)
	}
	statByPlayer := make(map[string]playerstat.PlayerRawStat, len(stored))
	for _, row := range stored {
		statByPlayer[row.PlayerID] = row
	}

	seen := make(map[string]struct{}, len(updates))
	for _, update := range updates {
		playerID := strings.TrimSpace(update.PlayerID)
		if playerID == "" {
			return StatBatchResult{}, fmt.Errorf("%w: player id is required in update", ErrInvalidInput)
		}
		if _, exists := seen[playerID]; exists {
			return StatBatchResult{}, fmt.Errorf("%w: duplicate player %s in batch", ErrInvalidInput, playerID)
		}
		seen[playerID] = struct{}{}
		if _, ok := statByPlayer[playerID]; !ok {
			return StatBatchResult{}, fmt.Errorf("%w: no stat row for player %s in match %s", ErrNotFound, playerID, matchID)
		}
	}

	now := s.now().UTC()
	rows := make([]StatRowResult, len(updates))

	workers := pool.New().WithMaxGoroutines(s.updateWorkers)
	for idx, update := range updates {
		idx, update := idx, update
		workers.Go(func() {
			playerID := strings.TrimSpace(update.PlayerID)
			next := mergeStatUpdate(statByPlayer[playerID], update, now)
			next.Breakdown = scoring.ComputeFantasyPoints(next, item.Format)

			if err := s.statRepo.Update(ctx, next); err != nil {
				s.logger.ErrorContext(ctx, "persist stat row failed", "match_id", matchID, "player_id", playerID, "error", err)
				rows[idx] = StatRowResult{
					PlayerID: playerID,
					Status:   statRowStatusFailed,
					Message:  err.Error(),
				}
				return
			}

			rows[idx] = StatRowResult{
				PlayerID:    playerID,
				Status:      statRowStatusApplied,
				TotalPoints: next.Breakdown.TotalPoints,
			}
		})
	}
	workers.Wait()

	result := StatBatchResult{MatchID: matchID, Rows: rows}
	for _, row := range rows {
		if row.Status == statRowStatusApplied {
			result.Applied++
		} else {
			result.Failed++
		}
	}

	sort.SliceStable(result.Rows, func(i, j int) bool {
		return result.Rows[i].PlayerID < result.Rows[j].PlayerID
	})

	if result.Applied > 0 && s.refresher != nil {
		propagation, err := s.refresher.RefreshTeamPoints(ctx, matchID)
		if err != nil {
			return result, fmt.Errorf("refresh team points after batch: %w", err)
		}
		result.Propagation = propagation
	}

	return result, nil
}

// mergeStatUpdate folds the supplied sections into the stored row and
// refreshes derived rates whose inputs changed. The Playing-XI bonus is
// intentionally untouched so it survives every recompute.
func mergeStatUpdate(current playerstat.PlayerRawStat, update StatUpdate, now time.Time) playerstat.PlayerRawStat {
	next := current

	if update.Batting != nil {
		next.Batting = playerstat.Batting{
			Runs:       update.Batting.Runs,
			BallsFaced: update.Batting.BallsFaced,
			Fours:      update.Batting.Fours,
			Sixes:      update.Batting.Sixes,
			IsOut:      update.Batting.IsOut,
		}
		next.Batting.StrikeRate = scoring.StrikeRate(next.Batting.Runs, next.Batting.BallsFaced)
	}

	if update.Bowling != nil {
		next.Bowling = playerstat.Bowling{
			OversBowled:  update.Bowling.OversBowled,
			WicketsTaken: update.Bowling.WicketsTaken,
			MaidenOvers:  update.Bowling.MaidenOvers,
			LBWCount:     update.Bowling.LBWCount,
			BowledCount:  update.Bowling.BowledCount,
			RunsGiven:    update.Bowling.RunsGiven,
		}
		next.Bowling.EconomyRate = scoring.EconomyRate(next.Bowling.RunsGiven, next.Bowling.OversBowled)
	}

	if update.Fielding != nil {
		next.Fielding = playerstat.Fielding(*update.Fielding)
	}

	if update.IsManOfMatch != nil {
		next.IsManOfMatch = *update.IsManOfMatch
	}

	next.UpdatedAt = now
	return next
}
