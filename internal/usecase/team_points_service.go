package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/crickarena/fantasy-cricket/internal/domain/fantasyteam"
	"github.com/crickarena/fantasy-cricket/internal/domain/playerstat"
	"github.com/crickarena/fantasy-cricket/internal/platform/logging"
	"github.com/crickarena/fantasy-cricket/internal/platform/resilience"
)

const (
	defaultRefreshWorkers = 8
	pointsEpsilon         = 1e-9
)

type RefreshResult struct {
	MatchID      string
	UpdatedTeams int
	TotalTeams   int
}

// TeamPointsService recomputes every fantasy team bound to a match from the
// current player scores. The recompute is always full, never incremental:
// it is idempotent under repeated calls and self-correcting after any prior
// scoring mistake.
type TeamPointsService struct {
	teamRepo      fantasyteam.Repository
	statRepo      playerstat.Repository
	logger        *logging.Logger
	refreshFlight resilience.SingleFlight
	workers       int
}

func NewTeamPointsService(
	teamRepo fantasyteam.Repository,
	statRepo playerstat.Repository,
	logger *logging.Logger,
) *TeamPointsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamPointsService{
		teamRepo: teamRepo,
		statRepo: statRepo,
		logger:   logger,
		workers:  defaultRefreshWorkers,
	}
}

// RefreshTeamPoints recomputes all teams for the match against one
// consistent snapshot of player points. Concurrent callers for the same
// match coalesce onto an in-flight pass, but a joined pass may have read
// its snapshot before this caller's stat writes landed, so a caller that
// joined runs one more pass. That second pass cannot start before the
// joined one finished, which puts its snapshot after every write that
// preceded this call.
func (s *TeamPointsService) RefreshTeamPoints(ctx context.Context, matchID string) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamPointsService.RefreshTeamPoints")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return RefreshResult{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	key := "teampoints:refresh:" + matchID
	pass := func() (any, error) {
		return s.refreshOnce(ctx, matchID)
	}
	value, err, joined := s.refreshFlight.Do(key, pass)
	if joined && err == nil {
		value, err, _ = s.refreshFlight.Do(key, pass)
	}
	if err != nil {
		return RefreshResult{}, err
	}

	result, ok := value.(RefreshResult)
	if !ok {
		return RefreshResult{}, fmt.Errorf("%w: unexpected refresh result type", ErrInternal)
	}
	return result, nil
}

func (s *TeamPointsService) refreshOnce(ctx context.Context, matchID string) (RefreshResult, error) {
	// Snapshot first: every team in this pass must see the same post-batch
	// player points, never a mix of pre/post-update values.
	stats, err := s.statRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("list stat rows for refresh: %w", err)
	}
	pointsByPlayer := make(map[string]int, len(stats))
	for _, row := range stats {
		pointsByPlayer[row.PlayerID] = row.EffectivePoints()
	}

	teams, err := s.teamRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("list teams for refresh: %w", err)
	}

	result := RefreshResult{MatchID: matchID, TotalTeams: len(teams)}
	if len(teams) == 0 {
		return result, nil
	}

	workerCount := s.workers
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(teams) {
		workerCount = len(teams)
	}

	// Teams are independent, so chunk the population across a bounded pool
	// instead of recomputing thousands of rosters serially.
	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("create refresh worker pool: %w", err)
	}
	defer workerPool.Release()

	var (
		mu       sync.Mutex
		updated  int
		firstErr error
	)

	var waiters sync.WaitGroup
	for _, team := range teams {
		team := team
		waiters.Add(1)
		if err := workerPool.Submit(func() {
			defer waiters.Done()

			wrote, refreshErr := s.refreshTeam(ctx, team, pointsByPlayer)

			mu.Lock()
			defer mu.Unlock()
			if refreshErr != nil && firstErr == nil {
				firstErr = refreshErr
			}
			if wrote {
				updated++
			}
		}); err != nil {
			waiters.Done()
			waiters.Wait()
			return RefreshResult{}, fmt.Errorf("submit team refresh task: %w", err)
		}
	}
	waiters.Wait()

	if firstErr != nil {
		return RefreshResult{}, firstErr
	}

	result.UpdatedTeams = updated
	s.logger.DebugContext(ctx, "team points refreshed",
		"match_id", matchID,
		"updated_teams", updated,
		"total_teams", result.TotalTeams,
	)
	return result, nil
}

func (s *TeamPointsService) refreshTeam(ctx context.Context, team fantasyteam.Team, pointsByPlayer map[string]int) (bool, error) {
	perPlayer := make(map[string]float64, len(team.PlayerIDs))
	total := 0.0
	for _, playerID := range team.PlayerIDs {
		final := float64(pointsByPlayer[playerID]) * team.MultiplierFor(playerID)
		perPlayer[playerID] = final
		total += final
	}

	// No-op elimination: skip the write when the recompute lands exactly
	// where the stored state already is.
	if pointsEqual(total, team.TotalPoints) && perPlayerPointsEqual(perPlayer, team.PerPlayerFinalPoints) {
		return false, nil
	}

	if err := s.teamRepo.UpdatePoints(ctx, team.ID, perPlayer, total); err != nil {
		return false, fmt.Errorf("update points team=%s: %w", team.ID, err)
	}
	return true, nil
}

func perPlayerPointsEqual(a, b map[string]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for playerID, points := range a {
		stored, ok := b[playerID]
		if !ok || !pointsEqual(points, stored) {
			return false
		}
	}
	return true
}

func pointsEqual(a, b float64) bool {
	return math.Abs(a-b) < pointsEpsilon
}
