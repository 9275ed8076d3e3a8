package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crickarena/fantasy-cricket/internal/domain/contest"
	"github.com/crickarena/fantasy-cricket/internal/domain/fantasyteam"
	"github.com/crickarena/fantasy-cricket/internal/domain/match"
	"github.com/crickarena/fantasy-cricket/internal/domain/wallet"
	"github.com/crickarena/fantasy-cricket/internal/platform/id"
	"github.com/crickarena/fantasy-cricket/internal/platform/logging"
)

// ContestService owns the contest lifecycle and the paid join path. The
// join is the money-touching operation of the system: a user must never be
// charged without an entry and never seated without a charge.
type ContestService struct {
	contestRepo contest.Repository
	matchRepo   match.Repository
	teamRepo    fantasyteam.Repository
	walletRepo  wallet.Repository
	spawnQueue  contest.SpawnQueue
	idGen       id.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewContestService(
	contestRepo contest.Repository,
	matchRepo match.Repository,
	teamRepo fantasyteam.Repository,
	walletRepo wallet.Repository,
	spawnQueue contest.SpawnQueue,
	idGen id.Generator,
	logger *logging.Logger,
) *ContestService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	return &ContestService{
		contestRepo: contestRepo,
		matchRepo:   matchRepo,
		teamRepo:    teamRepo,
		walletRepo:  walletRepo,
		spawnQueue:  spawnQueue,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

type CreateContestInput struct {
	MatchID        string
	EntryFee       int64
	PrizePool      int64
	TotalSpots     int
	MaxTeamPerUser int
}

// CreateContest opens a fresh contest against an upcoming match.
func (s *ContestService) CreateContest(ctx context.Context, input CreateContestInput) (contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.CreateContest")
	defer span.End()

	matchID := strings.TrimSpace(input.MatchID)
	if matchID == "" {
		return contest.Contest{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return contest.Contest{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if !item.Joinable() {
		return contest.Contest{}, fmt.Errorf("%w: match %s is not open for contests", ErrStateConflict, matchID)
	}

	contestID, err := s.idGen.NewID()
	if err != nil {
		return contest.Contest{}, fmt.Errorf("generate contest id: %w", err)
	}

	created := contest.Contest{
		ID:             contestID,
		MatchID:        matchID,
		Format:         item.Format,
		EntryFee:       input.EntryFee,
		PrizePool:      input.PrizePool,
		TotalSpots:     input.TotalSpots,
		MaxTeamPerUser: input.MaxTeamPerUser,
		Status:         contest.StatusOpen,
		CreatedAt:      s.now().UTC(),
	}
	if err := created.ValidateEconomics(); err != nil {
		return contest.Contest{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	if err := s.contestRepo.Create(ctx, created); err != nil {
		return contest.Contest{}, fmt.Errorf("create contest: %w", err)
	}

	s.logger.InfoContext(ctx, "contest created",
		"contest_id", created.ID,
		"match_id", created.MatchID,
		"total_spots", created.TotalSpots,
		"entry_fee", created.EntryFee,
	)
	return created, nil
}

func (s *ContestService) GetContest(ctx context.Context, contestID string) (contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.GetContest")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return contest.Contest{}, fmt.Errorf("%w: contest_id is required", ErrInvalidInput)
	}

	item, exists, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("get contest by id: %w", err)
	}
	if !exists {
		return contest.Contest{}, fmt.Errorf("%w: contest=%s", ErrNotFound, contestID)
	}
	return item, nil
}

func (s *ContestService) ListContestsByMatch(ctx context.Context, matchID string) ([]contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.ListContestsByMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	items, err := s.contestRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list contests by match: %w", err)
	}
	return items, nil
}

type JoinContestInput struct {
	ContestID string
	UserID    string
	TeamID    string
}

type JoinContestResult struct {
	Entry            contest.Entry
	ContestStatus    contest.Status
	RemainingBalance int64
	SpotsLeft        int
}

// Join seats one team into the contest against payment of the entry fee.
//
// Ordering is deliberate: cheap precondition reads first, then the atomic
// debit, then the atomic seat append. A seat failure after a successful
// debit is compensated by crediting the fee back, so the wallet never
// leaks money into a contest the user is not in. The sibling-spawn event
// emitted on fill is strictly best effort and never fails the join.
func (s *ContestService) Join(ctx context.Context, input JoinContestInput) (JoinContestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.Join")
	defer span.End()

	contestID := strings.TrimSpace(input.ContestID)
	userID := strings.TrimSpace(input.UserID)
	teamID := strings.TrimSpace(input.TeamID)
	if contestID == "" || userID == "" || teamID == "" {
		return JoinContestResult{}, fmt.Errorf("%w: contest_id, user_id and team_id are required", ErrInvalidInput)
	}

	item, exists, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return JoinContestResult{}, fmt.Errorf("get contest by id: %w", err)
	}
	if !exists {
		return JoinContestResult{}, fmt.Errorf("%w: contest=%s", ErrNotFound, contestID)
	}

	matchItem, exists, err := s.matchRepo.GetByID(ctx, item.MatchID)
	if err != nil {
		return JoinContestResult{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return JoinContestResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, item.MatchID)
	}
	if !matchItem.Joinable() {
		return JoinContestResult{}, fmt.Errorf("%w: match %s is not joinable", ErrStateConflict, item.MatchID)
	}
	if item.Status != contest.StatusOpen {
		return JoinContestResult{}, fmt.Errorf("%w: contest %s is closed", ErrStateConflict, contestID)
	}
	if item.EntriesByUser(userID) >= item.MaxTeamPerUser {
		return JoinContestResult{}, fmt.Errorf("%w: user %s reached the team limit for contest %s", ErrStateConflict, userID, contestID)
	}

	team, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return JoinContestResult{}, fmt.Errorf("get team by id: %w", err)
	}
	if !exists {
		return JoinContestResult{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	if team.UserID != userID {
		return JoinContestResult{}, fmt.Errorf("%w: team %s does not belong to user %s", ErrInvalidInput, teamID, userID)
	}
	if team.MatchID != item.MatchID {
		return JoinContestResult{}, fmt.Errorf("%w: team %s was built for a different match", ErrInvalidInput, teamID)
	}

	balance, err := s.walletRepo.DebitIfSufficient(ctx, userID, item.EntryFee)
	if err != nil {
		if errors.Is(err, wallet.ErrInsufficientBalance) {
			return JoinContestResult{}, &InsufficientFundsError{Required: item.EntryFee, Available: balance}
		}
		return JoinContestResult{}, fmt.Errorf("debit entry fee: %w", err)
	}

	entryID, err := s.idGen.NewID()
	if err != nil {
		s.compensateDebit(ctx, userID, item.EntryFee, contestID)
		return JoinContestResult{}, fmt.Errorf("generate entry id: %w", err)
	}

	entry := contest.Entry{
		ID:       entryID,
		UserID:   userID,
		TeamID:   teamID,
		JoinedAt: s.now().UTC(),
	}

	seated, err := s.contestRepo.AppendEntryIfOpen(ctx, contestID, entry)
	if err != nil {
		s.compensateDebit(ctx, userID, item.EntryFee, contestID)
		switch {
		case errors.Is(err, contest.ErrContestClosed), errors.Is(err, contest.ErrContestFull),
			errors.Is(err, contest.ErrTeamLimitExceeded), errors.Is(err, contest.ErrDuplicateEntry):
			return JoinContestResult{}, fmt.Errorf("%w: %s", ErrStateConflict, err)
		}
		return JoinContestResult{}, fmt.Errorf("append contest entry: %w", err)
	}

	if seated.Status == contest.StatusClosed {
		s.emitSpawn(ctx, seated)
	}

	s.logger.InfoContext(ctx, "contest joined",
		"contest_id", contestID,
		"user_id", userID,
		"team_id", teamID,
		"participants", seated.CurrentParticipants,
		"status", string(seated.Status),
	)

	return JoinContestResult{
		Entry:            entry,
		ContestStatus:    seated.Status,
		RemainingBalance: balance,
		SpotsLeft:        seated.TotalSpots - seated.CurrentParticipants,
	}, nil
}

func (s *ContestService) compensateDebit(ctx context.Context, userID string, amount int64, contestID string) {
	if amount == 0 {
		return
	}
	if err := s.walletRepo.Credit(ctx, userID, amount); err != nil {
		// The failed compensation is the one state this flow cannot repair
		// on its own. Log loudly for manual reconciliation.
		s.logger.ErrorContext(ctx, "entry fee refund failed",
			"user_id", userID,
			"amount", amount,
			"contest_id", contestID,
			"error", err,
		)
	}
}

func (s *ContestService) emitSpawn(ctx context.Context, filled contest.Contest) {
	if s.spawnQueue == nil {
		return
	}
	event := contest.SpawnEvent{
		SourceContestID: filled.ID,
		MatchID:         filled.MatchID,
		Format:          filled.Format,
		EntryFee:        filled.EntryFee,
		PrizePool:       filled.PrizePool,
		TotalSpots:      filled.TotalSpots,
		MaxTeamPerUser:  filled.MaxTeamPerUser,
		FilledAt:        s.now().UTC(),
	}
	if err := s.spawnQueue.Enqueue(event); err != nil {
		s.logger.ErrorContext(ctx, "sibling spawn enqueue failed",
			"contest_id", filled.ID,
			"match_id", filled.MatchID,
			"error", err,
		)
	}
}
