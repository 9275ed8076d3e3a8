package usecase

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/crickarena/fantasy-cricket/internal/domain/contest"
	"github.com/crickarena/fantasy-cricket/internal/domain/wallet"
	"github.com/crickarena/fantasy-cricket/internal/infrastructure/repository/memory"
)

type captureSpawnQueue struct {
	mu     sync.Mutex
	events []contest.SpawnEvent
}

func (q *captureSpawnQueue) Enqueue(event contest.SpawnEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, event)
	return nil
}

func (q *captureSpawnQueue) captured() []contest.SpawnEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]contest.SpawnEvent(nil), q.events...)
}

type contestFixture struct {
	svc         *ContestService
	contestRepo *memory.ContestRepository
	matchRepo   *memory.MatchRepository
	teamRepo    *memory.FantasyTeamRepository
	walletRepo  *memory.WalletRepository
	spawnQueue  *captureSpawnQueue
}

func newContestFixture(t *testing.T) contestFixture {
	t.Helper()

	matchRepo := memory.NewMatchRepository()
	for _, item := range memory.SeedMatches() {
		if err := matchRepo.Upsert(t.Context(), item); err != nil {
			t.Fatalf("seed match: %v", err)
		}
	}

	walletRepo := memory.NewWalletRepository()
	for _, item := range memory.SeedWallets() {
		if err := walletRepo.Upsert(t.Context(), item); err != nil {
			t.Fatalf("seed wallet: %v", err)
		}
	}

	contestRepo := memory.NewContestRepository()
	teamRepo := memory.NewFantasyTeamRepository()
	spawnQueue := &captureSpawnQueue{}

	svc := NewContestService(contestRepo, matchRepo, teamRepo, walletRepo, spawnQueue, nil, nil)
	return contestFixture{
		svc:         svc,
		contestRepo: contestRepo,
		matchRepo:   matchRepo,
		teamRepo:    teamRepo,
		walletRepo:  walletRepo,
		spawnQueue:  spawnQueue,
	}
}

func createOpenContest(t *testing.T, fx contestFixture, fee int64, spots, maxPerUser int) contest.Contest {
	t.Helper()

	created, err := fx.svc.CreateContest(t.Context(), CreateContestInput{
		MatchID:        memory.MatchIDMumbaiChennai,
		EntryFee:       fee,
		PrizePool:      fee * int64(spots) * 9 / 10,
		TotalSpots:     spots,
		MaxTeamPerUser: maxPerUser,
	})
	if err != nil {
		t.Fatalf("create contest: %v", err)
	}
	return created
}

func TestContestService_Join_DebitsAndSeats(t *testing.T) {
	fx := newContestFixture(t)
	created := createOpenContest(t, fx, 100, 10, 2)
	seedRoster(t, fx.teamRepo, "team-arjun", "usr-arjun", memory.MatchIDMumbaiChennai, "pl-rohit", "pl-bumrah")

	result, err := fx.svc.Join(t.Context(), JoinContestInput{
		ContestID: created.ID,
		UserID:    "usr-arjun",
		TeamID:    "team-arjun",
	})
	if err != nil {
		t.Fatalf("join contest: %v", err)
	}
	if result.ContestStatus != contest.StatusOpen {
		t.Fatalf("contest should stay open: %s", result.ContestStatus)
	}
	if result.RemainingBalance != 4900 {
		t.Fatalf("remaining balance: got %d want 4900", result.RemainingBalance)
	}
	if result.SpotsLeft != 9 {
		t.Fatalf("spots left: got %d want 9", result.SpotsLeft)
	}

	stored, ok, err := fx.contestRepo.GetByID(t.Context(), created.ID)
	if err != nil || !ok {
		t.Fatalf("get contest: ok=%v err=%v", ok, err)
	}
	if stored.CurrentParticipants != 1 || len(stored.Entries) != 1 {
		t.Fatalf("entry not recorded: participants=%d entries=%d", stored.CurrentParticipants, len(stored.Entries))
	}
}

func TestContestService_Join_InsufficientFundsLeavesStateUntouched(t *testing.T) {
	fx := newContestFixture(t)
	created := createOpenContest(t, fx, 30, 10, 2)
	seedRoster(t, fx.teamRepo, "team-kabir", "usr-kabir", memory.MatchIDMumbaiChennai, "pl-rohit", "pl-bumrah")

	_, err := fx.svc.Join(t.Context(), JoinContestInput{
		ContestID: created.ID,
		UserID:    "usr-kabir",
		TeamID:    "team-kabir",
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	var funds *InsufficientFundsError
	if !errors.As(err, &funds) {
		t.Fatalf("expected amounts on the error, got %T", err)
	}
	if funds.Required != 30 || funds.Available != 20 || funds.Shortfall() != 10 {
		t.Fatalf("wrong amounts: required=%d available=%d shortfall=%d", funds.Required, funds.Available, funds.Shortfall())
	}

	w, ok, err := fx.walletRepo.GetByUser(t.Context(), "usr-kabir")
	if err != nil || !ok {
		t.Fatalf("get wallet: ok=%v err=%v", ok, err)
	}
	if w.Balance != 20 {
		t.Fatalf("wallet mutated by failed join: balance=%d", w.Balance)
	}

	stored, _, err := fx.contestRepo.GetByID(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("get contest: %v", err)
	}
	if stored.CurrentParticipants != 0 {
		t.Fatalf("contest mutated by failed join: participants=%d", stored.CurrentParticipants)
	}
}

func TestContestService_Join_ConcurrentNeverOvershootsCapacity(t *testing.T) {
	fx := newContestFixture(t)
	created := createOpenContest(t, fx, 10, 2, 1)

	const contenders = 4
	for i := 0; i < contenders; i++ {
		userID := fmt.Sprintf("usr-%d", i)
		if err := fx.walletRepo.Upsert(t.Context(), wallet.Wallet{UserID: userID, Balance: 100}); err != nil {
			t.Fatalf("seed wallet: %v", err)
		}
		seedRoster(t, fx.teamRepo, fmt.Sprintf("team-%d", i), userID, memory.MatchIDMumbaiChennai, "pl-rohit", "pl-bumrah")
	}

	var wg sync.WaitGroup
	results := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = fx.svc.Join(t.Context(), JoinContestInput{
				ContestID: created.ID,
				UserID:    fmt.Sprintf("usr-%d", i),
				TeamID:    fmt.Sprintf("team-%d", i),
			})
		}()
	}
	wg.Wait()

	seated := 0
	for i, err := range results {
		if err == nil {
			seated++
			continue
		}
		if !errors.Is(err, ErrStateConflict) {
			t.Fatalf("loser %d got unexpected error: %v", i, err)
		}
		// Losers must be refunded in full.
		w, _, walletErr := fx.walletRepo.GetByUser(t.Context(), fmt.Sprintf("usr-%d", i))
		if walletErr != nil {
			t.Fatalf("get wallet: %v", walletErr)
		}
		if w.Balance != 100 {
			t.Fatalf("loser %d not refunded: balance=%d", i, w.Balance)
		}
	}
	if seated != 2 {
		t.Fatalf("capacity violated: %d seated in a 2-spot contest", seated)
	}

	stored, _, err := fx.contestRepo.GetByID(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("get contest: %v", err)
	}
	if stored.CurrentParticipants != 2 || stored.Status != contest.StatusClosed {
		t.Fatalf("final state wrong: participants=%d status=%s", stored.CurrentParticipants, stored.Status)
	}
}

func TestContestService_Join_FillEmitsOneSpawnEvent(t *testing.T) {
	fx := newContestFixture(t)
	created := createOpenContest(t, fx, 50, 2, 1)
	seedRoster(t, fx.teamRepo, "team-arjun", "usr-arjun", memory.MatchIDMumbaiChennai, "pl-rohit", "pl-bumrah")
	seedRoster(t, fx.teamRepo, "team-meera", "usr-meera", memory.MatchIDMumbaiChennai, "pl-hardik", "pl-surya")

	if _, err := fx.svc.Join(t.Context(), JoinContestInput{ContestID: created.ID, UserID: "usr-arjun", TeamID: "team-arjun"}); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if got := len(fx.spawnQueue.captured()); got != 0 {
		t.Fatalf("spawn emitted before fill: %d events", got)
	}

	result, err := fx.svc.Join(t.Context(), JoinContestInput{ContestID: created.ID, UserID: "usr-meera", TeamID: "team-meera"})
	if err != nil {
		t.Fatalf("filling join: %v", err)
	}
	if result.ContestStatus != contest.StatusClosed {
		t.Fatalf("contest should close on fill, got %s", result.ContestStatus)
	}

	events := fx.spawnQueue.captured()
	if len(events) != 1 {
		t.Fatalf("expected exactly one spawn event, got %d", len(events))
	}
	event := events[0]
	if event.SourceContestID != created.ID {
		t.Fatalf("spawn source: got %s want %s", event.SourceContestID, created.ID)
	}
	if event.EntryFee != created.EntryFee || event.PrizePool != created.PrizePool || event.TotalSpots != created.TotalSpots {
		t.Fatalf("spawn economics differ from source: %+v", event)
	}
}

func TestContestService_Join_TeamLimitEnforced(t *testing.T) {
	fx := newContestFixture(t)
	created := createOpenContest(t, fx, 10, 10, 1)
	seedRoster(t, fx.teamRepo, "team-a", "usr-arjun", memory.MatchIDMumbaiChennai, "pl-rohit", "pl-bumrah")
	seedRoster(t, fx.teamRepo, "team-b", "usr-arjun", memory.MatchIDMumbaiChennai, "pl-hardik", "pl-surya")

	if _, err := fx.svc.Join(t.Context(), JoinContestInput{ContestID: created.ID, UserID: "usr-arjun", TeamID: "team-a"}); err != nil {
		t.Fatalf("first join: %v", err)
	}
	_, err := fx.svc.Join(t.Context(), JoinContestInput{ContestID: created.ID, UserID: "usr-arjun", TeamID: "team-b"})
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected team limit conflict, got %v", err)
	}
}

func TestContestService_Join_TeamForDifferentMatchRejected(t *testing.T) {
	fx := newContestFixture(t)
	created := createOpenContest(t, fx, 10, 10, 2)
	seedRoster(t, fx.teamRepo, "team-wrong", "usr-arjun", memory.MatchIDDelhiBangalore, "pl-rohit", "pl-bumrah")

	_, err := fx.svc.Join(t.Context(), JoinContestInput{ContestID: created.ID, UserID: "usr-arjun", TeamID: "team-wrong"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for cross-match team, got %v", err)
	}
}

func TestContestService_CreateContest_RejectsBadEconomics(t *testing.T) {
	fx := newContestFixture(t)

	_, err := fx.svc.CreateContest(t.Context(), CreateContestInput{
		MatchID:        memory.MatchIDMumbaiChennai,
		EntryFee:       100,
		PrizePool:      900,
		TotalSpots:     0,
		MaxTeamPerUser: 1,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for zero spots, got %v", err)
	}
}

func TestContestService_CreateContest_RejectsNonUpcomingMatch(t *testing.T) {
	fx := newContestFixture(t)

	item, _, err := fx.matchRepo.GetByID(t.Context(), memory.MatchIDMumbaiChennai)
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	item.Status = "live"
	if err := fx.matchRepo.Upsert(t.Context(), item); err != nil {
		t.Fatalf("update match: %v", err)
	}

	_, err = fx.svc.CreateContest(t.Context(), CreateContestInput{
		MatchID:        memory.MatchIDMumbaiChennai,
		EntryFee:       100,
		PrizePool:      900,
		TotalSpots:     10,
		MaxTeamPerUser: 1,
	})
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected state conflict for live match, got %v", err)
	}
}
