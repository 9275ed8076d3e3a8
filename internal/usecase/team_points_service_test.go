package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/crickarena/fantasy-cricket/internal/domain/playerstat"
	"github.com/crickarena/fantasy-cricket/internal/infrastructure/repository/memory"
)

func TestTeamPointsService_RefreshAppliesMultipliers(t *testing.T) {
	statRepo := memory.NewPlayerStatRepository()
	teamRepo := memory.NewFantasyTeamRepository()
	svc := NewTeamPointsService(teamRepo, statRepo, nil)

	// Every player scored a flat 50 so the multiplier effect is isolated.
	for _, pick := range memory.SeedPlayingXI() {
		err := statRepo.Update(t.Context(), playerstat.PlayerRawStat{
			MatchID:   memory.MatchIDMumbaiChennai,
			PlayerID:  pick.PlayerID,
			Role:      pick.Role,
			Breakdown: playerstat.Breakdown{TotalPoints: 50},
		})
		if err != nil {
			t.Fatalf("seed stat row: %v", err)
		}
	}
	seedRoster(t, teamRepo, "team-1", "usr-arjun", memory.MatchIDMumbaiChennai, "pl-rohit", "pl-bumrah")

	result, err := svc.RefreshTeamPoints(t.Context(), memory.MatchIDMumbaiChennai)
	if err != nil {
		t.Fatalf("refresh team points: %v", err)
	}
	if result.UpdatedTeams != 1 || result.TotalTeams != 1 {
		t.Fatalf("unexpected refresh result: %+v", result)
	}

	team, ok, err := teamRepo.GetByID(t.Context(), "team-1")
	if err != nil || !ok {
		t.Fatalf("get team: ok=%v err=%v", ok, err)
	}
	if got := team.PerPlayerFinalPoints["pl-rohit"]; got != 100 {
		t.Fatalf("captain points: got %v want 100", got)
	}
	if got := team.PerPlayerFinalPoints["pl-bumrah"]; got != 75 {
		t.Fatalf("vice-captain points: got %v want 75", got)
	}
	if got := team.PerPlayerFinalPoints["pl-surya"]; got != 50 {
		t.Fatalf("regular player points: got %v want 50", got)
	}

	// 9 regulars at 50, captain 100, vice 75.
	want := 9*50.0 + 100 + 75
	if team.TotalPoints != want {
		t.Fatalf("team total: got %v want %v", team.TotalPoints, want)
	}
}

func TestTeamPointsService_RefreshSkipsUnchangedTeams(t *testing.T) {
	statRepo := memory.NewPlayerStatRepository()
	teamRepo := memory.NewFantasyTeamRepository()
	svc := NewTeamPointsService(teamRepo, statRepo, nil)

	for _, pick := range memory.SeedPlayingXI() {
		err := statRepo.Update(t.Context(), playerstat.PlayerRawStat{
			MatchID:   memory.MatchIDMumbaiChennai,
			PlayerID:  pick.PlayerID,
			Role:      pick.Role,
			Breakdown: playerstat.Breakdown{TotalPoints: 32},
		})
		if err != nil {
			t.Fatalf("seed stat row: %v", err)
		}
	}
	seedRoster(t, teamRepo, "team-1", "usr-arjun", memory.MatchIDMumbaiChennai, "pl-rohit", "pl-bumrah")
	seedRoster(t, teamRepo, "team-2", "usr-meera", memory.MatchIDMumbaiChennai, "pl-hardik", "pl-surya")

	first, err := svc.RefreshTeamPoints(t.Context(), memory.MatchIDMumbaiChennai)
	if err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if first.UpdatedTeams != 2 {
		t.Fatalf("first refresh should write both teams, wrote %d", first.UpdatedTeams)
	}

	second, err := svc.RefreshTeamPoints(t.Context(), memory.MatchIDMumbaiChennai)
	if err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if second.UpdatedTeams != 0 {
		t.Fatalf("second refresh with unchanged stats wrote %d teams", second.UpdatedTeams)
	}
	if second.TotalTeams != 2 {
		t.Fatalf("second refresh total teams: got %d want 2", second.TotalTeams)
	}
}

// gatedStatRepo parks the first ListByMatch after it has read its rows so a
// test can land stat writes while that pass is still in flight.
type gatedStatRepo struct {
	*memory.PlayerStatRepository
	gateOnce    sync.Once
	snapshotted chan struct{}
	resume      chan struct{}
}

func (r *gatedStatRepo) ListByMatch(ctx context.Context, matchID string) ([]playerstat.PlayerRawStat, error) {
	rows, err := r.PlayerStatRepository.ListByMatch(ctx, matchID)
	r.gateOnce.Do(func() {
		close(r.snapshotted)
		<-r.resume
	})
	return rows, err
}

func TestTeamPointsService_ConcurrentRefreshCoversPriorWrites(t *testing.T) {
	inner := memory.NewPlayerStatRepository()
	statRepo := &gatedStatRepo{
		PlayerStatRepository: inner,
		snapshotted:          make(chan struct{}),
		resume:               make(chan struct{}),
	}
	teamRepo := memory.NewFantasyTeamRepository()
	svc := NewTeamPointsService(teamRepo, statRepo, nil)

	for _, pick := range memory.SeedPlayingXI() {
		err := inner.Update(t.Context(), playerstat.PlayerRawStat{
			MatchID:   memory.MatchIDMumbaiChennai,
			PlayerID:  pick.PlayerID,
			Role:      pick.Role,
			Breakdown: playerstat.Breakdown{TotalPoints: 10},
		})
		if err != nil {
			t.Fatalf("seed stat row: %v", err)
		}
	}
	seedRoster(t, teamRepo, "team-1", "usr-arjun", memory.MatchIDMumbaiChennai, "pl-rohit", "pl-bumrah")

	var stale sync.WaitGroup
	stale.Add(1)
	go func() {
		defer stale.Done()
		if _, err := svc.RefreshTeamPoints(context.Background(), memory.MatchIDMumbaiChennai); err != nil {
			t.Errorf("first refresh: %v", err)
		}
	}()

	// The first pass has its snapshot; raise the captain's score behind it.
	<-statRepo.snapshotted
	err := inner.Update(t.Context(), playerstat.PlayerRawStat{
		MatchID:   memory.MatchIDMumbaiChennai,
		PlayerID:  "pl-rohit",
		Role:      playerstat.RoleBatter,
		Breakdown: playerstat.Breakdown{TotalPoints: 60},
	})
	if err != nil {
		t.Fatalf("update captain stat row: %v", err)
	}

	var fresh sync.WaitGroup
	fresh.Add(1)
	go func() {
		defer fresh.Done()
		if _, err := svc.RefreshTeamPoints(context.Background(), memory.MatchIDMumbaiChennai); err != nil {
			t.Errorf("second refresh: %v", err)
		}
	}()

	// Give the second caller time to pile onto the in-flight pass, then
	// let the stale snapshot run to completion.
	time.Sleep(50 * time.Millisecond)
	close(statRepo.resume)
	fresh.Wait()
	stale.Wait()

	team, ok, err := teamRepo.GetByID(t.Context(), "team-1")
	if err != nil || !ok {
		t.Fatalf("get team: ok=%v err=%v", ok, err)
	}
	if got := team.PerPlayerFinalPoints["pl-rohit"]; got != 120 {
		t.Fatalf("captain points after concurrent refresh: got %v want 120", got)
	}
}

func TestTeamPointsService_RefreshNoTeams(t *testing.T) {
	statRepo := memory.NewPlayerStatRepository()
	teamRepo := memory.NewFantasyTeamRepository()
	svc := NewTeamPointsService(teamRepo, statRepo, nil)

	result, err := svc.RefreshTeamPoints(t.Context(), memory.MatchIDDelhiBangalore)
	if err != nil {
		t.Fatalf("refresh with no teams: %v", err)
	}
	if result.UpdatedTeams != 0 || result.TotalTeams != 0 {
		t.Fatalf("unexpected result for empty match: %+v", result)
	}
}
