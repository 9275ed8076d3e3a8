package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/crickarena/fantasy-cricket/internal/domain/contest"
	"github.com/crickarena/fantasy-cricket/internal/domain/match"
	"github.com/crickarena/fantasy-cricket/internal/infrastructure/repository/memory"
)

func TestLeaderboardService_RanksByPointsThenJoinTime(t *testing.T) {
	matchRepo := memory.NewMatchRepository()
	for _, item := range memory.SeedMatches() {
		if err := matchRepo.Upsert(t.Context(), item); err != nil {
			t.Fatalf("seed match: %v", err)
		}
	}
	contestRepo := memory.NewContestRepository()
	teamRepo := memory.NewFantasyTeamRepository()
	svc := NewLeaderboardService(contestRepo, matchRepo, teamRepo, nil)

	base := time.Date(2026, 3, 22, 10, 0, 0, 0, time.UTC)
	item := contest.Contest{
		ID:             "ct-1",
		MatchID:        memory.MatchIDMumbaiChennai,
		Format:         match.FormatT20,
		EntryFee:       10,
		PrizePool:      90,
		TotalSpots:     10,
		MaxTeamPerUser: 1,
		Status:         contest.StatusOpen,
		Entries: []contest.Entry{
			{ID: "en-1", UserID: "usr-arjun", TeamID: "team-1", JoinedAt: base},
			{ID: "en-2", UserID: "usr-meera", TeamID: "team-2", JoinedAt: base.Add(time.Minute)},
			{ID: "en-3", UserID: "usr-kabir", TeamID: "team-3", JoinedAt: base.Add(2 * time.Minute)},
		},
		CurrentParticipants: 3,
		CreatedAt:           base,
	}
	if err := contestRepo.Create(t.Context(), item); err != nil {
		t.Fatalf("create contest: %v", err)
	}

	// team-2 and team-3 are tied; team-3 outscores nobody and joined later.
	seedRoster(t, teamRepo, "team-1", "usr-arjun", memory.MatchIDMumbaiChennai, "pl-rohit", "pl-bumrah")
	seedRoster(t, teamRepo, "team-2", "usr-meera", memory.MatchIDMumbaiChennai, "pl-hardik", "pl-surya")
	seedRoster(t, teamRepo, "team-3", "usr-kabir", memory.MatchIDMumbaiChennai, "pl-ishan", "pl-tilak")
	setTeamTotal(t, teamRepo, "team-1", 120.5)
	setTeamTotal(t, teamRepo, "team-2", 250)
	setTeamTotal(t, teamRepo, "team-3", 250)

	view, err := svc.Leaderboard(t.Context(), "ct-1")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if view.MatchStatus != match.StatusUpcoming {
		t.Fatalf("match status: got %s", view.MatchStatus)
	}
	if len(view.Rows) != 3 {
		t.Fatalf("row count: got %d want 3", len(view.Rows))
	}

	wantOrder := []string{"team-2", "team-3", "team-1"}
	for i, want := range wantOrder {
		if view.Rows[i].TeamID != want {
			t.Fatalf("position %d: got %s want %s", i, view.Rows[i].TeamID, want)
		}
		if view.Rows[i].Rank != i+1 {
			t.Fatalf("rank at position %d: got %d", i, view.Rows[i].Rank)
		}
	}
	if view.Rows[0].Points != 250 || view.Rows[2].Points != 120.5 {
		t.Fatalf("points carried wrong: first=%v last=%v", view.Rows[0].Points, view.Rows[2].Points)
	}
}

func TestLeaderboardService_UnknownContest(t *testing.T) {
	svc := NewLeaderboardService(memory.NewContestRepository(), memory.NewMatchRepository(), memory.NewFantasyTeamRepository(), nil)

	_, err := svc.Leaderboard(t.Context(), "ct-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func setTeamTotal(t *testing.T, teamRepo *memory.FantasyTeamRepository, teamID string, total float64) {
	t.Helper()
	if err := teamRepo.UpdatePoints(t.Context(), teamID, nil, total); err != nil {
		t.Fatalf("set team total: %v", err)
	}
}
