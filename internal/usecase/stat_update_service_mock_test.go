package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/crickarena/fantasy-cricket/internal/domain/match"
	"github.com/crickarena/fantasy-cricket/internal/domain/playerstat"
)

type matchRepoMock struct {
	mock.Mock
}

func (m *matchRepoMock) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	args := m.Called(ctx, matchID)
	return args.Get(0).(match.Match), args.Bool(1), args.Error(2)
}

type statRepoMock struct {
	mock.Mock
}

func (m *statRepoMock) CreateForPlayingXI(ctx context.Context, matchID string, rows []playerstat.PlayerRawStat) error {
	args := m.Called(ctx, matchID, rows)
	return args.Error(0)
}

func (m *statRepoMock) GetByMatchAndPlayer(ctx context.Context, matchID, playerID string) (playerstat.PlayerRawStat, bool, error) {
	args := m.Called(ctx, matchID, playerID)
	return args.Get(0).(playerstat.PlayerRawStat), args.Bool(1), args.Error(2)
}

func (m *statRepoMock) ListByMatch(ctx context.Context, matchID string) ([]playerstat.PlayerRawStat, error) {
	args := m.Called(ctx, matchID)
	rows, _ := args.Get(0).([]playerstat.PlayerRawStat)
	return rows, args.Error(1)
}

func (m *statRepoMock) Update(ctx context.Context, stat playerstat.PlayerRawStat) error {
	args := m.Called(ctx, stat)
	return args.Error(0)
}

func TestStatService_FinalizePlayingXI_DuplicateRowsBecomeConflict(t *testing.T) {
	t.Parallel()

	matchRepo := &matchRepoMock{}
	statRepo := &statRepoMock{}
	svc := NewStatService(matchRepo, statRepo, nil)

	matchID := "mt-mock-001"
	matchRepo.
		On("GetByID", mock.Anything, matchID).
		Return(match.Match{ID: matchID, Format: match.FormatT20, Status: match.StatusUpcoming}, true, nil).
		Once()
	statRepo.
		On("CreateForPlayingXI", mock.Anything, matchID, mock.Anything).
		Return(playerstat.ErrDuplicateStats).
		Once()

	err := svc.FinalizePlayingXI(t.Context(), matchID, []PlayingXISelection{
		{PlayerID: "pl-rohit", Role: playerstat.RoleBatter},
	})
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}

	matchRepo.AssertExpectations(t)
	statRepo.AssertExpectations(t)
}

func TestStatService_ApplyStatUpdates_RepoListFailureAborts(t *testing.T) {
	t.Parallel()

	matchRepo := &matchRepoMock{}
	statRepo := &statRepoMock{}
	svc := NewStatService(matchRepo, statRepo, nil)

	matchID := "mt-mock-002"
	listErr := errors.New("connection reset")
	matchRepo.
		On("GetByID", mock.Anything, matchID).
		Return(match.Match{ID: matchID, Format: match.FormatODI, Status: match.StatusLive}, true, nil).
		Once()
	statRepo.
		On("ListByMatch", mock.Anything, matchID).
		Return(nil, listErr).
		Once()

	_, err := svc.ApplyStatUpdates(t.Context(), matchID, []StatUpdate{{PlayerID: "pl-rohit"}})
	if !errors.Is(err, listErr) {
		t.Fatalf("expected wrapped list error, got %v", err)
	}

	statRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	matchRepo.AssertExpectations(t)
	statRepo.AssertExpectations(t)
}
