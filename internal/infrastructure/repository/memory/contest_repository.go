package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/crickarena/fantasy-cricket/internal/domain/contest"
)

type ContestRepository struct {
	mu    sync.Mutex
	items map[string]contest.Contest
}

func NewContestRepository() *ContestRepository {
	return &ContestRepository{items: make(map[string]contest.Contest)}
}

func (r *ContestRepository) Create(_ context.Context, item contest.Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("contest %s already exists", item.ID)
	}
	r.items[item.ID] = cloneContest(item)
	return nil
}

func (r *ContestRepository) GetByID(_ context.Context, contestID string) (contest.Contest, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[contestID]
	if !ok {
		return contest.Contest{}, false, nil
	}
	return cloneContest(item), true, nil
}

func (r *ContestRepository) ListByMatch(_ context.Context, matchID string) ([]contest.Contest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]contest.Contest, 0)
	for _, item := range r.items {
		if item.MatchID == matchID {
			items = append(items, cloneContest(item))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// AppendEntryIfOpen performs the whole seat transition under one lock so
// concurrent joins serialize against the capacity check.
func (r *ContestRepository) AppendEntryIfOpen(_ context.Context, contestID string, entry contest.Entry) (contest.Contest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[contestID]
	if !ok {
		return contest.Contest{}, fmt.Errorf("contest %s not found", contestID)
	}
	if item.Status != contest.StatusOpen {
		return contest.Contest{}, contest.ErrContestClosed
	}
	if item.CurrentParticipants >= item.TotalSpots {
		return contest.Contest{}, contest.ErrContestFull
	}
	if item.EntriesByUser(entry.UserID) >= item.MaxTeamPerUser {
		return contest.Contest{}, contest.ErrTeamLimitExceeded
	}
	for _, existing := range item.Entries {
		if existing.TeamID == entry.TeamID {
			return contest.Contest{}, contest.ErrDuplicateEntry
		}
	}

	item.Entries = append(item.Entries, entry)
	item.CurrentParticipants++
	if item.CurrentParticipants == item.TotalSpots {
		item.Status = contest.StatusClosed
	}
	r.items[contestID] = item
	return cloneContest(item), nil
}

func cloneContest(c contest.Contest) contest.Contest {
	copied := c
	copied.Entries = append([]contest.Entry(nil), c.Entries...)
	return copied
}
