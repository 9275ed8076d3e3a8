package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/crickarena/fantasy-cricket/internal/domain/playerstat"
)

type PlayerStatRepository struct {
	mu    sync.RWMutex
	items map[string]playerstat.PlayerRawStat
}

func NewPlayerStatRepository() *PlayerStatRepository {
	return &PlayerStatRepository{items: make(map[string]playerstat.PlayerRawStat)}
}

func (r *PlayerStatRepository) CreateForPlayingXI(_ context.Context, matchID string, rows []playerstat.PlayerRawStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.items {
		if r.items[key].MatchID == matchID {
			return playerstat.ErrDuplicateStats
		}
	}

	for _, row := range rows {
		r.items[statKey(row.MatchID, row.PlayerID)] = row
	}
	return nil
}

func (r *PlayerStatRepository) GetByMatchAndPlayer(_ context.Context, matchID, playerID string) (playerstat.PlayerRawStat, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.items[statKey(matchID, playerID)]
	if !ok {
		return playerstat.PlayerRawStat{}, false, nil
	}
	return row, true, nil
}

func (r *PlayerStatRepository) ListByMatch(_ context.Context, matchID string) ([]playerstat.PlayerRawStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([]playerstat.PlayerRawStat, 0)
	for _, row := range r.items {
		if row.MatchID == matchID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PlayerID < rows[j].PlayerID })
	return rows, nil
}

func (r *PlayerStatRepository) Update(_ context.Context, stat playerstat.PlayerRawStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[statKey(stat.MatchID, stat.PlayerID)] = stat
	return nil
}

func statKey(matchID, playerID string) string {
	return matchID + "::" + playerID
}
