package playerstat

import (
	"context"
	"errors"
)

// ErrDuplicateStats signals a second Playing-XI finalization for a match
// whose stat rows already exist.
var ErrDuplicateStats = errors.New("stat rows already exist for match")

// Repository describes raw-stat persistence needs from use cases.
type Repository interface {
	// CreateForPlayingXI inserts the initial rows for a match exactly once.
	// A match that already has rows yields ErrDuplicateStats.
	CreateForPlayingXI(ctx context.Context, matchID string, rows []PlayerRawStat) error
	GetByMatchAndPlayer(ctx context.Context, matchID, playerID string) (PlayerRawStat, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]PlayerRawStat, error)
	Update(ctx context.Context, stat PlayerRawStat) error
}
