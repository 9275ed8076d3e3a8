package contest

import "context"

// Repository describes contest persistence needs from use cases.
//
// AppendEntryIfOpen is the capacity hot path: implementations must apply
// "append entry + increment participants + close when full" as one atomic
// conditional update so concurrent joins can never overshoot TotalSpots.
type Repository interface {
	Create(ctx context.Context, item Contest) error
	GetByID(ctx context.Context, contestID string) (Contest, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Contest, error)
	// AppendEntryIfOpen returns the contest state after the append.
	// It fails with ErrContestClosed / ErrContestFull / ErrTeamLimitExceeded /
	// ErrDuplicateEntry without mutating anything.
	AppendEntryIfOpen(ctx context.Context, contestID string, entry Entry) (Contest, error)
}
