package contest

import (
	"time"

	"github.com/crickarena/fantasy-cricket/internal/domain/match"
)

// SpawnEvent asks for a sibling contest once an original fills. It is
// emitted outside the join's atomic unit and consumed by a retrying
// handler; losing it must never affect the join that produced it.
type SpawnEvent struct {
	SourceContestID string
	MatchID         string
	Format          match.Format
	EntryFee        int64
	PrizePool       int64
	TotalSpots      int
	MaxTeamPerUser  int
	FilledAt        time.Time
}

// SpawnQueue accepts spawn events for asynchronous handling.
type SpawnQueue interface {
	Enqueue(event SpawnEvent) error
}
