package contest

import (
	"errors"
	"fmt"
	"time"

	"github.com/crickarena/fantasy-cricket/internal/domain/match"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

var (
	ErrContestFull       = errors.New("contest is full")
	ErrContestClosed     = errors.New("contest is closed")
	ErrTeamLimitExceeded = errors.New("max teams per user exceeded")
	ErrDuplicateEntry    = errors.New("team already joined contest")
)

// Entry is one (user, team) participation record.
type Entry struct {
	ID       string
	UserID   string
	TeamID   string
	JoinedAt time.Time
}

// Contest is a fixed-capacity paid pool bound to one match. It moves
// OPEN -> CLOSED exactly when the last spot fills; CLOSED is terminal.
type Contest struct {
	ID                  string
	MatchID             string
	Format              match.Format
	EntryFee            int64
	PrizePool           int64
	TotalSpots          int
	CurrentParticipants int
	MaxTeamPerUser      int
	Status              Status
	Entries             []Entry
	CreatedAt           time.Time
}

func (c Contest) ValidateEconomics() error {
	if c.MatchID == "" {
		return fmt.Errorf("match id is required")
	}
	if _, ok := match.AllFormats[c.Format]; !ok {
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if c.EntryFee < 0 {
		return fmt.Errorf("entry fee must be >= 0, got %d", c.EntryFee)
	}
	if c.PrizePool < 0 {
		return fmt.Errorf("prize pool must be >= 0, got %d", c.PrizePool)
	}
	if c.TotalSpots < 1 {
		return fmt.Errorf("total spots must be >= 1, got %d", c.TotalSpots)
	}
	if c.MaxTeamPerUser < 1 {
		return fmt.Errorf("max teams per user must be >= 1, got %d", c.MaxTeamPerUser)
	}
	return nil
}

func (c Contest) EntriesByUser(userID string) int {
	count := 0
	for _, entry := range c.Entries {
		if entry.UserID == userID {
			count++
		}
	}
	return count
}

// Sibling derives the replacement contest spawned when this one fills:
// identical economics, zero participants, freshly OPEN.
func (c Contest) Sibling(newID string, now time.Time) Contest {
	return Contest{
		ID:             newID,
		MatchID:        c.MatchID,
		Format:         c.Format,
		EntryFee:       c.EntryFee,
		PrizePool:      c.PrizePool,
		TotalSpots:     c.TotalSpots,
		MaxTeamPerUser: c.MaxTeamPerUser,
		Status:         StatusOpen,
		CreatedAt:      now,
	}
}
