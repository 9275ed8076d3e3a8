package fantasyteam

import (
	"errors"
	"fmt"
	"time"
)

const RosterSize = 11

const (
	CaptainMultiplier     = 2.0
	ViceCaptainMultiplier = 1.5
)

var (
	ErrInvalidRosterSize  = errors.New("roster must contain exactly 11 players")
	ErrDuplicatePlayer    = errors.New("duplicate player in roster")
	ErrCaptainOutsideTeam = errors.New("captain must be in roster")
	ErrViceOutsideTeam    = errors.New("vice-captain must be in roster")
	ErrCaptainIsVice      = errors.New("captain and vice-captain must be different")
)

// Team is a user-built fantasy roster for one match.
type Team struct {
	ID            string
	UserID        string
	MatchID       string
	PlayerIDs     []string
	CaptainID     string
	ViceCaptainID string

	// PerPlayerFinalPoints holds each player's points after the role
	// multiplier; TotalPoints is their sum. Both are overwritten wholesale
	// on every propagation pass.
	PerPlayerFinalPoints map[string]float64
	TotalPoints          float64
	UpdatedAt            time.Time
}

func (t Team) Validate() error {
	if len(t.PlayerIDs) != RosterSize {
		return fmt.Errorf("%w: got %d", ErrInvalidRosterSize, len(t.PlayerIDs))
	}

	seen := make(map[string]struct{}, len(t.PlayerIDs))
	for _, playerID := range t.PlayerIDs {
		if playerID == "" {
			return fmt.Errorf("player id is required")
		}
		if _, exists := seen[playerID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, playerID)
		}
		seen[playerID] = struct{}{}
	}

	if _, ok := seen[t.CaptainID]; !ok {
		return fmt.Errorf("%w: %s", ErrCaptainOutsideTeam, t.CaptainID)
	}
	if _, ok := seen[t.ViceCaptainID]; !ok {
		return fmt.Errorf("%w: %s", ErrViceOutsideTeam, t.ViceCaptainID)
	}
	if t.CaptainID == t.ViceCaptainID {
		return ErrCaptainIsVice
	}

	return nil
}

// MultiplierFor returns the role factor applied to a player's base points.
func (t Team) MultiplierFor(playerID string) float64 {
	switch playerID {
	case t.CaptainID:
		return CaptainMultiplier
	case t.ViceCaptainID:
		return ViceCaptainMultiplier
	default:
		return 1
	}
}
