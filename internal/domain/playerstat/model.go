package playerstat

import (
	"strings"
	"time"
)

// Role is the per-match designation recorded when the Playing XI is
// finalized. The duck-penalty exemption keys off this value, not the
// player's profile role.
type Role string

const (
	RoleBatter     Role = "batter"
	RoleBowler     Role = "bowler"
	RoleAllrounder Role = "allrounder"
	RoleKeeper     Role = "keeper"
)

var AllRoles = map[Role]struct{}{
	RoleBatter:     {},
	RoleBowler:     {},
	RoleAllrounder: {},
	RoleKeeper:     {},
}

func NormalizeRole(raw string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := AllRoles[role]; !ok {
		return "", false
	}
	return role, true
}

type Batting struct {
	Runs       int
	BallsFaced int
	Fours      int
	Sixes      int
	IsOut      bool
	StrikeRate float64
}

type Bowling struct {
	OversBowled  float64
	WicketsTaken int
	MaidenOvers  int
	LBWCount     int
	BowledCount  int
	RunsGiven    int
	EconomyRate  float64
}

type Fielding struct {
	Catches   int
	Stumpings int
	RunOuts   int
}

// Breakdown is a wholly derived value, recomputed from scratch after every
// stat correction. It never carries the Playing-XI bonus.
type Breakdown struct {
	BattingPoints  int
	BowlingPoints  int
	FieldingPoints int
	BonusPoints    int
	TotalPoints    int
}

// PlayerRawStat is the authoritative per-(match, player) performance record.
// Created once when the Playing XI is finalized, mutated only through stat
// update batches.
type PlayerRawStat struct {
	MatchID      string
	PlayerID     string
	Role         Role
	Batting      Batting
	Bowling      Bowling
	Fielding     Fielding
	IsManOfMatch bool

	// PlayingXIBonus is granted once at row creation and is deliberately
	// outside Breakdown so recomputation can never erase it.
	PlayingXIBonus int

	Breakdown Breakdown
	UpdatedAt time.Time
}

// EffectivePoints is the value fantasy teams consume: the recomputed
// breakdown plus the write-once selection bonus.
func (s PlayerRawStat) EffectivePoints() int {
	return s.Breakdown.TotalPoints + s.PlayingXIBonus
}
