package scoring

import (
	"testing"

	"github.com/crickarena/fantasy-cricket/internal/domain/match"
	"github.com/crickarena/fantasy-cricket/internal/domain/playerstat"
)

func TestComputeFantasyPoints_Idempotent(t *testing.T) {
	stat := playerstat.PlayerRawStat{
		Role: playerstat.RoleAllrounder,
		Batting: playerstat.Batting{
			Runs:  57,
			Fours: 6,
			Sixes: 2,
			IsOut: true,
		},
		Bowling: playerstat.Bowling{
			WicketsTaken: 3,
			MaidenOvers:  1,
			LBWCount:     1,
			BowledCount:  1,
			RunsGiven:    34,
		},
		Fielding:     playerstat.Fielding{Catches: 1},
		IsManOfMatch: true,
	}

	first := ComputeFantasyPoints(stat, match.FormatT20)
	for i := 0; i < 5; i++ {
		again := ComputeFantasyPoints(stat, match.FormatT20)
		if again != first {
			t.Fatalf("recompute %d diverged: got %+v want %+v", i, again, first)
		}
	}
	if first.TotalPoints != first.BattingPoints+first.BowlingPoints+first.FieldingPoints+first.BonusPoints {
		t.Fatalf("total is not the sum of components: %+v", first)
	}
}

func TestComputeFantasyPoints_ODICenturyNotOut(t *testing.T) {
	stat := playerstat.PlayerRawStat{
		Role: playerstat.RoleBatter,
		Batting: playerstat.Batting{
			Runs:  100,
			Fours: 9,
			Sixes: 2,
		},
	}

	breakdown := ComputeFantasyPoints(stat, match.FormatODI)
	if breakdown.BattingPoints != 100 {
		t.Fatalf("unexpected batting base: %d", breakdown.BattingPoints)
	}

	// Milestones: 50->+8 and 100->+16 only; the 25/75 tiers are not
	// awarded in ODI. Boundaries add 9*4 + 2*6 on top.
	wantBonus := 8 + 16 + 9*4 + 2*6
	if breakdown.BonusPoints != wantBonus {
		t.Fatalf("unexpected bonus: got %d want %d", breakdown.BonusPoints, wantBonus)
	}
	if breakdown.TotalPoints != 100+wantBonus {
		t.Fatalf("unexpected total: %d", breakdown.TotalPoints)
	}
}

func TestComputeFantasyPoints_BattingMilestonesByFormat(t *testing.T) {
	cases := []struct {
		name   string
		runs   int
		format match.Format
		want   int
	}{
		{name: "t20 quarter century", runs: 25, format: match.FormatT20, want: 4},
		{name: "t10 quarter century", runs: 30, format: match.FormatT10, want: 4},
		{name: "odi no quarter bonus", runs: 49, format: match.FormatODI, want: 0},
		{name: "t20 seventy five", runs: 80, format: match.FormatT20, want: 4 + 8 + 12},
		{name: "test double tier", runs: 150, format: match.FormatTest, want: 8 + 16 + 20 + 24},
		{name: "league fifty only", runs: 99, format: match.FormatLeague, want: 8},
		{name: "cup century", runs: 100, format: match.FormatCup, want: 8 + 16},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := battingMilestoneBonus(tc.runs, tc.format)
			if got != tc.want {
				t.Fatalf("milestone bonus: got %d want %d", got, tc.want)
			}
		})
	}
}

func TestComputeFantasyPoints_DuckPenalty(t *testing.T) {
	duck := func(role playerstat.Role) playerstat.PlayerRawStat {
		return playerstat.PlayerRawStat{
			Role:    role,
			Batting: playerstat.Batting{Runs: 0, IsOut: true},
		}
	}

	for _, format := range []match.Format{match.FormatT20, match.FormatT10, match.FormatODI, match.FormatLeague, match.FormatCup} {
		breakdown := ComputeFantasyPoints(duck(playerstat.RoleBatter), format)
		if breakdown.BonusPoints != -2 {
			t.Fatalf("format %s: got bonus %d want -2", format, breakdown.BonusPoints)
		}
	}

	breakdown := ComputeFantasyPoints(duck(playerstat.RoleKeeper), match.FormatTest)
	if breakdown.BonusPoints != -4 {
		t.Fatalf("test duck: got bonus %d want -4", breakdown.BonusPoints)
	}

	bowler := ComputeFantasyPoints(duck(playerstat.RoleBowler), match.FormatT20)
	if bowler.BonusPoints != 0 {
		t.Fatalf("bowler duck must not be penalized, got %d", bowler.BonusPoints)
	}

	notOut := playerstat.PlayerRawStat{Role: playerstat.RoleBatter}
	if got := ComputeFantasyPoints(notOut, match.FormatT20).BonusPoints; got != 0 {
		t.Fatalf("0 not out must not be penalized, got %d", got)
	}
}

func TestComputeFantasyPoints_Bowling(t *testing.T) {
	stat := playerstat.PlayerRawStat{
		Role: playerstat.RoleBowler,
		Bowling: playerstat.Bowling{
			WicketsTaken: 5,
			MaidenOvers:  2,
			LBWCount:     2,
			BowledCount:  1,
		},
	}

	test := ComputeFantasyPoints(stat, match.FormatTest)
	if test.BowlingPoints != 5*16 {
		t.Fatalf("test bowling: got %d want %d (maidens must be excluded)", test.BowlingPoints, 5*16)
	}
	if test.BonusPoints != 8+2*8+1*8 {
		t.Fatalf("test bowling bonus: got %d want %d", test.BonusPoints, 8+2*8+1*8)
	}

	t20 := ComputeFantasyPoints(stat, match.FormatT20)
	if t20.BowlingPoints != 5*28+2*12 {
		t.Fatalf("t20 bowling: got %d want %d", t20.BowlingPoints, 5*28+2*12)
	}
	if t20.BonusPoints != 4+8+16+2*8+1*8 {
		t.Fatalf("t20 bowling bonus: got %d want %d", t20.BonusPoints, 4+8+16+2*8+1*8)
	}

	t10 := ComputeFantasyPoints(playerstat.PlayerRawStat{
		Role:    playerstat.RoleBowler,
		Bowling: playerstat.Bowling{WicketsTaken: 3, MaidenOvers: 1},
	}, match.FormatT10)
	if t10.BowlingPoints != 3*28+1*16 {
		t.Fatalf("t10 bowling: got %d want %d", t10.BowlingPoints, 3*28+1*16)
	}
	if t10.BonusPoints != 4+8 {
		t.Fatalf("t10 wicket bonus: got %d want %d", t10.BonusPoints, 4+8)
	}
}

func TestComputeFantasyPoints_FieldingAndManOfMatch(t *testing.T) {
	stat := playerstat.PlayerRawStat{
		Role:         playerstat.RoleKeeper,
		Fielding:     playerstat.Fielding{Catches: 2, Stumpings: 1, RunOuts: 1},
		IsManOfMatch: true,
	}

	breakdown := ComputeFantasyPoints(stat, match.FormatODI)
	if breakdown.FieldingPoints != 2*8+12+12 {
		t.Fatalf("fielding: got %d want %d", breakdown.FieldingPoints, 2*8+12+12)
	}
	if breakdown.BonusPoints != 25 {
		t.Fatalf("man of the match: got %d want 25", breakdown.BonusPoints)
	}
}

func TestStrikeRate(t *testing.T) {
	if got := StrikeRate(45, 0); got != 0 {
		t.Fatalf("zero balls: got %v want 0", got)
	}
	if got := StrikeRate(45, 30); got != 150 {
		t.Fatalf("got %v want 150", got)
	}
	if got := StrikeRate(33, 21); got != 157.14 {
		t.Fatalf("got %v want 157.14", got)
	}
}

func TestEconomyRate(t *testing.T) {
	if got := EconomyRate(30, 0); got != 0 {
		t.Fatalf("zero overs: got %v want 0", got)
	}
	if got := EconomyRate(32, 4); got != 8 {
		t.Fatalf("got %v want 8", got)
	}
	if got := EconomyRate(25, 3); got != 8.33 {
		t.Fatalf("got %v want 8.33", got)
	}
}
