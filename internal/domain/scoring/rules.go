package scoring

import (
	"math"

	"github.com/crickarena/fantasy-cricket/internal/domain/match"
	"github.com/crickarena/fantasy-cricket/internal/domain/playerstat"
)

const (
	runPoints       = 1
	fourBonus       = 4
	sixBonus        = 6
	catchPoints     = 8
	stumpingPoints  = 12
	runOutPoints    = 12
	lbwBonus        = 8
	bowledBonus     = 8
	manOfMatchBonus = 25

	wicketUnitPointsTest    = 16
	wicketUnitPointsDefault = 28

	maidenOverPointsT10     = 16
	maidenOverPointsDefault = 12

	duckPenaltyTest    = -4
	duckPenaltyDefault = -2
)

type battingMilestone struct {
	runs    int
	bonus   int
	formats map[match.Format]struct{}
}

// nil formats means every format qualifies.
var battingMilestones = []battingMilestone{
	{runs: 25, bonus: 4, formats: formatSet(match.FormatT20, match.FormatT10)},
	{runs: 50, bonus: 8},
	{runs: 75, bonus: 12, formats: formatSet(match.FormatT20)},
	{runs: 100, bonus: 16},
	{runs: 125, bonus: 20, formats: formatSet(match.FormatODI, match.FormatTest)},
	{runs: 150, bonus: 24, formats: formatSet(match.FormatODI, match.FormatTest)},
}

type wicketMilestone struct {
	wickets int
	bonus   int
}

var wicketMilestonesByFormat = map[match.Format][]wicketMilestone{
	match.FormatTest: {{wickets: 5, bonus: 8}, {wickets: 10, bonus: 16}},
	match.FormatT10:  {{wickets: 2, bonus: 4}, {wickets: 3, bonus: 8}},
}

// T20, ODI and the league/cup formats share the short-format ladder.
var defaultWicketMilestones = []wicketMilestone{
	{wickets: 3, bonus: 4},
	{wickets: 4, bonus: 8},
	{wickets: 5, bonus: 16},
}

// ComputeFantasyPoints derives the full points breakdown for one player's
// observed performance. It is pure and idempotent: re-invoking it after a
// stat correction yields the corrected truth with no delta drift, which is
// why the ingestor always recomputes instead of incrementing.
func ComputeFantasyPoints(stat playerstat.PlayerRawStat, format match.Format) playerstat.Breakdown {
	breakdown := playerstat.Breakdown{
		BattingPoints:  stat.Batting.Runs * runPoints,
		BowlingPoints:  stat.Bowling.WicketsTaken*wicketUnitPoints(format) + maidenOverPoints(stat.Bowling.MaidenOvers, format),
		FieldingPoints: stat.Fielding.Catches*catchPoints + stat.Fielding.Stumpings*stumpingPoints + stat.Fielding.RunOuts*runOutPoints,
	}

	bonus := battingMilestoneBonus(stat.Batting.Runs, format)
	bonus += stat.Batting.Fours*fourBonus + stat.Batting.Sixes*sixBonus
	bonus += wicketMilestoneBonus(stat.Bowling.WicketsTaken, format)
	bonus += stat.Bowling.LBWCount*lbwBonus + stat.Bowling.BowledCount*bowledBonus
	bonus += duckPenalty(stat, format)
	if stat.IsManOfMatch {
		bonus += manOfMatchBonus
	}

	breakdown.BonusPoints = bonus
	breakdown.TotalPoints = breakdown.BattingPoints + breakdown.BowlingPoints + breakdown.FieldingPoints + breakdown.BonusPoints
	return breakdown
}

// StrikeRate is runs per hundred balls, rounded to two decimals.
// Zero balls faced yields zero, not a division error.
func StrikeRate(runs, ballsFaced int) float64 {
	if ballsFaced <= 0 {
		return 0
	}
	return round2(float64(runs) / float64(ballsFaced) * 100)
}

// EconomyRate is runs conceded per over, rounded to two decimals.
func EconomyRate(runsGiven int, oversBowled float64) float64 {
	if oversBowled <= 0 {
		return 0
	}
	return round2(float64(runsGiven) / oversBowled)
}

func battingMilestoneBonus(runs int, format match.Format) int {
	bonus := 0
	for _, milestone := range battingMilestones {
		if runs < milestone.runs {
			continue
		}
		if milestone.formats != nil {
			if _, ok := milestone.formats[format]; !ok {
				continue
			}
		}
		bonus += milestone.bonus
	}
	return bonus
}

func wicketMilestoneBonus(wickets int, format match.Format) int {
	ladder, ok := wicketMilestonesByFormat[format]
	if !ok {
		ladder = defaultWicketMilestones
	}

	bonus := 0
	for _, milestone := range ladder {
		if wickets >= milestone.wickets {
			bonus += milestone.bonus
		}
	}
	return bonus
}

func wicketUnitPoints(format match.Format) int {
	if format == match.FormatTest {
		return wicketUnitPointsTest
	}
	return wicketUnitPointsDefault
}

func maidenOverPoints(maidenOvers int, format match.Format) int {
	switch format {
	case match.FormatTest:
		return 0
	case match.FormatT10:
		return maidenOvers * maidenOverPointsT10
	default:
		return maidenOvers * maidenOverPointsDefault
	}
}

func duckPenalty(stat playerstat.PlayerRawStat, format match.Format) int {
	if stat.Batting.Runs != 0 || !stat.Batting.IsOut || stat.Role == playerstat.RoleBowler {
		return 0
	}
	if format == match.FormatTest {
		return duckPenaltyTest
	}
	return duckPenaltyDefault
}

func formatSet(formats ...match.Format) map[match.Format]struct{} {
	out := make(map[match.Format]struct{}, len(formats))
	for _, format := range formats {
		out[format] = struct{}{}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
