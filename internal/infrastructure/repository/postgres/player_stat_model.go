package postgres

import (
	"time"

	"github.com/crickarena/fantasy-cricket/internal/domain/playerstat"
)

type playerStatTableModel struct {
	ID             int64     `db:"id"`
	MatchID        string    `db:"match_public_id"`
	PlayerID       string    `db:"player_public_id"`
	Role           string    `db:"role"`
	Runs           int       `db:"runs"`
	BallsFaced     int       `db:"balls_faced"`
	Fours          int       `db:"fours"`
	Sixes          int       `db:"sixes"`
	IsOut          bool      `db:"is_out"`
	StrikeRate     float64   `db:"strike_rate"`
	OversBowled    float64   `db:"overs_bowled"`
	WicketsTaken   int       `db:"wickets_taken"`
	MaidenOvers    int       `db:"maiden_overs"`
	LBWCount       int       `db:"lbw_count"`
	BowledCount    int       `db:"bowled_count"`
	RunsGiven      int       `db:"runs_given"`
	EconomyRate    float64   `db:"economy_rate"`
	Catches        int       `db:"catches"`
	Stumpings      int       `db:"stumpings"`
	RunOuts        int       `db:"run_outs"`
	IsManOfMatch   bool      `db:"is_man_of_match"`
	PlayingXIBonus int       `db:"playing_xi_bonus"`
	BattingPoints  int       `db:"batting_points"`
	BowlingPoints  int       `db:"bowling_points"`
	FieldingPoints int       `db:"fielding_points"`
	BonusPoints    int       `db:"bonus_points"`
	TotalPoints    int       `db:"total_points"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type playerStatInsertModel struct {
	MatchID        string    `db:"match_public_id"`
	PlayerID       string    `db:"player_public_id"`
	Role           string    `db:"role"`
	Runs           int       `db:"runs"`
	BallsFaced     int       `db:"balls_faced"`
	Fours          int       `db:"fours"`
	Sixes          int       `db:"sixes"`
	IsOut          bool      `db:"is_out"`
	StrikeRate     float64   `db:"strike_rate"`
	OversBowled    float64   `db:"overs_bowled"`
	WicketsTaken   int       `db:"wickets_taken"`
	MaidenOvers    int       `db:"maiden_overs"`
	LBWCount       int       `db:"lbw_count"`
	BowledCount    int       `db:"bowled_count"`
	RunsGiven      int       `db:"runs_given"`
	EconomyRate    float64   `db:"economy_rate"`
	Catches        int       `db:"catches"`
	Stumpings      int       `db:"stumpings"`
	RunOuts        int       `db:"run_outs"`
	IsManOfMatch   bool      `db:"is_man_of_match"`
	PlayingXIBonus int       `db:"playing_xi_bonus"`
	BattingPoints  int       `db:"batting_points"`
	BowlingPoints  int       `db:"bowling_points"`
	FieldingPoints int       `db:"fielding_points"`
	BonusPoints    int       `db:"bonus_points"`
	TotalPoints    int       `db:"total_points"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (m playerStatTableModel) toDomain() playerstat.PlayerRawStat {
	return playerstat.PlayerRawStat{
		MatchID:  m.MatchID,
		PlayerID: m.PlayerID,
		Role:     playerstat.Role(m.Role),
		Batting: playerstat.Batting{
			Runs:       m.Runs,
			BallsFaced: m.BallsFaced,
			Fours:      m.Fours,
			Sixes:      m.Sixes,
			IsOut:      m.IsOut,
			StrikeRate: m.StrikeRate,
		},
		Bowling: playerstat.Bowling{
			OversBowled:  m.OversBowled,
			WicketsTaken: m.WicketsTaken,
			MaidenOvers:  m.MaidenOvers,
			LBWCount:     m.LBWCount,
			BowledCount:  m.BowledCount,
			RunsGiven:    m.RunsGiven,
			EconomyRate:  m.EconomyRate,
		},
		Fielding: playerstat.Fielding{
			Catches:   m.Catches,
			Stumpings: m.Stumpings,
			RunOuts:   m.RunOuts,
		},
		IsManOfMatch:   m.IsManOfMatch,
		PlayingXIBonus: m.PlayingXIBonus,
		Breakdown: playerstat.Breakdown{
			BattingPoints:  m.BattingPoints,
			BowlingPoints:  m.BowlingPoints,
			FieldingPoints: m.FieldingPoints,
			BonusPoints:    m.BonusPoints,
			TotalPoints:    m.TotalPoints,
		},
		UpdatedAt: m.UpdatedAt,
	}
}

func playerStatToInsertModel(stat playerstat.PlayerRawStat) playerStatInsertModel {
	return playerStatInsertModel{
		MatchID:        stat.MatchID,
		PlayerID:       stat.PlayerID,
		Role:           string(stat.Role),
		Runs:           stat.Batting.Runs,
		BallsFaced:     stat.Batting.BallsFaced,
		Fours:          stat.Batting.Fours,
		Sixes:          stat.Batting.Sixes,
		IsOut:          stat.Batting.IsOut,
		StrikeRate:     stat.Batting.StrikeRate,
		OversBowled:    stat.Bowling.OversBowled,
		WicketsTaken:   stat.Bowling.WicketsTaken,
		MaidenOvers:    stat.Bowling.MaidenOvers,
		LBWCount:       stat.Bowling.LBWCount,
		BowledCount:    stat.Bowling.BowledCount,
		RunsGiven:      stat.Bowling.RunsGiven,
		EconomyRate:    stat.Bowling.EconomyRate,
		Catches:        stat.Fielding.Catches,
		Stumpings:      stat.Fielding.Stumpings,
		RunOuts:        stat.Fielding.RunOuts,
		IsManOfMatch:   stat.IsManOfMatch,
		PlayingXIBonus: stat.PlayingXIBonus,
		BattingPoints:  stat.Breakdown.BattingPoints,
		BowlingPoints:  stat.Breakdown.BowlingPoints,
		FieldingPoints: stat.Breakdown.FieldingPoints,
		BonusPoints:    stat.Breakdown.BonusPoints,
		TotalPoints:    stat.Breakdown.TotalPoints,
		UpdatedAt:      stat.UpdatedAt,
	}
}
