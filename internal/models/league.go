package models

import (
	"time"

	"github.com/google/uuid"
)

// LeagueStatus defines the lifecycle status of a league.
type LeagueStatus string

const (
	LeagueStatusScheduled LeagueStatus = "scheduled"
	LeagueStatusDrafting  LeagueStatus = "drafting"
	LeagueStatusActive    LeagueStatus = "active"
	LeagueStatusCompleted LeagueStatus = "completed"
)

// ScoringSettings holds the per-stat weights used to compute fantasy points.
// Clean sheets are weighted per position: a goalkeeper's clean sheet is worth
// more than a midfielder's.
type ScoringSettings struct {
	PassesCompleted float64 `json:"passes_completed" yaml:"passes_completed"`
	KeyPasses       float64 `json:"key_passes" yaml:"key_passes"`
	Assists         float64 `json:"assists" yaml:"assists"`
	Goals           float64 `json:"goals" yaml:"goals"`
	CleanSheetsGK   float64 `json:"clean_sheets_gk" yaml:"clean_sheets_gk"`
	CleanSheetsDEF  float64 `json:"clean_sheets_def" yaml:"clean_sheets_def"`
	CleanSheetsMID  float64 `json:"clean_sheets_mid" yaml:"clean_sheets_mid"`
	Saves           float64 `json:"saves" yaml:"saves"`
	MinutesPlayed   float64 `json:"minutes_played" yaml:"minutes_played"`
	YellowCards     float64 `json:"yellow_cards" yaml:"yellow_cards"`
	RedCards        float64 `json:"red_cards" yaml:"red_cards"`
}

// DefaultScoringSettings returns the standard PPR-style soccer weights.
func DefaultScoringSettings() ScoringSettings {
	return ScoringSettings{
		PassesCompleted: 1.0,
		KeyPasses:       2.0,
		Assists:         6.0,
		Goals:           10.0,
		CleanSheetsGK:   6.0,
		CleanSheetsDEF:  4.0,
		CleanSheetsMID:  4.0,
		Saves:           1.0,
		MinutesPlayed:   0.1,
		YellowCards:     -1.0,
		RedCards:        -3.0,
	}
}

// RosterSettings describes the roster shape each team fills during the draft.
type RosterSettings struct {
	Goalkeeper int `json:"goalkeeper" yaml:"goalkeeper"`
	Defender   int `json:"defender" yaml:"defender"`
	Midfielder int `json:"midfielder" yaml:"midfielder"`
	Forward    int `json:"forward" yaml:"forward"`
	Bench      int `json:"bench" yaml:"bench"`
}

// TotalStarters returns the number of starting roster spots.
func (rs RosterSettings) TotalStarters() int {
	return rs.Goalkeeper + rs.Defender + rs.Midfielder + rs.Forward
}

// TotalRoster returns the total roster spots per team, which is also the
// number of draft rounds.
func (rs RosterSettings) TotalRoster() int {
	return rs.TotalStarters() + rs.Bench
}

// StartersFor returns the starting spots for a player position.
func (rs RosterSettings) StartersFor(pos Position) int {
	switch pos {
	case PositionGK:
		return rs.Goalkeeper
	case PositionDEF:
		return rs.Defender
	case PositionMID:
		return rs.Midfielder
	case PositionFWD:
		return rs.Forward
	default:
		return 0
	}
}

// DefaultRosterSettings returns the standard 1-4-4-2 shape with a six-man bench.
func DefaultRosterSettings() RosterSettings {
	return RosterSettings{
		Goalkeeper: 1,
		Defender:   4,
		Midfielder: 4,
		Forward:    2,
		Bench:      6,
	}
}

// League represents a fantasy soccer league.
type League struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	MaxTeams        int             `json:"max_teams"`
	ScoringSettings ScoringSettings `json:"scoring_settings"`
	RosterSettings  RosterSettings  `json:"roster_settings"`
	Status          LeagueStatus    `json:"status"`
	TimePerPickSec  int             `json:"time_per_pick_sec"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TotalPicks returns the number of draft slots for the league.
func (l *League) TotalPicks() int {
	return l.MaxTeams * l.RosterSettings.TotalRoster()
}
