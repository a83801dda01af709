package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Position is a player's field position.
type Position string

const (
	PositionGK  Position = "GK"
	PositionDEF Position = "DEF"
	PositionMID Position = "MID"
	PositionFWD Position = "FWD"
)

// ParsePosition normalizes a position string. Unknown strings return the
// empty Position.
func ParsePosition(s string) Position {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GK", "GOALKEEPER":
		return PositionGK
	case "DEF", "DEFENDER":
		return PositionDEF
	case "MID", "MIDFIELDER":
		return PositionMID
	case "FWD", "FORWARD", "ST":
		return PositionFWD
	default:
		return ""
	}
}

// Player represents a soccer player in the global pool. Players are read-only
// to the draft subsystem.
type Player struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Position  Position  `json:"position"`
	Club      string    `json:"club,omitempty"`
	IsActive  bool      `json:"is_active"`
	IsInjured bool      `json:"is_injured"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlayerStats holds a player's season statistics.
type PlayerStats struct {
	PlayerID        uuid.UUID `json:"player_id"`
	Season          string    `json:"season"`
	MatchesPlayed   int       `json:"matches_played"`
	MinutesPlayed   int       `json:"minutes_played"`
	Goals           int       `json:"goals"`
	Assists         int       `json:"assists"`
	PassesCompleted int       `json:"passes_completed"`
	KeyPasses       int       `json:"key_passes"`
	CleanSheets     int       `json:"clean_sheets"`
	Saves           int       `json:"saves"`
	YellowCards     int       `json:"yellow_cards"`
	RedCards        int       `json:"red_cards"`
}
