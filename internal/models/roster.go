package models

import (
	"time"

	"github.com/google/uuid"
)

// RosterPosition is the slot a player occupies on a team's roster.
type RosterPosition string

const (
	RosterPositionGK    RosterPosition = "GK"
	RosterPositionDEF   RosterPosition = "DEF"
	RosterPositionMID   RosterPosition = "MID"
	RosterPositionFWD   RosterPosition = "FWD"
	RosterPositionBench RosterPosition = "BENCH"
)

// RosterSpot assigns a drafted player to a roster slot. Drafted players land
// on the bench by default and are promoted to a starting slot later.
type RosterSpot struct {
	ID         uuid.UUID      `json:"id"`
	TeamID     uuid.UUID      `json:"team_id"`
	PlayerID   uuid.UUID      `json:"player_id"`
	Position   RosterPosition `json:"position"`
	IsStarting bool           `json:"is_starting"`
	AddedAt    time.Time      `json:"added_at"`
}
