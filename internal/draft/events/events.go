// Package events defines the payloads broadcast to draft viewers. The types
// are shared by the coordinator and the gateway to avoid a cyclic import.
package events

import (
	"encoding/json"
	"time"
)

// Type identifies a draft event.
type Type string

const (
	TypeDraftStarted   Type = "DraftStarted"
	TypePickMade       Type = "PickMade"
	TypeDraftCompleted Type = "DraftCompleted"
)

// Envelope is the wire form of every draft event.
type Envelope struct {
	ID        string          `json:"id"`
	LeagueID  string          `json:"league_id"`
	Type      Type            `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// DraftStartedPayload announces that a league entered drafting.
type DraftStartedPayload struct {
	LeagueID       string    `json:"league_id"`
	StartedAt      time.Time `json:"started_at"`
	TotalRounds    int       `json:"total_rounds"`
	TotalPicks     int       `json:"total_picks"`
	TimePerPickSec int       `json:"time_per_pick_sec"`
}

// PickMadePayload carries one committed pick, human or automatic. Every
// committed pick is broadcast exactly once.
type PickMadePayload struct {
	PickID        string    `json:"pick_id"`
	TeamID        string    `json:"team_id"`
	TeamName      string    `json:"team_name"`
	PlayerID      string    `json:"player_id"`
	PlayerName    string    `json:"player_name"`
	Position      string    `json:"position"`
	Round         int       `json:"round"`
	Pick          int       `json:"pick"`
	OverallPick   int       `json:"overall_pick"`
	IsAutoPick    bool      `json:"is_auto_pick"`
	DraftComplete bool      `json:"draft_complete"`
	PickedAt      time.Time `json:"picked_at"`
}

// DraftCompletedPayload announces that every slot is filled and the league is
// active.
type DraftCompletedPayload struct {
	LeagueID    string    `json:"league_id"`
	CompletedAt time.Time `json:"completed_at"`
	TotalPicks  int       `json:"total_picks"`
}
