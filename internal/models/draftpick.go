package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftPick represents a single slot in a league's draft. PlayerID is nil
// until the pick is made and is set exactly once; it is never reassigned.
type DraftPick struct {
	ID          uuid.UUID  `json:"id"`
	LeagueID    uuid.UUID  `json:"league_id"`
	Round       int        `json:"round"`
	Pick        int        `json:"pick"` // pick number within the round
	OverallPick int        `json:"overall_pick"`
	TeamID      uuid.UUID  `json:"team_id"`
	PlayerID    *uuid.UUID `json:"player_id,omitempty"`
	IsAutoPick  bool       `json:"is_auto_pick"`
	PickedAt    *time.Time `json:"picked_at,omitempty"`
}
