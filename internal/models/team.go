package models

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a fantasy team competing in a league. DraftPosition is
// assigned before the draft starts and is immutable once the league enters
// drafting.
type Team struct {
	ID            uuid.UUID `json:"id"`
	LeagueID      uuid.UUID `json:"league_id"`
	Name          string    `json:"name"`
	DraftPosition int       `json:"draft_position"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
