package draft

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/openpitch/draftd/internal/models"
)

// SubmitPickRequest is a proposed pick, human or automatic.
type SubmitPickRequest struct {
	LeagueID   uuid.UUID `json:"league_id"`
	TeamID     uuid.UUID `json:"team_id"`
	Round      int       `json:"round"`
	Pick       int       `json:"pick"`
	PlayerID   uuid.UUID `json:"player_id"`
	IsAutoPick bool      `json:"is_auto_pick"`
}

// ValidateTurn decides whether the proposed pick is legal given the current
// session. It checks, in order: league status, slot match, team-on-the-clock
// match, and player eligibility. The returned sentinel tells the caller which
// rule failed.
func ValidateTurn(session *Session, req SubmitPickRequest, player *models.Player) error {
	if session.League.Status != models.LeagueStatusDrafting {
		return fmt.Errorf("%w: league %s has status %s", ErrInvalidState, session.League.ID, session.League.Status)
	}

	slot, team, ok := session.NextSlot()
	if !ok {
		return fmt.Errorf("%w: draft is complete", ErrInvalidState)
	}
	if req.Round != slot.Round || req.Pick != slot.Pick {
		return fmt.Errorf("%w: current slot is round %d pick %d, got round %d pick %d",
			ErrNotYourTurn, slot.Round, slot.Pick, req.Round, req.Pick)
	}
	if req.TeamID != team.ID {
		return fmt.Errorf("%w: team %s is on the clock", ErrNotYourTurn, team.ID)
	}

	if player == nil {
		return fmt.Errorf("%w: player %s", ErrNotFound, req.PlayerID)
	}
	if !player.IsActive {
		return fmt.Errorf("%w: player %s is not active", ErrInvalidParameter, player.ID)
	}
	if session.IsDrafted(player.ID) {
		return fmt.Errorf("%w: player %s", ErrAlreadyDrafted, player.ID)
	}

	return nil
}
