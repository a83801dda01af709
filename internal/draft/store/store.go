// Package store holds the authoritative record of draft picks. The critical
// operation is CommitPick: concurrent commits for the same slot or the same
// player must resolve to exactly one winner.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/openpitch/draftd/internal/models"
)

var (
	// ErrSlotTaken is returned when the slot is already filled or does not
	// exist.
	ErrSlotTaken = errors.New("pick slot already filled")

	// ErrPlayerTaken is returned when the player is already drafted in the
	// league.
	ErrPlayerTaken = errors.New("player already drafted in league")

	// ErrUnavailable is returned once bounded retries against the backing
	// store are exhausted.
	ErrUnavailable = errors.New("pick store unavailable")
)

// CommitPickRequest assigns a player to one open slot.
type CommitPickRequest struct {
	LeagueID   uuid.UUID
	TeamID     uuid.UUID
	Round      int
	Pick       int
	PlayerID   uuid.UUID
	IsAutoPick bool
}

// Store is the draft state store.
type Store interface {
	// CreatePickSlots inserts the full set of empty slots for a league.
	// Called once when a draft is prepared; a second call is a no-op if the
	// slots already exist.
	CreatePickSlots(ctx context.Context, picks []models.DraftPick) error

	// CommitPick atomically fills one slot. It fails with ErrSlotTaken or
	// ErrPlayerTaken instead of ever letting two concurrent callers both
	// succeed.
	CommitPick(ctx context.Context, req CommitPickRequest) (*models.DraftPick, error)

	// ListPicks returns every slot for the league in overall-pick order.
	ListPicks(ctx context.Context, leagueID uuid.UUID) ([]models.DraftPick, error)

	// CurrentPickCount returns the number of made picks in the league.
	CurrentPickCount(ctx context.Context, leagueID uuid.UUID) (int, error)

	// IsPlayerDrafted reports whether the player is already taken in the
	// league.
	IsPlayerDrafted(ctx context.Context, leagueID, playerID uuid.UUID) (bool, error)

	// DraftedPlayerIDs returns the set of players already taken in the
	// league.
	DraftedPlayerIDs(ctx context.Context, leagueID uuid.UUID) ([]uuid.UUID, error)
}
