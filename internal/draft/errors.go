package draft

import "errors"

// Validation and commit failures are distinguished by sentinel so callers can
// respond precisely ("not your turn" vs "player already taken" vs "draft not
// active"). All of them are recoverable; none crash a session.
var (
	// ErrNotFound is returned when a league, team, or player does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when the league is not in drafting status.
	ErrInvalidState = errors.New("league is not drafting")

	// ErrNotYourTurn is returned when the submitted slot or team does not
	// match the session's next unfilled slot.
	ErrNotYourTurn = errors.New("not your turn to pick")

	// ErrAlreadyDrafted is returned when the player is already taken in the
	// league.
	ErrAlreadyDrafted = errors.New("player already drafted")

	// ErrSlotConflict is returned when a commit loses the race for a slot.
	// From the caller's perspective the slot is simply filled.
	ErrSlotConflict = errors.New("pick slot already filled")

	// ErrInvalidParameter is returned for malformed round, slot, or team
	// counts.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrStorageUnavailable is returned when the draft state store exhausts
	// its retries. The session state is unchanged; no partial pick is ever
	// visible.
	ErrStorageUnavailable = errors.New("draft storage unavailable")
)
