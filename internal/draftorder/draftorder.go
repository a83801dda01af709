// Package draftorder computes snake draft order. The team on the clock is
// always derived from the league's actual team count, never a fixed constant.
package draftorder

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is returned for out-of-range team counts, round counts,
// or pick indices.
var ErrInvalidParameter = errors.New("invalid parameter")

// Slot is one position in the draft order.
type Slot struct {
	Round         int // 1-based round
	Pick          int // 1-based pick number within the round
	Overall       int // 1-based overall pick number
	DraftPosition int // draft position of the team on the clock
}

// SlotAt maps an overall pick number to its slot in a snake draft of the
// given size. Odd rounds run 1..teams, even rounds reverse.
func SlotAt(teams, rounds, overall int) (Slot, error) {
	if teams < 1 {
		return Slot{}, fmt.Errorf("%w: teams must be >= 1, got %d", ErrInvalidParameter, teams)
	}
	if rounds < 1 {
		return Slot{}, fmt.Errorf("%w: rounds must be >= 1, got %d", ErrInvalidParameter, rounds)
	}
	if overall < 1 || overall > teams*rounds {
		return Slot{}, fmt.Errorf("%w: overall pick %d out of range [1, %d]", ErrInvalidParameter, overall, teams*rounds)
	}

	round := (overall-1)/teams + 1
	pick := (overall-1)%teams + 1

	position := pick
	if round%2 == 0 {
		position = teams - pick + 1
	}

	return Slot{
		Round:         round,
		Pick:          pick,
		Overall:       overall,
		DraftPosition: position,
	}, nil
}

// Order materializes the full draft order for a league.
func Order(teams, rounds int) ([]Slot, error) {
	if teams < 1 {
		return nil, fmt.Errorf("%w: teams must be >= 1, got %d", ErrInvalidParameter, teams)
	}
	if rounds < 1 {
		return nil, fmt.Errorf("%w: rounds must be >= 1, got %d", ErrInvalidParameter, rounds)
	}

	slots := make([]Slot, 0, teams*rounds)
	for p := 1; p <= teams*rounds; p++ {
		slot, err := SlotAt(teams, rounds, p)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}
