package draftorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotAtSnakeAlternation(t *testing.T) {
	// T=4, R=2: round 1 runs 1,2,3,4 and round 2 reverses to 4,3,2,1.
	expected := []int{1, 2, 3, 4, 4, 3, 2, 1}

	for i, want := range expected {
		slot, err := SlotAt(4, 2, i+1)
		require.NoError(t, err)
		assert.Equal(t, want, slot.DraftPosition, "overall pick %d", i+1)
	}
}

func TestSlotAtRoundAndPick(t *testing.T) {
	tests := []struct {
		overall  int
		round    int
		pick     int
		position int
	}{
		{overall: 1, round: 1, pick: 1, position: 1},
		{overall: 4, round: 1, pick: 4, position: 4},
		{overall: 5, round: 2, pick: 1, position: 4},
		{overall: 8, round: 2, pick: 4, position: 1},
		{overall: 9, round: 3, pick: 1, position: 1},
		{overall: 12, round: 3, pick: 4, position: 4},
	}

	for _, tc := range tests {
		slot, err := SlotAt(4, 3, tc.overall)
		require.NoError(t, err)
		assert.Equal(t, tc.round, slot.Round)
		assert.Equal(t, tc.pick, slot.Pick)
		assert.Equal(t, tc.position, slot.DraftPosition)
		assert.Equal(t, tc.overall, slot.Overall)
	}
}

func TestOrderCoversEverySlotExactlyOnce(t *testing.T) {
	const teams, rounds = 12, 17

	slots, err := Order(teams, rounds)
	require.NoError(t, err)
	require.Len(t, slots, teams*rounds)

	seen := make(map[[2]int]bool)
	perRound := make(map[int]map[int]bool)
	for _, s := range slots {
		key := [2]int{s.Round, s.Pick}
		assert.False(t, seen[key], "duplicate slot %v", key)
		seen[key] = true

		if perRound[s.Round] == nil {
			perRound[s.Round] = make(map[int]bool)
		}
		perRound[s.Round][s.DraftPosition] = true
	}

	// Every round uses every draft position exactly once.
	for round, positions := range perRound {
		assert.Len(t, positions, teams, "round %d", round)
	}
}

func TestOrderSnakeEndpoints(t *testing.T) {
	// The team picking last in one round picks first in the next.
	slots, err := Order(8, 4)
	require.NoError(t, err)

	for r := 1; r < 4; r++ {
		lastOfRound := slots[r*8-1]
		firstOfNext := slots[r*8]
		assert.Equal(t, lastOfRound.DraftPosition, firstOfNext.DraftPosition,
			"round %d -> %d boundary", r, r+1)
	}
}

func TestSlotAtInvalidParameters(t *testing.T) {
	tests := []struct {
		name    string
		teams   int
		rounds  int
		overall int
	}{
		{name: "zero teams", teams: 0, rounds: 2, overall: 1},
		{name: "negative rounds", teams: 4, rounds: -1, overall: 1},
		{name: "overall too low", teams: 4, rounds: 2, overall: 0},
		{name: "overall too high", teams: 4, rounds: 2, overall: 9},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SlotAt(tc.teams, tc.rounds, tc.overall)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}

	_, err := Order(0, 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = Order(2, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
