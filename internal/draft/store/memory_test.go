package store

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpitch/draftd/internal/models"
)

func newTestSlots(leagueID uuid.UUID, teams, rounds int) []models.DraftPick {
	var picks []models.DraftPick
	overall := 1
	for r := 1; r <= rounds; r++ {
		for p := 1; p <= teams; p++ {
			picks = append(picks, models.DraftPick{
				ID:          uuid.New(),
				LeagueID:    leagueID,
				Round:       r,
				Pick:        p,
				OverallPick: overall,
				TeamID:      uuid.New(),
			})
			overall++
		}
	}
	return picks
}

func TestMemoryStoreCommitPick(t *testing.T) {
	ctx := context.Background()
	leagueID := uuid.New()
	s := NewMemoryStore()
	require.NoError(t, s.CreatePickSlots(ctx, newTestSlots(leagueID, 2, 2)))

	playerID := uuid.New()
	pick, err := s.CommitPick(ctx, CommitPickRequest{
		LeagueID: leagueID,
		Round:    1,
		Pick:     1,
		PlayerID: playerID,
	})
	require.NoError(t, err)
	require.NotNil(t, pick.PlayerID)
	assert.Equal(t, playerID, *pick.PlayerID)
	assert.NotNil(t, pick.PickedAt)

	count, err := s.CurrentPickCount(ctx, leagueID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	drafted, err := s.IsPlayerDrafted(ctx, leagueID, playerID)
	require.NoError(t, err)
	assert.True(t, drafted)
}

func TestMemoryStoreCommitPickSlotConflict(t *testing.T) {
	ctx := context.Background()
	leagueID := uuid.New()
	s := NewMemoryStore()
	require.NoError(t, s.CreatePickSlots(ctx, newTestSlots(leagueID, 2, 1)))

	_, err := s.CommitPick(ctx, CommitPickRequest{
		LeagueID: leagueID, Round: 1, Pick: 1, PlayerID: uuid.New(),
	})
	require.NoError(t, err)

	// Same slot again, different player.
	_, err = s.CommitPick(ctx, CommitPickRequest{
		LeagueID: leagueID, Round: 1, Pick: 1, PlayerID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Missing slot.
	_, err = s.CommitPick(ctx, CommitPickRequest{
		LeagueID: leagueID, Round: 9, Pick: 1, PlayerID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestMemoryStoreCommitPickPlayerConflict(t *testing.T) {
	ctx := context.Background()
	leagueID := uuid.New()
	s := NewMemoryStore()
	require.NoError(t, s.CreatePickSlots(ctx, newTestSlots(leagueID, 2, 1)))

	playerID := uuid.New()
	_, err := s.CommitPick(ctx, CommitPickRequest{
		LeagueID: leagueID, Round: 1, Pick: 1, PlayerID: playerID,
	})
	require.NoError(t, err)

	_, err = s.CommitPick(ctx, CommitPickRequest{
		LeagueID: leagueID, Round: 1, Pick: 2, PlayerID: playerID,
	})
	assert.ErrorIs(t, err, ErrPlayerTaken)
}

func TestMemoryStoreConcurrentCommitsOneWinner(t *testing.T) {
	ctx := context.Background()
	leagueID := uuid.New()
	s := NewMemoryStore()
	require.NoError(t, s.CreatePickSlots(ctx, newTestSlots(leagueID, 4, 1)))

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = s.CommitPick(ctx, CommitPickRequest{
				LeagueID: leagueID,
				Round:    1,
				Pick:     1,
				PlayerID: uuid.New(),
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrSlotTaken)
		}
	}
	assert.Equal(t, 1, winners)
}

func TestMemoryStoreCreatePickSlotsIdempotent(t *testing.T) {
	ctx := context.Background()
	leagueID := uuid.New()
	s := NewMemoryStore()

	slots := newTestSlots(leagueID, 3, 2)
	require.NoError(t, s.CreatePickSlots(ctx, slots))
	require.NoError(t, s.CreatePickSlots(ctx, slots))

	picks, err := s.ListPicks(ctx, leagueID)
	require.NoError(t, err)
	assert.Len(t, picks, 6)
	for i, p := range picks {
		assert.Equal(t, i+1, p.OverallPick)
	}
}
