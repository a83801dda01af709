package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openpitch/draftd/internal/models"
)

// MemoryStore is an in-memory Store with the same conflict semantics as the
// Postgres implementation. It backs tests and local development.
type MemoryStore struct {
	mu    sync.Mutex
	picks map[uuid.UUID][]models.DraftPick // keyed by league ID, overall order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		picks: make(map[uuid.UUID][]models.DraftPick),
	}
}

func (s *MemoryStore) CreatePickSlots(_ context.Context, picks []models.DraftPick) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range picks {
		existing := s.picks[p.LeagueID]
		if slotIndex(existing, p.Round, p.Pick) >= 0 {
			continue
		}
		s.picks[p.LeagueID] = append(existing, p)
	}
	for leagueID := range s.picks {
		sort.Slice(s.picks[leagueID], func(i, j int) bool {
			return s.picks[leagueID][i].OverallPick < s.picks[leagueID][j].OverallPick
		})
	}
	return nil
}

func (s *MemoryStore) CommitPick(_ context.Context, req CommitPickRequest) (*models.DraftPick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	picks := s.picks[req.LeagueID]
	idx := slotIndex(picks, req.Round, req.Pick)
	if idx < 0 || picks[idx].PlayerID != nil {
		return nil, fmt.Errorf("%w: league %s round %d pick %d",
			ErrSlotTaken, req.LeagueID, req.Round, req.Pick)
	}
	for _, p := range picks {
		if p.PlayerID != nil && *p.PlayerID == req.PlayerID {
			return nil, fmt.Errorf("%w: player %s", ErrPlayerTaken, req.PlayerID)
		}
	}

	playerID := req.PlayerID
	now := time.Now().UTC()
	picks[idx].PlayerID = &playerID
	picks[idx].IsAutoPick = req.IsAutoPick
	picks[idx].PickedAt = &now

	committed := picks[idx]
	return &committed, nil
}

func (s *MemoryStore) ListPicks(_ context.Context, leagueID uuid.UUID) ([]models.DraftPick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.DraftPick, len(s.picks[leagueID]))
	copy(out, s.picks[leagueID])
	return out, nil
}

func (s *MemoryStore) CurrentPickCount(_ context.Context, leagueID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, p := range s.picks[leagueID] {
		if p.PlayerID != nil {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) IsPlayerDrafted(_ context.Context, leagueID, playerID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.picks[leagueID] {
		if p.PlayerID != nil && *p.PlayerID == playerID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) DraftedPlayerIDs(_ context.Context, leagueID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []uuid.UUID
	for _, p := range s.picks[leagueID] {
		if p.PlayerID != nil {
			ids = append(ids, *p.PlayerID)
		}
	}
	return ids, nil
}

func slotIndex(picks []models.DraftPick, round, pick int) int {
	for i, p := range picks {
		if p.Round == round && p.Pick == pick {
			return i
		}
	}
	return -1
}
