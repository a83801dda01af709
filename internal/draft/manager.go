package draft

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Manager tracks the running coordinator for each league. Coordinators
// remove themselves when their draft finishes or the context is cancelled.
type Manager struct {
	mu           sync.Mutex
	coordinators map[uuid.UUID]*Coordinator
}

func NewManager() *Manager {
	return &Manager{
		coordinators: make(map[uuid.UUID]*Coordinator),
	}
}

// Start registers the coordinator and runs it on its own goroutine. Returns
// false if a coordinator is already running for the league.
func (m *Manager) Start(ctx context.Context, c *Coordinator) bool {
	m.mu.Lock()
	if _, running := m.coordinators[c.leagueID]; running {
		m.mu.Unlock()
		return false
	}
	m.coordinators[c.leagueID] = c
	m.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("league_id", c.leagueID.String()).
					Interface("panic", r).
					Msg("draft coordinator panicked")
			}
			m.mu.Lock()
			delete(m.coordinators, c.leagueID)
			m.mu.Unlock()
		}()
		c.Run(ctx)
	}()
	return true
}

// Get returns the running coordinator for a league, if any.
func (m *Manager) Get(leagueID uuid.UUID) (*Coordinator, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coordinators[leagueID]
	return c, ok
}
