package draft

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/openpitch/draftd/internal/draftorder"
	"github.com/openpitch/draftd/internal/models"
)

// Session is the in-memory view of one league's draft, derived entirely from
// the league settings and the committed pick set. It holds no authoritative
// state of its own: the next slot and the drafted-player set are recomputed
// from picks, so the session can never drift from the store.
type Session struct {
	League *models.League
	Teams  []models.Team // sorted by draft position

	slots           []draftorder.Slot
	teamsByPosition map[int]models.Team
	next            int // index into slots of the next unfilled slot
	drafted         map[uuid.UUID]bool
}

// NewSession builds a session from the league, its teams, and the committed
// picks so far. Rebuilding from a non-empty pick set recovers an in-flight
// draft.
func NewSession(league *models.League, teams []models.Team, picks []models.DraftPick) (*Session, error) {
	if league.MaxTeams < 2 {
		return nil, fmt.Errorf("%w: league needs at least 2 teams, has %d", ErrInvalidParameter, league.MaxTeams)
	}
	if len(teams) != league.MaxTeams {
		return nil, fmt.Errorf("%w: league expects %d teams, found %d", ErrInvalidParameter, league.MaxTeams, len(teams))
	}

	byPosition := make(map[int]models.Team, len(teams))
	for _, team := range teams {
		if team.DraftPosition < 1 || team.DraftPosition > league.MaxTeams {
			return nil, fmt.Errorf("%w: team %s has draft position %d outside [1, %d]",
				ErrInvalidParameter, team.ID, team.DraftPosition, league.MaxTeams)
		}
		if _, dup := byPosition[team.DraftPosition]; dup {
			return nil, fmt.Errorf("%w: duplicate draft position %d", ErrInvalidParameter, team.DraftPosition)
		}
		byPosition[team.DraftPosition] = team
	}

	ordered := make([]models.Team, len(teams))
	copy(ordered, teams)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].DraftPosition < ordered[j].DraftPosition
	})

	rounds := league.RosterSettings.TotalRoster()
	slots, err := draftorder.Order(league.MaxTeams, rounds)
	if err != nil {
		return nil, err
	}

	s := &Session{
		League:          league,
		Teams:           ordered,
		slots:           slots,
		teamsByPosition: byPosition,
		drafted:         make(map[uuid.UUID]bool),
	}
	s.rebuild(picks)
	return s, nil
}

// rebuild derives the next slot index and drafted set from committed picks.
func (s *Session) rebuild(picks []models.DraftPick) {
	made := make(map[int]bool, len(picks))
	s.drafted = make(map[uuid.UUID]bool, len(picks))
	for _, p := range picks {
		if p.PlayerID == nil {
			continue
		}
		made[p.OverallPick] = true
		s.drafted[*p.PlayerID] = true
	}

	s.next = len(s.slots)
	for i, slot := range s.slots {
		if !made[slot.Overall] {
			s.next = i
			break
		}
	}
}

// Reload replaces the derived state from a fresh pick listing, used after a
// lost commit race.
func (s *Session) Reload(picks []models.DraftPick) {
	s.rebuild(picks)
}

// NextSlot returns the next unfilled slot and the team on the clock. ok is
// false once the draft is complete.
func (s *Session) NextSlot() (slot draftorder.Slot, team models.Team, ok bool) {
	if s.next >= len(s.slots) {
		return draftorder.Slot{}, models.Team{}, false
	}
	slot = s.slots[s.next]
	return slot, s.teamsByPosition[slot.DraftPosition], true
}

// Advance records a committed pick and moves to the following slot.
func (s *Session) Advance(playerID uuid.UUID) {
	s.drafted[playerID] = true
	if s.next < len(s.slots) {
		s.next++
	}
}

// IsComplete reports whether every slot is filled.
func (s *Session) IsComplete() bool {
	return s.next >= len(s.slots)
}

// MadeCount returns the number of filled slots.
func (s *Session) MadeCount() int {
	return s.next
}

// TotalSlots returns teams x rounds for the league.
func (s *Session) TotalSlots() int {
	return len(s.slots)
}

// IsDrafted reports whether the player is already taken in this league.
func (s *Session) IsDrafted(playerID uuid.UUID) bool {
	return s.drafted[playerID]
}

// TeamByPosition looks a team up by its draft position.
func (s *Session) TeamByPosition(position int) (models.Team, bool) {
	team, ok := s.teamsByPosition[position]
	return team, ok
}

// TeamByID looks a team up by its id.
func (s *Session) TeamByID(id uuid.UUID) (models.Team, bool) {
	for _, team := range s.Teams {
		if team.ID == id {
			return team, true
		}
	}
	return models.Team{}, false
}
