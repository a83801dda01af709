package draft

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/openpitch/draftd/internal/draft/events"
	"github.com/openpitch/draftd/internal/leagues"
	"github.com/openpitch/draftd/internal/models"
	"github.com/openpitch/draftd/internal/players"
)

func testLeague(maxTeams int, rs models.RosterSettings) *models.League {
	return &models.League{
		ID:              uuid.New(),
		Name:            "test league",
		MaxTeams:        maxTeams,
		ScoringSettings: models.DefaultScoringSettings(),
		RosterSettings:  rs,
		Status:          models.LeagueStatusDrafting,
		TimePerPickSec:  90,
	}
}

// smallRoster keeps draft dimensions low: 2 rounds per team.
func smallRoster() models.RosterSettings {
	return models.RosterSettings{Goalkeeper: 1, Forward: 1}
}

func testTeams(league *models.League) []models.Team {
	teams := make([]models.Team, league.MaxTeams)
	for i := range teams {
		teams[i] = models.Team{
			ID:            uuid.New(),
			LeagueID:      league.ID,
			Name:          fmt.Sprintf("team %d", i+1),
			DraftPosition: i + 1,
		}
	}
	return teams
}

type fakeLeagueStore struct {
	mu      sync.Mutex
	league  *models.League
	updates []models.LeagueStatus
}

func (f *fakeLeagueStore) GetLeague(_ context.Context, id uuid.UUID) (*models.League, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.league == nil || f.league.ID != id {
		return nil, leagues.ErrLeagueNotFound
	}
	cp := *f.league
	return &cp, nil
}

func (f *fakeLeagueStore) UpdateLeagueStatus(_ context.Context, id uuid.UUID, status models.LeagueStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.league.Status = status
	f.updates = append(f.updates, status)
	return nil
}

func (f *fakeLeagueStore) statusUpdates() []models.LeagueStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.LeagueStatus, len(f.updates))
	copy(out, f.updates)
	return out
}

type fakeTeamStore struct {
	teams []models.Team
}

func (f *fakeTeamStore) ListByLeague(_ context.Context, _ uuid.UUID) ([]models.Team, error) {
	out := make([]models.Team, len(f.teams))
	copy(out, f.teams)
	return out, nil
}

type fakePlayerStore struct {
	mu      sync.Mutex
	players map[uuid.UUID]players.AvailablePlayer
	listErr error
}

func newFakePlayerStore(ps ...players.AvailablePlayer) *fakePlayerStore {
	f := &fakePlayerStore{players: make(map[uuid.UUID]players.AvailablePlayer)}
	for _, p := range ps {
		f.players[p.Player.ID] = p
	}
	return f
}

func (f *fakePlayerStore) GetPlayer(_ context.Context, id uuid.UUID) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ap, ok := f.players[id]
	if !ok {
		return nil, players.ErrPlayerNotFound
	}
	cp := ap.Player
	return &cp, nil
}

func (f *fakePlayerStore) ListActive(_ context.Context) ([]players.AvailablePlayer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]players.AvailablePlayer, 0, len(f.players))
	for _, ap := range f.players {
		if ap.Player.IsActive {
			out = append(out, ap)
		}
	}
	return out, nil
}

func testPlayer(name string, pos models.Position, goals int) players.AvailablePlayer {
	id := uuid.New()
	return players.AvailablePlayer{
		Player: models.Player{
			ID:       id,
			Name:     name,
			Position: pos,
			IsActive: true,
		},
		Stats: models.PlayerStats{
			PlayerID:      id,
			MatchesPlayed: 10,
			Goals:         goals,
		},
	}
}

type fakeRosterStore struct {
	mu    sync.Mutex
	added []uuid.UUID
	err   error
}

func (f *fakeRosterStore) AddPlayer(_ context.Context, teamID, playerID uuid.UUID) (*models.RosterSpot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.added = append(f.added, playerID)
	return &models.RosterSpot{
		ID:       uuid.New(),
		TeamID:   teamID,
		PlayerID: playerID,
		Position: models.RosterPositionBench,
	}, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Envelope
}

func (f *fakePublisher) Publish(_ uuid.UUID, event events.Envelope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) byType(typ events.Type) []events.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []events.Envelope
	for _, e := range f.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}
