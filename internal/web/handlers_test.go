package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpitch/draftd/internal/draft"
	"github.com/openpitch/draftd/internal/draft/store"
	"github.com/openpitch/draftd/internal/gateway"
	"github.com/openpitch/draftd/internal/leagues"
	"github.com/openpitch/draftd/internal/models"
	"github.com/openpitch/draftd/internal/players"
)

type stubLeagueStore struct {
	league *models.League
}

func (s *stubLeagueStore) GetLeague(_ context.Context, id uuid.UUID) (*models.League, error) {
	if s.league == nil || s.league.ID != id {
		return nil, leagues.ErrLeagueNotFound
	}
	cp := *s.league
	return &cp, nil
}

func (s *stubLeagueStore) UpdateLeagueStatus(_ context.Context, _ uuid.UUID, status models.LeagueStatus) error {
	s.league.Status = status
	return nil
}

type stubTeamStore struct {
	teams []models.Team
}

func (s *stubTeamStore) ListByLeague(_ context.Context, _ uuid.UUID) ([]models.Team, error) {
	return s.teams, nil
}

type stubPlayerStore struct {
	pool map[uuid.UUID]players.AvailablePlayer
}

func (s *stubPlayerStore) GetPlayer(_ context.Context, id uuid.UUID) (*models.Player, error) {
	ap, ok := s.pool[id]
	if !ok {
		return nil, players.ErrPlayerNotFound
	}
	cp := ap.Player
	return &cp, nil
}

func (s *stubPlayerStore) ListActive(_ context.Context) ([]players.AvailablePlayer, error) {
	out := make([]players.AvailablePlayer, 0, len(s.pool))
	for _, ap := range s.pool {
		out = append(out, ap)
	}
	return out, nil
}

type stubRosterStore struct{}

func (s *stubRosterStore) AddPlayer(_ context.Context, teamID, playerID uuid.UUID) (*models.RosterSpot, error) {
	return &models.RosterSpot{ID: uuid.New(), TeamID: teamID, PlayerID: playerID}, nil
}

type testEnv struct {
	league *models.League
	teams  []models.Team
	pool   []players.AvailablePlayer
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	league := &models.League{
		ID:              uuid.New(),
		Name:            "test league",
		MaxTeams:        2,
		ScoringSettings: models.DefaultScoringSettings(),
		RosterSettings:  models.RosterSettings{Goalkeeper: 1, Forward: 1},
		Status:          models.LeagueStatusScheduled,
		TimePerPickSec:  90,
	}
	teams := []models.Team{
		{ID: uuid.New(), LeagueID: league.ID, Name: "alpha", DraftPosition: 1},
		{ID: uuid.New(), LeagueID: league.ID, Name: "beta", DraftPosition: 2},
	}

	pool := make([]players.AvailablePlayer, 0, 6)
	poolMap := make(map[uuid.UUID]players.AvailablePlayer)
	positions := []models.Position{models.PositionGK, models.PositionDEF, models.PositionMID, models.PositionFWD}
	for i := 0; i < 6; i++ {
		id := uuid.New()
		ap := players.AvailablePlayer{
			Player: models.Player{
				ID:       id,
				Name:     fmt.Sprintf("player %d", i),
				Position: positions[i%len(positions)],
				IsActive: true,
			},
			Stats: models.PlayerStats{PlayerID: id, MatchesPlayed: 10, Goals: 6 - i},
		}
		pool = append(pool, ap)
		poolMap[id] = ap
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cm := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	go cm.Run(ctx)

	app := draft.NewApp(ctx, draft.AppConfig{},
		store.NewMemoryStore(),
		&stubLeagueStore{league: league},
		&stubTeamStore{teams: teams},
		&stubPlayerStore{pool: poolMap},
		&stubRosterStore{},
		gateway.NewLocalPublisher(cm),
		clockwork.NewFakeClock(),
	)

	return &testEnv{
		league: league,
		teams:  teams,
		pool:   pool,
		router: newRouter(NewHandlers(app, cm)),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStartDraftEndpoint(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, fmt.Sprintf("/leagues/%s/draft/start", e.league.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var status struct {
		Status     string `json:"status"`
		TotalPicks int    `json:"total_picks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "drafting", status.Status)
	assert.Equal(t, 4, status.TotalPicks)
}

func TestStartDraftUnknownLeague(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, fmt.Sprintf("/leagues/%s/draft/start", uuid.New()), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartDraftInvalidLeagueID(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/leagues/not-a-uuid/draft/start", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitPickEndpoint(t *testing.T) {
	e := newTestEnv(t)
	base := fmt.Sprintf("/leagues/%s/draft", e.league.ID)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, base+"/start", nil).Code)

	t.Run("valid pick", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, base+"/picks", map[string]any{
			"team_id":   e.teams[0].ID,
			"round":     1,
			"pick":      1,
			"player_id": e.pool[0].Player.ID,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var committed pickCommitted
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &committed))
		require.NotNil(t, committed.PlayerID)
		assert.Equal(t, e.pool[0].Player.ID, *committed.PlayerID)
		require.NotNil(t, committed.Team)
		assert.Equal(t, "alpha", committed.Team.Name)
		require.NotNil(t, committed.Player)
		assert.Equal(t, e.pool[0].Player.Name, committed.Player.Name)
		assert.False(t, committed.IsDraftComplete)
	})

	t.Run("out of turn", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, base+"/picks", map[string]any{
			"team_id":   e.teams[0].ID,
			"round":     1,
			"pick":      1,
			"player_id": e.pool[1].Player.ID,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("already drafted", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, base+"/picks", map[string]any{
			"team_id":   e.teams[1].ID,
			"round":     1,
			"pick":      2,
			"player_id": e.pool[0].Player.ID,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, base+"/picks", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		e.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSubmitPickDraftCompletion(t *testing.T) {
	e := newTestEnv(t)
	base := fmt.Sprintf("/leagues/%s/draft", e.league.ID)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, base+"/start", nil).Code)

	rec := e.do(t, http.MethodGet, base+"/order", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var order []draft.OrderEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.Len(t, order, 4)

	for i, entry := range order {
		last := i == len(order)-1
		rec := e.do(t, http.MethodPost, base+"/picks", map[string]any{
			"team_id":      entry.Team.ID,
			"round":        entry.Slot.Round,
			"pick":         entry.Slot.Pick,
			"player_id":    e.pool[i].Player.ID,
			"is_auto_pick": last,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var committed pickCommitted
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &committed))
		assert.Equal(t, last, committed.IsDraftComplete, "pick %d", i+1)
		assert.Equal(t, last, committed.IsAutoPick)
	}
}

func TestReadEndpoints(t *testing.T) {
	e := newTestEnv(t)
	base := fmt.Sprintf("/leagues/%s/draft", e.league.ID)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, base+"/start", nil).Code)

	t.Run("picks board", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, base+"/picks", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var board draft.PickBoard
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &board))
		assert.Equal(t, e.league.ID, board.League.ID)
		assert.Equal(t, "test league", board.League.Name)
		assert.Equal(t, 0, board.League.PicksMade)
		assert.Equal(t, 4, board.League.TotalPicks)
		require.Len(t, board.Picks, 4)
		require.NotNil(t, board.Picks[0].Team)
		assert.Equal(t, "alpha", board.Picks[0].Team.Name)
		assert.Nil(t, board.Picks[0].Player)
	})

	t.Run("available players", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, base+"/available", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var available []draft.AvailableEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &available))
		assert.Len(t, available, 6)
		assert.Greater(t, available[0].ProjectedPoints, 0.0)
	})

	t.Run("draft order", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, base+"/order", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var order []draft.OrderEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
		require.Len(t, order, 4)
		assert.Equal(t, "alpha", order[0].Team.Name)
		assert.Equal(t, "beta", order[1].Team.Name)
		// Snake reversal in round two.
		assert.Equal(t, "beta", order[2].Team.Name)
		assert.Equal(t, "alpha", order[3].Team.Name)
	})

	t.Run("unknown league", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, fmt.Sprintf("/leagues/%s/draft/picks", uuid.New()), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
