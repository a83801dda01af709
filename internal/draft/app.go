package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/openpitch/draftd/internal/draft/events"
	"github.com/openpitch/draftd/internal/draftorder"
	"github.com/openpitch/draftd/internal/leagues"
	"github.com/openpitch/draftd/internal/models"
	"github.com/openpitch/draftd/internal/players"
	"github.com/openpitch/draftd/internal/scoring"
)

// AppConfig tunes draft behavior that is not per-league.
type AppConfig struct {
	// RosterNeedAutoPick restricts auto-picks to unfilled starter positions
	// when possible.
	RosterNeedAutoPick bool
	// TimePerPickSec is the pick clock for leagues that do not set one.
	// Zero leaves the clock disabled for those leagues.
	TimePerPickSec int
}

// App is the draft service facade. It owns the coordinator registry and the
// read paths that do not need the event loop.
type App struct {
	picks   PickStore
	leagues LeagueStore
	teams   TeamStore
	players PlayerStore
	rosters RosterStore
	pub     Publisher

	manager         *Manager
	selector        *Selector
	clock           clockwork.Clock
	runCtx          context.Context
	defaultPickTime int
}

// NewApp wires the draft service. runCtx bounds the lifetime of every
// coordinator the app starts.
func NewApp(runCtx context.Context, cfg AppConfig, picks PickStore, lg LeagueStore, teams TeamStore, pl PlayerStore, rosters RosterStore, pub Publisher, clock clockwork.Clock) *App {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{
		picks:           picks,
		leagues:         lg,
		teams:           teams,
		players:         pl,
		rosters:         rosters,
		pub:             pub,
		manager:         NewManager(),
		selector:        NewSelector(cfg.RosterNeedAutoPick),
		clock:           clock,
		runCtx:          runCtx,
		defaultPickTime: cfg.TimePerPickSec,
	}
}

// StartDraft transitions a scheduled league into drafting: it prepopulates
// the pick slots, marks the league drafting, starts the coordinator, and
// announces the draft. Restarting a league already in drafting resumes from
// the committed picks.
func (a *App) StartDraft(ctx context.Context, leagueID uuid.UUID) error {
	league, err := a.getLeague(ctx, leagueID)
	if err != nil {
		return err
	}

	switch league.Status {
	case models.LeagueStatusScheduled, models.LeagueStatusDrafting:
	default:
		return fmt.Errorf("league %s has status %s: %w", leagueID, league.Status, ErrInvalidState)
	}

	if league.TimePerPickSec <= 0 {
		league.TimePerPickSec = a.defaultPickTime
	}

	teams, err := a.teams.ListByLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}

	slots, err := draftorder.Order(league.MaxTeams, league.RosterSettings.TotalRoster())
	if err != nil {
		return err
	}

	session, err := NewSession(league, teams, nil)
	if err != nil {
		return err
	}

	if err := a.createSlots(ctx, league, session, slots); err != nil {
		return err
	}

	resuming := league.Status == models.LeagueStatusDrafting
	if !resuming {
		if err := a.leagues.UpdateLeagueStatus(ctx, leagueID, models.LeagueStatusDrafting); err != nil {
			return fmt.Errorf("mark league drafting: %w", err)
		}
		league.Status = models.LeagueStatusDrafting
	}

	picks, err := a.picks.ListPicks(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list picks: %w", err)
	}
	session.Reload(picks)

	coord := NewCoordinator(session, CoordinatorDeps{
		Picks:    a.picks,
		Leagues:  a.leagues,
		Players:  a.players,
		Rosters:  a.rosters,
		Pub:      a.pub,
		Selector: a.selector,
		Clock:    a.clock,
	})

	if counts, err := a.recoverRosterCounts(ctx, leagueID, picks); err != nil {
		log.Warn().Err(err).
			Str("league_id", leagueID.String()).
			Msg("failed to recover roster counts, auto-pick falls back to best available")
	} else {
		coord.SetRosterCounts(counts)
	}

	if !a.manager.Start(a.runCtx, coord) {
		return fmt.Errorf("draft already running for league %s: %w", leagueID, ErrInvalidState)
	}

	if !resuming {
		a.publishDraftStarted(league, session)
	}

	log.Info().
		Str("league_id", leagueID.String()).
		Int("teams", league.MaxTeams).
		Int("rounds", league.RosterSettings.TotalRoster()).
		Bool("resumed", resuming).
		Msg("draft started")
	return nil
}

// SubmitPick routes a pick to the league's running coordinator.
func (a *App) SubmitPick(ctx context.Context, req SubmitPickRequest) (*models.DraftPick, error) {
	coord, ok := a.manager.Get(req.LeagueID)
	if !ok {
		return nil, fmt.Errorf("no draft in progress for league %s: %w", req.LeagueID, ErrInvalidState)
	}
	return coord.SubmitPick(ctx, req)
}

// PickDetail is a pick joined with its owning team and, once filled, its
// player.
type PickDetail struct {
	models.DraftPick
	Team   *models.Team   `json:"team,omitempty"`
	Player *models.Player `json:"player,omitempty"`
}

// LeagueSummary heads the pick board.
type LeagueSummary struct {
	ID         uuid.UUID           `json:"id"`
	Name       string              `json:"name"`
	Status     models.LeagueStatus `json:"status"`
	MaxTeams   int                 `json:"max_teams"`
	Rounds     int                 `json:"rounds"`
	PicksMade  int                 `json:"picks_made"`
	TotalPicks int                 `json:"total_picks"`
}

// PickBoard is a league's full pick board in overall order, filled slots and
// pending ones alike, with teams and players joined in.
type PickBoard struct {
	League LeagueSummary `json:"league"`
	Picks  []PickDetail  `json:"picks"`
}

// GetPickBoard assembles the pick board for a league.
func (a *App) GetPickBoard(ctx context.Context, leagueID uuid.UUID) (*PickBoard, error) {
	league, err := a.getLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	teams, err := a.teams.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	teamByID := make(map[uuid.UUID]*models.Team, len(teams))
	for i := range teams {
		teamByID[teams[i].ID] = &teams[i]
	}

	picks, err := a.picks.ListPicks(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}

	made := 0
	playerByID := make(map[uuid.UUID]*models.Player)
	details := make([]PickDetail, len(picks))
	for i, pick := range picks {
		detail := PickDetail{DraftPick: pick, Team: teamByID[pick.TeamID]}
		if pick.PlayerID != nil {
			made++
			player, ok := playerByID[*pick.PlayerID]
			if !ok {
				player, err = a.lookupPlayer(ctx, *pick.PlayerID)
				if err != nil {
					return nil, err
				}
				playerByID[*pick.PlayerID] = player
			}
			detail.Player = player
		}
		details[i] = detail
	}

	return &PickBoard{
		League: LeagueSummary{
			ID:         league.ID,
			Name:       league.Name,
			Status:     league.Status,
			MaxTeams:   league.MaxTeams,
			Rounds:     league.RosterSettings.TotalRoster(),
			PicksMade:  made,
			TotalPicks: league.TotalPicks(),
		},
		Picks: details,
	}, nil
}

// DescribePick joins a committed pick with its team and player and reports
// whether it was the draft's final pick.
func (a *App) DescribePick(ctx context.Context, pick *models.DraftPick) (*PickDetail, bool, error) {
	league, err := a.getLeague(ctx, pick.LeagueID)
	if err != nil {
		return nil, false, err
	}

	detail := &PickDetail{DraftPick: *pick}

	teams, err := a.teams.ListByLeague(ctx, pick.LeagueID)
	if err != nil {
		return nil, false, fmt.Errorf("list teams: %w", err)
	}
	for i := range teams {
		if teams[i].ID == pick.TeamID {
			detail.Team = &teams[i]
			break
		}
	}

	if pick.PlayerID != nil {
		player, err := a.lookupPlayer(ctx, *pick.PlayerID)
		if err != nil {
			return nil, false, err
		}
		detail.Player = player
	}

	made, err := a.picks.CurrentPickCount(ctx, pick.LeagueID)
	if err != nil {
		return nil, false, fmt.Errorf("count picks: %w", err)
	}
	return detail, made >= league.TotalPicks(), nil
}

// lookupPlayer tolerates players deleted after being drafted.
func (a *App) lookupPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	player, err := a.players.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, players.ErrPlayerNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load player %s: %w", id, err)
	}
	return player, nil
}

// AvailableEntry is one undrafted player with projections under the
// league's scoring settings.
type AvailableEntry struct {
	players.AvailablePlayer
	ProjectedPoints  float64 `json:"projected_points"`
	AvgPointsPerGame float64 `json:"avg_points_per_game"`
}

// GetAvailablePlayers returns undrafted active players for a league, sorted
// by projected fantasy points descending.
func (a *App) GetAvailablePlayers(ctx context.Context, leagueID uuid.UUID) ([]AvailableEntry, error) {
	league, err := a.getLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	drafted, err := a.picks.DraftedPlayerIDs(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list drafted players: %w", err)
	}
	taken := make(map[uuid.UUID]bool, len(drafted))
	for _, id := range drafted {
		taken[id] = true
	}

	active, err := a.players.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	available := make([]AvailableEntry, 0, len(active))
	for _, p := range active {
		if taken[p.Player.ID] {
			continue
		}
		available = append(available, AvailableEntry{
			AvailablePlayer:  p,
			ProjectedPoints:  scoring.FantasyPoints(p.Stats, p.Player.Position, league.ScoringSettings),
			AvgPointsPerGame: scoring.AveragePointsPerGame(p.Stats, p.Player.Position, league.ScoringSettings),
		})
	}

	sort.SliceStable(available, func(i, j int) bool {
		if available[i].ProjectedPoints != available[j].ProjectedPoints {
			return available[i].ProjectedPoints > available[j].ProjectedPoints
		}
		return available[i].Player.ID.String() < available[j].Player.ID.String()
	})
	return available, nil
}

// OrderEntry pairs a snake-order slot with the team that owns it.
type OrderEntry struct {
	Slot draftorder.Slot `json:"slot"`
	Team models.Team     `json:"team"`
}

// GetDraftOrder computes the full snake order for a league.
func (a *App) GetDraftOrder(ctx context.Context, leagueID uuid.UUID) ([]OrderEntry, error) {
	league, err := a.getLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	teams, err := a.teams.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	byPosition := make(map[int]models.Team, len(teams))
	for _, t := range teams {
		byPosition[t.DraftPosition] = t
	}

	slots, err := draftorder.Order(league.MaxTeams, league.RosterSettings.TotalRoster())
	if err != nil {
		return nil, err
	}

	entries := make([]OrderEntry, len(slots))
	for i, slot := range slots {
		entries[i] = OrderEntry{Slot: slot, Team: byPosition[slot.DraftPosition]}
	}
	return entries, nil
}

// DraftStatus summarizes a league's draft progress.
type DraftStatus struct {
	LeagueID   uuid.UUID           `json:"league_id"`
	Status     models.LeagueStatus `json:"status"`
	PicksMade  int                 `json:"picks_made"`
	TotalPicks int                 `json:"total_picks"`
	OnTheClock *OrderEntry         `json:"on_the_clock,omitempty"`
}

// GetDraftStatus reports progress and the team currently on the clock.
func (a *App) GetDraftStatus(ctx context.Context, leagueID uuid.UUID) (*DraftStatus, error) {
	league, err := a.getLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	made, err := a.picks.CurrentPickCount(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("count picks: %w", err)
	}

	status := &DraftStatus{
		LeagueID:   leagueID,
		Status:     league.Status,
		PicksMade:  made,
		TotalPicks: league.TotalPicks(),
	}

	if league.Status == models.LeagueStatusDrafting && made < status.TotalPicks {
		slot, err := draftorder.SlotAt(league.MaxTeams, league.RosterSettings.TotalRoster(), made+1)
		if err != nil {
			return nil, err
		}
		teams, err := a.teams.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, fmt.Errorf("list teams: %w", err)
		}
		for _, t := range teams {
			if t.DraftPosition == slot.DraftPosition {
				status.OnTheClock = &OrderEntry{Slot: slot, Team: t}
				break
			}
		}
	}
	return status, nil
}

func (a *App) getLeague(ctx context.Context, leagueID uuid.UUID) (*models.League, error) {
	league, err := a.leagues.GetLeague(ctx, leagueID)
	if err != nil {
		if errors.Is(err, leagues.ErrLeagueNotFound) {
			return nil, fmt.Errorf("league %s: %w", leagueID, ErrNotFound)
		}
		return nil, fmt.Errorf("load league: %w", err)
	}
	return league, nil
}

// createSlots prepopulates one row per slot so picks commit as conditional
// updates. Safe to repeat; existing slots are untouched.
func (a *App) createSlots(ctx context.Context, league *models.League, session *Session, slots []draftorder.Slot) error {
	rows := make([]models.DraftPick, len(slots))
	for i, slot := range slots {
		team, ok := session.TeamByPosition(slot.DraftPosition)
		if !ok {
			return fmt.Errorf("no team at draft position %d: %w", slot.DraftPosition, ErrInvalidParameter)
		}
		rows[i] = models.DraftPick{
			ID:          uuid.New(),
			LeagueID:    league.ID,
			Round:       slot.Round,
			Pick:        slot.Pick,
			OverallPick: slot.Overall,
			TeamID:      team.ID,
		}
	}
	if err := a.picks.CreatePickSlots(ctx, rows); err != nil {
		return fmt.Errorf("create pick slots: %w", err)
	}
	return nil
}

// recoverRosterCounts rebuilds per-team position tallies from committed
// picks, so auto-pick roster logic survives restarts.
func (a *App) recoverRosterCounts(ctx context.Context, leagueID uuid.UUID, picks []models.DraftPick) (map[uuid.UUID]map[models.Position]int, error) {
	counts := make(map[uuid.UUID]map[models.Position]int)
	for _, p := range picks {
		if p.PlayerID == nil {
			continue
		}
		player, err := a.players.GetPlayer(ctx, *p.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("load drafted player %s: %w", p.PlayerID, err)
		}
		if counts[p.TeamID] == nil {
			counts[p.TeamID] = make(map[models.Position]int)
		}
		counts[p.TeamID][player.Position]++
	}
	return counts, nil
}

func (a *App) publishDraftStarted(league *models.League, session *Session) {
	payload := events.DraftStartedPayload{
		LeagueID:       league.ID.String(),
		StartedAt:      a.clock.Now().UTC(),
		TotalRounds:    league.RosterSettings.TotalRoster(),
		TotalPicks:     session.TotalSlots(),
		TimePerPickSec: league.TimePerPickSec,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal draft started payload")
		return
	}

	env := events.Envelope{
		ID:        uuid.NewString(),
		LeagueID:  league.ID.String(),
		Type:      events.TypeDraftStarted,
		Timestamp: a.clock.Now().UTC(),
		Data:      data,
	}
	if err := a.pub.Publish(league.ID, env); err != nil {
		log.Warn().Err(err).
			Str("league_id", league.ID.String()).
			Msg("failed to publish draft started event")
	}
}
