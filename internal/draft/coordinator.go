package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/openpitch/draftd/internal/draft/events"
	"github.com/openpitch/draftd/internal/draft/store"
	"github.com/openpitch/draftd/internal/models"
	"github.com/openpitch/draftd/internal/players"
)

// PickStore is what the coordinator needs from the draft state store.
type PickStore interface {
	CreatePickSlots(ctx context.Context, picks []models.DraftPick) error
	CommitPick(ctx context.Context, req store.CommitPickRequest) (*models.DraftPick, error)
	ListPicks(ctx context.Context, leagueID uuid.UUID) ([]models.DraftPick, error)
	CurrentPickCount(ctx context.Context, leagueID uuid.UUID) (int, error)
	IsPlayerDrafted(ctx context.Context, leagueID, playerID uuid.UUID) (bool, error)
	DraftedPlayerIDs(ctx context.Context, leagueID uuid.UUID) ([]uuid.UUID, error)
}

// LeagueStore is what the coordinator needs from the league store.
type LeagueStore interface {
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	UpdateLeagueStatus(ctx context.Context, id uuid.UUID, status models.LeagueStatus) error
}

// TeamStore is what the coordinator needs from the team store.
type TeamStore interface {
	ListByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.Team, error)
}

// PlayerStore is the read-only player pool the coordinator validates and
// auto-picks against.
type PlayerStore interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	ListActive(ctx context.Context) ([]players.AvailablePlayer, error)
}

// RosterStore appends committed picks to team rosters.
type RosterStore interface {
	AddPlayer(ctx context.Context, teamID, playerID uuid.UUID) (*models.RosterSpot, error)
}

// Publisher fans committed events out to viewers. Publishing must not block
// turn advancement; implementations buffer or drop.
type Publisher interface {
	Publish(leagueID uuid.UUID, event events.Envelope) error
}

type pickResult struct {
	pick *models.DraftPick
	err  error
}

type pickRequest struct {
	req  SubmitPickRequest
	resp chan pickResult
}

// Coordinator runs one league's draft. Submitted picks, timer expiry and
// shutdown are merged into a single event loop, so all session reads and
// writes happen on one goroutine; slot races are settled once more at the
// CommitPick boundary.
type Coordinator struct {
	leagueID uuid.UUID
	session  *Session

	picks    PickStore
	leagues  LeagueStore
	players  PlayerStore
	rosters  RosterStore
	pub      Publisher
	selector *Selector

	clock    clockwork.Clock
	pickTime time.Duration

	requests chan pickRequest
	done     chan struct{}

	// per-team drafted counts by position, for roster-need auto-pick
	rosterCounts map[uuid.UUID]map[models.Position]int

	completed bool
}

// CoordinatorDeps bundles the coordinator's collaborators.
type CoordinatorDeps struct {
	Picks    PickStore
	Leagues  LeagueStore
	Players  PlayerStore
	Rosters  RosterStore
	Pub      Publisher
	Selector *Selector
	Clock    clockwork.Clock
}

// NewCoordinator builds a coordinator for an in-progress session. The pick
// clock duration comes from the league; a zero or negative value disables
// the timer entirely.
func NewCoordinator(session *Session, deps CoordinatorDeps) *Coordinator {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	var pickTime time.Duration
	if session.League.TimePerPickSec > 0 {
		pickTime = time.Duration(session.League.TimePerPickSec) * time.Second
	}

	return &Coordinator{
		leagueID:     session.League.ID,
		session:      session,
		picks:        deps.Picks,
		leagues:      deps.Leagues,
		players:      deps.Players,
		rosters:      deps.Rosters,
		pub:          deps.Pub,
		selector:     deps.Selector,
		clock:        clock,
		pickTime:     pickTime,
		requests:     make(chan pickRequest),
		done:         make(chan struct{}),
		rosterCounts: make(map[uuid.UUID]map[models.Position]int),
	}
}

// SetRosterCounts seeds per-team position counts recovered from committed
// picks, used when resuming a draft after restart.
func (c *Coordinator) SetRosterCounts(counts map[uuid.UUID]map[models.Position]int) {
	c.rosterCounts = counts
}

// SubmitPick hands a pick to the event loop and waits for the outcome.
func (c *Coordinator) SubmitPick(ctx context.Context, req SubmitPickRequest) (*models.DraftPick, error) {
	pr := pickRequest{req: req, resp: make(chan pickResult, 1)}

	select {
	case c.requests <- pr:
	case <-c.done:
		return nil, fmt.Errorf("draft no longer running: %w", ErrInvalidState)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-pr.resp:
		return res.pick, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run drives the draft until completion or ctx cancellation. It owns the
// pick timer: the timer is armed when a turn opens and stopped when the
// turn's pick commits. A failed auto-pick leaves the slot pending with the
// timer disarmed; manual picks are still accepted for it.
func (c *Coordinator) Run(ctx context.Context) {
	defer close(c.done)

	logger := log.With().Str("league_id", c.leagueID.String()).Logger()
	logger.Info().
		Int("made", c.session.MadeCount()).
		Int("total", c.session.TotalSlots()).
		Msg("draft coordinator started")

	if c.session.IsComplete() {
		c.completeDraft(ctx)
		return
	}

	timer := c.newTimer()
	defer c.stopTimer(timer)

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("draft coordinator stopping")
			return

		case pr := <-c.requests:
			pick, err := c.handlePick(ctx, pr.req)
			pr.resp <- pickResult{pick: pick, err: err}
			if err == nil {
				if c.session.IsComplete() {
					c.stopTimer(timer)
					c.completeDraft(ctx)
					return
				}
				c.rearmTimer(timer)
			}

		case <-c.timerChan(timer):
			if err := c.handleExpiry(ctx); err != nil {
				logger.Error().Err(err).
					Msg("auto-pick failed, leaving slot open for manual pick")
				continue
			}
			if c.session.IsComplete() {
				c.completeDraft(ctx)
				return
			}
			c.rearmTimer(timer)
		}
	}
}

// handlePick validates and commits a single pick on the loop goroutine.
func (c *Coordinator) handlePick(ctx context.Context, req SubmitPickRequest) (*models.DraftPick, error) {
	player, err := c.players.GetPlayer(ctx, req.PlayerID)
	if err != nil && !errors.Is(err, players.ErrPlayerNotFound) {
		return nil, fmt.Errorf("load player: %w", err)
	}

	if err := ValidateTurn(c.session, req, player); err != nil {
		return nil, err
	}

	return c.commit(ctx, req, player)
}

// handleExpiry commits an automatic pick for the on-the-clock team.
func (c *Coordinator) handleExpiry(ctx context.Context) error {
	slot, team, ok := c.session.NextSlot()
	if !ok {
		return nil
	}

	available, err := c.availablePlayers(ctx)
	if err != nil {
		return fmt.Errorf("list available players: %w", err)
	}

	choice, err := c.selector.Select(c.session.League, available, c.rosterCounts[team.ID])
	if err != nil {
		return fmt.Errorf("select auto-pick: %w", err)
	}

	req := SubmitPickRequest{
		LeagueID:   c.leagueID,
		TeamID:     team.ID,
		Round:      slot.Round,
		Pick:       slot.Pick,
		PlayerID:   choice.ID,
		IsAutoPick: true,
	}

	// Auto-picks go through the same turn validation as manual picks.
	if err := ValidateTurn(c.session, req, choice); err != nil {
		return fmt.Errorf("validate auto-pick: %w", err)
	}

	pick, err := c.commit(ctx, req, choice)
	if err != nil {
		return err
	}

	log.Info().
		Str("league_id", c.leagueID.String()).
		Str("team_id", team.ID.String()).
		Str("player_id", pick.PlayerID.String()).
		Int("round", pick.Round).
		Int("pick", pick.Pick).
		Msg("pick clock expired, auto-pick committed")
	return nil
}

// commit writes the pick through the store and advances the session. Store
// conflicts mean the in-memory view lost a race; the session is reloaded
// from committed state before the error is surfaced.
func (c *Coordinator) commit(ctx context.Context, req SubmitPickRequest, player *models.Player) (*models.DraftPick, error) {
	pick, err := c.picks.CommitPick(ctx, store.CommitPickRequest{
		LeagueID:   req.LeagueID,
		TeamID:     req.TeamID,
		Round:      req.Round,
		Pick:       req.Pick,
		PlayerID:   req.PlayerID,
		IsAutoPick: req.IsAutoPick,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrSlotTaken):
			c.reloadSession(ctx)
			return nil, fmt.Errorf("round %d pick %d already filled: %w", req.Round, req.Pick, ErrSlotConflict)
		case errors.Is(err, store.ErrPlayerTaken):
			c.reloadSession(ctx)
			return nil, fmt.Errorf("player %s already drafted: %w", req.PlayerID, ErrAlreadyDrafted)
		case errors.Is(err, store.ErrUnavailable):
			return nil, fmt.Errorf("commit pick: %w", ErrStorageUnavailable)
		default:
			return nil, fmt.Errorf("commit pick: %w", err)
		}
	}

	c.session.Advance(req.PlayerID)
	c.countPosition(req.TeamID, player.Position)

	// Roster write is best-effort: the committed pick is the source of
	// truth and the roster can be rebuilt from it.
	if _, err := c.rosters.AddPlayer(ctx, req.TeamID, req.PlayerID); err != nil {
		log.Warn().Err(err).
			Str("league_id", c.leagueID.String()).
			Str("team_id", req.TeamID.String()).
			Str("player_id", req.PlayerID.String()).
			Msg("roster append failed after committed pick")
	}

	c.publishPickMade(pick, player)
	return pick, nil
}

func (c *Coordinator) countPosition(teamID uuid.UUID, pos models.Position) {
	counts := c.rosterCounts[teamID]
	if counts == nil {
		counts = make(map[models.Position]int)
		c.rosterCounts[teamID] = counts
	}
	counts[pos]++
}

// availablePlayers returns active players not yet drafted in this league.
func (c *Coordinator) availablePlayers(ctx context.Context) ([]players.AvailablePlayer, error) {
	active, err := c.players.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	available := active[:0:0]
	for _, p := range active {
		if !c.session.IsDrafted(p.Player.ID) {
			available = append(available, p)
		}
	}
	return available, nil
}

func (c *Coordinator) reloadSession(ctx context.Context) {
	picks, err := c.picks.ListPicks(ctx, c.leagueID)
	if err != nil {
		log.Error().Err(err).
			Str("league_id", c.leagueID.String()).
			Msg("failed to reload session after commit conflict")
		return
	}
	c.session.Reload(picks)
}

// completeDraft finalizes the league exactly once.
func (c *Coordinator) completeDraft(ctx context.Context) {
	if c.completed {
		return
	}
	c.completed = true

	if err := c.leagues.UpdateLeagueStatus(ctx, c.leagueID, models.LeagueStatusActive); err != nil {
		log.Error().Err(err).
			Str("league_id", c.leagueID.String()).
			Msg("failed to mark league active after draft completion")
	}

	c.publish(events.TypeDraftCompleted, events.DraftCompletedPayload{
		LeagueID:    c.leagueID.String(),
		CompletedAt: c.clock.Now().UTC(),
		TotalPicks:  c.session.TotalSlots(),
	})

	log.Info().
		Str("league_id", c.leagueID.String()).
		Int("total_picks", c.session.TotalSlots()).
		Msg("draft completed")
}

func (c *Coordinator) publishPickMade(pick *models.DraftPick, player *models.Player) {
	var teamName string
	if team, ok := c.session.TeamByID(pick.TeamID); ok {
		teamName = team.Name
	}

	pickedAt := c.clock.Now().UTC()
	if pick.PickedAt != nil {
		pickedAt = *pick.PickedAt
	}

	c.publish(events.TypePickMade, events.PickMadePayload{
		PickID:        pick.ID.String(),
		TeamID:        pick.TeamID.String(),
		TeamName:      teamName,
		PlayerID:      pick.PlayerID.String(),
		PlayerName:    player.Name,
		Position:      string(player.Position),
		Round:         pick.Round,
		Pick:          pick.Pick,
		OverallPick:   pick.OverallPick,
		IsAutoPick:    pick.IsAutoPick,
		DraftComplete: c.session.IsComplete(),
		PickedAt:      pickedAt,
	})
}

func (c *Coordinator) publish(typ events.Type, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(typ)).Msg("failed to marshal event payload")
		return
	}

	env := events.Envelope{
		ID:        uuid.NewString(),
		LeagueID:  c.leagueID.String(),
		Type:      typ,
		Timestamp: c.clock.Now().UTC(),
		Data:      data,
	}
	if err := c.pub.Publish(c.leagueID, env); err != nil {
		log.Warn().Err(err).
			Str("league_id", c.leagueID.String()).
			Str("event_type", string(typ)).
			Msg("failed to publish draft event")
	}
}

// Timer helpers. With the pick clock disabled the timer is nil and its
// channel never fires.

func (c *Coordinator) newTimer() clockwork.Timer {
	if c.pickTime <= 0 {
		return nil
	}
	return c.clock.NewTimer(c.pickTime)
}

func (c *Coordinator) timerChan(t clockwork.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.Chan()
}

func (c *Coordinator) rearmTimer(t clockwork.Timer) {
	if t == nil {
		return
	}
	c.stopTimer(t)
	t.Reset(c.pickTime)
}

func (c *Coordinator) stopTimer(t clockwork.Timer) {
	if t == nil {
		return
	}
	if !t.Stop() {
		select {
		case <-t.Chan():
		default:
		}
	}
}
