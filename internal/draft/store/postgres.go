package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/openpitch/draftd/internal/models"
)

const (
	commitMaxAttempts = 3
	commitRetryDelay  = 100 * time.Millisecond

	uniqueViolation = "23505"
)

// PostgresStore persists draft picks in Postgres. Slot and player uniqueness
// are enforced by the schema: a conditional UPDATE fills a slot only while its
// player is unset, and a partial unique index on (league_id, player_id)
// rejects a second commit of the same player.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const createPickSlotsSQL = `
INSERT INTO draft_picks (id, league_id, round, pick, overall_pick, team_id)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (league_id, round, pick) DO NOTHING`

func (s *PostgresStore) CreatePickSlots(ctx context.Context, picks []models.DraftPick) error {
	batch := &pgx.Batch{}
	for _, p := range picks {
		batch.Queue(createPickSlotsSQL, p.ID, p.LeagueID, p.Round, p.Pick, p.OverallPick, p.TeamID)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range picks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to create pick slots: %w", err)
		}
	}
	return nil
}

const commitPickSQL = `
UPDATE draft_picks
SET player_id = $1, is_auto_pick = $2, picked_at = now()
WHERE league_id = $3 AND round = $4 AND pick = $5 AND player_id IS NULL
RETURNING id, league_id, round, pick, overall_pick, team_id, player_id, is_auto_pick, picked_at`

func (s *PostgresStore) CommitPick(ctx context.Context, req CommitPickRequest) (*models.DraftPick, error) {
	var lastErr error
	for attempt := 1; attempt <= commitMaxAttempts; attempt++ {
		pick, err := s.commitOnce(ctx, req)
		if err == nil {
			return pick, nil
		}
		if errors.Is(err, ErrSlotTaken) || errors.Is(err, ErrPlayerTaken) || ctx.Err() != nil {
			return nil, err
		}

		lastErr = err
		log.Warn().
			Err(err).
			Str("league_id", req.LeagueID.String()).
			Int("round", req.Round).
			Int("pick", req.Pick).
			Int("attempt", attempt).
			Msg("commit pick failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(commitRetryDelay * time.Duration(attempt)):
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (s *PostgresStore) commitOnce(ctx context.Context, req CommitPickRequest) (*models.DraftPick, error) {
	row := s.pool.QueryRow(ctx, commitPickSQL,
		req.PlayerID, req.IsAutoPick, req.LeagueID, req.Round, req.Pick)

	pick, err := scanPick(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: league %s round %d pick %d",
				ErrSlotTaken, req.LeagueID, req.Round, req.Pick)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: player %s", ErrPlayerTaken, req.PlayerID)
		}
		return nil, fmt.Errorf("failed to commit pick: %w", err)
	}
	return pick, nil
}

const listPicksSQL = `
SELECT id, league_id, round, pick, overall_pick, team_id, player_id, is_auto_pick, picked_at
FROM draft_picks
WHERE league_id = $1
ORDER BY overall_pick`

func (s *PostgresStore) ListPicks(ctx context.Context, leagueID uuid.UUID) ([]models.DraftPick, error) {
	rows, err := s.pool.Query(ctx, listPicksSQL, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	defer rows.Close()

	var picks []models.DraftPick
	for rows.Next() {
		pick, err := scanPick(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks = append(picks, *pick)
	}
	return picks, rows.Err()
}

const currentPickCountSQL = `
SELECT count(*) FROM draft_picks WHERE league_id = $1 AND player_id IS NOT NULL`

func (s *PostgresStore) CurrentPickCount(ctx context.Context, leagueID uuid.UUID) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, currentPickCountSQL, leagueID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count picks: %w", err)
	}
	return count, nil
}

const isPlayerDraftedSQL = `
SELECT EXISTS (
	SELECT 1 FROM draft_picks WHERE league_id = $1 AND player_id = $2
)`

func (s *PostgresStore) IsPlayerDrafted(ctx context.Context, leagueID, playerID uuid.UUID) (bool, error) {
	var drafted bool
	if err := s.pool.QueryRow(ctx, isPlayerDraftedSQL, leagueID, playerID).Scan(&drafted); err != nil {
		return false, fmt.Errorf("failed to check drafted player: %w", err)
	}
	return drafted, nil
}

const draftedPlayerIDsSQL = `
SELECT player_id FROM draft_picks
WHERE league_id = $1 AND player_id IS NOT NULL
ORDER BY overall_pick`

func (s *PostgresStore) DraftedPlayerIDs(ctx context.Context, leagueID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, draftedPlayerIDsSQL, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafted players: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan player id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanPick(row pgx.Row) (*models.DraftPick, error) {
	var pick models.DraftPick
	err := row.Scan(
		&pick.ID,
		&pick.LeagueID,
		&pick.Round,
		&pick.Pick,
		&pick.OverallPick,
		&pick.TeamID,
		&pick.PlayerID,
		&pick.IsAutoPick,
		&pick.PickedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pick, nil
}
