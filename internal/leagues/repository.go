// Package leagues reads league settings and writes league status
// transitions. League creation and membership are managed elsewhere; the
// draft subsystem only moves a league between scheduled, drafting, and
// active.
package leagues

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openpitch/draftd/internal/models"
)

// ErrLeagueNotFound is returned when no league exists for an ID.
var ErrLeagueNotFound = errors.New("league not found")

// Repository implements league access against Postgres. Scoring and roster
// settings live in JSONB columns.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const getLeagueSQL = `
SELECT id, name, max_teams, scoring_settings, roster_settings, status, time_per_pick_sec,
       created_at, updated_at
FROM leagues
WHERE id = $1`

func (r *Repository) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	var (
		league      models.League
		scoringJSON []byte
		rosterJSON  []byte
	)
	err := r.pool.QueryRow(ctx, getLeagueSQL, id).Scan(
		&league.ID, &league.Name, &league.MaxTeams,
		&scoringJSON, &rosterJSON,
		&league.Status, &league.TimePerPickSec,
		&league.CreatedAt, &league.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrLeagueNotFound, id)
		}
		return nil, fmt.Errorf("failed to get league: %w", err)
	}

	if err := json.Unmarshal(scoringJSON, &league.ScoringSettings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scoring settings: %w", err)
	}
	if err := json.Unmarshal(rosterJSON, &league.RosterSettings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roster settings: %w", err)
	}
	return &league, nil
}

const updateLeagueStatusSQL = `
UPDATE leagues SET status = $2, updated_at = now() WHERE id = $1`

func (r *Repository) UpdateLeagueStatus(ctx context.Context, id uuid.UUID, status models.LeagueStatus) error {
	tag, err := r.pool.Exec(ctx, updateLeagueStatusSQL, id, status)
	if err != nil {
		return fmt.Errorf("failed to update league status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrLeagueNotFound, id)
	}
	return nil
}
