// Package roster appends drafted players to team rosters. A failure here is
// logged by the caller, never propagated as a pick failure: the pick itself
// is already durable.
package roster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openpitch/draftd/internal/models"
)

// Repository implements roster writes against Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const addPlayerSQL = `
INSERT INTO roster_spots (id, team_id, player_id, position, is_starting, added_at)
VALUES ($1, $2, $3, $4, false, $5)
ON CONFLICT (team_id, player_id) DO NOTHING
RETURNING id`

// AddPlayer appends a drafted player to the team's bench. Re-adding a player
// already on the roster is a no-op, not an error: resumed drafts replay
// committed picks through this path.
func (r *Repository) AddPlayer(ctx context.Context, teamID, playerID uuid.UUID) (*models.RosterSpot, error) {
	spot := models.RosterSpot{
		ID:         uuid.New(),
		TeamID:     teamID,
		PlayerID:   playerID,
		Position:   models.RosterPositionBench,
		IsStarting: false,
		AddedAt:    time.Now().UTC(),
	}

	row := r.pool.QueryRow(ctx, addPlayerSQL,
		spot.ID, spot.TeamID, spot.PlayerID, spot.Position, spot.AddedAt)
	return scanAddedSpot(row, &spot)
}

// scanAddedSpot resolves the RETURNING row of an ON CONFLICT DO NOTHING
// insert. Zero rows back means the (team, player) pair already exists.
func scanAddedSpot(row pgx.Row, spot *models.RosterSpot) (*models.RosterSpot, error) {
	switch err := row.Scan(&spot.ID); {
	case err == nil:
		return spot, nil
	case errors.Is(err, pgx.ErrNoRows):
		return spot, nil
	default:
		return nil, fmt.Errorf("failed to add player to roster: %w", err)
	}
}
