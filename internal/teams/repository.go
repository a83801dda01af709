// Package teams reads the fantasy teams of a league and their draft
// positions.
package teams

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openpitch/draftd/internal/models"
)

// Repository implements team reads against Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const listByLeagueSQL = `
SELECT id, league_id, name, draft_position, created_at, updated_at
FROM teams
WHERE league_id = $1
ORDER BY draft_position`

// ListByLeague returns the league's teams ordered by draft position.
func (r *Repository) ListByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.Team, error) {
	rows, err := r.pool.Query(ctx, listByLeagueSQL, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		err := rows.Scan(&t.ID, &t.LeagueID, &t.Name, &t.DraftPosition, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}
