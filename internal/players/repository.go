// Package players reads the global player pool. The draft subsystem never
// mutates players or their statistics.
package players

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openpitch/draftd/internal/models"
)

// ErrPlayerNotFound is returned when no player exists for an ID.
var ErrPlayerNotFound = errors.New("player not found")

// AvailablePlayer pairs a player with their season statistics.
type AvailablePlayer struct {
	Player models.Player      `json:"player"`
	Stats  models.PlayerStats `json:"stats"`
}

// Repository implements player reads against Postgres.
type Repository struct {
	pool   *pgxpool.Pool
	season string
}

func NewRepository(pool *pgxpool.Pool, season string) *Repository {
	return &Repository{pool: pool, season: season}
}

const getPlayerSQL = `
SELECT id, name, position, club, is_active, is_injured, created_at, updated_at
FROM players
WHERE id = $1`

func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	var p models.Player
	err := r.pool.QueryRow(ctx, getPlayerSQL, id).Scan(
		&p.ID, &p.Name, &p.Position, &p.Club, &p.IsActive, &p.IsInjured,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &p, nil
}

const listActiveSQL = `
SELECT p.id, p.name, p.position, p.club, p.is_active, p.is_injured, p.created_at, p.updated_at,
       COALESCE(s.matches_played, 0), COALESCE(s.minutes_played, 0),
       COALESCE(s.goals, 0), COALESCE(s.assists, 0),
       COALESCE(s.passes_completed, 0), COALESCE(s.key_passes, 0),
       COALESCE(s.clean_sheets, 0), COALESCE(s.saves, 0),
       COALESCE(s.yellow_cards, 0), COALESCE(s.red_cards, 0)
FROM players p
LEFT JOIN player_stats s ON s.player_id = p.id AND s.season = $1
WHERE p.is_active
ORDER BY p.name`

// ListActive returns every active player with their season stat line. Players
// without a stat line for the season get a zero line.
func (r *Repository) ListActive(ctx context.Context) ([]AvailablePlayer, error) {
	rows, err := r.pool.Query(ctx, listActiveSQL, r.season)
	if err != nil {
		return nil, fmt.Errorf("failed to list active players: %w", err)
	}
	defer rows.Close()

	var out []AvailablePlayer
	for rows.Next() {
		var ap AvailablePlayer
		err := rows.Scan(
			&ap.Player.ID, &ap.Player.Name, &ap.Player.Position, &ap.Player.Club,
			&ap.Player.IsActive, &ap.Player.IsInjured,
			&ap.Player.CreatedAt, &ap.Player.UpdatedAt,
			&ap.Stats.MatchesPlayed, &ap.Stats.MinutesPlayed,
			&ap.Stats.Goals, &ap.Stats.Assists,
			&ap.Stats.PassesCompleted, &ap.Stats.KeyPasses,
			&ap.Stats.CleanSheets, &ap.Stats.Saves,
			&ap.Stats.YellowCards, &ap.Stats.RedCards,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		ap.Stats.PlayerID = ap.Player.ID
		ap.Stats.Season = r.season
		out = append(out, ap)
	}
	return out, rows.Err()
}
