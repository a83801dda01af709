// Command seed loads leagues, teams, players, and season stat lines from a
// JSON fixture file into Postgres. Existing rows are left alone, so the tool
// is safe to rerun.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/openpitch/draftd/internal/config"
	"github.com/openpitch/draftd/internal/models"
)

type fixture struct {
	Leagues []models.League `json:"leagues"`
	Teams   []models.Team   `json:"teams"`
	Players []seedPlayer    `json:"players"`
}

type seedPlayer struct {
	models.Player
	Stats []models.PlayerStats `json:"stats"`
}

func main() {
	path := flag.String("file", "seed.json", "path to the JSON fixture file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(*path); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}

func run(path string) error {
	ctx := context.Background()

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fix fixture
	if err := json.Unmarshal(data, &fix); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	seedLeagues(ctx, pool, fix.Leagues)
	seedTeams(ctx, pool, fix.Teams)
	seedPlayers(ctx, pool, fix.Players)
	return nil
}

func seedLeagues(ctx context.Context, pool *pgxpool.Pool, leagues []models.League) {
	inserted, skipped, failed := 0, 0, 0
	for _, l := range leagues {
		scoring, _ := json.Marshal(l.ScoringSettings)
		roster, _ := json.Marshal(l.RosterSettings)
		tag, err := pool.Exec(ctx, `
INSERT INTO leagues (id, name, max_teams, scoring_settings, roster_settings, status, time_per_pick_sec)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING`,
			l.ID, l.Name, l.MaxTeams, scoring, roster, l.Status, l.TimePerPickSec)
		if err != nil {
			failed++
			log.Error().Err(err).Str("league", l.Name).Msg("failed to seed league")
			continue
		}
		if tag.RowsAffected() == 1 {
			inserted++
		} else {
			skipped++
		}
	}
	log.Info().Int("inserted", inserted).Int("skipped", skipped).Int("failed", failed).Msg("leagues seeded")
}

func seedTeams(ctx context.Context, pool *pgxpool.Pool, teams []models.Team) {
	inserted, skipped, failed := 0, 0, 0
	for _, t := range teams {
		tag, err := pool.Exec(ctx, `
INSERT INTO teams (id, league_id, name, draft_position)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO NOTHING`,
			t.ID, t.LeagueID, t.Name, t.DraftPosition)
		if err != nil {
			failed++
			log.Error().Err(err).Str("team", t.Name).Msg("failed to seed team")
			continue
		}
		if tag.RowsAffected() == 1 {
			inserted++
		} else {
			skipped++
		}
	}
	log.Info().Int("inserted", inserted).Int("skipped", skipped).Int("failed", failed).Msg("teams seeded")
}

func seedPlayers(ctx context.Context, pool *pgxpool.Pool, players []seedPlayer) {
	inserted, skipped, failed := 0, 0, 0
	for _, p := range players {
		tag, err := pool.Exec(ctx, `
INSERT INTO players (id, name, position, club, is_active, is_injured)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Name, p.Position, p.Club, p.IsActive, p.IsInjured)
		if err != nil {
			failed++
			log.Error().Err(err).Str("player", p.Name).Msg("failed to seed player")
			continue
		}
		if tag.RowsAffected() == 1 {
			inserted++
		} else {
			skipped++
		}

		for _, s := range p.Stats {
			if _, err := pool.Exec(ctx, `
INSERT INTO player_stats (player_id, season, matches_played, minutes_played, goals, assists,
                          passes_completed, key_passes, clean_sheets, saves, yellow_cards, red_cards)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (player_id, season) DO NOTHING`,
				p.ID, s.Season, s.MatchesPlayed, s.MinutesPlayed, s.Goals, s.Assists,
				s.PassesCompleted, s.KeyPasses, s.CleanSheets, s.Saves, s.YellowCards, s.RedCards,
			); err != nil {
				failed++
				log.Error().Err(err).Str("player", p.Name).Str("season", s.Season).Msg("failed to seed stat line")
			}
		}
	}
	log.Info().Int("inserted", inserted).Int("skipped", skipped).Int("failed", failed).Msg("players seeded")
}
