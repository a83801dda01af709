package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/openpitch/draftd/internal/config"
	"github.com/openpitch/draftd/internal/draft"
	"github.com/openpitch/draftd/internal/draft/store"
	"github.com/openpitch/draftd/internal/gateway"
	"github.com/openpitch/draftd/internal/leagues"
	"github.com/openpitch/draftd/internal/players"
	"github.com/openpitch/draftd/internal/roster"
	"github.com/openpitch/draftd/internal/teams"
	"github.com/openpitch/draftd/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("draftd exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	log.Info().
		Str("database", cfg.DB.Database).
		Int("port", cfg.Port).
		Str("season", cfg.Draft.Season).
		Msg("starting draftd")

	cm := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	go cm.Run(ctx)

	pub, cleanup, err := setupPublisher(ctx, cfg, cm)
	if err != nil {
		return err
	}
	defer cleanup()

	app := draft.NewApp(ctx, draft.AppConfig{
		RosterNeedAutoPick: cfg.Draft.RosterNeedAutoPick,
		TimePerPickSec:     cfg.Draft.TimePerPickSec,
	},
		store.NewPostgresStore(pool),
		leagues.NewRepository(pool),
		teams.NewRepository(pool),
		players.NewRepository(pool, cfg.Draft.Season),
		roster.NewRepository(pool),
		pub,
		nil,
	)

	server := web.NewServer(cfg.Port, web.NewHandlers(app, cm))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		return server.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// setupPublisher picks NATS when configured, otherwise in-process delivery.
func setupPublisher(ctx context.Context, cfg *config.Config, cm *gateway.ConnectionManager) (draft.Publisher, func(), error) {
	if cfg.NATS.URL == "" {
		log.Info().Msg("no NATS URL configured, broadcasting in-process")
		return gateway.NewLocalPublisher(cm), func() {}, nil
	}

	natsCfg := gateway.NATSConfig{
		URL:           cfg.NATS.URL,
		SubjectPrefix: cfg.NATS.SubjectPrefix,
		MaxReconnects: -1,
		ReconnectWait: cfg.NATS.ReconnectWait,
	}

	pub, err := gateway.NewNATSPublisher(natsCfg)
	if err != nil {
		return nil, nil, err
	}

	sub, err := gateway.NewNATSSubscriber(cm, natsCfg)
	if err != nil {
		pub.Close()
		return nil, nil, err
	}
	go func() {
		if err := sub.Start(ctx); err != nil {
			log.Error().Err(err).Msg("event subscriber stopped")
		}
	}()

	return pub, func() {
		pub.Close()
		sub.Close()
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
