package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/openpitch/draftd/internal/draft/events"
)

// NATSConfig holds connection settings shared by the publisher and the
// subscriber.
type NATSConfig struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		SubjectPrefix: "draft.events",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

func connect(cfg NATSConfig) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}
	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}

// NATSPublisher publishes draft events to per-league subjects
// (<prefix>.<league_id>). Delivery is at-most-once: the committed pick in
// the store is the source of truth, so a lost event is recoverable by
// re-reading the board.
type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
}

func NewNATSPublisher(cfg NATSConfig) (*NATSPublisher, error) {
	nc, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{nc: nc, prefix: cfg.SubjectPrefix}, nil
}

func (p *NATSPublisher) Publish(leagueID uuid.UUID, event events.Envelope) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	subject := fmt.Sprintf("%s.%s", p.prefix, leagueID)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}

func (p *NATSPublisher) Close() {
	p.nc.Close()
}

// NATSSubscriber feeds events from NATS into the connection manager, so
// gateway instances can run separately from the coordinator process.
type NATSSubscriber struct {
	cm     *ConnectionManager
	nc     *nats.Conn
	prefix string
	sub    *nats.Subscription
}

func NewNATSSubscriber(cm *ConnectionManager, cfg NATSConfig) (*NATSSubscriber, error) {
	nc, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	return &NATSSubscriber{cm: cm, nc: nc, prefix: cfg.SubjectPrefix}, nil
}

// Start subscribes to every league subject and broadcasts until ctx ends.
func (s *NATSSubscriber) Start(ctx context.Context) error {
	subject := s.prefix + ".>"
	sub, err := s.nc.Subscribe(subject, func(msg *nats.Msg) {
		var env events.Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			log.Error().Err(err).Str("subject", msg.Subject).Msg("failed to unmarshal draft event")
			return
		}
		leagueID, err := uuid.Parse(env.LeagueID)
		if err != nil {
			log.Error().Err(err).Str("subject", msg.Subject).Msg("event carries invalid league id")
			return
		}
		s.cm.Broadcast(leagueID, env)
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", subject, err)
	}
	s.sub = sub

	log.Info().Str("subject", subject).Msg("event subscriber started")
	<-ctx.Done()

	if err := sub.Unsubscribe(); err != nil {
		log.Warn().Err(err).Msg("failed to unsubscribe")
	}
	return nil
}

func (s *NATSSubscriber) Close() {
	s.nc.Close()
}
