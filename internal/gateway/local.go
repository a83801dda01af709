package gateway

import (
	"github.com/google/uuid"

	"github.com/openpitch/draftd/internal/draft/events"
)

// LocalPublisher delivers events straight to the connection manager, for
// single-process deployments without NATS.
type LocalPublisher struct {
	cm *ConnectionManager
}

func NewLocalPublisher(cm *ConnectionManager) *LocalPublisher {
	return &LocalPublisher{cm: cm}
}

func (p *LocalPublisher) Publish(leagueID uuid.UUID, event events.Envelope) error {
	p.cm.Broadcast(leagueID, event)
	return nil
}
