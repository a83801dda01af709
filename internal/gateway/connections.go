// Package gateway fans committed draft events out to WebSocket viewers. The
// gateway is an outbound boundary only: client frames are read solely to
// keep the connection alive, never to mutate draft state.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/openpitch/draftd/internal/draft/events"
)

// ConnectionConfig tunes WebSocket connection behavior.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

type broadcast struct {
	leagueID uuid.UUID
	event    events.Envelope
}

// ConnectionManager holds the viewer connections for each league and fans
// events out to them. Delivery is at-most-once: a viewer whose send buffer
// is full is dropped rather than allowed to stall the draft.
type ConnectionManager struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]map[*Connection]bool

	upgrader    websocket.Upgrader
	config      ConnectionConfig
	broadcastCh chan broadcast
}

// Connection is one viewer's WebSocket.
type Connection struct {
	ID       string
	LeagueID uuid.UUID

	conn    *websocket.Conn
	send    chan []byte
	manager *ConnectionManager

	sendMu sync.Mutex
	closed bool

	ConnectedAt time.Time
}

// trySend queues data for the viewer without blocking. It reports false only
// when the viewer's buffer is full; a send to an already-closed connection
// is dropped, since the broadcast snapshot can race a disconnect.
func (c *Connection) trySend(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Connection) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan broadcast, 1000),
	}
}

// Run processes broadcasts until ctx is cancelled.
func (cm *ConnectionManager) Run(ctx context.Context) {
	log.Info().Msg("connection manager started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			return
		case b := <-cm.broadcastCh:
			cm.handleBroadcast(b)
		}
	}
}

// Broadcast queues an event for every viewer of the league. Never blocks;
// the event is dropped if the queue is full.
func (cm *ConnectionManager) Broadcast(leagueID uuid.UUID, event events.Envelope) {
	select {
	case cm.broadcastCh <- broadcast{leagueID: leagueID, event: event}:
	default:
		log.Warn().
			Str("league_id", leagueID.String()).
			Str("event_type", string(event.Type)).
			Msg("broadcast queue full, dropping event")
	}
}

// Upgrade turns an HTTP request into a registered viewer connection.
func (cm *ConnectionManager) Upgrade(w http.ResponseWriter, r *http.Request, leagueID uuid.UUID) error {
	ws, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade connection: %w", err)
	}

	conn := &Connection{
		ID:          uuid.NewString(),
		LeagueID:    leagueID,
		conn:        ws,
		send:        make(chan []byte, 256),
		manager:     cm,
		ConnectedAt: time.Now(),
	}

	cm.register(conn)
	go conn.writePump()
	go conn.readPump()

	log.Info().
		Str("connection_id", conn.ID).
		Str("league_id", leagueID.String()).
		Msg("viewer connected")
	return nil
}

func (cm *ConnectionManager) register(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.connections[conn.LeagueID] == nil {
		cm.connections[conn.LeagueID] = make(map[*Connection]bool)
	}
	cm.connections[conn.LeagueID][conn] = true
}

func (cm *ConnectionManager) unregister(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	pool, ok := cm.connections[conn.LeagueID]
	if !ok {
		return
	}
	if _, ok := pool[conn]; !ok {
		return
	}
	delete(pool, conn)
	conn.closeSend()
	if len(pool) == 0 {
		delete(cm.connections, conn.LeagueID)
	}

	log.Info().
		Str("connection_id", conn.ID).
		Str("league_id", conn.LeagueID.String()).
		Msg("viewer disconnected")
}

func (cm *ConnectionManager) handleBroadcast(b broadcast) {
	cm.mu.RLock()
	pool, ok := cm.connections[b.leagueID]
	if !ok {
		cm.mu.RUnlock()
		return
	}
	targets := make([]*Connection, 0, len(pool))
	for conn := range pool {
		targets = append(targets, conn)
	}
	cm.mu.RUnlock()

	data, err := json.Marshal(b.event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	for _, conn := range targets {
		if !conn.trySend(data) {
			log.Warn().
				Str("connection_id", conn.ID).
				Msg("send buffer full, dropping slow viewer")
			cm.unregister(conn)
			conn.conn.Close()
		}
	}
}

// ViewerCount reports active viewers for a league.
func (cm *ConnectionManager) ViewerCount(leagueID uuid.UUID) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections[leagueID])
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.manager.unregister(c)
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.manager.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Connection) readPump() {
	defer func() {
		c.manager.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.manager.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected close from viewer")
			}
			return
		}
		// Inbound frames carry no commands; the read loop exists to service
		// pongs and detect disconnects.
		c.conn.SetReadDeadline(time.Now().Add(c.manager.config.ReadTimeout))
	}
}
