package websockets

import (
	"time"

	"cleanops/internal/events"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MESSAGE_TYPE_PING      = "ping"
	MESSAGE_TYPE_PONG      = "pong"
	MESSAGE_TYPE_CONNECTED = "connected"
	MESSAGE_TYPE_ERROR     = "error"
	PING_INTERVAL          = 30 * time.Second
	PONG_TIMEOUT           = 60 * time.Second
	WRITE_TIMEOUT          = 10 * time.Second
	MAX_MESSAGE_SIZE       = 64 * 1024
	SEND_CHANNEL_SIZE      = 64
	BROADCAST_BUFFER_SIZE  = 256
	SYSTEM_CHANNEL         = "system"
	ALERTS_CHANNEL         = "alerts"
)

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Client is one connected alert listener. The feed is read-only: inbound
// frames are limited to pings.
type Client struct {
	ID          string
	Connection  *websocket.Conn
	Manager     *Manager
	Status      int
	ConnectedAt time.Time
	send        chan Message
}

type Manager struct {
	hub      *Hub
	log      logger.Logger
	eventBus *events.EventBus
}

func New(eventBus *events.EventBus) (*Manager, error) {
	log := logger.New("websockets")

	manager := &Manager{
		hub: &Hub{
			broadcast:  make(chan Message, BROADCAST_BUFFER_SIZE),
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		log:      log,
		eventBus: eventBus,
	}

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	if err := manager.subscribeToAlerts(); err != nil {
		return nil, err
	}

	return manager, nil
}

func newMessage(messageType, channel string, data map[string]any) Message {
	return Message{
		ID:        uuid.New().String(),
		Type:      messageType,
		Channel:   channel,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	client := &Client{
		ID:          uuid.New().String(),
		Connection:  c,
		Manager:     m,
		Status:      STATUS_CONNECTED,
		ConnectedAt: time.Now().UTC(),
		send:        make(chan Message, SEND_CHANNEL_SIZE),
	}

	hello := newMessage(MESSAGE_TYPE_CONNECTED, SYSTEM_CHANNEL, map[string]any{"clientId": client.ID})
	if err := c.WriteJSON(hello); err != nil {
		log.Er("failed to send connected message", err)
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
		return
	}

	m.hub.register <- client
	defer func() {
		log.Info("Client disconnected", "clientID", client.ID)
		m.hub.unregister <- client
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
	}()

	go client.readPump()
	client.writePump()
}

// BroadcastMessage queues a message for every connected client. It never
// blocks the publisher; a full queue drops the message.
func (m *Manager) BroadcastMessage(message Message) {
	log := m.log.Function("BroadcastMessage")

	select {
	case m.hub.broadcast <- message:
	default:
		log.Warn("Broadcast channel is full, dropping message", "messageID", message.ID)
	}
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.unregister <- c
		_ = c.Connection.Close()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
			log.Er("failed to set read deadline in pong handler", err, "clientID", c.ID)
		}
		return nil
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				log.Er("Unexpected close error", err, "clientID", c.ID)
			}
			break
		}

		c.routeMessage(message)
	}
}

func (c *Client) routeMessage(message Message) {
	log := c.Manager.log.Function("routeMessage")

	switch message.Type {
	case MESSAGE_TYPE_PING:
		c.trySend(newMessage(MESSAGE_TYPE_PONG, SYSTEM_CHANNEL, nil))
	default:
		log.Warn("Ignoring inbound message on read-only feed", "clientID", c.ID, "type", message.Type)
		c.trySend(newMessage(MESSAGE_TYPE_ERROR, SYSTEM_CHANNEL, map[string]any{
			"reason": "the alert feed does not accept messages",
		}))
	}
}

// trySend drops the message when the queue is full or already closed.
func (c *Client) trySend(message Message) (sent bool) {
	defer func() {
		if r := recover(); r != nil {
			sent = false
		}
	}()

	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("WebSocket write error", err, "clientID", c.ID, "messageID", message.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// subscribeToAlerts forwards every sync alert and completion event from the
// bus to connected clients.
func (m *Manager) subscribeToAlerts() error {
	log := m.log.Function("subscribeToAlerts")

	if m.eventBus == nil {
		log.Warn("No event bus configured, alert feed will stay silent")
		return nil
	}

	err := m.eventBus.Subscribe(events.ALERTS_CHANNEL, func(event events.Event) error {
		m.BroadcastMessage(Message{
			ID:        event.ID,
			Type:      string(event.Type),
			Channel:   ALERTS_CHANNEL,
			Data:      event.Data,
			Timestamp: event.Timestamp,
		})
		return nil
	})
	if err != nil {
		return log.Err("failed to subscribe to alert events", err)
	}
	return nil
}
