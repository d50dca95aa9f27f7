package websockets

import (
	"sync"
	"time"
)

const (
	STATUS_CONNECTED = iota
	STATUS_CLOSED
)

type Hub struct {
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			m.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message, m)
		}
	}
}

// unregisterClient is reached from both pumps; only the first call closes
// the send channel.
func (m *Manager) unregisterClient(client *Client) {
	log := m.log.Function("unregisterClient")

	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	if _, ok := m.hub.clients[client.ID]; !ok {
		return
	}

	delete(m.hub.clients, client.ID)
	client.Status = STATUS_CLOSED
	close(client.send)

	log.Info(
		"Client unregistered",
		"clientID", client.ID,
		"connectedFor", time.Since(client.ConnectedAt).Round(time.Second).String(),
	)
}

func (m *Manager) registerClient(client *Client) {
	log := m.log.Function("registerClient")

	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	m.hub.clients[client.ID] = client

	log.Info("Client registered", "clientID", client.ID, "clients", len(m.hub.clients))
}

func (h *Hub) broadcastMessage(message Message, m *Manager) {
	log := m.log.Function("broadcastMessage")

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if len(h.clients) == 0 {
		log.Debug("No active clients to broadcast to", "messageID", message.ID)
		return
	}

	sentCount := 0
	for clientID, client := range h.clients {
		if client.Status != STATUS_CONNECTED {
			continue
		}

		select {
		case client.send <- message:
			sentCount++
		default:
			log.Warn("Client too slow, disconnecting", "clientID", clientID)
			go func(c *Client) {
				m.hub.unregister <- c
			}(client)
		}
	}

	log.Info(
		"Broadcast complete",
		"messageID", message.ID,
		"type", message.Type,
		"sentTo", sentCount,
		"totalClients", len(h.clients),
	)
}

func (m *Manager) ClientCount() int {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()
	return len(m.hub.clients)
}
