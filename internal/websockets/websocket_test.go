package websockets

import (
	"testing"
	"time"

	"cleanops/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(m *Manager, id string) *Client {
	return &Client{
		ID:          id,
		Manager:     m,
		Status:      STATUS_CONNECTED,
		ConnectedAt: time.Now(),
		send:        make(chan Message, SEND_CHANNEL_SIZE),
	}
}

func receive(t *testing.T, client *Client) Message {
	t.Helper()
	select {
	case message := <-client.send:
		return message
	case <-time.After(2 * time.Second):
		t.Fatalf("client %s received nothing", client.ID)
		return Message{}
	}
}

func TestManager_ForwardsAlertEvents(t *testing.T) {
	bus := events.New(nil)
	t.Cleanup(func() { _ = bus.Close() })

	manager, err := New(bus)
	require.NoError(t, err)

	first := testClient(manager, "first")
	second := testClient(manager, "second")
	manager.hub.register <- first
	manager.hub.register <- second

	require.NoError(t, bus.Publish(events.ALERTS_CHANNEL, events.Event{
		Type: events.SYNC_ALERT,
		Data: map[string]any{"type": "CONFLICT", "facilityName": "Harbour View"},
	}))

	for _, client := range []*Client{first, second} {
		message := receive(t, client)
		assert.Equal(t, string(events.SYNC_ALERT), message.Type)
		assert.Equal(t, ALERTS_CHANNEL, message.Channel)
		assert.Equal(t, "Harbour View", message.Data["facilityName"])
		assert.NotEmpty(t, message.ID)
	}
}

func TestManager_UnregisterIsIdempotent(t *testing.T) {
	manager, err := New(nil)
	require.NoError(t, err)

	client := testClient(manager, "only")
	manager.hub.register <- client
	manager.hub.unregister <- client
	manager.hub.unregister <- client

	require.Eventually(t, func() bool { return manager.ClientCount() == 0 }, time.Second, 10*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open)
	assert.False(t, client.trySend(newMessage(MESSAGE_TYPE_PONG, SYSTEM_CHANNEL, nil)))
}

func TestClient_RouteMessage(t *testing.T) {
	manager, err := New(nil)
	require.NoError(t, err)

	tests := []struct {
		name     string
		inbound  string
		wantType string
	}{
		{name: "ping gets pong", inbound: MESSAGE_TYPE_PING, wantType: MESSAGE_TYPE_PONG},
		{name: "anything else is refused", inbound: "subscribe", wantType: MESSAGE_TYPE_ERROR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(manager, tt.name)
			client.routeMessage(Message{Type: tt.inbound})
			assert.Equal(t, tt.wantType, receive(t, client).Type)
		})
	}
}
