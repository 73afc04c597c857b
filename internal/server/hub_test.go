package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redraft-ai/redraft/domain"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	wsSrv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(wsSrv.Close)

	url := "ws" + strings.TrimPrefix(wsSrv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	hub.Broadcast(UpdateMessage{Type: "session_id", SessionID: "session-1"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg UpdateMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "session_id", msg.Type)
	assert.Equal(t, "session-1", msg.SessionID)
	assert.NotEmpty(t, msg.Timestamp)
}

func TestHubInboundProgressEvents(t *testing.T) {
	events := make(chan domain.ProgressEvent, 1)
	hub := NewHub(func(event domain.ProgressEvent) {
		events <- event
	})
	go hub.Run()

	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	payload := `{"kind": "progress_update", "block_id": "block-0", "station": "urgent", "status": "processing"}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))

	select {
	case event := <-events:
		assert.Equal(t, domain.EventProgressUpdate, event.Kind)
		assert.Equal(t, "block-0", event.BlockID)
		assert.Equal(t, domain.StationUrgent, event.Station)
	case <-time.After(2 * time.Second):
		t.Fatal("progress event was not routed")
	}

	// Messages that do not parse as events are dropped silently.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	select {
	case event := <-events:
		t.Fatalf("unexpected event routed: %+v", event)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubClientLifecycle(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	assert.Zero(t, hub.ClientCount())

	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, 0)
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d clients, have %d", want, hub.ClientCount())
}
