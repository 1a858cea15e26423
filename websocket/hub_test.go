package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecowatch/models"
)

var upgrader = gorilla.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

func feedServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Attach(conn)
	}))
}

func TestBroadcastReachesClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	srv := feedServer(t, hub)
	defer srv.Close()

	conn, _, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast(models.EventReportCreated, map[string]string{"id": "PR-003"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, models.EventReportCreated, msg.Type)
	assert.Equal(t, "PR-003", msg.Data["id"])

	clients, sent, last := hub.Stats()
	assert.Equal(t, 1, clients)
	assert.Equal(t, 1, sent)
	assert.Equal(t, models.EventReportCreated, last)
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	srv := feedServer(t, hub)
	defer srv.Close()

	conn, _, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestBroadcastWithoutRunDoesNotBlock(t *testing.T) {
	hub := NewHub()
	for i := 0; i < 300; i++ {
		hub.Broadcast(models.EventNotificationAdded, i)
	}
	_, sent, _ := hub.Stats()
	assert.Equal(t, 256, sent)
}
