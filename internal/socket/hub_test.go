// server/internal/socket/hub_test.go
package socket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialTestClient upgrades an in-process connection and registers it on hub.
func dialTestClient(t *testing.T, hub *Hub, userID string) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(userID, conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return hub.ClientCount() > 0
	}, time.Second, 10*time.Millisecond)

	return conn
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	dialTestClient(t, hub, "operador@puerto.example.com")

	assert.Equal(t, 1, hub.ClientCount())
	hub.Unregister("operador@puerto.example.com")
	assert.Equal(t, 0, hub.ClientCount())

	// Unregistering twice is harmless.
	hub.Unregister("operador@puerto.example.com")
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_BroadcastDeliversEvent(t *testing.T) {
	hub := NewHub()
	conn := dialTestClient(t, hub, "operador@puerto.example.com")

	hub.Broadcast(EventDataChanged)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"data_changed"}`, string(msg))
}

func TestHub_ConcurrentBroadcasts(t *testing.T) {
	hub := NewHub()
	conn := dialTestClient(t, hub, "operador@puerto.example.com")

	// Store mutations broadcast from arbitrary request goroutines; every
	// event must arrive intact on the single shared connection.
	const mutations = 25
	var wg sync.WaitGroup
	for i := 0; i < mutations; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Broadcast(EventDataChanged)
		}()
	}
	wg.Wait()

	for i := 0; i < mutations; i++ {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, `{"event":"data_changed"}`, string(msg))
	}
}
