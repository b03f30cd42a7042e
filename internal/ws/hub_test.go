package ws

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TanishqPratap/content-oasis-app/internal/models"
)

func TestPairKeyIsOrderIndependent(t *testing.T) {
	require.Equal(t, PairKey("a", "b"), PairKey("b", "a"))
	require.Equal(t, "a:b", PairKey("b", "a"))
}

func TestHubAddRemoveChatClient(t *testing.T) {
	hub := NewHub()
	key := PairKey("u1", "u2")

	hub.AddChatClient(key, nil, ConnInfo{ConnID: "c1", UserID: "u1"})
	assert.Len(t, hub.chatRooms[key], 1)

	info, ok := hub.getConnInfo("chat", key, nil)
	require.True(t, ok)
	assert.Equal(t, "c1", info.ConnID)

	hub.RemoveChatClient(key, nil)
	assert.Empty(t, hub.chatRooms)
	assert.Empty(t, hub.chatConnInfo)
}

func TestHubAddRemoveStreamClient(t *testing.T) {
	hub := NewHub()

	hub.AddStreamClient("s1", nil, ConnInfo{ConnID: "c2", UserID: "u3"})
	assert.Len(t, hub.streamRooms["s1"], 1)

	hub.RemoveStreamClient("s1", nil)
	assert.Empty(t, hub.streamRooms)
}

func TestBroadcastDuringMembershipChanges(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	dial := func() *websocket.Conn {
		conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
		require.NoError(t, err)
		return conn
	}

	hub := NewHub()
	seed := dial()
	defer seed.Close()
	hub.AddStreamClient("s1", seed, ConnInfo{ConnID: "seed", UserID: "host"})

	conns := make([]*websocket.Conn, 8)
	for i := range conns {
		conns[i] = dial()
		defer conns[i].Close()
	}

	// Broadcasting while viewers churn must not range the live room map.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			hub.BroadcastStreamEvent("s1", models.StreamEvent{Type: "viewer_count", StreamID: "s1", ViewerCount: i})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			conn := conns[i%len(conns)]
			hub.AddStreamClient("s1", conn, ConnInfo{ConnID: fmt.Sprintf("c%d", i)})
			hub.RemoveStreamClient("s1", conn)
		}
	}()
	wg.Wait()
}

func TestBroadcastToEmptyRoomIsSafe(t *testing.T) {
	hub := NewHub()
	hub.BroadcastChatMessage(PairKey("a", "b"), models.Message{ID: "m1"})
	hub.BroadcastStreamEvent("s1", models.StreamEvent{Type: "status", StreamID: "s1", Status: models.StreamLive})
}
