package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/TanishqPratap/content-oasis-app/internal/mocks"
	"github.com/TanishqPratap/content-oasis-app/internal/models"
	"github.com/TanishqPratap/content-oasis-app/internal/repositories"
)

// roomServer upgrades incoming connections and parks the server side of each
// in the given chat room, so a dialing test client receives room broadcasts.
func roomServer(t *testing.T, hub *Hub, pairKey string) *httptest.Server {
	t.Helper()
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		hub.AddChatClient(pairKey, conn, ConnInfo{ConnID: newConnID()})
		<-done
	}))
	t.Cleanup(func() {
		close(done)
		srv.Close()
	})
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestMeterFeedDeliversReadings(t *testing.T) {
	hub := NewHub()
	pairKey := PairKey("sub-1", "cre-1")
	srv := roomServer(t, hub, pairKey)
	client := dialWS(t, srv)

	sessionRepo := new(mocks.SessionRepositoryMock)
	sessionRepo.On("FindOpenSession", mock.Anything, "sub-1", "cre-1").
		Return(models.ChatSession{ID: "ses-1", SubscriberID: "sub-1", CreatorID: "cre-1", HourlyRate: 36.0, SessionStart: time.Now()}, nil).Once()

	handler := NewChatWebSocketHandler(hub, nil, sessionRepo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handler.startMeterFeed(ctx, pairKey, "sub-1", "cre-1")

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := client.ReadMessage()
	require.NoError(t, err)

	var event models.SessionEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "meter_reading", event.Type)
	assert.Equal(t, "ses-1", event.SessionID)
	assert.Equal(t, "00:00:00", event.Duration)
	assert.Equal(t, 0.0, event.Cost)
	sessionRepo.AssertExpectations(t)
}

func TestMeterFeedSkipsPairWithoutOpenSession(t *testing.T) {
	hub := NewHub()
	pairKey := PairKey("cre-1", "sub-1")
	srv := roomServer(t, hub, pairKey)
	client := dialWS(t, srv)

	sessionRepo := new(mocks.SessionRepositoryMock)
	sessionRepo.On("FindOpenSession", mock.Anything, "cre-1", "sub-1").
		Return(models.ChatSession{}, repositories.ErrSessionNotFound).Once()

	handler := NewChatWebSocketHandler(hub, nil, sessionRepo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handler.startMeterFeed(ctx, pairKey, "cre-1", "sub-1")

	require.NoError(t, client.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := client.ReadMessage()
	require.Error(t, err)
	sessionRepo.AssertExpectations(t)
}
