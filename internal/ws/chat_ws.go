package ws

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"github.com/TanishqPratap/content-oasis-app/internal/auth"
	"github.com/TanishqPratap/content-oasis-app/internal/meter"
	"github.com/TanishqPratap/content-oasis-app/internal/observability"
	"github.com/TanishqPratap/content-oasis-app/internal/repositories"
)

// ChatWebSocketHandler handles conversation websocket connections.
type ChatWebSocketHandler struct {
	hub         *Hub
	profileRepo repositories.ProfileRepository
	sessionRepo repositories.SessionRepository
	tokens      *auth.TokenManager
}

// NewChatWebSocketHandler constructs a ChatWebSocketHandler.
func NewChatWebSocketHandler(hub *Hub, profileRepo repositories.ProfileRepository, sessionRepo repositories.SessionRepository, tokens *auth.TokenManager) *ChatWebSocketHandler {
	return &ChatWebSocketHandler{hub: hub, profileRepo: profileRepo, sessionRepo: sessionRepo, tokens: tokens}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and subscribes the caller to the
// conversation with the peer named in the path.
func (h *ChatWebSocketHandler) Handle(c *gin.Context) {
	peerID := c.Param("peer_id")

	ctx, span := otel.Tracer("content-oasis/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, err := validateWSToken(c, h.tokens)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if _, err := h.profileRepo.GetProfile(c.Request.Context(), peerID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "peer not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	pairKey := PairKey(userID, peerID)
	client := observability.ClientFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    client.DeviceID,
		IP:          client.IP,
		RequestID:   client.RequestID,
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	h.hub.AddChatClient(pairKey, conn, info)

	observability.IncWSActive("chat")
	observability.IncWSEvent("chat", "ws_connect")
	publishWSLifecycle(ctx, "chat", pairKey, info, "ws_connect", 0, "")

	meterCtx, stopMeter := context.WithCancel(context.WithoutCancel(ctx))
	h.startMeterFeed(meterCtx, pairKey, userID, peerID)

	go func() {
		defer stopMeter()
		h.readPump(ctx, pairKey, conn, info)
	}()
}

// startMeterFeed broadcasts one duration/cost reading per second into the
// conversation while the pair has an open paid session. Only the paying
// side's connection drives the feed, so a conversation never carries two
// meters.
func (h *ChatWebSocketHandler) startMeterFeed(ctx context.Context, pairKey, userID, peerID string) {
	session, err := h.sessionRepo.FindOpenSession(ctx, userID, peerID)
	if err != nil {
		return
	}

	m := meter.New(session.SessionStart, session.HourlyRate, time.Second)
	go m.Run(ctx)
	go func() {
		for r := range m.Readings() {
			h.hub.BroadcastMeterReading(pairKey, session.ID, r)
		}
	}()
}

func (h *ChatWebSocketHandler) readPump(ctx context.Context, pairKey string, conn *websocket.Conn, info ConnInfo) {
	var closeReason string
	defer func() {
		h.hub.RemoveChatClient(pairKey, conn)
		observability.DecWSActive("chat")
		observability.IncWSEvent("chat", "ws_disconnect")
		publishWSLifecycle(ctx, "chat", pairKey, info, "ws_disconnect", time.Since(info.ConnectedAt).Milliseconds(), closeReason)
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("chat", "ws_error")
				publishWSLifecycle(ctx, "chat", pairKey, info, "ws_error", time.Since(info.ConnectedAt).Milliseconds(), closeReason)
			}
			return
		}
	}
}

// validateWSToken accepts the token either as a Bearer header or, for
// browser websocket clients that cannot set headers, a token query param.
func validateWSToken(c *gin.Context, tokens *auth.TokenManager) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if token := c.Query("token"); token != "" {
			header = "Bearer " + token
		}
	}
	parts := strings.Split(header, " ")
	if len(parts) == 2 {
		return tokens.Validate(parts[1])
	}
	return "", fmt.Errorf("invalid token")
}

func publishWSLifecycle(ctx context.Context, kind, roomKey string, info ConnInfo, event string, durationMS int64, reason string) {
	_ = observability.PublishEvent(ctx, wsRoutingKey(kind), observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload: map[string]interface{}{
			"ws": map[string]interface{}{
				"kind":        kind,
				"room":        roomKey,
				"event":       event,
				"conn_id":     info.ConnID,
				"duration_ms": durationMS,
				"reason":      reason,
			},
			"identity": map[string]interface{}{
				"user_id":   info.UserID,
				"device_id": info.DeviceID,
				"ip":        info.IP,
			},
		},
	}, observability.BuildHeaders(info.RequestID, info.TraceID))
}
