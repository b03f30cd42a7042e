package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"github.com/TanishqPratap/content-oasis-app/internal/auth"
	"github.com/TanishqPratap/content-oasis-app/internal/observability"
	"github.com/TanishqPratap/content-oasis-app/internal/repositories"
)

// StreamWebSocketHandler handles live stream websocket connections.
type StreamWebSocketHandler struct {
	hub        *Hub
	streamRepo repositories.StreamRepository
	tokens     *auth.TokenManager
}

// NewStreamWebSocketHandler constructs a StreamWebSocketHandler.
func NewStreamWebSocketHandler(hub *Hub, streamRepo repositories.StreamRepository, tokens *auth.TokenManager) *StreamWebSocketHandler {
	return &StreamWebSocketHandler{hub: hub, streamRepo: streamRepo, tokens: tokens}
}

// Handle upgrades the connection and subscribes the caller to a stream's
// status and viewer-count events.
func (h *StreamWebSocketHandler) Handle(c *gin.Context) {
	streamID := c.Param("stream_id")

	ctx, span := otel.Tracer("content-oasis/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, err := validateWSToken(c, h.tokens)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if _, err := h.streamRepo.GetStream(c.Request.Context(), streamID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "stream not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

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
	h.hub.AddStreamClient(streamID, conn, info)

	observability.IncWSActive("stream")
	observability.IncWSEvent("stream", "ws_connect")
	publishWSLifecycle(ctx, "stream", streamID, info, "ws_connect", 0, "")

	go func() {
		var closeReason string
		defer func() {
			h.hub.RemoveStreamClient(streamID, conn)
			observability.DecWSActive("stream")
			observability.IncWSEvent("stream", "ws_disconnect")
			publishWSLifecycle(ctx, "stream", streamID, info, "ws_disconnect", time.Since(info.ConnectedAt).Milliseconds(), closeReason)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent("stream", "ws_error")
					publishWSLifecycle(ctx, "stream", streamID, info, "ws_error", time.Since(info.ConnectedAt).Milliseconds(), closeReason)
				}
				return
			}
		}
	}()
}
