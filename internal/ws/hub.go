package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/TanishqPratap/content-oasis-app/internal/meter"
	"github.com/TanishqPratap/content-oasis-app/internal/models"
	"github.com/TanishqPratap/content-oasis-app/internal/observability"
)

// Hub maintains active websocket rooms: one room per direct-message pair and
// one per live stream.
type Hub struct {
	chatRooms      map[string]map[*websocket.Conn]bool
	streamRooms    map[string]map[*websocket.Conn]bool
	chatConnInfo   map[string]map[*websocket.Conn]ConnInfo
	streamConnInfo map[string]map[*websocket.Conn]ConnInfo
	mu             sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		chatRooms:      make(map[string]map[*websocket.Conn]bool),
		streamRooms:    make(map[string]map[*websocket.Conn]bool),
		chatConnInfo:   make(map[string]map[*websocket.Conn]ConnInfo),
		streamConnInfo: make(map[string]map[*websocket.Conn]ConnInfo),
	}
}

// AddChatClient registers a websocket connection to a conversation room.
func (h *Hub) AddChatClient(pairKey string, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.chatRooms[pairKey]; !ok {
		h.chatRooms[pairKey] = make(map[*websocket.Conn]bool)
	}
	h.chatRooms[pairKey][conn] = true
	if _, ok := h.chatConnInfo[pairKey]; !ok {
		h.chatConnInfo[pairKey] = make(map[*websocket.Conn]ConnInfo)
	}
	h.chatConnInfo[pairKey][conn] = info
}

// RemoveChatClient removes a conversation websocket connection.
func (h *Hub) RemoveChatClient(pairKey string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.chatRooms[pairKey]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.chatRooms, pairKey)
		}
	}
	if infos, ok := h.chatConnInfo[pairKey]; ok {
		delete(infos, conn)
		if len(infos) == 0 {
			delete(h.chatConnInfo, pairKey)
		}
	}
}

// BroadcastChatMessage sends a new message to both ends of a conversation.
func (h *Hub) BroadcastChatMessage(pairKey string, msg models.Message) {
	event := models.ChatEvent{Type: "message", Message: &msg}
	h.broadcast("chat", pairKey, event)
}

// BroadcastSessionEvent notifies a conversation of a session start or
// settlement.
func (h *Hub) BroadcastSessionEvent(pairKey string, event models.SessionEvent) {
	h.broadcast("chat", pairKey, event)
}

// BroadcastMeterReading pushes a live duration/cost tick to both ends of a
// conversation with an open session.
func (h *Hub) BroadcastMeterReading(pairKey, sessionID string, r meter.Reading) {
	event := models.SessionEvent{Type: "meter_reading", SessionID: sessionID, Duration: r.Elapsed, Cost: r.Cost}
	h.broadcast("chat", pairKey, event)
}

// AddStreamClient registers a websocket connection to a stream room.
func (h *Hub) AddStreamClient(streamID string, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.streamRooms[streamID]; !ok {
		h.streamRooms[streamID] = make(map[*websocket.Conn]bool)
	}
	h.streamRooms[streamID][conn] = true
	if _, ok := h.streamConnInfo[streamID]; !ok {
		h.streamConnInfo[streamID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.streamConnInfo[streamID][conn] = info
}

// RemoveStreamClient removes a stream websocket connection.
func (h *Hub) RemoveStreamClient(streamID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.streamRooms[streamID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.streamRooms, streamID)
		}
	}
	if infos, ok := h.streamConnInfo[streamID]; ok {
		delete(infos, conn)
		if len(infos) == 0 {
			delete(h.streamConnInfo, streamID)
		}
	}
}

// BroadcastStreamEvent sends a status or viewer-count change to everyone
// watching a stream.
func (h *Hub) BroadcastStreamEvent(streamID string, event models.StreamEvent) {
	h.broadcast("stream", streamID, event)
}

func (h *Hub) broadcast(kind, roomKey string, event any) {
	h.mu.RLock()
	var room map[*websocket.Conn]bool
	if kind == "chat" {
		room = h.chatRooms[roomKey]
	} else {
		room = h.streamRooms[roomKey]
	}
	// Snapshot the room while locked; ranging the live map would race with
	// Add*/Remove* writers.
	conns := make([]*websocket.Conn, 0, len(room))
	for conn := range room {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	payload, _ := json.Marshal(event)
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.publishWSError(kind, roomKey, conn, err)
			if kind == "chat" {
				h.RemoveChatClient(roomKey, conn)
			} else {
				h.RemoveStreamClient(roomKey, conn)
			}
		}
	}
}

func (h *Hub) publishWSError(kind, roomKey string, conn *websocket.Conn, err error) {
	info, ok := h.getConnInfo(kind, roomKey, conn)
	if !ok {
		return
	}

	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        kind,
			"room":        roomKey,
			"event":       "ws_error",
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}

	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(context.Background(), wsRoutingKey(kind), observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   payload,
	}, headers)
	observability.IncWSEvent(kind, "ws_error")
}

func (h *Hub) getConnInfo(kind, roomKey string, conn *websocket.Conn) (ConnInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if kind == "chat" {
		if infos, ok := h.chatConnInfo[roomKey]; ok {
			info, exists := infos[conn]
			return info, exists
		}
		return ConnInfo{}, false
	}
	if infos, ok := h.streamConnInfo[roomKey]; ok {
		info, exists := infos[conn]
		return info, exists
	}
	return ConnInfo{}, false
}

func wsRoutingKey(kind string) string {
	if kind == "stream" {
		return "ws_events.streams"
	}
	return "ws_events.chats"
}
