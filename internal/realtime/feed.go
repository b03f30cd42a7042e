// Package realtime bridges platform events across service instances through
// Redis pub/sub. Each instance publishes the events it originates and
// replays events from peers into its local websocket hub, so every connected
// client sees the same feed no matter which instance it landed on. Delivery
// order is whatever Redis hands us; there is no reordering or deduplication.
package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/TanishqPratap/content-oasis-app/internal/models"
	"github.com/TanishqPratap/content-oasis-app/internal/ws"
)

const channel = "oasis:feed"

// Envelope is the wire format of one feed event.
type Envelope struct {
	Kind    string          `json:"kind"` // chat | session | stream
	Room    string          `json:"room"`
	Origin  string          `json:"origin"`
	Payload json.RawMessage `json:"payload"`
}

// Feed publishes to and subscribes from the shared Redis channel.
type Feed struct {
	rdb      *redis.Client
	hub      *ws.Hub
	instance string
}

// NewFeed constructs a Feed. instance identifies this process so it can skip
// its own publications on replay (the hub already delivered them locally).
func NewFeed(rdb *redis.Client, hub *ws.Hub, instance string) *Feed {
	return &Feed{rdb: rdb, hub: hub, instance: instance}
}

// PublishChatMessage fans a new message out to other instances.
func (f *Feed) PublishChatMessage(ctx context.Context, pairKey string, msg models.Message) {
	f.publish(ctx, "chat", pairKey, models.ChatEvent{Type: "message", Message: &msg})
}

// PublishSessionEvent fans a session start/settle notification out to other
// instances.
func (f *Feed) PublishSessionEvent(ctx context.Context, pairKey string, event models.SessionEvent) {
	f.publish(ctx, "session", pairKey, event)
}

// PublishStreamEvent fans a stream status or viewer-count change out to
// other instances.
func (f *Feed) PublishStreamEvent(ctx context.Context, event models.StreamEvent) {
	f.publish(ctx, "stream", event.StreamID, event)
}

func (f *Feed) publish(ctx context.Context, kind, room string, payload any) {
	if f == nil || f.rdb == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("feed marshal failed: %v", err)
		return
	}
	envelope, err := json.Marshal(Envelope{Kind: kind, Room: room, Origin: f.instance, Payload: body})
	if err != nil {
		log.Printf("feed marshal failed: %v", err)
		return
	}
	if err := f.rdb.Publish(ctx, channel, string(envelope)).Err(); err != nil {
		log.Printf("feed publish failed: %v", err)
	}
}

// Listen consumes the shared channel until the context is cancelled,
// replaying peer events into the local hub.
func (f *Feed) Listen(ctx context.Context) {
	if f == nil || f.rdb == nil {
		return
	}
	pubsub := f.rdb.Subscribe(ctx, channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			f.replay([]byte(msg.Payload))
		}
	}
}

func (f *Feed) replay(raw []byte) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		log.Printf("feed unmarshal failed: %v", err)
		return
	}
	if envelope.Origin == f.instance {
		return
	}

	switch envelope.Kind {
	case "chat":
		var event models.ChatEvent
		if err := json.Unmarshal(envelope.Payload, &event); err != nil || event.Message == nil {
			log.Printf("feed chat event dropped: %v", err)
			return
		}
		f.hub.BroadcastChatMessage(envelope.Room, *event.Message)
	case "session":
		var event models.SessionEvent
		if err := json.Unmarshal(envelope.Payload, &event); err != nil {
			log.Printf("feed session event dropped: %v", err)
			return
		}
		f.hub.BroadcastSessionEvent(envelope.Room, event)
	case "stream":
		var event models.StreamEvent
		if err := json.Unmarshal(envelope.Payload, &event); err != nil {
			log.Printf("feed stream event dropped: %v", err)
			return
		}
		f.hub.BroadcastStreamEvent(envelope.Room, event)
	default:
		log.Printf("feed event dropped: unknown kind %q", envelope.Kind)
	}
}
