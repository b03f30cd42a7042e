package observability

// Routing keys for platform events published to the topic exchange.
const (
	RoutingKeySessions      = "platform_events.sessions"
	RoutingKeyStreams       = "platform_events.streams"
	RoutingKeyTips          = "platform_events.tips"
	RoutingKeyNotifications = "platform_events.notifications"
)

type EventEnvelope struct {
	EventType string      `json:"event_type"`
	EventName string      `json:"event_name"`
	Payload   interface{} `json:"payload"`
}

func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
