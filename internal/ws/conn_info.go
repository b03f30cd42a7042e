package ws

import "time"

// ConnInfo carries identity and tracing context for one websocket
// connection in a conversation or stream room. It is captured at handshake
// and attached to every lifecycle event the connection produces.
type ConnInfo struct {
	ConnID      string
	UserID      string
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}
