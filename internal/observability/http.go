package observability

import (
	"net"
	"net/http"
	"strings"
)

// Client is the identifying context of one HTTP caller, extracted once at
// the edge and attached to websocket connections and lifecycle events.
type Client struct {
	DeviceID  string
	IP        string
	RequestID string
}

// ClientFromRequest extracts the caller's device id, address and propagated
// request id. The IP prefers X-Forwarded-For since the platform runs behind
// a proxy.
func ClientFromRequest(r *http.Request) Client {
	return Client{
		DeviceID:  r.Header.Get("X-Device-Id"),
		IP:        clientIP(r),
		RequestID: r.Header.Get("X-Request-Id"),
	}
}

func clientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
