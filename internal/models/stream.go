package models

import "time"

// StreamStatus is the lifecycle state of a live stream. Transitions are
// offline -> live -> ended only; an ended stream is never restarted.
type StreamStatus string

const (
	StreamOffline StreamStatus = "offline"
	StreamLive    StreamStatus = "live"
	StreamEnded   StreamStatus = "ended"
)

// Valid reports whether the status is one of the known values.
func (s StreamStatus) Valid() bool {
	switch s {
	case StreamOffline, StreamLive, StreamEnded:
		return true
	}
	return false
}

// LiveStream represents a creator's broadcast. StreamKey is an opaque secret
// and must only ever be returned to the owning creator.
type LiveStream struct {
	ID          string       `db:"id" json:"id"`
	CreatorID   string       `db:"creator_id" json:"creator_id"`
	Title       string       `db:"title" json:"title"`
	Description *string      `db:"description" json:"description,omitempty"`
	Status      StreamStatus `db:"status" json:"status"`
	StreamKey   string       `db:"stream_key" json:"-"`
	StartedAt   *time.Time   `db:"started_at" json:"started_at,omitempty"`
	EndedAt     *time.Time   `db:"ended_at" json:"ended_at,omitempty"`
	ViewerCount int          `db:"viewer_count" json:"viewer_count"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
}

// StreamViewer is the join/leave record for one viewer of one stream. A
// viewer has at most one open (left_at IS NULL) record per stream.
type StreamViewer struct {
	ID       string     `db:"id" json:"id"`
	StreamID string     `db:"stream_id" json:"stream_id"`
	ViewerID string     `db:"viewer_id" json:"viewer_id"`
	JoinedAt time.Time  `db:"joined_at" json:"joined_at"`
	LeftAt   *time.Time `db:"left_at" json:"left_at,omitempty"`
}

// StreamEvent is broadcast through websockets to a stream's room.
type StreamEvent struct {
	Type        string       `json:"type"`
	StreamID    string       `json:"stream_id"`
	Status      StreamStatus `json:"status,omitempty"`
	ViewerCount int          `json:"viewer_count,omitempty"`
}
