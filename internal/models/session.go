package models

import "time"

// PaymentStatus tracks whether a chat session has been paid for.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// ChatSession represents one metered paid chat engagement between a
// subscriber and a creator. TotalAmount stays nil while the session is open;
// it is fixed once at close time and never recomputed.
type ChatSession struct {
	ID                    string        `db:"id" json:"id"`
	SubscriberID          string        `db:"subscriber_id" json:"subscriber_id"`
	CreatorID             string        `db:"creator_id" json:"creator_id"`
	HourlyRate            float64       `db:"hourly_rate" json:"hourly_rate"`
	SessionStart          time.Time     `db:"session_start" json:"session_start"`
	SessionEnd            *time.Time    `db:"session_end" json:"session_end,omitempty"`
	PaymentStatus         PaymentStatus `db:"payment_status" json:"payment_status"`
	StripePaymentIntentID *string       `db:"stripe_payment_intent_id" json:"-"`
	TotalAmount           *float64      `db:"total_amount" json:"total_amount,omitempty"`
	CreatedAt             time.Time     `db:"created_at" json:"created_at"`
}

// Open reports whether the session is still being metered.
func (s ChatSession) Open() bool {
	return s.SessionEnd == nil
}

// SessionEvent is broadcast through websockets and the event feed when a
// session starts or settles.
type SessionEvent struct {
	Type      string       `json:"type"`
	Session   *ChatSession `json:"session,omitempty"`
	SessionID string       `json:"session_id,omitempty"`
	Duration  string       `json:"duration,omitempty"`
	Cost      float64      `json:"cost,omitempty"`
}
