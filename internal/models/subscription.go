package models

import "time"

// SubscriptionStatus is the lifecycle state of a recurring subscription.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Subscription grants a subscriber access to a creator's premium content for
// the current billing period. Payment capture is stubbed.
type Subscription struct {
	ID                   string             `db:"id" json:"id"`
	SubscriberID         string             `db:"subscriber_id" json:"subscriber_id"`
	CreatorID            string             `db:"creator_id" json:"creator_id"`
	Status               SubscriptionStatus `db:"status" json:"status"`
	StripeSubscriptionID *string            `db:"stripe_subscription_id" json:"-"`
	CurrentPeriodStart   *time.Time         `db:"current_period_start" json:"current_period_start,omitempty"`
	CurrentPeriodEnd     *time.Time         `db:"current_period_end" json:"current_period_end,omitempty"`
	CreatedAt            time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `db:"updated_at" json:"updated_at"`
}

// Tip is a one-off payment from a fan to a creator, optionally attached to a
// piece of content.
type Tip struct {
	ID                    string    `db:"id" json:"id"`
	TipperID              string    `db:"tipper_id" json:"tipper_id"`
	CreatorID             string    `db:"creator_id" json:"creator_id"`
	ContentID             *string   `db:"content_id" json:"content_id,omitempty"`
	Amount                float64   `db:"amount" json:"amount"`
	Message               *string   `db:"message" json:"message,omitempty"`
	StripePaymentIntentID *string   `db:"stripe_payment_intent_id" json:"-"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
}
