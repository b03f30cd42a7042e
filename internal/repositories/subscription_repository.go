package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/TanishqPratap/content-oasis-app/internal/models"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

const subscriptionColumns = `id, subscriber_id, creator_id, status, stripe_subscription_id, current_period_start, current_period_end, created_at, updated_at`

// SubscriptionRepository abstracts subscription and tip persistence.
type SubscriptionRepository interface {
	FindActiveSubscription(ctx context.Context, subscriberID, creatorID string) (models.Subscription, error)
	Subscribe(ctx context.Context, subscriberID, creatorID string) (models.Subscription, error)
	Cancel(ctx context.Context, subscriberID, creatorID string) (models.Subscription, error)
	ListForSubscriber(ctx context.Context, subscriberID string) ([]models.Subscription, error)
	CreateTip(ctx context.Context, tip models.Tip) (models.Tip, error)
	ListTipsForCreator(ctx context.Context, creatorID string) ([]models.Tip, error)
}

// SubscriptionRepo is a sqlx implementation of SubscriptionRepository.
type SubscriptionRepo struct {
	db *sqlx.DB
}

// NewSubscriptionRepo constructs a SubscriptionRepo.
func NewSubscriptionRepo(db *sqlx.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

// FindActiveSubscription returns the live subscription for the pair, if any.
func (r *SubscriptionRepo) FindActiveSubscription(ctx context.Context, subscriberID, creatorID string) (models.Subscription, error) {
	var sub models.Subscription
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
        WHERE subscriber_id=$1 AND creator_id=$2 AND status='active'
        ORDER BY created_at DESC LIMIT 1`
	err := r.db.GetContext(ctx, &sub, query, subscriberID, creatorID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Subscription{}, ErrSubscriptionNotFound
	}
	return sub, err
}

// Subscribe opens a 30-day billing period for the pair. Payment capture is
// stubbed.
func (r *SubscriptionRepo) Subscribe(ctx context.Context, subscriberID, creatorID string) (models.Subscription, error) {
	var sub models.Subscription
	query := `INSERT INTO subscriptions (subscriber_id, creator_id, status, current_period_start, current_period_end)
        VALUES ($1, $2, 'active', NOW(), NOW() + INTERVAL '30 days')
        RETURNING ` + subscriptionColumns
	err := r.db.GetContext(ctx, &sub, query, subscriberID, creatorID)
	return sub, err
}

// Cancel marks the pair's active subscription canceled. Access runs until
// the period end; this repository only flips the status.
func (r *SubscriptionRepo) Cancel(ctx context.Context, subscriberID, creatorID string) (models.Subscription, error) {
	var sub models.Subscription
	query := `UPDATE subscriptions SET status='canceled', updated_at=NOW()
        WHERE subscriber_id=$1 AND creator_id=$2 AND status='active'
        RETURNING ` + subscriptionColumns
	err := r.db.GetContext(ctx, &sub, query, subscriberID, creatorID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Subscription{}, ErrSubscriptionNotFound
	}
	return sub, err
}

// ListForSubscriber returns a user's subscriptions, newest first.
func (r *SubscriptionRepo) ListForSubscriber(ctx context.Context, subscriberID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
        WHERE subscriber_id=$1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &subs, query, subscriberID)
	return subs, err
}

// CreateTip records a one-off tip.
func (r *SubscriptionRepo) CreateTip(ctx context.Context, tip models.Tip) (models.Tip, error) {
	var created models.Tip
	query := `INSERT INTO tips (tipper_id, creator_id, content_id, amount, message)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, tipper_id, creator_id, content_id, amount, message, stripe_payment_intent_id, created_at`
	err := r.db.GetContext(ctx, &created, query,
		tip.TipperID, tip.CreatorID, tip.ContentID, tip.Amount, tip.Message)
	return created, err
}

// ListTipsForCreator returns the tips a creator has received, newest first.
func (r *SubscriptionRepo) ListTipsForCreator(ctx context.Context, creatorID string) ([]models.Tip, error) {
	var tips []models.Tip
	query := `SELECT id, tipper_id, creator_id, content_id, amount, message, stripe_payment_intent_id, created_at
        FROM tips WHERE creator_id=$1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &tips, query, creatorID)
	return tips, err
}
