package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/TanishqPratap/content-oasis-app/internal/models"
)

// MessageRepository defines interactions for direct messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, senderID, recipientID, content string) (models.Message, error)
	GetConversation(ctx context.Context, userID, peerID string) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage appends a direct message. The id and timestamp are generated
// by the database.
func (r *MessageRepo) CreateMessage(ctx context.Context, senderID, recipientID, content string) (models.Message, error) {
	var msg models.Message
	query := `INSERT INTO messages (sender_id, recipient_id, content) VALUES ($1, $2, $3)
        RETURNING id, sender_id, recipient_id, content, created_at`
	err := r.db.GetContext(ctx, &msg, query, senderID, recipientID, content)
	return msg, err
}

// GetConversation returns every message between two users, oldest first.
func (r *MessageRepo) GetConversation(ctx context.Context, userID, peerID string) ([]models.Message, error) {
	var msgs []models.Message
	query := `SELECT id, sender_id, recipient_id, content, created_at FROM messages
        WHERE (sender_id=$1 AND recipient_id=$2) OR (sender_id=$2 AND recipient_id=$1)
        ORDER BY created_at ASC`
	err := r.db.SelectContext(ctx, &msgs, query, userID, peerID)
	return msgs, err
}
