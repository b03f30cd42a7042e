package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/TanishqPratap/content-oasis-app/internal/models"
)

var (
	ErrSessionNotFound = errors.New("chat session not found")
	ErrSessionClosed   = errors.New("chat session already closed")
	ErrSessionExists   = errors.New("open chat session already exists for pair")
)

const sessionColumns = `id, subscriber_id, creator_id, hourly_rate, session_start, session_end, payment_status, stripe_payment_intent_id, total_amount, created_at`

// SessionRepository abstracts chat session persistence.
type SessionRepository interface {
	FindOpenSession(ctx context.Context, subscriberID, creatorID string) (models.ChatSession, error)
	CreateSession(ctx context.Context, subscriberID, creatorID string, hourlyRate float64) (models.ChatSession, error)
	GetSession(ctx context.Context, sessionID string) (models.ChatSession, error)
	CloseSession(ctx context.Context, sessionID string) (models.ChatSession, error)
	ListSessionsForUser(ctx context.Context, userID string) ([]models.ChatSession, error)
}

// SessionRepo is a sqlx implementation of SessionRepository.
type SessionRepo struct {
	db *sqlx.DB
}

// NewSessionRepo constructs a SessionRepo.
func NewSessionRepo(db *sqlx.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// FindOpenSession returns the open paid session for the pair, if any.
func (r *SessionRepo) FindOpenSession(ctx context.Context, subscriberID, creatorID string) (models.ChatSession, error) {
	var session models.ChatSession
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions
        WHERE subscriber_id=$1 AND creator_id=$2 AND session_end IS NULL AND payment_status='paid'
        ORDER BY session_start DESC LIMIT 1`
	err := r.db.GetContext(ctx, &session, query, subscriberID, creatorID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ChatSession{}, ErrSessionNotFound
	}
	return session, err
}

// CreateSession opens a new metered session for the pair. Payment capture is
// stubbed, so the session is inserted already marked paid. The unique
// partial index on open pairs rejects a racing second start; that shows up
// as ErrSessionExists so the caller can resume the winner instead.
func (r *SessionRepo) CreateSession(ctx context.Context, subscriberID, creatorID string, hourlyRate float64) (models.ChatSession, error) {
	var session models.ChatSession
	query := `INSERT INTO chat_sessions (subscriber_id, creator_id, hourly_rate, payment_status)
        VALUES ($1, $2, $3, 'paid')
        RETURNING ` + sessionColumns
	err := r.db.GetContext(ctx, &session, query, subscriberID, creatorID, hourlyRate)
	if isUniqueViolation(err) {
		return models.ChatSession{}, ErrSessionExists
	}
	return session, err
}

// GetSession fetches a session by id.
func (r *SessionRepo) GetSession(ctx context.Context, sessionID string) (models.ChatSession, error) {
	var session models.ChatSession
	err := r.db.GetContext(ctx, &session, `SELECT `+sessionColumns+` FROM chat_sessions WHERE id=$1`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ChatSession{}, ErrSessionNotFound
	}
	return session, err
}

// CloseSession settles an open session in one guarded UPDATE: session_end is
// stamped and total_amount fixed as elapsed hours times the hourly rate,
// rounded to cents. A second close finds no open row and reports
// ErrSessionClosed; the stored total is never recomputed.
func (r *SessionRepo) CloseSession(ctx context.Context, sessionID string) (models.ChatSession, error) {
	var session models.ChatSession
	query := `UPDATE chat_sessions
        SET session_end = NOW(),
            total_amount = ROUND(EXTRACT(EPOCH FROM (NOW() - session_start)) / 3600.0 * hourly_rate, 2)
        WHERE id=$1 AND session_end IS NULL
        RETURNING ` + sessionColumns
	err := r.db.GetContext(ctx, &session, query, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetSession(ctx, sessionID); getErr != nil {
			return models.ChatSession{}, getErr
		}
		return models.ChatSession{}, ErrSessionClosed
	}
	return session, err
}

// ListSessionsForUser returns the sessions a user participates in, newest
// first.
func (r *SessionRepo) ListSessionsForUser(ctx context.Context, userID string) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions
        WHERE subscriber_id=$1 OR creator_id=$1
        ORDER BY session_start DESC`
	err := r.db.SelectContext(ctx, &sessions, query, userID)
	return sessions, err
}
