package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/TanishqPratap/content-oasis-app/internal/models"
)

var ErrContentNotFound = errors.New("content not found")

const contentColumns = `id, creator_id, title, description, content_type, media_url, price, is_premium, created_at, updated_at`

// ContentRepository abstracts published content persistence.
type ContentRepository interface {
	CreateContent(ctx context.Context, content models.Content) (models.Content, error)
	GetContent(ctx context.Context, contentID string) (models.Content, error)
	ListContentForCreator(ctx context.Context, creatorID string, includePremium bool) ([]models.Content, error)
}

// ContentRepo is a sqlx implementation of ContentRepository.
type ContentRepo struct {
	db *sqlx.DB
}

// NewContentRepo constructs a ContentRepo.
func NewContentRepo(db *sqlx.DB) *ContentRepo {
	return &ContentRepo{db: db}
}

// CreateContent publishes a piece of content.
func (r *ContentRepo) CreateContent(ctx context.Context, content models.Content) (models.Content, error) {
	var created models.Content
	query := `INSERT INTO content (creator_id, title, description, content_type, media_url, price, is_premium)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + contentColumns
	err := r.db.GetContext(ctx, &created, query,
		content.CreatorID, content.Title, content.Description, content.ContentType,
		content.MediaURL, content.Price, content.IsPremium)
	return created, err
}

// GetContent fetches one piece of content by id.
func (r *ContentRepo) GetContent(ctx context.Context, contentID string) (models.Content, error) {
	var content models.Content
	err := r.db.GetContext(ctx, &content, `SELECT `+contentColumns+` FROM content WHERE id=$1`, contentID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Content{}, ErrContentNotFound
	}
	return content, err
}

// ListContentForCreator returns a creator's feed, newest first. Premium
// items are filtered out unless the caller is entitled to them.
func (r *ContentRepo) ListContentForCreator(ctx context.Context, creatorID string, includePremium bool) ([]models.Content, error) {
	var items []models.Content
	query := `SELECT ` + contentColumns + ` FROM content
        WHERE creator_id=$1 AND ($2 OR is_premium = FALSE)
        ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &items, query, creatorID, includePremium)
	return items, err
}
