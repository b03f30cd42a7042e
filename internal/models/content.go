package models

import "time"

// ContentType classifies an uploaded piece of content.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
	ContentVideo ContentType = "video"
)

// Valid reports whether the content type is one of the known values.
func (t ContentType) Valid() bool {
	switch t {
	case ContentText, ContentImage, ContentVideo:
		return true
	}
	return false
}

// Content is a published piece of creator content. MediaURL points at the
// object-storage collaborator; the service never touches the bytes.
type Content struct {
	ID          string      `db:"id" json:"id"`
	CreatorID   string      `db:"creator_id" json:"creator_id"`
	Title       string      `db:"title" json:"title"`
	Description *string     `db:"description" json:"description,omitempty"`
	ContentType ContentType `db:"content_type" json:"content_type"`
	MediaURL    *string     `db:"media_url" json:"media_url,omitempty"`
	Price       *float64    `db:"price" json:"price,omitempty"`
	IsPremium   bool        `db:"is_premium" json:"is_premium"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}
