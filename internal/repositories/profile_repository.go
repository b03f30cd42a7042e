package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/TanishqPratap/content-oasis-app/internal/models"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("email or username already taken")
)

const profileColumns = `id, email, username, password_hash, display_name, bio, avatar_url, role, chat_rate, subscription_price, is_verified, created_at, updated_at`

// ProfileRepository abstracts account persistence.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, email, username, passwordHash string, role models.Role) (models.Profile, error)
	GetProfile(ctx context.Context, id string) (models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (models.Profile, error)
	UpdateProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
	ListCreators(ctx context.Context) ([]models.Profile, error)
}

// ProfileRepo is a sqlx implementation of ProfileRepository.
type ProfileRepo struct {
	db *sqlx.DB
}

// NewProfileRepo constructs a ProfileRepo.
func NewProfileRepo(db *sqlx.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// CreateProfile inserts a new account.
func (r *ProfileRepo) CreateProfile(ctx context.Context, email, username, passwordHash string, role models.Role) (models.Profile, error) {
	var profile models.Profile
	query := `INSERT INTO profiles (email, username, password_hash, role) VALUES ($1, $2, $3, $4)
        RETURNING ` + profileColumns
	err := r.db.GetContext(ctx, &profile, query, email, username, passwordHash, role)
	if isUniqueViolation(err) {
		return models.Profile{}, ErrProfileExists
	}
	return profile, err
}

// GetProfile fetches a profile by id.
func (r *ProfileRepo) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	var profile models.Profile
	err := r.db.GetContext(ctx, &profile, `SELECT `+profileColumns+` FROM profiles WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrProfileNotFound
	}
	return profile, err
}

// GetProfileByEmail fetches a profile by email for sign-in.
func (r *ProfileRepo) GetProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	var profile models.Profile
	err := r.db.GetContext(ctx, &profile, `SELECT `+profileColumns+` FROM profiles WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrProfileNotFound
	}
	return profile, err
}

// UpdateProfile persists the mutable profile fields.
func (r *ProfileRepo) UpdateProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	var updated models.Profile
	query := `UPDATE profiles
        SET display_name=$2, bio=$3, avatar_url=$4, chat_rate=$5, subscription_price=$6, updated_at=NOW()
        WHERE id=$1
        RETURNING ` + profileColumns
	err := r.db.GetContext(ctx, &updated, query,
		profile.ID, profile.DisplayName, profile.Bio, profile.AvatarURL, profile.ChatRate, profile.SubscriptionPrice)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrProfileNotFound
	}
	return updated, err
}

// ListCreators returns every creator account.
func (r *ProfileRepo) ListCreators(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE role='creator' ORDER BY username ASC`
	err := r.db.SelectContext(ctx, &profiles, query)
	return profiles, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
