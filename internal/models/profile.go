package models

import "time"

// Role is the account role of a profile.
type Role string

const (
	RoleCreator    Role = "creator"
	RoleSubscriber Role = "subscriber"
	RoleAdmin      Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleCreator, RoleSubscriber, RoleAdmin:
		return true
	}
	return false
}

// Profile represents a platform account.
type Profile struct {
	ID                string    `db:"id" json:"id"`
	Email             string    `db:"email" json:"email"`
	Username          string    `db:"username" json:"username"`
	PasswordHash      string    `db:"password_hash" json:"-"`
	DisplayName       *string   `db:"display_name" json:"display_name,omitempty"`
	Bio               *string   `db:"bio" json:"bio,omitempty"`
	AvatarURL         *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	Role              Role      `db:"role" json:"role"`
	ChatRate          *float64  `db:"chat_rate" json:"chat_rate,omitempty"`
	SubscriptionPrice *float64  `db:"subscription_price" json:"subscription_price,omitempty"`
	IsVerified        bool      `db:"is_verified" json:"is_verified"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
