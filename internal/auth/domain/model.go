// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User represents a portal account. Role is one of the values enumerated in
// the routes package and is changed only by administrative action.
type User struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	DisplayName     string       `gorm:"column:full_name;type:text;not null"`
	Email           string       `gorm:"column:email;not null;uniqueIndex"`
	Role            string       `gorm:"column:role;type:text;not null;index"`
	PasswordHash    *string      `gorm:"type:text"`
	StripeAccountID *string      `gorm:"column:stripe_account_id;type:text"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// Session represents a persisted login session.
type Session struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	UserID           snowflake.ID `gorm:"column:user_id;not null;index"`
	SessionTokenHash string       `gorm:"column:session_token_hash;type:text;not null;uniqueIndex"`
	UserAgent        string       `gorm:"column:user_agent;type:text"`
	IPAddress        string       `gorm:"column:ip_address;type:text"`
	ExpiresAt        time.Time    `gorm:"column:expires_at;not null;index"`
	RevokedAt        *time.Time   `gorm:"column:revoked_at"`
	CreatedAt        time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	LastSeenAt       time.Time    `gorm:"column:last_seen_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }

// Identity is the resolved caller: a live session plus the role read back
// from the user record. It is threaded explicitly to every consumer.
type Identity struct {
	UserID      snowflake.ID
	Email       string
	DisplayName string
	Role        string
}
