// Package domain contains types for lead notes. Notes are append-only.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// DefaultNoteType is used when the writer does not classify the note.
const DefaultNoteType = "general"

var (
	ErrMissingLead    = errors.New("lead_id is required")
	ErrMissingAgent   = errors.New("agent_id is required")
	ErrMissingContent = errors.New("content is required")
)

// LeadNote is one annotation on a case.
type LeadNote struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	LeadID    snowflake.ID `gorm:"column:lead_id;not null;index" json:"lead_id"`
	AgentID   snowflake.ID `gorm:"column:agent_id;not null;index" json:"agent_id"`
	Content   string       `gorm:"column:content;type:text;not null" json:"content"`
	NoteType  string       `gorm:"column:note_type;type:text;not null;default:general" json:"note_type"`
	CreatedAt time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (LeadNote) TableName() string { return "lead_notes" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, note *LeadNote) error
	ListByLead(ctx context.Context, db *gorm.DB, leadID snowflake.ID) ([]LeadNote, error)
}

type Service interface {
	ListByLead(ctx context.Context, leadID snowflake.ID) ([]LeadNote, error)
	Create(ctx context.Context, req CreateRequest) (*LeadNote, error)
}

type CreateRequest struct {
	LeadID   snowflake.ID
	AgentID  snowflake.ID
	Content  string
	NoteType string
}
