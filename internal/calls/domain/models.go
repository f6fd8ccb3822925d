// Package domain contains types for call records. Records are append-only; a
// call that happened is never edited or deleted.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Call outcomes as the agent reports them.
const (
	OutcomeAnswered    = "answered"
	OutcomeVoicemail   = "voicemail"
	OutcomeNoAnswer    = "no_answer"
	OutcomeBusy        = "busy"
	OutcomeWrongNumber = "wrong_number"
)

// Call statuses as stored. Derived from the outcome, never set directly.
const (
	StatusCompleted = "completed"
	StatusVoicemail = "voicemail"
	StatusNoAnswer  = "no_answer"
	StatusBusy      = "busy"
	StatusFailed    = "failed"
)

var knownOutcomes = map[string]struct{}{
	OutcomeAnswered:    {},
	OutcomeVoicemail:   {},
	OutcomeNoAnswer:    {},
	OutcomeBusy:        {},
	OutcomeWrongNumber: {},
}

// KnownOutcome reports whether the outcome value is one an agent can record.
func KnownOutcome(outcome string) bool {
	_, ok := knownOutcomes[outcome]
	return ok
}

// StatusForOutcome derives the stored call status. Wrong numbers record as
// failed; anything unrecognized records as completed.
func StatusForOutcome(outcome string) string {
	switch outcome {
	case OutcomeVoicemail:
		return StatusVoicemail
	case OutcomeNoAnswer:
		return StatusNoAnswer
	case OutcomeBusy:
		return StatusBusy
	case OutcomeWrongNumber:
		return StatusFailed
	default:
		return StatusCompleted
	}
}

// CallRecord is one logged call against a case.
type CallRecord struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	LeadID       snowflake.ID `gorm:"column:lead_id;not null;index" json:"lead_id"`
	AgentID      snowflake.ID `gorm:"column:agent_id;not null;index" json:"agent_id"`
	CallDuration int          `gorm:"column:call_duration;not null;default:0" json:"call_duration"`
	CallStatus   string       `gorm:"column:call_status;type:text;not null" json:"call_status"`
	Outcome      string       `gorm:"column:outcome;type:text" json:"outcome"`
	RecordingURL string       `gorm:"column:recording_url;type:text" json:"recording_url"`
	Notes        string       `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt    time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (CallRecord) TableName() string { return "call_records" }

// ListFilter narrows a call listing. Nil fields are not applied. Limit
// and BeforeID page newest-first; a zero Limit returns everything.
type ListFilter struct {
	AgentID  *snowflake.ID
	LeadID   *snowflake.ID
	Limit    int
	BeforeID *snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *CallRecord) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]CallRecord, error)
}

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]CallRecord, error)
	Create(ctx context.Context, req CreateRequest) (*CallRecord, error)
}

type CreateRequest struct {
	LeadID       snowflake.ID
	AgentID      snowflake.ID
	CallDuration int
	Outcome      string
	RecordingURL string
	Notes        string
}
