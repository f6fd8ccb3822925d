// Package domain contains types for retention cases, the lead records that
// agents call, managers assign and affiliates submit.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	commissiondomain "github.com/retentionops/portal/internal/commission/domain"
	"gorm.io/datatypes"
)

// Case statuses. Storage keeps the canonical set; legacy spellings from
// older producers are folded in by CanonicalStatus.
const (
	StatusNew           = "new"
	StatusInProgress    = "in_progress"
	StatusIssuedNotPaid = "issued_not_paid"
	StatusPendingLapse  = "pending_lapse"
	StatusChargedBack   = "charged_back"
	StatusIssuedPaid    = "issued_paid"
	StatusDead          = "dead"
)

// legacy spellings folded into the canonical set
var statusAliases = map[string]string{
	"open":     StatusNew,
	"resolved": StatusIssuedPaid,
	"sold":     StatusIssuedPaid,
}

var validStatuses = map[string]struct{}{
	StatusNew:           {},
	StatusInProgress:    {},
	StatusIssuedNotPaid: {},
	StatusPendingLapse:  {},
	StatusChargedBack:   {},
	StatusIssuedPaid:    {},
	StatusDead:          {},
}

// CanonicalStatus maps a raw status string to the canonical set. The second
// return is false when the value is neither canonical nor a known alias.
func CanonicalStatus(raw string) (string, bool) {
	if canonical, ok := statusAliases[raw]; ok {
		return canonical, true
	}
	if _, ok := validStatuses[raw]; ok {
		return raw, true
	}
	return "", false
}

// Converted reports whether a status counts as a conversion. Legacy spellings
// still present in stored rows count too.
func Converted(status string) bool {
	canonical, ok := CanonicalStatus(status)
	return ok && canonical == StatusIssuedPaid
}

// Case is one lead/policy-retention record.
type Case struct {
	ID              snowflake.ID   `gorm:"primaryKey" json:"id"`
	ClientName      string         `gorm:"column:client_name;type:text;not null" json:"client_name"`
	ClientPhone     string         `gorm:"column:client_phone;type:text" json:"client_phone"`
	Status          string         `gorm:"column:status;type:text;not null;index" json:"status"`
	AssignedAgentID *snowflake.ID  `gorm:"column:assigned_agent_id;index" json:"assigned_agent_id"`
	AffiliateID     *snowflake.ID  `gorm:"column:affiliate_id;index" json:"affiliate_id"`
	PolicyIDs       datatypes.JSON `gorm:"column:policy_ids" json:"policy_ids"`
	CreatedAt       time.Time      `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Case) TableName() string { return "retention_cases" }

// CaseWithCommissions is a case joined with its commission rows in memory.
type CaseWithCommissions struct {
	Case
	Commissions []commissiondomain.Commission `json:"commissions"`
}

// CaseWithAgent is a case carrying the assigned agent's display name,
// the shape the manager lead board renders. Unassigned cases have an
// empty name.
type CaseWithAgent struct {
	Case
	AgentName string `json:"agent_name"`
}
