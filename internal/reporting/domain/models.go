// Package domain contains reporting types: dashboard summaries derived from
// already-fetched record sets and the agent performance view.
package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// FallbackCommission is the per-case estimate used when a converted case has
// no commission row yet.
const FallbackCommission = 50.0

// AffiliateSummary is the affiliate dashboard headline.
type AffiliateSummary struct {
	TotalLeads      int     `json:"total_leads"`
	ConvertedLeads  int     `json:"converted_leads"`
	ConversionRate  float64 `json:"conversion_rate"`
	TotalCommission float64 `json:"total_commission"`
}

// AgentPerformance is one row of the view_agent_performance projection.
type AgentPerformance struct {
	AgentID     snowflake.ID `gorm:"column:agent_id" json:"agent_id"`
	AgentName   string       `gorm:"column:agent_name" json:"agent_name"`
	Email       string       `gorm:"column:email" json:"email"`
	ActiveLeads int          `gorm:"column:active_leads" json:"active_leads"`
	TotalCalls  int          `gorm:"column:total_calls" json:"total_calls"`
	SuccessRate float64      `gorm:"column:success_rate" json:"success_rate"`
}

// TableName points the model at the derived view.
func (AgentPerformance) TableName() string { return "view_agent_performance" }

// TeamSummary is the manager dashboard headline.
type TeamSummary struct {
	Agents         []AgentPerformance `json:"agents"`
	TotalAgents    int                `json:"total_agents"`
	TotalLeads     int                `json:"total_leads"`
	TotalCalls     int                `json:"total_calls"`
	AvgSuccessRate float64            `json:"avg_success_rate"`
}

type Repository interface {
	ListAgentPerformance(ctx context.Context, db *gorm.DB) ([]AgentPerformance, error)
}

type Service interface {
	// AffiliateSummary aggregates the affiliate's own cases.
	AffiliateSummary(ctx context.Context, affiliateID snowflake.ID) (*AffiliateSummary, error)
	// TeamSummary aggregates the agent performance view.
	TeamSummary(ctx context.Context) (*TeamSummary, error)
}
