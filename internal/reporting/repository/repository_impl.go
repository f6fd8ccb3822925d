package repository

import (
	"context"

	reportingdomain "github.com/retentionops/portal/internal/reporting/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() reportingdomain.Repository {
	return &repo{}
}

func (r *repo) ListAgentPerformance(ctx context.Context, db *gorm.DB) ([]reportingdomain.AgentPerformance, error) {
	var rows []reportingdomain.AgentPerformance
	err := db.WithContext(ctx).
		Raw(`SELECT agent_id, agent_name, email, active_leads, total_calls, success_rate
		     FROM view_agent_performance
		     ORDER BY agent_name ASC`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
