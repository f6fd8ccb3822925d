package repository

import (
	"context"

	calldomain "github.com/retentionops/portal/internal/calls/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() calldomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *calldomain.CallRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter calldomain.ListFilter) ([]calldomain.CallRecord, error) {
	tx := db.WithContext(ctx).Model(&calldomain.CallRecord{})
	if filter.AgentID != nil {
		tx = tx.Where("agent_id = ?", *filter.AgentID)
	}
	if filter.LeadID != nil {
		tx = tx.Where("lead_id = ?", *filter.LeadID)
	}
	if filter.BeforeID != nil {
		tx = tx.Where("id < ?", *filter.BeforeID)
	}
	if filter.Limit > 0 {
		// One extra row tells the caller whether another page exists.
		tx = tx.Limit(filter.Limit + 1)
	}

	var records []calldomain.CallRecord
	if err := tx.Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
