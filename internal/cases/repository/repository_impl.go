package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	casedomain "github.com/retentionops/portal/internal/cases/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() casedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, c *casedomain.Case) error {
	return db.WithContext(ctx).Create(c).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*casedomain.Case, error) {
	var c casedomain.Case
	err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, casedomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter casedomain.ListFilter) ([]casedomain.Case, error) {
	tx := db.WithContext(ctx).Model(&casedomain.Case{})
	if filter.AssignedAgentID != nil {
		tx = tx.Where("assigned_agent_id = ?", *filter.AssignedAgentID)
	}
	if filter.AffiliateID != nil {
		tx = tx.Where("affiliate_id = ?", *filter.AffiliateID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}

	var cases []casedomain.Case
	if err := tx.Order("created_at DESC").Find(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

func (r *repo) UpdateFields(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error {
	tx := db.WithContext(ctx).Model(&casedomain.Case{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return casedomain.ErrNotFound
	}
	return nil
}

func (r *repo) BulkAssign(ctx context.Context, db *gorm.DB, ids []snowflake.ID, agentID snowflake.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, casedomain.ErrNoCaseIDs
	}
	var updated int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&casedomain.Case{}).
			Where("id IN ?", ids).
			Updates(map[string]any{
				"assigned_agent_id": agentID,
				"updated_at":        time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		updated = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
