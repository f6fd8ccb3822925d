package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	commissiondomain "github.com/retentionops/portal/internal/commission/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() commissiondomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, c *commissiondomain.Commission) error {
	return db.WithContext(ctx).Create(c).Error
}

func (r *repo) ListByAffiliate(ctx context.Context, db *gorm.DB, affiliateID snowflake.ID) ([]commissiondomain.Commission, error) {
	var rows []commissiondomain.Commission
	err := db.WithContext(ctx).
		Where("affiliate_id = ?", affiliateID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListByCaseIDs(ctx context.Context, db *gorm.DB, caseIDs []snowflake.ID) ([]commissiondomain.Commission, error) {
	if len(caseIDs) == 0 {
		return nil, nil
	}
	var rows []commissiondomain.Commission
	err := db.WithContext(ctx).
		Where("case_id IN ?", caseIDs).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
