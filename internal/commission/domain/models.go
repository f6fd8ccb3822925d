// Package domain contains types for affiliate commissions. Rows are created
// when a case converts and are read-only afterwards.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Commission is one payout entry tied to a converted case.
type Commission struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CaseID      snowflake.ID `gorm:"column:case_id;not null;index" json:"case_id"`
	AffiliateID snowflake.ID `gorm:"column:affiliate_id;not null;index" json:"affiliate_id"`
	Amount      float64      `gorm:"column:amount;not null" json:"amount"`
	CreatedAt   time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Commission) TableName() string { return "commissions" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, c *Commission) error
	ListByAffiliate(ctx context.Context, db *gorm.DB, affiliateID snowflake.ID) ([]Commission, error)
	ListByCaseIDs(ctx context.Context, db *gorm.DB, caseIDs []snowflake.ID) ([]Commission, error)
}
