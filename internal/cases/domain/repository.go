package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListFilter scopes a case listing. Zero-value fields are not applied.
type ListFilter struct {
	AssignedAgentID *snowflake.ID
	AffiliateID     *snowflake.ID
	Status          string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, c *Case) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Case, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Case, error)
	UpdateFields(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	BulkAssign(ctx context.Context, db *gorm.DB, ids []snowflake.ID, agentID snowflake.ID) (int64, error)
}
