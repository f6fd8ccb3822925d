package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	notedomain "github.com/retentionops/portal/internal/notes/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() notedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, note *notedomain.LeadNote) error {
	return db.WithContext(ctx).Create(note).Error
}

func (r *repo) ListByLead(ctx context.Context, db *gorm.DB, leadID snowflake.ID) ([]notedomain.LeadNote, error) {
	var notes []notedomain.LeadNote
	err := db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}
