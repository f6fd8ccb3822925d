package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/retentionops/portal/internal/auth/domain"
	casedomain "github.com/retentionops/portal/internal/cases/domain"
	"github.com/retentionops/portal/internal/reporting/aggregate"
	reportingdomain "github.com/retentionops/portal/internal/reporting/domain"
	"github.com/retentionops/portal/internal/routes"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    reportingdomain.Repository
	CaseSvc casedomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    reportingdomain.Repository
	caseSvc casedomain.Service
}

func New(p Params) reportingdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("reporting.service"),
		repo:    p.Repo,
		caseSvc: p.CaseSvc,
	}
}

func (s *Service) AffiliateSummary(ctx context.Context, affiliateID snowflake.ID) (*reportingdomain.AffiliateSummary, error) {
	merged, err := s.caseSvc.ListWithCommissions(ctx, authdomain.Identity{
		UserID: affiliateID,
		Role:   routes.RoleAffiliate,
	})
	if err != nil {
		return nil, err
	}

	summary := aggregate.AffiliateSummary(merged)
	return &summary, nil
}

func (s *Service) TeamSummary(ctx context.Context) (*reportingdomain.TeamSummary, error) {
	agents, err := s.repo.ListAgentPerformance(ctx, s.db)
	if err != nil {
		return nil, err
	}

	summary := aggregate.TeamSummary(agents)
	return &summary, nil
}
