package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	calldomain "github.com/retentionops/portal/internal/calls/domain"
	casedomain "github.com/retentionops/portal/internal/cases/domain"
	"github.com/retentionops/portal/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     calldomain.Repository
	CaseRepo casedomain.Repository
	Metrics  *metrics.Metrics
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     calldomain.Repository
	caseRepo casedomain.Repository
	metrics  *metrics.Metrics
}

func New(p Params) calldomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("calls.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		caseRepo: p.CaseRepo,
		metrics:  p.Metrics,
	}
}

func (s *Service) List(ctx context.Context, filter calldomain.ListFilter) ([]calldomain.CallRecord, error) {
	return s.repo.List(ctx, s.db, filter)
}

func (s *Service) Create(ctx context.Context, req calldomain.CreateRequest) (*calldomain.CallRecord, error) {
	if req.LeadID == 0 {
		return nil, calldomain.ErrMissingLead
	}
	if req.AgentID == 0 {
		return nil, calldomain.ErrMissingAgent
	}
	if req.CallDuration < 0 {
		return nil, calldomain.ErrInvalidDuration
	}

	outcome := strings.TrimSpace(req.Outcome)
	if outcome != "" && !calldomain.KnownOutcome(outcome) {
		return nil, calldomain.ErrInvalidOutcome
	}

	// The referenced case must exist before a call is logged against it.
	if _, err := s.caseRepo.FindByID(ctx, s.db, req.LeadID); err != nil {
		return nil, err
	}

	record := &calldomain.CallRecord{
		ID:           s.genID.Generate(),
		LeadID:       req.LeadID,
		AgentID:      req.AgentID,
		CallDuration: req.CallDuration,
		CallStatus:   calldomain.StatusForOutcome(outcome),
		Outcome:      outcome,
		RecordingURL: strings.TrimSpace(req.RecordingURL),
		Notes:        req.Notes,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, record); err != nil {
		return nil, err
	}

	s.metrics.RecordCallRecord(ctx, outcome)
	return record, nil
}
