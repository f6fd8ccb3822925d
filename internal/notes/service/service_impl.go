package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	casedomain "github.com/retentionops/portal/internal/cases/domain"
	notedomain "github.com/retentionops/portal/internal/notes/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     notedomain.Repository
	CaseRepo casedomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     notedomain.Repository
	caseRepo casedomain.Repository
}

func New(p Params) notedomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("notes.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		caseRepo: p.CaseRepo,
	}
}

func (s *Service) ListByLead(ctx context.Context, leadID snowflake.ID) ([]notedomain.LeadNote, error) {
	if leadID == 0 {
		return nil, notedomain.ErrMissingLead
	}
	return s.repo.ListByLead(ctx, s.db, leadID)
}

func (s *Service) Create(ctx context.Context, req notedomain.CreateRequest) (*notedomain.LeadNote, error) {
	if req.LeadID == 0 {
		return nil, notedomain.ErrMissingLead
	}
	if req.AgentID == 0 {
		return nil, notedomain.ErrMissingAgent
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, notedomain.ErrMissingContent
	}

	if _, err := s.caseRepo.FindByID(ctx, s.db, req.LeadID); err != nil {
		return nil, err
	}

	noteType := strings.TrimSpace(req.NoteType)
	if noteType == "" {
		noteType = notedomain.DefaultNoteType
	}

	note := &notedomain.LeadNote{
		ID:        s.genID.Generate(),
		LeadID:    req.LeadID,
		AgentID:   req.AgentID,
		Content:   content,
		NoteType:  noteType,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, note); err != nil {
		return nil, err
	}

	return note, nil
}
