package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/retentionops/portal/internal/auth/domain"
	casedomain "github.com/retentionops/portal/internal/cases/domain"
	commissiondomain "github.com/retentionops/portal/internal/commission/domain"
	"github.com/retentionops/portal/internal/routes"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	GenID          *snowflake.Node
	Repo           casedomain.Repository
	CommissionRepo commissiondomain.Repository
	UserRepo       authdomain.Repository
}

type Service struct {
	db             *gorm.DB
	log            *zap.Logger
	genID          *snowflake.Node
	repo           casedomain.Repository
	commissionRepo commissiondomain.Repository
	userRepo       authdomain.Repository
}

func New(p Params) casedomain.Service {
	return &Service{
		db:             p.DB,
		log:            p.Log.Named("cases.service"),
		genID:          p.GenID,
		repo:           p.Repo,
		commissionRepo: p.CommissionRepo,
		userRepo:       p.UserRepo,
	}
}

func (s *Service) List(ctx context.Context, identity authdomain.Identity) ([]casedomain.Case, error) {
	filter := scopeFilter(identity)
	return s.repo.List(ctx, s.db, filter)
}

func (s *Service) ListWithCommissions(ctx context.Context, identity authdomain.Identity) ([]casedomain.CaseWithCommissions, error) {
	cases, err := s.repo.List(ctx, s.db, scopeFilter(identity))
	if err != nil {
		return nil, err
	}

	ids := make([]snowflake.ID, 0, len(cases))
	for _, c := range cases {
		ids = append(ids, c.ID)
	}
	commissions, err := s.commissionRepo.ListByCaseIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	// keyed by case id so the merge stays linear in rows
	byCase := make(map[snowflake.ID][]commissiondomain.Commission, len(commissions))
	for _, c := range commissions {
		byCase[c.CaseID] = append(byCase[c.CaseID], c)
	}

	merged := make([]casedomain.CaseWithCommissions, 0, len(cases))
	for _, c := range cases {
		merged = append(merged, casedomain.CaseWithCommissions{
			Case:        c,
			Commissions: byCase[c.ID],
		})
	}
	return merged, nil
}

func (s *Service) ListWithAgents(ctx context.Context, identity authdomain.Identity) ([]casedomain.CaseWithAgent, error) {
	cases, err := s.repo.List(ctx, s.db, scopeFilter(identity))
	if err != nil {
		return nil, err
	}

	seen := make(map[snowflake.ID]struct{})
	agentIDs := make([]snowflake.ID, 0, len(cases))
	for _, c := range cases {
		if c.AssignedAgentID == nil {
			continue
		}
		if _, ok := seen[*c.AssignedAgentID]; ok {
			continue
		}
		seen[*c.AssignedAgentID] = struct{}{}
		agentIDs = append(agentIDs, *c.AssignedAgentID)
	}

	agents, err := s.userRepo.FindByIDs(ctx, agentIDs)
	if err != nil {
		return nil, err
	}
	nameByID := make(map[snowflake.ID]string, len(agents))
	for _, a := range agents {
		nameByID[a.ID] = a.DisplayName
	}

	merged := make([]casedomain.CaseWithAgent, 0, len(cases))
	for _, c := range cases {
		// stored legacy spellings fold into the canonical set here
		if canonical, ok := casedomain.CanonicalStatus(c.Status); ok {
			c.Status = canonical
		}
		row := casedomain.CaseWithAgent{Case: c}
		if c.AssignedAgentID != nil {
			row.AgentName = nameByID[*c.AssignedAgentID]
		}
		merged = append(merged, row)
	}
	return merged, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*casedomain.Case, error) {
	return s.repo.FindByID(ctx, s.db, id)
}

func (s *Service) Create(ctx context.Context, req casedomain.CreateRequest) (*casedomain.Case, error) {
	clientName := strings.TrimSpace(req.ClientName)
	if clientName == "" {
		return nil, casedomain.ErrInvalidClientName
	}

	status := casedomain.StatusNew
	if raw := strings.TrimSpace(req.Status); raw != "" {
		canonical, ok := casedomain.CanonicalStatus(raw)
		if !ok {
			return nil, casedomain.ErrInvalidStatus
		}
		status = canonical
	}

	var policyIDs datatypes.JSON
	if len(req.PolicyIDs) > 0 {
		encoded, err := json.Marshal(req.PolicyIDs)
		if err != nil {
			return nil, err
		}
		policyIDs = datatypes.JSON(encoded)
	}

	now := time.Now().UTC()
	c := &casedomain.Case{
		ID:          s.genID.Generate(),
		ClientName:  clientName,
		ClientPhone: strings.TrimSpace(req.ClientPhone),
		Status:      status,
		AffiliateID: req.AffiliateID,
		PolicyIDs:   policyIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id snowflake.ID, status string) (*casedomain.Case, error) {
	canonical, ok := casedomain.CanonicalStatus(strings.TrimSpace(status))
	if !ok {
		return nil, casedomain.ErrInvalidStatus
	}

	if err := s.repo.UpdateFields(ctx, s.db, id, map[string]any{
		"status":     canonical,
		"updated_at": time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, s.db, id)
}

func (s *Service) Assign(ctx context.Context, id snowflake.ID, agentID snowflake.ID) error {
	if err := s.verifyAgent(ctx, agentID); err != nil {
		return err
	}

	return s.repo.UpdateFields(ctx, s.db, id, map[string]any{
		"assigned_agent_id": agentID,
		"updated_at":        time.Now().UTC(),
	})
}

func (s *Service) BulkAssign(ctx context.Context, ids []snowflake.ID, agentID snowflake.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, casedomain.ErrNoCaseIDs
	}
	if err := s.verifyAgent(ctx, agentID); err != nil {
		return 0, err
	}

	updated, err := s.repo.BulkAssign(ctx, s.db, ids, agentID)
	if err != nil {
		return 0, err
	}

	s.log.Info("bulk assigned cases",
		zap.String("agent_id", agentID.String()),
		zap.Int("requested", len(ids)),
		zap.Int64("updated", updated),
	)
	return updated, nil
}

func (s *Service) verifyAgent(ctx context.Context, agentID snowflake.ID) error {
	user, err := s.userRepo.FindByID(ctx, agentID)
	if err != nil {
		return err
	}
	if user.Role != routes.RoleRetentionAgent {
		return casedomain.ErrInvalidAgent
	}
	return nil
}

func scopeFilter(identity authdomain.Identity) casedomain.ListFilter {
	switch identity.Role {
	case routes.RoleRetentionAgent:
		agentID := identity.UserID
		return casedomain.ListFilter{AssignedAgentID: &agentID}
	case routes.RoleAffiliate:
		affiliateID := identity.UserID
		return casedomain.ListFilter{AffiliateID: &affiliateID}
	default:
		return casedomain.ListFilter{}
	}
}
