package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/retentionops/portal/internal/auth/domain"
	authrepository "github.com/retentionops/portal/internal/auth/repository"
	casedomain "github.com/retentionops/portal/internal/cases/domain"
	caserepository "github.com/retentionops/portal/internal/cases/repository"
	commissiondomain "github.com/retentionops/portal/internal/commission/domain"
	commissionrepository "github.com/retentionops/portal/internal/commission/repository"
	"github.com/retentionops/portal/internal/routes"
	"github.com/retentionops/portal/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc            casedomain.Service
	db             *gorm.DB
	node           *snowflake.Node
	userRepo       authdomain.Repository
	commissionRepo commissiondomain.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&authdomain.User{},
		&casedomain.Case{},
		&commissiondomain.Commission{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	userRepo, _ := authrepository.New(dbConn)
	commissionRepo := commissionrepository.Provide()

	svc := New(Params{
		DB:             dbConn,
		Log:            zap.NewNop(),
		GenID:          node,
		Repo:           caserepository.Provide(),
		CommissionRepo: commissionRepo,
		UserRepo:       userRepo,
	})

	return &fixture{
		svc:            svc,
		db:             dbConn,
		node:           node,
		userRepo:       userRepo,
		commissionRepo: commissionRepo,
	}
}

func (f *fixture) newUser(t *testing.T, role string) *authdomain.User {
	t.Helper()
	user := &authdomain.User{
		ID:          f.node.Generate(),
		DisplayName: "Test " + role,
		Email:       f.node.Generate().String() + "@example.com",
		Role:        role,
	}
	if err := f.userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestCreateNormalizesLegacyStatus(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(context.Background(), casedomain.CreateRequest{
		ClientName: "Pat Li",
		Status:     "open",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Status != casedomain.StatusNew {
		t.Fatalf("expected open to normalize to new, got %s", created.Status)
	}

	sold, err := f.svc.Create(context.Background(), casedomain.CreateRequest{
		ClientName: "Sam Roy",
		Status:     "sold",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if sold.Status != casedomain.StatusIssuedPaid {
		t.Fatalf("expected sold to normalize to issued_paid, got %s", sold.Status)
	}
}

func TestCreateRejectsMissingClientName(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), casedomain.CreateRequest{ClientName: "  "})
	if err != casedomain.ErrInvalidClientName {
		t.Fatalf("expected ErrInvalidClientName, got %v", err)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(context.Background(), casedomain.CreateRequest{ClientName: "Pat Li"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = f.svc.UpdateStatus(context.Background(), created.ID, "escalated")
	if err != casedomain.ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestListScopedByRole(t *testing.T) {
	f := newFixture(t)
	agent := f.newUser(t, routes.RoleRetentionAgent)
	affiliate := f.newUser(t, routes.RoleAffiliate)

	affiliateID := affiliate.ID
	mine, err := f.svc.Create(context.Background(), casedomain.CreateRequest{
		ClientName:  "Pat Li",
		AffiliateID: &affiliateID,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.svc.Create(context.Background(), casedomain.CreateRequest{ClientName: "Sam Roy"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := f.svc.Assign(context.Background(), mine.ID, agent.ID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	agentCases, err := f.svc.List(context.Background(), authdomain.Identity{UserID: agent.ID, Role: routes.RoleRetentionAgent})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(agentCases) != 1 || agentCases[0].ID != mine.ID {
		t.Fatalf("expected exactly the assigned case, got %d", len(agentCases))
	}

	affiliateCases, err := f.svc.List(context.Background(), authdomain.Identity{UserID: affiliate.ID, Role: routes.RoleAffiliate})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(affiliateCases) != 1 || affiliateCases[0].ID != mine.ID {
		t.Fatalf("expected exactly the submitted case, got %d", len(affiliateCases))
	}

	allCases, err := f.svc.List(context.Background(), authdomain.Identity{UserID: f.node.Generate(), Role: routes.RoleSalesManager})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(allCases) != 2 {
		t.Fatalf("expected manager to see all cases, got %d", len(allCases))
	}
}

func TestAssignRejectsNonAgent(t *testing.T) {
	f := newFixture(t)
	manager := f.newUser(t, routes.RoleSalesManager)

	created, err := f.svc.Create(context.Background(), casedomain.CreateRequest{ClientName: "Pat Li"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := f.svc.Assign(context.Background(), created.ID, manager.ID); err != casedomain.ErrInvalidAgent {
		t.Fatalf("expected ErrInvalidAgent, got %v", err)
	}
}

func TestBulkAssign(t *testing.T) {
	f := newFixture(t)
	agent := f.newUser(t, routes.RoleRetentionAgent)

	var ids []snowflake.ID
	for _, name := range []string{"Pat Li", "Sam Roy", "Kim Cho"} {
		c, err := f.svc.Create(context.Background(), casedomain.CreateRequest{ClientName: name})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		ids = append(ids, c.ID)
	}

	stale := time.Now().UTC().Add(-24 * time.Hour)
	if err := f.db.Model(&casedomain.Case{}).Where("id IN ?", ids).
		Update("updated_at", stale).Error; err != nil {
		t.Fatalf("failed to backdate cases: %v", err)
	}

	updated, err := f.svc.BulkAssign(context.Background(), ids, agent.ID)
	if err != nil {
		t.Fatalf("bulk assign failed: %v", err)
	}
	if updated != 3 {
		t.Fatalf("expected 3 updates, got %d", updated)
	}

	var reloaded casedomain.Case
	if err := f.db.Where("id = ?", ids[0]).First(&reloaded).Error; err != nil {
		t.Fatalf("failed to reload case: %v", err)
	}
	if !reloaded.UpdatedAt.After(stale) {
		t.Fatalf("expected bulk assign to bump updated_at, still %v", reloaded.UpdatedAt)
	}

	_, err = f.svc.BulkAssign(context.Background(), nil, agent.ID)
	if err != casedomain.ErrNoCaseIDs {
		t.Fatalf("expected ErrNoCaseIDs, got %v", err)
	}
}

func TestListWithCommissionsMergesByCaseID(t *testing.T) {
	f := newFixture(t)
	affiliate := f.newUser(t, routes.RoleAffiliate)

	affiliateID := affiliate.ID
	first, err := f.svc.Create(context.Background(), casedomain.CreateRequest{
		ClientName:  "Pat Li",
		Status:      casedomain.StatusIssuedPaid,
		AffiliateID: &affiliateID,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := f.svc.Create(context.Background(), casedomain.CreateRequest{
		ClientName:  "Sam Roy",
		AffiliateID: &affiliateID,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := f.commissionRepo.Insert(context.Background(), f.db, &commissiondomain.Commission{
		ID:          f.node.Generate(),
		CaseID:      first.ID,
		AffiliateID: affiliate.ID,
		Amount:      75,
	}); err != nil {
		t.Fatalf("failed to insert commission: %v", err)
	}

	merged, err := f.svc.ListWithCommissions(context.Background(), authdomain.Identity{
		UserID: affiliate.ID,
		Role:   routes.RoleAffiliate,
	})
	if err != nil {
		t.Fatalf("list with commissions failed: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(merged))
	}

	for _, m := range merged {
		switch m.ID {
		case first.ID:
			if len(m.Commissions) != 1 || m.Commissions[0].Amount != 75 {
				t.Fatalf("expected one commission of 75 on first case")
			}
		case second.ID:
			if len(m.Commissions) != 0 {
				t.Fatalf("expected no commissions on second case")
			}
		default:
			t.Fatalf("unexpected case %s", m.ID)
		}
	}
}

func TestListWithAgentsJoinsDisplayNames(t *testing.T) {
	f := newFixture(t)
	agent := f.newUser(t, routes.RoleRetentionAgent)

	assigned, err := f.svc.Create(context.Background(), casedomain.CreateRequest{ClientName: "Pat Li"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	unassigned, err := f.svc.Create(context.Background(), casedomain.CreateRequest{ClientName: "Sam Roy"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := f.svc.Assign(context.Background(), assigned.ID, agent.ID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	// a legacy "open" row written before normalization existed
	if err := f.db.Model(&casedomain.Case{}).Where("id = ?", unassigned.ID).
		Update("status", "open").Error; err != nil {
		t.Fatalf("failed to write legacy status: %v", err)
	}

	leads, err := f.svc.ListWithAgents(context.Background(), authdomain.Identity{
		UserID: f.node.Generate(),
		Role:   routes.RoleSalesManager,
	})
	if err != nil {
		t.Fatalf("list with agents failed: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(leads))
	}

	for _, lead := range leads {
		switch lead.ID {
		case assigned.ID:
			if lead.AgentName != agent.DisplayName {
				t.Fatalf("expected agent name %q, got %q", agent.DisplayName, lead.AgentName)
			}
		case unassigned.ID:
			if lead.AgentName != "" {
				t.Fatalf("expected empty agent name, got %q", lead.AgentName)
			}
			if lead.Status != casedomain.StatusNew {
				t.Fatalf("expected legacy open to serve as new, got %q", lead.Status)
			}
		default:
			t.Fatalf("unexpected lead %s", lead.ID)
		}
	}
}
