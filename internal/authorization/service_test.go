package authorization

import (
	"context"
	"testing"

	"github.com/retentionops/portal/internal/routes"
	"github.com/retentionops/portal/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) Service {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	enforcer, err := NewEnforcer(dbConn)
	if err != nil {
		t.Fatalf("failed to build enforcer: %v", err)
	}

	return NewService(Params{Log: zap.NewNop(), Enforcer: enforcer})
}

func TestAgentCanLogCallsButNotAssign(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Authorize(context.Background(), routes.RoleRetentionAgent, ObjectCall, ActionCreate); err != nil {
		t.Fatalf("agent should log calls: %v", err)
	}
	if err := svc.Authorize(context.Background(), routes.RoleRetentionAgent, ObjectCase, ActionAssign); err != ErrForbidden {
		t.Fatalf("agent must not assign cases, got %v", err)
	}
}

func TestManagerAssigns(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Authorize(context.Background(), routes.RoleSalesManager, ObjectCase, ActionAssign); err != nil {
		t.Fatalf("manager should assign cases: %v", err)
	}
	if err := svc.Authorize(context.Background(), routes.RoleSalesManager, ObjectUser, ActionCreate); err != ErrForbidden {
		t.Fatalf("manager must not create users, got %v", err)
	}
}

func TestAdminInheritsManagerGrants(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Authorize(context.Background(), routes.RoleAdmin, ObjectCase, ActionAssign); err != nil {
		t.Fatalf("admin should inherit assign: %v", err)
	}
	if err := svc.Authorize(context.Background(), routes.RoleAdmin, ObjectUser, ActionCreate); err != nil {
		t.Fatalf("admin should create users: %v", err)
	}
}

func TestAffiliateScope(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Authorize(context.Background(), routes.RoleAffiliate, ObjectCase, ActionCreate); err != nil {
		t.Fatalf("affiliate should submit leads: %v", err)
	}
	if err := svc.Authorize(context.Background(), routes.RoleAffiliate, ObjectPayout, ActionCreate); err != nil {
		t.Fatalf("affiliate should start payout onboarding: %v", err)
	}
	if err := svc.Authorize(context.Background(), routes.RoleAffiliate, ObjectCall, ActionCreate); err != ErrForbidden {
		t.Fatalf("affiliate must not log calls, got %v", err)
	}
}

func TestReportSurfacesAreDistinct(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Authorize(context.Background(), routes.RoleAffiliate, ObjectAffiliateReport, ActionView); err != nil {
		t.Fatalf("affiliate should read their own summary: %v", err)
	}
	if err := svc.Authorize(context.Background(), routes.RoleAffiliate, ObjectTeamReport, ActionView); err != ErrForbidden {
		t.Fatalf("affiliate must not read the team report, got %v", err)
	}
	if err := svc.Authorize(context.Background(), routes.RoleSalesManager, ObjectTeamReport, ActionView); err != nil {
		t.Fatalf("manager should read the team report: %v", err)
	}
	if err := svc.Authorize(context.Background(), routes.RoleAdmin, ObjectTeamReport, ActionView); err != nil {
		t.Fatalf("admin should inherit the team report: %v", err)
	}
}

func TestUnknownRoleRejected(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Authorize(context.Background(), "auditor", ObjectCase, ActionView); err != ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}
