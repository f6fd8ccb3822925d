package routes

import "testing"

func TestCanAccessOwnArea(t *testing.T) {
	cases := []struct {
		role string
		path string
	}{
		{RoleRetentionAgent, "/agent"},
		{RoleRetentionAgent, "/agent/dashboard"},
		{RoleRetentionAgent, "/agent/leads/42"},
		{RoleSalesManager, "/manager/team"},
		{RoleAdmin, "/admin/users"},
		{RoleAffiliate, "/affiliate/dashboard"},
	}
	for _, tc := range cases {
		if !CanAccess(tc.role, tc.path) {
			t.Errorf("expected %s to access %s", tc.role, tc.path)
		}
	}
}

func TestCanAccessDeniesForeignArea(t *testing.T) {
	if CanAccess(RoleRetentionAgent, "/manager/team") {
		t.Error("retention agent must not reach manager routes")
	}
	if got := HomeRoute(RoleRetentionAgent); got != "/agent" {
		t.Errorf("expected /agent, got %s", got)
	}
	if CanAccess(RoleAffiliate, "/admin/dashboard") {
		t.Error("affiliate must not reach admin routes")
	}
	if CanAccess(RoleSalesManager, "/agent/dashboard") {
		t.Error("sales manager must not reach agent routes")
	}
}

func TestCanAccessSegmentBoundary(t *testing.T) {
	if CanAccess(RoleRetentionAgent, "/agents") {
		t.Error("/agents is a different route than /agent")
	}
	if CanAccess(RoleAdmin, "/administrator") {
		t.Error("/administrator is a different route than /admin")
	}
}

func TestUnknownRoleDeniedEverywhere(t *testing.T) {
	for _, path := range []string{"/agent", "/manager", "/admin", "/affiliate", "/login", "/"} {
		if CanAccess("auditor", path) {
			t.Errorf("unknown role must not access %s", path)
		}
	}
	if prefixes := AllowedPrefixes("auditor"); len(prefixes) != 0 {
		t.Errorf("unknown role has prefixes: %v", prefixes)
	}
}

func TestHomeRouteAlwaysAccessible(t *testing.T) {
	for _, role := range []string{RoleRetentionAgent, RoleSalesManager, RoleAdmin, RoleAffiliate} {
		home := HomeRoute(role)
		if !CanAccess(role, home) {
			t.Errorf("role %s cannot reach its own home %s", role, home)
		}
	}
}

func TestHomeRouteUnknownRoleIsLogin(t *testing.T) {
	if got := HomeRoute("auditor"); got != LoginRoute {
		t.Errorf("expected %s, got %s", LoginRoute, got)
	}
	if got := HomeRoute(""); got != LoginRoute {
		t.Errorf("expected %s, got %s", LoginRoute, got)
	}
}
