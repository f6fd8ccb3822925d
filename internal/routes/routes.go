// Package routes holds the role-to-route policy table that gates every
// navigation decision in the portal.
package routes

import "strings"

// Known roles. A user record carries exactly one of these.
const (
	RoleRetentionAgent = "retention_agent"
	RoleSalesManager   = "sales_manager"
	RoleAdmin          = "admin"
	RoleAffiliate      = "affiliate"
)

// LoginRoute is where unauthenticated visitors land.
const LoginRoute = "/login"

// roleAccess maps each role to the route prefixes it may visit. Matching is
// segment-aware: "/agent" grants "/agent" and "/agent/dashboard" but never
// "/agents".
var roleAccess = map[string][]string{
	RoleRetentionAgent: {"/agent", "/agent/calls", "/agent/stats", "/agent/leads"},
	RoleSalesManager:   {"/manager", "/manager/leads", "/manager/team", "/manager/reports"},
	RoleAdmin:          {"/admin", "/admin/leads", "/admin/affiliates", "/admin/users", "/admin/reports", "/admin/settings"},
	RoleAffiliate:      {"/affiliate"},
}

// homeRoutes maps each role to its landing page after login.
var homeRoutes = map[string]string{
	RoleRetentionAgent: "/agent",
	RoleSalesManager:   "/manager",
	RoleAdmin:          "/admin",
	RoleAffiliate:      "/affiliate",
}

// KnownRole reports whether the role exists in the policy table.
func KnownRole(role string) bool {
	_, ok := roleAccess[role]
	return ok
}

// AllowedPrefixes returns the route prefixes a role may visit. Unknown roles
// get no prefixes.
func AllowedPrefixes(role string) []string {
	prefixes, ok := roleAccess[role]
	if !ok {
		return nil
	}
	out := make([]string, len(prefixes))
	copy(out, prefixes)
	return out
}

// HomeRoute returns the role's landing page, or the login route for unknown
// roles.
func HomeRoute(role string) string {
	if home, ok := homeRoutes[role]; ok {
		return home
	}
	return LoginRoute
}

// CanAccess reports whether the role may visit the given path. Unknown roles
// can access nothing.
func CanAccess(role, path string) bool {
	prefixes, ok := roleAccess[role]
	if !ok {
		return false
	}
	for _, prefix := range prefixes {
		if matchesPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// matchesPrefix matches on whole path segments so sibling routes that merely
// share leading characters stay separate.
func matchesPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
