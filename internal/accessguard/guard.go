// Package accessguard decides whether an identity may view a given page and
// where the visitor should be sent when it may not.
package accessguard

import "github.com/retentionops/portal/internal/routes"

// State is the outcome of a guard evaluation.
type State int

const (
	// Loading means the identity has not resolved yet; render nothing.
	Loading State = iota
	// Unauthenticated means no identity exists; send the visitor to login.
	Unauthenticated
	// Redirecting means the role may not view this path; send the visitor
	// to the role's home route.
	Redirecting
	// Authorized means the page may render.
	Authorized
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case Redirecting:
		return "redirecting"
	case Authorized:
		return "authorized"
	}
	return "unknown"
}

// Decision carries the state and, when a redirect is required, its target.
type Decision struct {
	State    State
	Redirect string
}

// Input is one guard evaluation request. Resolved is false while the session
// lookup is still in flight; Role is empty when no identity exists.
type Input struct {
	Resolved bool
	Role     string
	Path     string
}

// Evaluate runs the guard. It is pure and is re-run on every path or
// identity change; every non-loading state is terminal for the current pass.
func Evaluate(in Input) Decision {
	if !in.Resolved {
		return Decision{State: Loading}
	}
	if in.Role == "" || !routes.KnownRole(in.Role) {
		return Decision{State: Unauthenticated, Redirect: routes.LoginRoute}
	}
	if !routes.CanAccess(in.Role, in.Path) {
		return Decision{State: Redirecting, Redirect: routes.HomeRoute(in.Role)}
	}
	return Decision{State: Authorized}
}
