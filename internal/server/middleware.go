package server

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	authdomain "github.com/retentionops/portal/internal/auth/domain"
	obscontext "github.com/retentionops/portal/internal/observability/context"
	"github.com/retentionops/portal/internal/routes"
)

const contextIdentityKey = "identity"

// AuthRequired resolves the session cookie into the caller's identity.
// The role always comes from the users table, never from the session
// alone, so a role change takes effect on the next request.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		identity, err := s.authsvc.ResolveIdentity(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := obscontext.WithActor(c.Request.Context(), identity.UserID.String(), identity.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextIdentityKey, identity)
		c.Next()
	}
}

func (s *Server) identityFromContext(c *gin.Context) (*authdomain.Identity, bool) {
	value, ok := c.Get(contextIdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := value.(*authdomain.Identity)
	return identity, ok && identity != nil
}

// AdminAreaGuard is the admin group's placement check. Managers may
// enter the admin surface; anyone else is bounced to the affiliate
// dashboard instead of getting a bare 403. Per-route policy checks
// still apply behind it.
func (s *Server) AdminAreaGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := s.identityFromContext(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if identity.Role != routes.RoleAdmin && identity.Role != routes.RoleSalesManager {
			s.recordAccessDenied(c, identity.Role)
			AbortWithError(c, newRedirectError(http.StatusForbidden, "forbidden", "/affiliate/dashboard"))
			return
		}

		c.Next()
	}
}

// RequireAccess gates an API route to the roles the route policy table
// places in the matching page area. Deny sends the caller home.
func (s *Server) RequireAccess(area string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := s.identityFromContext(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !routes.CanAccess(identity.Role, area) {
			s.recordAccessDenied(c, identity.Role)
			AbortWithError(c, newRedirectError(http.StatusForbidden, "forbidden", routes.HomeRoute(identity.Role)))
			return
		}
		c.Next()
	}
}

// RequireRole gates a route to the named roles. Deny sends the caller
// home, matching the page-level guard behavior.
func (s *Server) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := s.identityFromContext(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		s.recordAccessDenied(c, identity.Role)
		AbortWithError(c, newRedirectError(http.StatusForbidden, "forbidden", routes.HomeRoute(identity.Role)))
	}
}

// authorize consults the policy store for the identity's role. Route
// placement gates run separately; this checks the action.
func (s *Server) authorize(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := s.identityFromContext(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if err := s.authzSvc.Authorize(c.Request.Context(), identity.Role, object, action); err != nil {
			s.recordAccessDenied(c, identity.Role)
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// LeadSubmitRateLimit throttles lead intake per authenticated caller.
func (s *Server) LeadSubmitRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}

		identity, ok := s.identityFromContext(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		res, err := s.limiter.AllowLeadSubmit(c.Request.Context(), identity.UserID.String())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !res.Allowed {
			if s.obsMetrics != nil {
				s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), "leads", "bucket_empty")
			}
			c.Header("Retry-After", formatRetryAfter(res.RetryAfter))
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		if s.obsMetrics != nil {
			s.obsMetrics.RecordRateLimitAllowed(c.Request.Context(), "leads")
		}
		c.Next()
	}
}

// PayoutRateLimit caps onboarding calls per caller so a stuck client
// cannot hammer the payment processor. The window lives in process
// memory; no Redis round trip on this path.
func (s *Server) PayoutRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := s.identityFromContext(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		allowed, retryAfter := s.payoutLimiter.Allow(identity.UserID.String())
		if !allowed {
			if s.obsMetrics != nil {
				s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), "payouts", "window_full")
			}
			c.Header("Retry-After", formatRetryAfter(retryAfter))
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

func (s *Server) recordAccessDenied(c *gin.Context, role string) {
	if s.obsMetrics == nil {
		return
	}
	route := c.FullPath()
	if strings.TrimSpace(route) == "" {
		route = c.Request.URL.Path
	}
	s.obsMetrics.RecordAccessDenied(c.Request.Context(), role, route)
}

func formatRetryAfter(d time.Duration) string {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
