package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/retentionops/portal/internal/accessguard"
	authdomain "github.com/retentionops/portal/internal/auth/domain"
	"github.com/retentionops/portal/internal/auth/password"
	"github.com/retentionops/portal/internal/routes"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type identityView struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	HomeRoute   string `json:"home_route"`
}

func (s *Server) Login(c *gin.Context) {
	if res, err := s.limiter.AllowLogin(c.Request.Context(), c.ClientIP()); err != nil {
		AbortWithError(c, err)
		return
	} else if !res.Allowed {
		if s.obsMetrics != nil {
			s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), "login", "bucket_empty")
		}
		c.Header("Retry-After", formatRetryAfter(res.RetryAfter))
		AbortWithError(c, ErrTooManyRequests)
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)

	c.JSON(http.StatusOK, identityView{
		UserID:      result.User.ID.String(),
		Email:       result.User.Email,
		DisplayName: result.User.DisplayName,
		Role:        result.User.Role,
		HomeRoute:   routes.HomeRoute(result.User.Role),
	})
}

func (s *Server) Logout(c *gin.Context) {
	token, ok := s.sessions.ReadToken(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.authsvc.Logout(c.Request.Context(), token); err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Clear(c)
	c.Status(http.StatusNoContent)
}

func (s *Server) Me(c *gin.Context) {
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

	c.JSON(http.StatusOK, identityView{
		UserID:      identity.UserID.String(),
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		Role:        identity.Role,
		HomeRoute:   routes.HomeRoute(identity.Role),
	})
}

// Guard answers "may my session see this path" for the client shell.
// An absent or broken session is a normal answer here, not an error.
func (s *Server) Guard(c *gin.Context) {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		AbortWithError(c, newValidationError("path", "required", "path is required"))
		return
	}

	in := accessguard.Input{Resolved: true, Path: path}
	if token, ok := s.sessions.ReadToken(c); ok {
		if identity, err := s.authsvc.ResolveIdentity(c.Request.Context(), token); err == nil {
			in.Role = identity.Role
		}
	}

	decision := accessguard.Evaluate(in)
	c.JSON(http.StatusOK, gin.H{
		"state":    decision.State.String(),
		"redirect": decision.Redirect,
	})
}

func (s *Server) ChangePassword(c *gin.Context) {
	identity, ok := s.identityFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	currentPassword := strings.TrimSpace(req.CurrentPassword)
	newPassword := strings.TrimSpace(req.NewPassword)
	if currentPassword == "" {
		AbortWithError(c, newValidationError("current_password", "required", "current password is required"))
		return
	}
	if newPassword == "" {
		AbortWithError(c, newValidationError("new_password", "required", "new password is required"))
		return
	}
	if currentPassword == newPassword {
		AbortWithError(c, newValidationError("new_password", "must_differ", "new password must be different"))
		return
	}

	var user authdomain.User
	if err := s.db.WithContext(c.Request.Context()).First(&user, "id = ?", identity.UserID).Error; err != nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	if user.PasswordHash == nil || !password.Verify(currentPassword, *user.PasswordHash) {
		AbortWithError(c, authdomain.ErrInvalidCredentials)
		return
	}

	if err := s.authsvc.ChangePassword(c.Request.Context(), identity.UserID, newPassword); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
