package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AffiliateSummary aggregates the caller's own submissions. The scope
// comes from the identity, so one affiliate can never read another's
// numbers.
func (s *Server) AffiliateSummary(c *gin.Context) {
	identity, ok := s.identityFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	summary, err := s.reportingSvc.AffiliateSummary(c.Request.Context(), identity.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) TeamSummary(c *gin.Context) {
	summary, err := s.reportingSvc.TeamSummary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
