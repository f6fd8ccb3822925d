package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StripeConnect makes sure the caller has an express payout account.
// Calling it twice returns the same account.
func (s *Server) StripeConnect(c *gin.Context) {
	identity, ok := s.identityFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	accountID, err := s.payoutSvc.EnsureAccount(c.Request.Context(), *identity)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account_id": accountID})
}

func (s *Server) StripeOnboard(c *gin.Context) {
	identity, ok := s.identityFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	result, err := s.payoutSvc.Onboard(c.Request.Context(), *identity)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"account_id": result.AccountID,
		"url":        result.URL,
	})
}
