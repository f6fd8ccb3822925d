package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	casesdomain "github.com/retentionops/portal/internal/cases/domain"
	"github.com/retentionops/portal/internal/routes"
)

const headerIdempotencyKey = "X-Idempotency-Key"

type CreateLeadRequest struct {
	ClientName  string   `json:"client_name"`
	ClientPhone string   `json:"client_phone"`
	Status      string   `json:"status"`
	PolicyIDs   []string `json:"policy_ids"`
	AffiliateID string   `json:"affiliate_id"`
}

type UpdateCaseStatusRequest struct {
	Status string `json:"status"`
}

type AssignCaseRequest struct {
	AgentID string `json:"agent_id"`
}

type BulkAssignRequest struct {
	CaseIDs []string `json:"case_ids"`
	AgentID string   `json:"agent_id"`
}

// ListCases returns the caller's visible cases. Commission rows ride
// along when with_commissions=true, which the affiliate dashboard uses.
func (s *Server) ListCases(c *gin.Context) {
	identity, ok := s.identityFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if c.Query("with_commissions") == "true" {
		result, err := s.caseSvc.ListWithCommissions(c.Request.Context(), *identity)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cases": result})
		return
	}

	result, err := s.caseSvc.List(c.Request.Context(), *identity)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cases": result})
}

// ListManagerLeads serves the manager lead board: every visible case
// with the assigned agent's display name riding along.
func (s *Server) ListManagerLeads(c *gin.Context) {
	identity, ok := s.identityFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	result, err := s.caseSvc.ListWithAgents(c.Request.Context(), *identity)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": result})
}

func (s *Server) GetCase(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid case id"))
		return
	}

	result, err := s.caseSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) CreateLead(c *gin.Context) {
	identity, ok := s.identityFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	idemKey := strings.TrimSpace(c.GetHeader(headerIdempotencyKey))
	if err := s.idemGuard.Claim(c.Request.Context(), "lead", idemKey); err != nil {
		AbortWithError(c, err)
		return
	}

	create := casesdomain.CreateRequest{
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		Status:      req.Status,
		PolicyIDs:   req.PolicyIDs,
	}
	if req.AffiliateID != "" {
		affiliateID, err := parseID(req.AffiliateID)
		if err != nil {
			AbortWithError(c, newValidationError("affiliate_id", "invalid_id", "invalid affiliate id"))
			return
		}
		create.AffiliateID = &affiliateID
	} else if identity.Role == routes.RoleAffiliate {
		create.AffiliateID = &identity.UserID
	}

	result, err := s.caseSvc.Create(c.Request.Context(), create)
	if err != nil {
		// A failed create should not burn the key.
		_ = s.idemGuard.Release(c.Request.Context(), "lead", idemKey)
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordLeadSubmission(c.Request.Context(), identity.Role)
	}
	c.JSON(http.StatusCreated, result)
}

func (s *Server) UpdateCaseStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid case id"))
		return
	}

	var req UpdateCaseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.caseSvc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) AssignCase(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid case id"))
		return
	}

	var req AssignCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	agentID, err := parseID(req.AgentID)
	if err != nil {
		AbortWithError(c, newValidationError("agent_id", "invalid_id", "invalid agent id"))
		return
	}

	if err := s.caseSvc.Assign(c.Request.Context(), id, agentID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) BulkAssignCases(c *gin.Context) {
	var req BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	agentID, err := parseID(req.AgentID)
	if err != nil {
		AbortWithError(c, newValidationError("agent_id", "invalid_id", "invalid agent id"))
		return
	}

	ids := make([]snowflake.ID, 0, len(req.CaseIDs))
	for _, raw := range req.CaseIDs {
		id, err := parseID(raw)
		if err != nil {
			AbortWithError(c, newValidationError("case_ids", "invalid_id", "invalid case id"))
			return
		}
		ids = append(ids, id)
	}

	assigned, err := s.caseSvc.BulkAssign(c.Request.Context(), ids, agentID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assigned": assigned})
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
