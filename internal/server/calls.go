package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	callsdomain "github.com/retentionops/portal/internal/calls/domain"
	"github.com/retentionops/portal/pkg/db/pagination"
)

type CreateCallRequest struct {
	LeadID       string `json:"lead_id"`
	AgentID      string `json:"agent_id"`
	CallDuration int    `json:"call_duration"`
	Outcome      string `json:"outcome"`
	RecordingURL string `json:"recording_url"`
	Notes        string `json:"notes"`
}

func (s *Server) ListCalls(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	filter := callsdomain.ListFilter{Limit: page.PageSize}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			AbortWithError(c, newValidationError("page_token", "invalid_cursor", "invalid page token"))
			return
		}
		beforeID, err := parseID(cursor.ID)
		if err != nil {
			AbortWithError(c, newValidationError("page_token", "invalid_cursor", "invalid page token"))
			return
		}
		filter.BeforeID = &beforeID
	}

	if raw := strings.TrimSpace(c.Query("agentId")); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			AbortWithError(c, newValidationError("agentId", "invalid_id", "invalid agent id"))
			return
		}
		filter.AgentID = &id
	}
	if raw := strings.TrimSpace(c.Query("leadId")); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			AbortWithError(c, newValidationError("leadId", "invalid_id", "invalid lead id"))
			return
		}
		filter.LeadID = &id
	}

	records, err := s.callSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	records, pageInfo := pagination.Trim(records, filter.Limit, func(r callsdomain.CallRecord) string {
		return r.ID.String()
	})
	c.JSON(http.StatusOK, gin.H{"calls": records, "page_info": pageInfo})
}

func (s *Server) CreateCall(c *gin.Context) {
	identity, ok := s.identityFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req CreateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	create := callsdomain.CreateRequest{
		CallDuration: req.CallDuration,
		Outcome:      req.Outcome,
		RecordingURL: req.RecordingURL,
		Notes:        req.Notes,
	}
	if req.LeadID != "" {
		leadID, err := parseID(req.LeadID)
		if err != nil {
			AbortWithError(c, newValidationError("lead_id", "invalid_id", "invalid lead id"))
			return
		}
		create.LeadID = leadID
	}
	// Agents log their own calls; an explicit agent_id is for managers
	// backfilling on someone's behalf.
	if req.AgentID != "" {
		agentID, err := parseID(req.AgentID)
		if err != nil {
			AbortWithError(c, newValidationError("agent_id", "invalid_id", "invalid agent id"))
			return
		}
		create.AgentID = agentID
	} else {
		create.AgentID = identity.UserID
	}

	idemKey := strings.TrimSpace(c.GetHeader(headerIdempotencyKey))
	if err := s.idemGuard.Claim(c.Request.Context(), "call", idemKey); err != nil {
		AbortWithError(c, err)
		return
	}

	record, err := s.callSvc.Create(c.Request.Context(), create)
	if err != nil {
		_ = s.idemGuard.Release(c.Request.Context(), "call", idemKey)
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}
