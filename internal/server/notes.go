package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	notesdomain "github.com/retentionops/portal/internal/notes/domain"
)

type CreateNoteRequest struct {
	LeadID   string `json:"lead_id"`
	Content  string `json:"content"`
	NoteType string `json:"note_type"`
}

func (s *Server) ListNotes(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("leadId"))
	if raw == "" {
		AbortWithError(c, newValidationError("leadId", "required", "leadId is required"))
		return
	}
	leadID, err := parseID(raw)
	if err != nil {
		AbortWithError(c, newValidationError("leadId", "invalid_id", "invalid lead id"))
		return
	}

	result, err := s.noteSvc.ListByLead(c.Request.Context(), leadID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": result})
}

func (s *Server) CreateNote(c *gin.Context) {
	identity, ok := s.identityFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	create := notesdomain.CreateRequest{
		AgentID:  identity.UserID,
		Content:  req.Content,
		NoteType: req.NoteType,
	}
	if req.LeadID != "" {
		leadID, err := parseID(req.LeadID)
		if err != nil {
			AbortWithError(c, newValidationError("lead_id", "invalid_id", "invalid lead id"))
			return
		}
		create.LeadID = leadID
	}

	note, err := s.noteSvc.Create(c.Request.Context(), create)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}
