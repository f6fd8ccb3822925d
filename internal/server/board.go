package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	boarddomain "github.com/retentionops/portal/internal/board/domain"
)

type UpdateBoardLeadRequest struct {
	BoardID       string `json:"boardId"`
	ColumnID      string `json:"columnId"`
	Status        string `json:"status"`
	AgentColumnID string `json:"agentColumnId"`
	AgentID       string `json:"agentId"`
}

// ListBoardLeads proxies the external board. Filtering by status needs
// the column holding the status value.
func (s *Server) ListBoardLeads(c *gin.Context) {
	boardID := strings.TrimSpace(c.Query("boardId"))
	if boardID == "" {
		AbortWithError(c, boarddomain.ErrMissingBoard)
		return
	}

	items, err := s.boardSvc.ListLeads(
		c.Request.Context(),
		boardID,
		strings.TrimSpace(c.Query("columnId")),
		strings.TrimSpace(c.Query("status")),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) UpdateBoardLead(c *gin.Context) {
	itemID := strings.TrimSpace(c.Param("itemId"))
	if itemID == "" {
		AbortWithError(c, boarddomain.ErrMissingItem)
		return
	}

	var req UpdateBoardLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.boardSvc.UpdateLead(c.Request.Context(), boarddomain.UpdateLeadRequest{
		BoardID:       strings.TrimSpace(req.BoardID),
		ItemID:        itemID,
		ColumnID:      strings.TrimSpace(req.ColumnID),
		Status:        req.Status,
		AgentColumnID: strings.TrimSpace(req.AgentColumnID),
		AgentID:       strings.TrimSpace(req.AgentID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
