// Package domain contains types for the external work-tracking board where
// inbound leads land before they become retention cases.
package domain

import (
	"context"
	"errors"
)

var (
	ErrMissingBoard = errors.New("boardId is required")
	ErrMissingItem  = errors.New("itemId is required")
	ErrBoardAPI     = errors.New("board API request failed")
)

// Item is one lead row on the board.
type Item struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Columns map[string]string `json:"columns"`
}

type Client interface {
	// ListItems returns every item on the board.
	ListItems(ctx context.Context, boardID string) ([]Item, error)
	// ItemsByStatus returns items whose status column matches the value.
	ItemsByStatus(ctx context.Context, boardID, columnID, status string) ([]Item, error)
	// UpdateColumn writes a simple column value on one item.
	UpdateColumn(ctx context.Context, boardID, itemID, columnID, value string) error
}

type Service interface {
	ListLeads(ctx context.Context, boardID, columnID, status string) ([]Item, error)
	UpdateLead(ctx context.Context, req UpdateLeadRequest) error
}

// UpdateLeadRequest carries the optional status and agent updates for one
// board item. Either pair may be absent; present pairs must be complete.
type UpdateLeadRequest struct {
	BoardID       string
	ItemID        string
	ColumnID      string
	Status        string
	AgentColumnID string
	AgentID       string
}
