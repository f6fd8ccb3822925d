package service

import (
	"context"
	"strings"

	boarddomain "github.com/retentionops/portal/internal/board/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log    *zap.Logger
	Client boarddomain.Client
}

type Service struct {
	log    *zap.Logger
	client boarddomain.Client
}

func New(p Params) boarddomain.Service {
	return &Service{
		log:    p.Log.Named("board.service"),
		client: p.Client,
	}
}

func (s *Service) ListLeads(ctx context.Context, boardID, columnID, status string) ([]boarddomain.Item, error) {
	if strings.TrimSpace(boardID) == "" {
		return nil, boarddomain.ErrMissingBoard
	}
	if strings.TrimSpace(status) != "" {
		return s.client.ItemsByStatus(ctx, boardID, columnID, status)
	}
	return s.client.ListItems(ctx, boardID)
}

func (s *Service) UpdateLead(ctx context.Context, req boarddomain.UpdateLeadRequest) error {
	if strings.TrimSpace(req.BoardID) == "" {
		return boarddomain.ErrMissingBoard
	}
	if strings.TrimSpace(req.ItemID) == "" {
		return boarddomain.ErrMissingItem
	}

	if req.Status != "" && req.ColumnID != "" {
		if err := s.client.UpdateColumn(ctx, req.BoardID, req.ItemID, req.ColumnID, req.Status); err != nil {
			return err
		}
	}
	if req.AgentID != "" && req.AgentColumnID != "" {
		if err := s.client.UpdateColumn(ctx, req.BoardID, req.ItemID, req.AgentColumnID, req.AgentID); err != nil {
			return err
		}
	}
	return nil
}
