package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/retentionops/portal/internal/auth/domain"
)

type Service interface {
	// List returns cases visible to the identity, newest first. Agents see
	// cases assigned to them, affiliates see cases they submitted, managers
	// and admins see everything.
	List(ctx context.Context, identity authdomain.Identity) ([]Case, error)
	// ListWithCommissions attaches commission rows to each listed case.
	ListWithCommissions(ctx context.Context, identity authdomain.Identity) ([]CaseWithCommissions, error)
	// ListWithAgents attaches assigned-agent display names and folds
	// legacy status spellings into the canonical set.
	ListWithAgents(ctx context.Context, identity authdomain.Identity) ([]CaseWithAgent, error)
	Get(ctx context.Context, id snowflake.ID) (*Case, error)
	Create(ctx context.Context, req CreateRequest) (*Case, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, status string) (*Case, error)
	Assign(ctx context.Context, id snowflake.ID, agentID snowflake.ID) error
	// BulkAssign assigns every listed case to the agent in one transaction.
	BulkAssign(ctx context.Context, ids []snowflake.ID, agentID snowflake.ID) (int64, error)
}

type CreateRequest struct {
	ClientName  string
	ClientPhone string
	Status      string
	AffiliateID *snowflake.ID
	PolicyIDs   []string
}
