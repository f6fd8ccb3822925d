// Package authorization enforces what each role may do to each resource,
// independent of the route-level access table.
package authorization

import (
	"context"
	_ "embed"
	"errors"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/retentionops/portal/internal/routes"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectCase = "case"
	ObjectCall = "call"
	ObjectNote = "note"
	// Payouts and the two report surfaces are distinct objects so the
	// policy store alone can tell an affiliate's own summary apart from
	// the team-wide report.
	ObjectPayout          = "payout"
	ObjectAffiliateReport = "affiliate_report"
	ObjectTeamReport      = "team_report"
	ObjectBoard           = "board"
	ObjectUser            = "user"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionAssign = "assign"
)

var (
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidObject = errors.New("invalid object")
	ErrInvalidAction = errors.New("invalid action")
	ErrForbidden     = errors.New("forbidden")
)

type Service interface {
	// Authorize returns nil when the role may perform the action on the
	// object, ErrForbidden otherwise.
	Authorize(ctx context.Context, role, object, action string) error
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, role, object, action string) error {
	_ = ctx

	role = strings.TrimSpace(role)
	if !routes.KnownRole(role) {
		return ErrInvalidRole
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	allowed, err := s.enforcer.Enforce("role:"+role, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("role", role),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Retention agents disposition their own cases and log activity.
		{"role:" + routes.RoleRetentionAgent, ObjectCase, ActionView},
		{"role:" + routes.RoleRetentionAgent, ObjectCase, ActionUpdate},
		{"role:" + routes.RoleRetentionAgent, ObjectCall, ActionView},
		{"role:" + routes.RoleRetentionAgent, ObjectCall, ActionCreate},
		{"role:" + routes.RoleRetentionAgent, ObjectNote, ActionView},
		{"role:" + routes.RoleRetentionAgent, ObjectNote, ActionCreate},

		// Managers additionally assign work and read reports and the board.
		{"role:" + routes.RoleSalesManager, ObjectCase, ActionView},
		{"role:" + routes.RoleSalesManager, ObjectCase, ActionUpdate},
		{"role:" + routes.RoleSalesManager, ObjectCase, ActionAssign},
		{"role:" + routes.RoleSalesManager, ObjectCall, ActionView},
		{"role:" + routes.RoleSalesManager, ObjectNote, ActionView},
		{"role:" + routes.RoleSalesManager, ObjectTeamReport, ActionView},
		{"role:" + routes.RoleSalesManager, ObjectBoard, ActionView},
		{"role:" + routes.RoleSalesManager, ObjectBoard, ActionUpdate},

		// Admins get everything managers get plus user management.
		{"role:" + routes.RoleAdmin, ObjectUser, ActionView},
		{"role:" + routes.RoleAdmin, ObjectUser, ActionCreate},
		{"role:" + routes.RoleAdmin, ObjectUser, ActionUpdate},

		// Affiliates submit leads and manage their own payouts.
		{"role:" + routes.RoleAffiliate, ObjectCase, ActionView},
		{"role:" + routes.RoleAffiliate, ObjectCase, ActionCreate},
		{"role:" + routes.RoleAffiliate, ObjectPayout, ActionCreate},
		{"role:" + routes.RoleAffiliate, ObjectPayout, ActionView},
		{"role:" + routes.RoleAffiliate, ObjectAffiliateReport, ActionView},
	}

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy[0], policy[1], policy[2]); err != nil {
			return err
		}
	}

	// admin inherits every manager grant
	if _, err := enforcer.AddGroupingPolicy("role:"+routes.RoleAdmin, "role:"+routes.RoleSalesManager); err != nil {
		return err
	}
	return nil
}

var Module = fx.Module("authorization",
	fx.Provide(NewEnforcer),
	fx.Provide(NewService),
)
