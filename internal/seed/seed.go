package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	authdomain "github.com/retentionops/portal/internal/auth/domain"
	"github.com/retentionops/portal/internal/auth/password"
	"github.com/retentionops/portal/internal/config"
	"github.com/retentionops/portal/internal/routes"
)

// EnsureDefaultAdmin creates the bootstrap admin account when no admin
// exists yet. Existing accounts are never touched, so changing the
// bootstrap env vars after first startup has no effect.
func EnsureDefaultAdmin(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if !cfg.Bootstrap.EnsureDefaultAdmin {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.Bootstrap.AdminEmail))
	if email == "" {
		return errors.New("bootstrap admin email is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&authdomain.User{}).
			Where("role = ?", routes.RoleAdmin).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hashed, err := password.Hash(cfg.Bootstrap.AdminPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		admin := authdomain.User{
			ID:           node.Generate(),
			DisplayName:  "Portal Admin",
			Email:        email,
			Role:         routes.RoleAdmin,
			PasswordHash: &hashed,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Create(&admin).Error
	})
}
