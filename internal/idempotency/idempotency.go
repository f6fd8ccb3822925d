package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/retentionops/portal/pkg/db"
)

// Window bounds how long a key blocks replays. Keys older than this are
// purged and the same key may be used again.
const Window = 24 * time.Hour

var ErrDuplicate = errors.New("idempotency key already used")

type Key struct {
	ID        snowflake.ID `gorm:"column:id;primaryKey"`
	Key       string       `gorm:"column:key;uniqueIndex"`
	Scope     string       `gorm:"column:scope"`
	CreatedAt time.Time    `gorm:"column:created_at"`
}

func (Key) TableName() string {
	return "idempotency_keys"
}

type Guard struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewGuard(gdb *gorm.DB, genID *snowflake.Node) *Guard {
	return &Guard{db: gdb, genID: genID}
}

// Claim records the key for the given scope. The unique index on the key
// column makes concurrent claims race down to a single winner; everyone
// else gets ErrDuplicate.
func (g *Guard) Claim(ctx context.Context, scope, key string) error {
	if key == "" {
		return nil
	}

	record := Key{
		ID:        g.genID.Generate(),
		Key:       scope + ":" + key,
		Scope:     scope,
		CreatedAt: time.Now().UTC(),
	}

	if err := g.db.WithContext(ctx).Create(&record).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// Release frees a key after the claimed operation failed, so the caller
// can retry with the same key.
func (g *Guard) Release(ctx context.Context, scope, key string) error {
	if key == "" {
		return nil
	}
	return g.db.WithContext(ctx).
		Where("key = ?", scope+":"+key).
		Delete(&Key{}).Error
}

// PurgeExpired removes keys past the replay window.
func (g *Guard) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-Window)
	res := g.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&Key{})
	return res.RowsAffected, res.Error
}
