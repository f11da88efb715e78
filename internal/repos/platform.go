package repos

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/fediwatch/fediwatch-backend/internal/logger"
	"github.com/fediwatch/fediwatch-backend/internal/types"
)

type PlatformRepo interface {
	// WithActiveNodes returns platforms annotated with their current
	// active-node count, ordered by that count descending. Platforms with
	// no active nodes are excluded. A non-empty name narrows to the exact
	// (lower-cased) platform name.
	WithActiveNodes(ctx context.Context, name string) ([]*types.Platform, error)
}

type platformRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlatformRepo(db *gorm.DB, baseLog *logger.Logger) PlatformRepo {
	return &platformRepo{db: db, log: baseLog.With("repo", "PlatformRepo")}
}

func (pr *platformRepo) WithActiveNodes(ctx context.Context, name string) ([]*types.Platform, error) {
	q := pr.db.WithContext(ctx).Model(&types.Platform{})
	if name != "" {
		q = q.Where("platforms.name = ?", strings.ToLower(name))
	}

	activeNodes := pr.db.Model(&types.Node{}).
		Select("COUNT(*)").
		Where("nodes.platform_id = platforms.id").
		Where("nodes.active = ?", true)

	var platforms []*types.Platform
	err := q.
		Select("platforms.*, (?) AS active_nodes", activeNodes).
		Where("(?) > 0", activeNodes).
		Order("active_nodes DESC").
		Find(&platforms).Error
	if err != nil {
		pr.log.Error("Platform query failed", "error", err)
		return nil, err
	}
	return platforms, nil
}
