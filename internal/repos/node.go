package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/fediwatch/fediwatch-backend/internal/logger"
	"github.com/fediwatch/fediwatch-backend/internal/types"
)

type NodeRepo interface {
	// Active returns the active nodes, optionally narrowed by platform
	// name, protocol name and/or exact host. Each row is annotated with
	// today's monthly-active-user count and the result is ordered by that
	// count descending, nulls last. Platform, protocol and service
	// associations are eager-loaded.
	Active(ctx context.Context, platform, protocol, host string) ([]*types.Node, error)
}

type nodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNodeRepo(db *gorm.DB, baseLog *logger.Logger) NodeRepo {
	return &nodeRepo{db: db, log: baseLog.With("repo", "NodeRepo")}
}

func (nr *nodeRepo) Active(ctx context.Context, platform, protocol, host string) ([]*types.Node, error) {
	q := nr.db.WithContext(ctx).Model(&types.Node{}).Where("nodes.active = ?", true)

	if platform != "" {
		q = q.
			Joins("JOIN platforms ON platforms.id = nodes.platform_id").
			Where("platforms.name = ?", platform)
	} else if protocol != "" {
		q = q.
			Joins("JOIN node_protocols ON node_protocols.node_id = nodes.id").
			Joins("JOIN protocols ON protocols.id = node_protocols.protocol_id").
			Where("protocols.name = ?", protocol)
	}
	if host != "" {
		q = q.Where("nodes.host = ?", host)
	}

	users := nr.db.Model(&types.Stat{}).
		Select("MAX(stats.users_monthly)").
		Where("stats.node_id = nodes.id").
		Where("stats.date = ?", types.Today())

	var nodes []*types.Node
	err := q.
		Select("nodes.*, (?) AS users", users).
		Order("users DESC NULLS LAST").
		Preload("Platform").
		Preload("Protocols").
		Preload("Services").
		Find(&nodes).Error
	if err != nil {
		nr.log.Error("Active node query failed", "error", err)
		return nil, err
	}
	return nodes, nil
}
