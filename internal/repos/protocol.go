package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/fediwatch/fediwatch-backend/internal/logger"
	"github.com/fediwatch/fediwatch-backend/internal/types"
)

type ProtocolRepo interface {
	// WithActiveNodes returns protocols annotated with their current
	// active-node count, ordered by that count descending. Protocols with
	// no active nodes are excluded. A non-empty name narrows to the exact
	// protocol name.
	WithActiveNodes(ctx context.Context, name string) ([]*types.Protocol, error)
}

type protocolRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProtocolRepo(db *gorm.DB, baseLog *logger.Logger) ProtocolRepo {
	return &protocolRepo{db: db, log: baseLog.With("repo", "ProtocolRepo")}
}

func (pr *protocolRepo) WithActiveNodes(ctx context.Context, name string) ([]*types.Protocol, error) {
	q := pr.db.WithContext(ctx).Model(&types.Protocol{})
	if name != "" {
		q = q.Where("protocols.name = ?", name)
	}

	activeNodes := pr.db.Model(&types.Node{}).
		Select("COUNT(*)").
		Joins("JOIN node_protocols ON node_protocols.node_id = nodes.id").
		Where("node_protocols.protocol_id = protocols.id").
		Where("nodes.active = ?", true)

	var protocols []*types.Protocol
	err := q.
		Select("protocols.*, (?) AS active_nodes", activeNodes).
		Where("(?) > 0", activeNodes).
		Order("active_nodes DESC").
		Find(&protocols).Error
	if err != nil {
		pr.log.Error("Protocol query failed", "error", err)
		return nil, err
	}
	return protocols, nil
}
