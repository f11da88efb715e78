package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/fediwatch/fediwatch-backend/internal/logger"
	"github.com/fediwatch/fediwatch-backend/internal/types"
)

// Metric columns accepted by DateCounts. Column names are interpolated
// into SQL, so anything outside this set is rejected up front.
var statMetrics = map[string]struct{}{
	"users_total":     {},
	"users_half_year": {},
	"users_monthly":   {},
	"users_weekly":    {},
	"local_posts":     {},
	"local_comments":  {},
}

type StatRepo interface {
	// All returns every stat row, unfiltered.
	All(ctx context.Context) ([]*types.Stat, error)

	// DateCounts returns the per-day sum of the named metric column across
	// the rows selected by the itemType/value scope, ascending by date.
	DateCounts(ctx context.Context, metric, itemType, value string) ([]types.DateCount, error)

	// NodeCounts returns the per-day count of node-scoped stat rows from
	// fromDate on, descending by date.
	NodeCounts(ctx context.Context, fromDate, itemType, value string) ([]types.DateCount, error)

	// ActiveRatio returns the per-day ratio of monthly-active users to
	// total users, ascending by date. Days whose total is zero or unknown
	// are omitted.
	ActiveRatio(ctx context.Context, itemType, value string) ([]types.DateFloatCount, error)

	// UsersPerNode returns the per-day average of total users across the
	// selected rows, ascending by date, truncated to whole users.
	UsersPerNode(ctx context.Context, itemType, value string) ([]types.DateCount, error)

	// GlobalLatest returns the most recent non-node stat row: the platform
	// rollup when platform is given, otherwise the protocol rollup when
	// protocol is given, otherwise the global row. Nil when absent.
	GlobalLatest(ctx context.Context, platform, protocol string) (*types.Stat, error)

	// NodesToday returns today's per-node stat rows (node set, platform
	// and protocol unset), optionally scoped by itemType/value and host.
	// Unrecognized itemType values leave the result unscoped.
	NodesToday(ctx context.Context, itemType, value, host string) ([]*types.Stat, error)

	// PlatformToday / ProtocolToday return today's single rollup row for
	// the named platform/protocol, nil when absent.
	PlatformToday(ctx context.Context, name string) (*types.Stat, error)
	ProtocolToday(ctx context.Context, name string) (*types.Stat, error)
}

type statRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatRepo(db *gorm.DB, baseLog *logger.Logger) StatRepo {
	return &statRepo{db: db, log: baseLog.With("repo", "StatRepo")}
}

func (sr *statRepo) All(ctx context.Context) ([]*types.Stat, error) {
	var stats []*types.Stat
	err := sr.db.WithContext(ctx).
		Preload("Node").
		Preload("Platform").
		Preload("Protocol").
		Find(&stats).Error
	if err != nil {
		sr.log.Error("Stat query failed", "error", err)
		return nil, err
	}
	return stats, nil
}

// scoped narrows a stats query to the subject selected by itemType/value:
// the nodes of a platform, the nodes speaking a protocol, or a single host.
// Without a full itemType/value pair the query covers all node-scoped rows.
// An unrecognized itemType (paired with a value) is an error.
func (sr *statRepo) scoped(q *gorm.DB, itemType, value string) (*gorm.DB, error) {
	if itemType != "" && value != "" {
		switch itemType {
		case ItemTypePlatform:
			return q.
				Joins("JOIN nodes ON nodes.id = stats.node_id").
				Joins("JOIN platforms ON platforms.id = nodes.platform_id").
				Where("platforms.name = ?", value), nil
		case ItemTypeProtocol:
			return q.
				Joins("JOIN nodes ON nodes.id = stats.node_id").
				Joins("JOIN node_protocols ON node_protocols.node_id = nodes.id").
				Joins("JOIN protocols ON protocols.id = node_protocols.protocol_id").
				Where("protocols.name = ?", value), nil
		case ItemTypeNode:
			return q.
				Joins("JOIN nodes ON nodes.id = stats.node_id").
				Where("nodes.host = ?", value), nil
		default:
			return nil, ErrInvalidItemType
		}
	}
	return q.Where("stats.node_id IS NOT NULL"), nil
}

func (sr *statRepo) DateCounts(ctx context.Context, metric, itemType, value string) ([]types.DateCount, error) {
	if _, ok := statMetrics[metric]; !ok {
		return nil, fmt.Errorf("unknown stat metric %q", metric)
	}

	q, err := sr.scoped(sr.db.WithContext(ctx).Model(&types.Stat{}), itemType, value)
	if err != nil {
		return nil, err
	}

	var rows []types.DateCount
	err = q.
		Select(fmt.Sprintf("stats.date AS date, SUM(stats.%s) AS count", metric)).
		Group("stats.date").
		Order("stats.date ASC").
		Scan(&rows).Error
	if err != nil {
		sr.log.Error("Stat date count query failed", "metric", metric, "error", err)
		return nil, err
	}
	return rows, nil
}

func (sr *statRepo) NodeCounts(ctx context.Context, fromDate, itemType, value string) ([]types.DateCount, error) {
	q, err := sr.scoped(sr.db.WithContext(ctx).Model(&types.Stat{}), itemType, value)
	if err != nil {
		return nil, err
	}

	var rows []types.DateCount
	err = q.
		Where("stats.date >= ?", fromDate).
		Select("stats.date AS date, COUNT(*) AS count").
		Group("stats.date").
		Order("stats.date DESC").
		Scan(&rows).Error
	if err != nil {
		sr.log.Error("Stat node count query failed", "error", err)
		return nil, err
	}
	return rows, nil
}

func (sr *statRepo) ActiveRatio(ctx context.Context, itemType, value string) ([]types.DateFloatCount, error) {
	q, err := sr.scoped(sr.db.WithContext(ctx).Model(&types.Stat{}), itemType, value)
	if err != nil {
		return nil, err
	}

	var rows []types.DateFloatCount
	err = q.
		Select("stats.date AS date, CAST(SUM(stats.users_monthly) AS FLOAT) / CAST(SUM(stats.users_total) AS FLOAT) AS count").
		Group("stats.date").
		Having("SUM(stats.users_total) > 0").
		Order("stats.date ASC").
		Scan(&rows).Error
	if err != nil {
		sr.log.Error("Stat active ratio query failed", "error", err)
		return nil, err
	}
	return rows, nil
}

func (sr *statRepo) UsersPerNode(ctx context.Context, itemType, value string) ([]types.DateCount, error) {
	q, err := sr.scoped(sr.db.WithContext(ctx).Model(&types.Stat{}), itemType, value)
	if err != nil {
		return nil, err
	}

	var averages []types.DateFloatCount
	err = q.
		Select("stats.date AS date, AVG(stats.users_total) AS count").
		Group("stats.date").
		Order("stats.date ASC").
		Scan(&averages).Error
	if err != nil {
		sr.log.Error("Stat users per node query failed", "error", err)
		return nil, err
	}

	rows := make([]types.DateCount, 0, len(averages))
	for _, avg := range averages {
		row := types.DateCount{Date: avg.Date}
		if avg.Count != nil {
			truncated := int64(*avg.Count)
			row.Count = &truncated
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (sr *statRepo) GlobalLatest(ctx context.Context, platform, protocol string) (*types.Stat, error) {
	q := sr.db.WithContext(ctx).Model(&types.Stat{}).Where("stats.node_id IS NULL")

	if platform != "" {
		q = q.
			Joins("JOIN platforms ON platforms.id = stats.platform_id").
			Where("platforms.name = ?", platform).
			Where("stats.protocol_id IS NULL")
	} else if protocol != "" {
		q = q.
			Joins("JOIN protocols ON protocols.id = stats.protocol_id").
			Where("protocols.name = ?", protocol).
			Where("stats.platform_id IS NULL")
	} else {
		q = q.
			Where("stats.platform_id IS NULL").
			Where("stats.protocol_id IS NULL")
	}

	var rows []*types.Stat
	err := q.
		Order("stats.date DESC").
		Limit(1).
		Preload("Platform").
		Preload("Protocol").
		Find(&rows).Error
	if err != nil {
		sr.log.Error("Global stat query failed", "error", err)
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (sr *statRepo) NodesToday(ctx context.Context, itemType, value, host string) ([]*types.Stat, error) {
	q := sr.db.WithContext(ctx).Model(&types.Stat{}).
		Joins("JOIN nodes ON nodes.id = stats.node_id")

	// Unlike the aggregate queries, an unrecognized itemType here falls
	// through to the unscoped result.
	switch itemType {
	case ItemTypePlatform:
		q = q.
			Joins("JOIN platforms ON platforms.id = nodes.platform_id").
			Where("platforms.name = ?", value)
	case ItemTypeProtocol:
		q = q.
			Joins("JOIN node_protocols ON node_protocols.node_id = nodes.id").
			Joins("JOIN protocols ON protocols.id = node_protocols.protocol_id").
			Where("protocols.name = ?", value)
	}
	if host != "" {
		q = q.Where("nodes.host = ?", host)
	}

	var rows []*types.Stat
	err := q.
		Where("stats.date = ?", types.Today()).
		Where("stats.platform_id IS NULL").
		Where("stats.protocol_id IS NULL").
		Preload("Node").
		Preload("Node.Platform").
		Find(&rows).Error
	if err != nil {
		sr.log.Error("Node stat query failed", "error", err)
		return nil, err
	}
	return rows, nil
}

func (sr *statRepo) PlatformToday(ctx context.Context, name string) (*types.Stat, error) {
	var rows []*types.Stat
	err := sr.db.WithContext(ctx).Model(&types.Stat{}).
		Joins("JOIN platforms ON platforms.id = stats.platform_id").
		Where("platforms.name = ?", name).
		Where("stats.node_id IS NULL").
		Where("stats.protocol_id IS NULL").
		Where("stats.date = ?", types.Today()).
		Limit(1).
		Preload("Platform").
		Find(&rows).Error
	if err != nil {
		sr.log.Error("Platform stat query failed", "error", err)
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (sr *statRepo) ProtocolToday(ctx context.Context, name string) (*types.Stat, error) {
	var rows []*types.Stat
	err := sr.db.WithContext(ctx).Model(&types.Stat{}).
		Joins("JOIN protocols ON protocols.id = stats.protocol_id").
		Where("protocols.name = ?", name).
		Where("stats.node_id IS NULL").
		Where("stats.platform_id IS NULL").
		Where("stats.date = ?", types.Today()).
		Limit(1).
		Preload("Protocol").
		Find(&rows).Error
	if err != nil {
		sr.log.Error("Protocol stat query failed", "error", err)
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
