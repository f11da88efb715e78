package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/fediwatch/fediwatch-backend/internal/logger"
	"github.com/fediwatch/fediwatch-backend/internal/types"
)

type ServiceRepo interface {
	// List returns all services, or the one matching the exact name when
	// given.
	List(ctx context.Context, name string) ([]*types.Service, error)
}

type serviceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewServiceRepo(db *gorm.DB, baseLog *logger.Logger) ServiceRepo {
	return &serviceRepo{db: db, log: baseLog.With("repo", "ServiceRepo")}
}

func (sr *serviceRepo) List(ctx context.Context, name string) ([]*types.Service, error) {
	q := sr.db.WithContext(ctx).Model(&types.Service{})
	if name != "" {
		q = q.Where("services.name = ?", name)
	}

	var services []*types.Service
	if err := q.Order("services.name").Find(&services).Error; err != nil {
		sr.log.Error("Service query failed", "error", err)
		return nil, err
	}
	return services, nil
}
