package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fediwatch/fediwatch-backend/internal/envutil"
	"github.com/fediwatch/fediwatch-backend/internal/logger"
	"github.com/fediwatch/fediwatch-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.String("POSTGRES_HOST", "localhost", log)
	port := envutil.String("POSTGRES_PORT", "5432", log)
	user := envutil.String("POSTGRES_USER", "postgres", log)
	password := envutil.String("POSTGRES_PASSWORD", "", log)
	name := envutil.String("POSTGRES_NAME", "fediwatch", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	serviceLog.Info("Connecting to Postgres...")
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

// AutoMigrateAll migrates the tracked tables. The schema is owned by the
// external ingestion stack in production; migration here exists for local
// development instances.
func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Platform{},
		&types.Protocol{},
		&types.Service{},
		&types.Node{},
		&types.Stat{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	// A stat row identifies its subject by at most one scope reference;
	// AutoMigrate cannot express the cross-column rule.
	s.log.Info("Ensuring stat scope exclusion constraint...")
	if err := s.db.Exec(`
		ALTER TABLE "stats"
		DROP CONSTRAINT IF EXISTS "chk_stats_single_scope";
	`).Error; err != nil {
		s.log.Error("Failed to reset stat scope constraint", "error", err)
		return err
	}
	if err := s.db.Exec(`
		ALTER TABLE "stats"
		ADD CONSTRAINT "chk_stats_single_scope" CHECK (
			(CASE WHEN "node_id" IS NULL THEN 0 ELSE 1 END) +
			(CASE WHEN "platform_id" IS NULL THEN 0 ELSE 1 END) +
			(CASE WHEN "protocol_id" IS NULL THEN 0 ELSE 1 END) <= 1
		)
	`).Error; err != nil {
		s.log.Error("Failed to add stat scope constraint", "error", err)
		return err
	}
	return nil
}
