package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fediwatch/fediwatch-backend/internal/cache"
	"github.com/fediwatch/fediwatch-backend/internal/config"
	"github.com/fediwatch/fediwatch-backend/internal/db"
	"github.com/fediwatch/fediwatch-backend/internal/envutil"
	"github.com/fediwatch/fediwatch-backend/internal/graph"
	"github.com/fediwatch/fediwatch-backend/internal/handlers"
	"github.com/fediwatch/fediwatch-backend/internal/logger"
	"github.com/fediwatch/fediwatch-backend/internal/middleware"
	"github.com/fediwatch/fediwatch-backend/internal/observability"
	"github.com/fediwatch/fediwatch-backend/internal/repos"
	"github.com/fediwatch/fediwatch-backend/internal/server"
)

func main() {
	// Logger
	logMode := envutil.String("LOG_MODE", "development", nil)
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	log.Info("Loading configuration from main...")
	cfg := config.Load(log)
	if cfg.Debug {
		log.Warn("Debug mode is on; do not run this configuration in production")
	}

	// Tracing
	tracing := observability.Enabled()
	if tracing {
		shutdown, otelErr := observability.InitTracing(context.Background(), log, observability.TracingConfig{
			ServiceName: "fediwatch",
			Environment: logMode,
		})
		if otelErr != nil {
			log.Warn("Tracing init failed, continuing without it", "error", otelErr)
			tracing = false
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(ctx)
			}()
		}
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()
	if cfg.DebugToolbar {
		if err := middleware.InstrumentQueries(thePG); err != nil {
			log.Warn("Query instrumentation failed", "error", err)
		}
	}

	// Cache
	log.Info("Setting up cache from main...", "backend", cfg.CacheBackend)
	responseCache, err := cache.New(cfg, log)
	if err != nil {
		log.Error("Could not init cache backend", "error", err)
		os.Exit(1)
	}

	// Repos
	log.Info("Setting up repos from main...")
	nodeRepo := repos.NewNodeRepo(thePG, log)
	platformRepo := repos.NewPlatformRepo(thePG, log)
	protocolRepo := repos.NewProtocolRepo(thePG, log)
	serviceRepo := repos.NewServiceRepo(thePG, log)
	statRepo := repos.NewStatRepo(thePG, log)

	// Schema
	log.Info("Building graphql schema from main...")
	resolvers := graph.NewResolvers(log, nodeRepo, platformRepo, protocolRepo, serviceRepo, statRepo)
	schema, err := graph.NewSchema(resolvers)
	if err != nil {
		log.Error("GraphQL schema validation failed", "error", err)
		os.Exit(1)
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	graphqlHandler := handlers.NewGraphQLHandler(schema, cfg, responseCache, log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		Config:         cfg,
		Log:            log,
		GraphQLHandler: graphqlHandler,
		Tracing:        tracing,
	})

	log.Info("Server listening", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
