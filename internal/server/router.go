package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/fediwatch/fediwatch-backend/internal/config"
	"github.com/fediwatch/fediwatch-backend/internal/handlers"
	"github.com/fediwatch/fediwatch-backend/internal/logger"
	"github.com/fediwatch/fediwatch-backend/internal/middleware"
)

type RouterConfig struct {
	Config         *config.Config
	Log            *logger.Logger
	GraphQLHandler *handlers.GraphQLHandler
	Tracing        bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if !cfg.Config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		AllowCredentials: false,
	}))
	router.Use(middleware.RequestID())
	if cfg.Tracing {
		router.Use(otelgin.Middleware("fediwatch"))
	}
	if cfg.Config.DebugToolbar {
		router.Use(middleware.QueryCount(cfg.Log))
	}

	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/graphql", cfg.GraphQLHandler.Query)
	if cfg.Config.DebugToolbar {
		router.GET("/graphiql", cfg.GraphQLHandler.Playground())
	}

	return router
}
