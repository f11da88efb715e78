package config

import (
	"os"

	"github.com/fediwatch/fediwatch-backend/internal/envutil"
	"github.com/fediwatch/fediwatch-backend/internal/logger"
)

// Development-only fallback, never valid for a deployed instance.
const devSecretKey = "insecure-dev-secret-key-do-not-deploy"

const (
	EmailBackendConsole = "console"
	EmailBackendSMTP    = "smtp"

	CacheBackendLocMem = "locmem"
	CacheBackendRedis  = "redis"
)

// Redis database reserved for test runs so they cannot clobber dev data.
const testingRedisDB = 15

// Config holds every runtime toggle for the local/development environment.
// It is assembled once by Load and never mutated afterwards; handlers and
// services receive it by pointer.
type Config struct {
	Debug         bool
	SecretKey     string
	EmailBackend  string
	SMTPHost      string
	SMTPPort      int
	CacheBackend  string
	RedisAddr     string
	RedisDB       int
	DebugToolbar  bool
	AsyncJobs     bool
	HTTPSRequired bool
	Testing       bool
	Port          string
}

// Load derives the configuration from the process environment. Every value
// has a safe local-development default; malformed values fall back rather
// than erroring.
func Load(log *logger.Logger) *Config {
	testing := envutil.Bool("CI", false, log) ||
		envutil.Bool("TEST", false, log) ||
		hasTestArg(os.Args)

	cfg := &Config{
		Debug:        envutil.Bool("DJANGO_DEBUG", true, log),
		SecretKey:    envutil.String("DJANGO_SECRET_KEY", devSecretKey, log),
		EmailBackend: envutil.String("DJANGO_EMAIL_BACKEND", EmailBackendConsole, log),
		SMTPHost:     envutil.String("SMTP_HOST", "localhost", log),
		SMTPPort:     envutil.Int("SMTP_PORT", 1025, log),
		CacheBackend: envutil.String("CACHE_BACKEND", CacheBackendLocMem, log),
		RedisAddr:    envutil.String("REDIS_ADDR", "localhost:6379", log),
		RedisDB:      envutil.Int("REDIS_DB", 0, log),
		DebugToolbar: envutil.Bool("DJANGO_DEBUG_TOOLBAR", true, log),
		// Jobs always run inline in this environment; the redis queue is
		// only for deployments with a separate worker.
		AsyncJobs:     false,
		HTTPSRequired: false,
		Testing:       testing,
		Port:          envutil.String("PORT", "8080", log),
	}
	if cfg.Testing {
		cfg.RedisDB = testingRedisDB
	}
	return cfg
}

func hasTestArg(args []string) bool {
	for _, arg := range args {
		if arg == "test" {
			return true
		}
	}
	return false
}
