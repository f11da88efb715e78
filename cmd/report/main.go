// Command report dispatches the daily summary job. In this environment the
// dispatcher runs the job inline; with async jobs enabled it would hand the
// payload to the redis queue instead.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fediwatch/fediwatch-backend/internal/config"
	"github.com/fediwatch/fediwatch-backend/internal/db"
	"github.com/fediwatch/fediwatch-backend/internal/envutil"
	"github.com/fediwatch/fediwatch-backend/internal/jobs"
	"github.com/fediwatch/fediwatch-backend/internal/logger"
	"github.com/fediwatch/fediwatch-backend/internal/mailer"
	"github.com/fediwatch/fediwatch-backend/internal/repos"
	"github.com/fediwatch/fediwatch-backend/internal/reports"
)

func main() {
	logMode := envutil.String("LOG_MODE", "development", nil)
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := config.Load(log)

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	statRepo := repos.NewStatRepo(postgresService.DB(), log)

	mail, err := mailer.New(cfg, log)
	if err != nil {
		log.Error("Could not init mail backend", "error", err)
		os.Exit(1)
	}

	registry := jobs.NewRegistry()
	reporter := reports.NewDailyReporter(statRepo, mail, log)
	if err := reporter.Register(registry); err != nil {
		log.Error("Could not register report job", "error", err)
		os.Exit(1)
	}

	var dispatcher jobs.Dispatcher
	if cfg.AsyncJobs {
		redisDispatcher, redisErr := jobs.NewRedisDispatcher(cfg, log)
		if redisErr != nil {
			log.Error("Could not init redis dispatcher", "error", redisErr)
			os.Exit(1)
		}
		defer redisDispatcher.Close()
		dispatcher = redisDispatcher
	} else {
		dispatcher = jobs.NewSyncDispatcher(registry, log)
	}

	payload, err := json.Marshal(reports.DailyReportPayload{
		From: envutil.String("REPORT_FROM", "noreply@fediwatch.local", log),
		To:   []string{envutil.String("REPORT_TO", "admin@fediwatch.local", log)},
	})
	if err != nil {
		log.Error("Could not encode report payload", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := dispatcher.Enqueue(ctx, jobs.Job{Name: reports.JobDailyReport, Payload: payload}); err != nil {
		log.Error("Daily report dispatch failed", "error", err)
		os.Exit(1)
	}
}
