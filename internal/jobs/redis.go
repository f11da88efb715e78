package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/fediwatch/fediwatch-backend/internal/config"
	"github.com/fediwatch/fediwatch-backend/internal/logger"
)

const defaultQueue = "jobs:default"

// RedisDispatcher pushes serialized jobs onto a redis list for an external
// worker process to consume. Not used when jobs run synchronously.
type RedisDispatcher struct {
	rdb   *goredis.Client
	queue string
	log   *logger.Logger
}

func NewRedisDispatcher(cfg *config.Config, baseLog *logger.Logger) (*RedisDispatcher, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.RedisAddr,
		DB:          cfg.RedisDB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisDispatcher{
		rdb:   rdb,
		queue: defaultQueue,
		log:   baseLog.With("dispatcher", "RedisDispatcher"),
	}, nil
}

func (d *RedisDispatcher) Enqueue(ctx context.Context, job Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job %q: %w", job.Name, err)
	}
	if err := d.rdb.LPush(ctx, d.queue, raw).Err(); err != nil {
		d.log.Error("failed to enqueue job", "job", job.Name, "error", err)
		return err
	}
	d.log.Debug("job enqueued", "job", job.Name, "queue", d.queue)
	return nil
}

func (d *RedisDispatcher) Close() error {
	return d.rdb.Close()
}
