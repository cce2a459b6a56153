package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	redis "github.com/redis/go-redis/v9"
)

const (
	outcomesKey      = "ytmp4:outcomes"
	redisPingTimeout = 2 * time.Second
)

// redisRecorder keeps outcome counters in a redis hash so several restarts
// (or replicas behind one redis) report the same totals.
type redisRecorder struct {
	client *redis.Client
	logger *log.Logger
}

func (r *redisRecorder) Name() string { return "redis" }

func (r *redisRecorder) Record(ctx context.Context, kind OutcomeKind) {
	if err := r.client.HIncrBy(ctx, outcomesKey, string(kind), 1).Err(); err != nil {
		r.logger.Warn("record outcome in redis", "outcome", kind, "error", err)
	}
}

func (r *redisRecorder) Counts(ctx context.Context) (map[OutcomeKind]int64, error) {
	vals, err := r.client.HGetAll(ctx, outcomesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("read outcome counters: %w", err)
	}
	counts := emptyCounts()
	for k, v := range vals {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("outcome counter %q: %w", k, err)
		}
		counts[OutcomeKind(k)] = n
	}
	return counts, nil
}

func (r *redisRecorder) Close() error { return r.client.Close() }

// newRecorder connects to redis when an address is configured and falls back
// to in-memory counters when it is absent or unreachable.
func newRecorder(ctx context.Context, cfg *Config, logger *log.Logger) Recorder {
	if cfg.RedisAddr == "" {
		return newMemoryRecorder()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis not available, using in-memory counters", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return newMemoryRecorder()
	}
	logger.Info("redis connected", "addr", cfg.RedisAddr)
	return &redisRecorder{client: client, logger: logger}
}
