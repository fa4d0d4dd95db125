package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fieldnet/fieldnet/pkg/config"
	"github.com/fieldnet/fieldnet/pkg/logger"
)

// Redis wraps the client used to fan invalidations out between processes.
type Redis struct {
	client redis.UniversalClient
	config *config.RedisConfig
	once   sync.Once
	ctx    context.Context
}

const fallbackRedisPingTimeout time.Duration = 10 * time.Second

// NewRedis creates a Redis client from cfg and verifies connectivity.
func NewRedis(ctx context.Context, cfg *config.RedisConfig) (*Redis, error) {
	log := logger.FromContext(ctx).With("component", "infra_redis")
	ctx = logger.ContextWithLogger(ctx, log)
	if cfg == nil {
		return nil, fmt.Errorf("redis config is required")
	}
	client, err := buildRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = fallbackRedisPingTimeout
	}
	if err := pingRedis(ctx, client, timeout); err != nil {
		client.Close()
		return nil, err
	}
	log.Info("Redis connection established", "channel", cfg.Channel)
	return &Redis{
		client: client,
		config: cfg,
		ctx:    ctx,
	}, nil
}

func buildRedisClient(cfg *config.RedisConfig) (redis.UniversalClient, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing Redis URL: %w", err)
	}
	if password := cfg.Password.Value(); password != "" {
		opt.Password = password
	}
	if cfg.MinBackoff > 0 {
		opt.MinRetryBackoff = cfg.MinBackoff
	}
	if cfg.MaxBackoff > 0 {
		opt.MaxRetryBackoff = cfg.MaxBackoff
	}
	return redis.NewClient(opt), nil
}

func pingRedis(ctx context.Context, client redis.UniversalClient, timeout time.Duration) error {
	pingCtx, pingCancel := context.WithTimeout(ctx, timeout)
	defer pingCancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("pinging Redis server (timeout=%s): %w", timeout, err)
	}
	return nil
}

// Close shuts down the Redis connection.
func (r *Redis) Close() error {
	var err error
	r.once.Do(func() {
		err = r.client.Close()
		if err != nil {
			logger.FromContext(r.ctx).Error("Redis connection close failed", "error", err)
		} else {
			logger.FromContext(r.ctx).Debug("Redis connection closed")
		}
	})
	return err
}

// Publish sends a message to a channel
func (r *Redis) Publish(ctx context.Context, channel string, message any) error {
	return r.client.Publish(ctx, channel, message).Err()
}

// Subscribe subscribes to channel and waits for the confirmation.
func (r *Redis) Subscribe(ctx context.Context, channel string) (*redis.PubSub, error) {
	pubsub := r.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to confirm subscription to %s: %w", channel, err)
	}
	return pubsub, nil
}

// HealthCheck verifies the server still answers.
func (r *Redis) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}
