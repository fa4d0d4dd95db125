package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldnet/fieldnet/pkg/config"
	"github.com/fieldnet/fieldnet/pkg/logger"
)

// Cache bundles the query cache with its optional cross-process notifier.
type Cache struct {
	Service  Service
	Memory   *Memory
	Redis    *Redis
	Notifier *RedisNotifier
}

// SetupCache builds the cache described by appConfig. When Redis is enabled
// the returned Service publishes and applies invalidations over pub/sub.
func SetupCache(ctx context.Context, appConfig *config.Config) (*Cache, error) {
	if appConfig == nil {
		return nil, fmt.Errorf("cache config cannot be nil")
	}
	memory, err := NewMemory(FromAppConfig(appConfig))
	if err != nil {
		return nil, err
	}
	c := &Cache{Service: memory, Memory: memory}
	if !appConfig.Redis.Enabled {
		return c, nil
	}
	redis, err := NewRedis(ctx, &appConfig.Redis)
	if err != nil {
		return nil, err
	}
	notifier, err := NewRedisNotifier(memory, redis, &appConfig.Redis)
	if err != nil {
		redis.Close()
		return nil, err
	}
	if err := notifier.Start(ctx); err != nil {
		redis.Close()
		return nil, err
	}
	logger.FromContext(ctx).Debug("Cross-process invalidation enabled", "origin", notifier.Origin())
	c.Redis = redis
	c.Notifier = notifier
	c.Service = notifier
	return c, nil
}

// Close stops the notifier, then the Redis connection.
func (c *Cache) Close() error {
	var errs []error
	if c.Notifier != nil {
		if err := c.Notifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close notifier: %w", err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

// HealthCheck reports Redis reachability when it is in use.
func (c *Cache) HealthCheck(ctx context.Context) error {
	if c.Redis != nil {
		return c.Redis.HealthCheck(ctx)
	}
	return nil
}
