package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	"github.com/fieldnet/fieldnet/pkg/config"
	"github.com/fieldnet/fieldnet/pkg/logger"
)

// Invalidation is the message exchanged between processes sharing a channel.
type Invalidation struct {
	Origin      string    `json:"origin"`
	Collections []string  `json:"collections"`
	Time        time.Time `json:"time"`
}

// NotificationMetrics is a read-only view of pub/sub counters.
type NotificationMetrics struct {
	MessagesPublished int64 `json:"messages_published"`
	MessagesReceived  int64 `json:"messages_received"`
	MessagesIgnored   int64 `json:"messages_ignored"`
	PublishErrors     int64 `json:"publish_errors"`
	DecodeErrors      int64 `json:"decode_errors"`
	Reconnects        int64 `json:"reconnects"`
}

// RedisNotifier is a Service that invalidates a local Memory cache and fans
// the invalidation out to every other process listening on the same channel.
type RedisNotifier struct {
	local   *Memory
	redis   *Redis
	channel string
	origin  string
	backoff func() retry.Backoff

	metricsMu sync.Mutex
	metrics   NotificationMetrics

	mu      sync.Mutex
	closeCh chan struct{}
	wg      sync.WaitGroup
	started bool
	closed  bool
}

var _ Service = (*RedisNotifier)(nil)

// NewRedisNotifier wires local to the invalidation channel configured in cfg.
func NewRedisNotifier(local *Memory, client *Redis, cfg *config.RedisConfig) (*RedisNotifier, error) {
	if local == nil {
		return nil, fmt.Errorf("local cache cannot be nil")
	}
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if cfg == nil || cfg.Channel == "" {
		return nil, fmt.Errorf("redis channel is required")
	}
	minBackoff, maxBackoff, maxReconnects := cfg.MinBackoff, cfg.MaxBackoff, cfg.MaxReconnects
	if minBackoff <= 0 {
		minBackoff = 200 * time.Millisecond
	}
	return &RedisNotifier{
		local:   local,
		redis:   client,
		channel: cfg.Channel,
		origin:  uuid.NewString(),
		backoff: func() retry.Backoff {
			b := retry.NewExponential(minBackoff)
			if maxBackoff > 0 {
				b = retry.WithCappedDuration(maxBackoff, b)
			}
			if maxReconnects > 0 {
				b = retry.WithMaxRetries(maxReconnects, b)
			}
			return b
		},
		closeCh: make(chan struct{}),
	}, nil
}

// ReadOrFetch delegates to the local cache.
func (n *RedisNotifier) ReadOrFetch(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	return n.local.ReadOrFetch(ctx, key, fetch)
}

// Invalidate marks the collections stale locally, then publishes them. A
// publish failure is returned after the local invalidation has been applied.
func (n *RedisNotifier) Invalidate(ctx context.Context, collections ...string) error {
	if err := n.local.Invalidate(ctx, collections...); err != nil {
		return err
	}
	if len(collections) == 0 {
		return nil
	}
	payload, err := json.Marshal(Invalidation{
		Origin:      n.origin,
		Collections: collections,
		Time:        time.Now().UTC(),
	})
	if err != nil {
		n.bump(func(m *NotificationMetrics) { m.PublishErrors++ })
		return fmt.Errorf("failed to marshal invalidation: %w", err)
	}
	if err := n.redis.Publish(ctx, n.channel, payload); err != nil {
		n.bump(func(m *NotificationMetrics) { m.PublishErrors++ })
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}
	n.bump(func(m *NotificationMetrics) { m.MessagesPublished++ })
	return nil
}

// Start subscribes to the channel and applies remote invalidations until ctx
// ends or Close is called. The subscription is confirmed before returning.
func (n *RedisNotifier) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ErrClosed
	}
	if n.started {
		return nil
	}
	pubsub, err := n.redis.Subscribe(ctx, n.channel)
	if err != nil {
		return err
	}
	n.started = true
	n.wg.Add(1)
	go n.listen(context.WithoutCancel(ctx), ctx.Done(), pubsub)
	return nil
}

func (n *RedisNotifier) listen(ctx context.Context, done <-chan struct{}, pubsub *redis.PubSub) {
	defer n.wg.Done()
	log := logger.FromContext(ctx).With("channel", n.channel)
	for {
		err := n.consume(ctx, done, pubsub)
		pubsub.Close()
		if !errors.Is(err, errSubscriptionLost) {
			return
		}
		log.Warn("Invalidation subscription lost, reconnecting")
		pubsub, err = n.resubscribe(ctx, done)
		if err != nil {
			log.Error("Invalidation subscription abandoned", "error", err)
			return
		}
		n.bump(func(m *NotificationMetrics) { m.Reconnects++ })
	}
}

func (n *RedisNotifier) consume(ctx context.Context, done <-chan struct{}, pubsub *redis.PubSub) error {
	ch := pubsub.Channel()
	for {
		select {
		case <-n.closeCh:
			return nil
		case <-done:
			return nil
		case msg, ok := <-ch:
			if !ok {
				return errSubscriptionLost
			}
			n.handle(ctx, msg)
		}
	}
}

func (n *RedisNotifier) resubscribe(ctx context.Context, done <-chan struct{}) (*redis.PubSub, error) {
	retryCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-n.closeCh:
			cancel()
		case <-done:
			cancel()
		case <-retryCtx.Done():
		}
	}()
	return retry.DoValue[*redis.PubSub](retryCtx, n.backoff(), func(ctx context.Context) (*redis.PubSub, error) {
		pubsub, err := n.redis.Subscribe(ctx, n.channel)
		if err != nil {
			return nil, retry.RetryableError(err)
		}
		return pubsub, nil
	})
}

func (n *RedisNotifier) handle(ctx context.Context, msg *redis.Message) {
	log := logger.FromContext(ctx)
	var inv Invalidation
	if err := json.Unmarshal([]byte(msg.Payload), &inv); err != nil {
		n.bump(func(m *NotificationMetrics) { m.DecodeErrors++ })
		log.Warn("Dropping malformed invalidation", "error", err)
		return
	}
	if inv.Origin == n.origin {
		n.bump(func(m *NotificationMetrics) { m.MessagesIgnored++ })
		return
	}
	marked := n.local.invalidate(inv.Collections)
	for _, c := range inv.Collections {
		recordInvalidation(ctx, c, originRemote)
	}
	n.bump(func(m *NotificationMetrics) { m.MessagesReceived++ })
	log.Debug("Applied remote invalidation", "collections", inv.Collections, "entries", marked)
}

// Close stops the listener. It does not close the Redis client.
func (n *RedisNotifier) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	close(n.closeCh)
	n.mu.Unlock()
	n.wg.Wait()
	return nil
}

// Origin identifies this process in published invalidations.
func (n *RedisNotifier) Origin() string {
	return n.origin
}

// GetMetrics returns current pub/sub counters.
func (n *RedisNotifier) GetMetrics() NotificationMetrics {
	n.metricsMu.Lock()
	defer n.metricsMu.Unlock()
	return n.metrics
}

func (n *RedisNotifier) bump(fn func(*NotificationMetrics)) {
	n.metricsMu.Lock()
	fn(&n.metrics)
	n.metricsMu.Unlock()
}
