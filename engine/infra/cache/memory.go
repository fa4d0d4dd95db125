package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/fieldnet/fieldnet/pkg/logger"
)

// Key identifies one cached fetch result: a collection plus the canonical
// request target built for it.
type Key struct {
	Collection string
	Target     string
}

func (k Key) String() string {
	return k.Collection + " " + k.Target
}

// FetchFunc loads the value for a key on a cache miss.
type FetchFunc func(ctx context.Context) (any, error)

// Service is the cache surface fetchers and mutations depend on.
type Service interface {
	// ReadOrFetch returns the cached value for key, or runs fetch once for all
	// concurrent callers of the same key and caches a successful result.
	ReadOrFetch(ctx context.Context, key Key, fetch FetchFunc) (any, error)
	// Invalidate marks every entry of the given collections stale.
	Invalidate(ctx context.Context, collections ...string) error
}

// Snapshot is a read-only view of one cache entry.
type Snapshot struct {
	Value     any
	Stale     bool
	FetchedAt time.Time
}

type entry struct {
	collection string
	value      any
	generation uint64
	stale      bool
	fetchedAt  time.Time
}

// Memory is an in-process Service backed by an expirable LRU. Concurrent
// misses for one key share a single fetch.
type Memory struct {
	mu          sync.Mutex
	entries     *expirable.LRU[string, *entry]
	generations map[string]uint64
	group       singleflight.Group
	resolution  Resolution
	now         func() time.Time
}

var _ Service = (*Memory)(nil)

// NewMemory creates an in-process cache.
func NewMemory(cfg Config) (*Memory, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	resolution := cfg.Resolution
	if resolution == "" {
		resolution = ResolutionIssued
	}
	return &Memory{
		entries:     expirable.NewLRU[string, *entry](cfg.Size, nil, cfg.TTL),
		generations: make(map[string]uint64),
		resolution:  resolution,
		now:         time.Now,
	}, nil
}

// ReadOrFetch implements Service. A caller whose ctx ends while waiting gets
// ctx.Err(); the shared fetch keeps running and still populates the cache.
func (m *Memory) ReadOrFetch(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	log := logger.FromContext(ctx).With("collection", key.Collection, "key", key.Target)
	id := key.String()
	m.mu.Lock()
	current, ok := m.entries.Get(id)
	generation := m.generations[key.Collection]
	var value any
	fresh := ok && !current.stale
	if fresh {
		value = current.value
	}
	m.mu.Unlock()
	if fresh {
		recordCacheHit(ctx, key.Collection)
		log.Debug("Cache hit")
		return value, nil
	}
	recordCacheMiss(ctx, key.Collection)
	detached := context.WithoutCancel(ctx)
	ch := m.group.DoChan(fmt.Sprintf("%s#%d", id, generation), func() (any, error) {
		start := m.now()
		v, err := fetch(detached)
		recordFetch(detached, key.Collection, time.Since(start), err)
		if err != nil {
			log.Debug("Fetch failed", "error", err)
			return nil, err
		}
		m.store(key, generation, v)
		return v, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (m *Memory) store(key Key, generation uint64, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resolution == ResolutionIssued && generation != m.generations[key.Collection] {
		return
	}
	m.entries.Add(key.String(), &entry{
		collection: key.Collection,
		value:      value,
		generation: generation,
		fetchedAt:  m.now(),
	})
}

// Invalidate implements Service.
func (m *Memory) Invalidate(ctx context.Context, collections ...string) error {
	marked := m.invalidate(collections)
	for _, c := range collections {
		recordInvalidation(ctx, c, originLocal)
	}
	logger.FromContext(ctx).Debug("Invalidated collections", "collections", collections, "entries", marked)
	return nil
}

func (m *Memory) invalidate(collections []string) int {
	if len(collections) == 0 {
		return 0
	}
	targets := make(map[string]struct{}, len(collections))
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range collections {
		targets[c] = struct{}{}
		m.generations[c]++
	}
	marked := 0
	for _, id := range m.entries.Keys() {
		e, ok := m.entries.Peek(id)
		if !ok {
			continue
		}
		if _, hit := targets[e.collection]; hit && !e.stale {
			e.stale = true
			marked++
		}
	}
	return marked
}

// Peek returns the current entry for key without affecting recency.
func (m *Memory) Peek(key Key) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries.Peek(key.String())
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{Value: e.value, Stale: e.stale, FetchedAt: e.fetchedAt}, true
}
