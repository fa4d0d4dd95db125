package fetch

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fieldnet/fieldnet/engine/infra/cache"
	"github.com/fieldnet/fieldnet/engine/query"
	"github.com/fieldnet/fieldnet/engine/transport"
	"github.com/fieldnet/fieldnet/pkg/logger"
)

// Detail fetches and converts single records of a collection through the
// shared cache, keyed by (collection, id).
type Detail[W, V any] struct {
	collection string
	doer       transport.Doer
	cache      cache.Service
	convert    Converter[W, V]
	opts       options
	tracker    *tracker
}

// NewDetail creates a record fetcher for collection.
func NewDetail[W, V any](
	collection string,
	doer transport.Doer,
	c cache.Service,
	convert Converter[W, V],
	opts ...Option,
) *Detail[W, V] {
	return &Detail[W, V]{
		collection: collection,
		doer:       doer,
		cache:      c,
		convert:    convert,
		opts:       applyOptions(opts),
		tracker:    newTracker(),
	}
}

// Fetch returns the converted record with id.
func (d *Detail[W, V]) Fetch(ctx context.Context, id string) (*V, error) {
	if id == "" {
		return nil, fmt.Errorf("%s: id is required", d.collection)
	}
	desc := query.Detail(d.collection, id)
	key := cache.Key{Collection: d.collection, Target: desc.Target()}
	d.tracker.begin(key.Target)
	v, err := d.cache.ReadOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return d.load(ctx, desc)
	})
	if err == nil {
		if _, ok := v.(*V); !ok {
			err = fmt.Errorf("%w: %s holds %T", ErrCachedType, key, v)
		}
	}
	d.tracker.finish(key.Target, err)
	if err != nil {
		return nil, err
	}
	return v.(*V), nil
}

// Status reports the state of the record with id.
func (d *Detail[W, V]) Status(id string) Status {
	return d.tracker.get(query.Detail(d.collection, id).Target())
}

func (d *Detail[W, V]) load(ctx context.Context, desc query.Descriptor) (*V, error) {
	resp, err := d.doer.Do(ctx, &transport.Request{
		Method: http.MethodGet,
		Path:   desc.Path,
	})
	if err != nil {
		return nil, err
	}
	var record W
	if err := transport.Decode(resp, &record); err != nil {
		return nil, fmt.Errorf("decode %s: %w", desc.Target(), err)
	}
	view := d.convert(record)
	logger.FromContext(ctx).Debug("Fetched record", "collection", d.collection, "key", desc.Target())
	return &view, nil
}
