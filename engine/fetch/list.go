package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/fieldnet/fieldnet/engine/infra/cache"
	"github.com/fieldnet/fieldnet/engine/query"
	"github.com/fieldnet/fieldnet/engine/transport"
	"github.com/fieldnet/fieldnet/pkg/logger"
)

var (
	// ErrUnexpectedShape is returned when a list body is neither an array nor
	// a {results, count} envelope. It wraps transport.ErrDecode.
	ErrUnexpectedShape = fmt.Errorf("%w: list body is not an array or results envelope", transport.ErrDecode)
	ErrCachedType      = errors.New("fetch: cached value has unexpected type")
)

// Converter maps one wire record to one view-model record.
type Converter[W, V any] func(W) V

// Result is one converted page. It is shared by every caller of the same key
// and must be treated as read-only; a refetch replaces it.
type Result[V any] struct {
	Items     []V
	Total     int
	Target    string
	FetchedAt time.Time
}

// List fetches and converts one collection through the shared cache.
type List[W, V any] struct {
	collection string
	doer       transport.Doer
	cache      cache.Service
	convert    Converter[W, V]
	opts       options
	tracker    *tracker
}

// NewList creates a fetcher for collection.
func NewList[W, V any](
	collection string,
	doer transport.Doer,
	c cache.Service,
	convert Converter[W, V],
	opts ...Option,
) *List[W, V] {
	return &List[W, V]{
		collection: collection,
		doer:       doer,
		cache:      c,
		convert:    convert,
		opts:       applyOptions(opts),
		tracker:    newTracker(),
	}
}

// Collection returns the collection name.
func (l *List[W, V]) Collection() string {
	return l.collection
}

// Descriptor resolves params against the configured defaults and builds the
// request target.
func (l *List[W, V]) Descriptor(params *query.Params) (query.Descriptor, error) {
	resolved, err := l.resolve(params)
	if err != nil {
		return query.Descriptor{}, err
	}
	return query.Build(l.collection, resolved), nil
}

func (l *List[W, V]) resolve(params *query.Params) (*query.Params, error) {
	if l.opts.defaults != nil {
		merged, err := query.WithDefaults(params, l.opts.defaults)
		if err != nil {
			return nil, err
		}
		params = merged
	}
	if l.opts.filters != nil {
		if err := params.Validate(l.opts.filters); err != nil {
			return nil, err
		}
	}
	return params, nil
}

// Fetch returns the converted page for params. Equal params share one request
// and one cached result; errors are returned as received.
func (l *List[W, V]) Fetch(ctx context.Context, params *query.Params) (*Result[V], error) {
	d, err := l.Descriptor(params)
	if err != nil {
		return nil, err
	}
	key := cache.Key{Collection: l.collection, Target: d.Target()}
	l.tracker.begin(key.Target)
	v, err := l.cache.ReadOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return l.load(ctx, d)
	})
	if err == nil {
		if _, ok := v.(*Result[V]); !ok {
			err = fmt.Errorf("%w: %s holds %T", ErrCachedType, key, v)
		}
	}
	l.tracker.finish(key.Target, err)
	if err != nil {
		return nil, err
	}
	return v.(*Result[V]), nil
}

// Count returns the total number of records matching filters.
func (l *List[W, V]) Count(ctx context.Context, filters map[string]string) (int, error) {
	res, err := l.Fetch(ctx, &query.Params{
		Pagination: &query.Pagination{Page: 0, PerPage: 1},
		Filters:    filters,
	})
	if err != nil {
		return 0, err
	}
	return res.Total, nil
}

// Status reports the state of the key params resolve to. Params that fail
// validation report idle.
func (l *List[W, V]) Status(params *query.Params) Status {
	d, err := l.Descriptor(params)
	if err != nil {
		return Status{State: StateIdle}
	}
	return l.tracker.get(d.Target())
}

func (l *List[W, V]) load(ctx context.Context, d query.Descriptor) (*Result[V], error) {
	log := logger.FromContext(ctx).With("collection", l.collection, "key", d.Target())
	resp, err := l.doer.Do(ctx, &transport.Request{
		Method: http.MethodGet,
		Path:   d.Path,
		Query:  d.Query,
	})
	if err != nil {
		return nil, err
	}
	records, total, err := decodeList[W](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.Target(), err)
	}
	items := make([]V, len(records))
	for i := range records {
		items[i] = l.convert(records[i])
	}
	log.Debug("Fetched list", "items", len(items), "total", total)
	return &Result[V]{
		Items:     items,
		Total:     total,
		Target:    d.Target(),
		FetchedAt: time.Now(),
	}, nil
}

// decodeList accepts a bare array or a {results, count} envelope. A missing
// count falls back to the array length.
func decodeList[W any](body []byte) ([]W, int, error) {
	if !gjson.ValidBytes(body) {
		return nil, 0, ErrUnexpectedShape
	}
	parsed := gjson.ParseBytes(body)
	raw := body
	count := gjson.Result{}
	switch {
	case parsed.IsArray():
	case parsed.IsObject() && parsed.Get("results").IsArray():
		raw = []byte(parsed.Get("results").Raw)
		count = parsed.Get("count")
	default:
		return nil, 0, ErrUnexpectedShape
	}
	var records []W
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", transport.ErrDecode, err)
	}
	total := len(records)
	if count.Type == gjson.Number {
		total = int(count.Int())
	}
	return records, total, nil
}
