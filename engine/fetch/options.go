package fetch

import (
	"github.com/fieldnet/fieldnet/engine/query"
)

type options struct {
	filters  query.FilterSet
	defaults *query.Params
}

// Option configures a List or Detail fetcher.
type Option func(*options)

// WithFilters restricts list params to the enumerated filter keys.
func WithFilters(filters query.FilterSet) Option {
	return func(o *options) {
		o.filters = filters
	}
}

// WithDefaults fills params members the caller leaves unset.
func WithDefaults(defaults *query.Params) Option {
	return func(o *options) {
		o.defaults = defaults.Clone()
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
