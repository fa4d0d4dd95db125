package query

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrUnknownFilter     = errors.New("query: unknown filter")
	ErrInvalidPagination = errors.New("query: invalid pagination")
	ErrInvalidSort       = errors.New("query: invalid sort")
)

// FilterSet enumerates the filter keys a collection accepts.
type FilterSet []string

// NewFilterSet returns the sorted set of keys.
func NewFilterSet(keys ...string) FilterSet {
	fs := slices.Clone(keys)
	slices.Sort(fs)
	return slices.Compact(fs)
}

// Allows reports whether key is part of the set.
func (fs FilterSet) Allows(key string) bool {
	_, found := slices.BinarySearch(fs, key)
	return found
}

// Validate checks params against the accepted filters.
func (p *Params) Validate(filters FilterSet) error {
	if p == nil {
		return nil
	}
	if pg := p.Pagination; pg != nil && (pg.Page < 0 || pg.PerPage < 0) {
		return fmt.Errorf("%w: page=%d per_page=%d", ErrInvalidPagination, pg.Page, pg.PerPage)
	}
	if s := p.Sort; s != nil {
		switch s.Order {
		case "", Asc, Desc:
		default:
			return fmt.Errorf("%w: order %q", ErrInvalidSort, s.Order)
		}
	}
	for key := range p.Filters {
		if !filters.Allows(key) {
			return fmt.Errorf("%w: %q", ErrUnknownFilter, key)
		}
	}
	return nil
}
