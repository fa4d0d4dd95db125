package occurrence

import (
	"context"

	"github.com/fieldnet/fieldnet/engine/fetch"
	"github.com/fieldnet/fieldnet/engine/infra/cache"
	"github.com/fieldnet/fieldnet/engine/query"
	"github.com/fieldnet/fieldnet/engine/transport"
)

const Collection = "occurrences"

var Filters = query.NewFilterSet("project", "deployment", "event", "determination", "classification_threshold")

// Defaults is the page size and ordering used when a caller leaves them unset.
var Defaults = &query.Params{
	Pagination: &query.Pagination{PerPage: 20},
	Sort:       &query.Sort{Field: "first_appearance_timestamp", Order: query.Desc},
}

// Service reads occurrences. Verifying an occurrence is done by creating an
// identification for it.
type Service struct {
	list   *fetch.List[Record, Occurrence]
	detail *fetch.Detail[Record, Occurrence]
}

func NewService(doer transport.Doer, c cache.Service, opts ...fetch.Option) *Service {
	opts = append([]fetch.Option{fetch.WithFilters(Filters), fetch.WithDefaults(Defaults)}, opts...)
	return &Service{
		list:   fetch.NewList(Collection, doer, c, Convert, opts...),
		detail: fetch.NewDetail(Collection, doer, c, Convert, opts...),
	}
}

func (s *Service) List(ctx context.Context, params *query.Params) (*fetch.Result[Occurrence], error) {
	return s.list.Fetch(ctx, params)
}

func (s *Service) Get(ctx context.Context, id string) (*Occurrence, error) {
	return s.detail.Fetch(ctx, id)
}

func (s *Service) Count(ctx context.Context, filters map[string]string) (int, error) {
	return s.list.Count(ctx, filters)
}
