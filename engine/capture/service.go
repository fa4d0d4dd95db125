package capture

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fieldnet/fieldnet/engine/fetch"
	"github.com/fieldnet/fieldnet/engine/infra/cache"
	"github.com/fieldnet/fieldnet/engine/mutate"
	"github.com/fieldnet/fieldnet/engine/query"
	"github.com/fieldnet/fieldnet/engine/transport"
)

const Collection = "captures"

var Filters = query.NewFilterSet("project", "deployment", "event")

// Defaults is the page size and ordering used when a caller leaves them unset.
var Defaults = &query.Params{
	Pagination: &query.Pagination{PerPage: 20},
	Sort:       &query.Sort{Field: "timestamp", Order: query.Desc},
}

const (
	actionStar   = "star"
	actionUnstar = "unstar"
)

// Service reads captures and toggles their starred flag.
type Service struct {
	list   *fetch.List[Record, Capture]
	detail *fetch.Detail[Record, Capture]
	star   *mutate.Mutation[mutate.Empty, mutate.Empty]
}

func NewService(doer transport.Doer, c cache.Service, opts ...fetch.Option) *Service {
	opts = append([]fetch.Option{fetch.WithFilters(Filters), fetch.WithDefaults(Defaults)}, opts...)
	return &Service{
		list:   fetch.NewList(Collection, doer, c, Convert, opts...),
		detail: fetch.NewDetail(Collection, doer, c, Convert, opts...),
		star:   mutate.New[mutate.Empty, mutate.Empty](Collection, http.MethodPost, doer, c),
	}
}

func (s *Service) List(ctx context.Context, params *query.Params) (*fetch.Result[Capture], error) {
	return s.list.Fetch(ctx, params)
}

func (s *Service) Get(ctx context.Context, id string) (*Capture, error) {
	return s.detail.Fetch(ctx, id)
}

func (s *Service) Count(ctx context.Context, filters map[string]string) (int, error) {
	return s.list.Count(ctx, filters)
}

// SetStarred stars or unstars the capture with id.
func (s *Service) SetStarred(ctx context.Context, id string, starred bool) error {
	if id == "" {
		return fmt.Errorf("%w: star %s", mutate.ErrMissingID, Collection)
	}
	action := actionUnstar
	if starred {
		action = actionStar
	}
	_, err := s.star.Do(ctx, mutate.Request[mutate.Empty]{ID: id, Action: action})
	return err
}
