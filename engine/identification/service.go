package identification

import (
	"context"
	"net/http"

	"github.com/fieldnet/fieldnet/engine/fetch"
	"github.com/fieldnet/fieldnet/engine/infra/cache"
	"github.com/fieldnet/fieldnet/engine/mutate"
	"github.com/fieldnet/fieldnet/engine/occurrence"
	"github.com/fieldnet/fieldnet/engine/query"
	"github.com/fieldnet/fieldnet/engine/transport"
)

const Collection = "identifications"

var Filters = query.NewFilterSet("occurrence", "user")

// Defaults is the page size and ordering used when a caller leaves them unset.
var Defaults = &query.Params{
	Pagination: &query.Pagination{PerPage: 20},
	Sort:       &query.Sort{Field: "created_at", Order: query.Desc},
}

// Service reads and writes identifications. Every write also invalidates
// occurrences, whose determinations derive from identifications.
type Service struct {
	list   *fetch.List[Record, Identification]
	detail *fetch.Detail[Record, Identification]
	create *mutate.Mutation[Input, Record]
	remove *mutate.Mutation[mutate.Empty, mutate.Empty]
}

func NewService(doer transport.Doer, c cache.Service, opts ...fetch.Option) *Service {
	opts = append([]fetch.Option{fetch.WithFilters(Filters), fetch.WithDefaults(Defaults)}, opts...)
	dependents := mutate.WithInvalidates(occurrence.Collection)
	return &Service{
		list:   fetch.NewList(Collection, doer, c, Convert, opts...),
		detail: fetch.NewDetail(Collection, doer, c, Convert, opts...),
		create: mutate.New[Input, Record](Collection, http.MethodPost, doer, c, dependents),
		remove: mutate.New[mutate.Empty, mutate.Empty](Collection, http.MethodDelete, doer, c, dependents),
	}
}

func (s *Service) List(ctx context.Context, params *query.Params) (*fetch.Result[Identification], error) {
	return s.list.Fetch(ctx, params)
}

func (s *Service) Get(ctx context.Context, id string) (*Identification, error) {
	return s.detail.Fetch(ctx, id)
}

func (s *Service) Create(ctx context.Context, in *Input) (*Identification, error) {
	out, err := s.create.Do(ctx, mutate.Request[Input]{Body: in})
	if err != nil {
		return nil, err
	}
	i := Convert(*out)
	return &i, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.remove.Do(ctx, mutate.Request[mutate.Empty]{ID: id})
	return err
}

// CreateStatus reports the state of the last Create call.
func (s *Service) CreateStatus() mutate.Status {
	return s.create.Status()
}
