package project

import (
	"context"
	"net/http"

	"github.com/fieldnet/fieldnet/engine/fetch"
	"github.com/fieldnet/fieldnet/engine/infra/cache"
	"github.com/fieldnet/fieldnet/engine/mutate"
	"github.com/fieldnet/fieldnet/engine/query"
	"github.com/fieldnet/fieldnet/engine/transport"
)

const Collection = "projects"

var Filters = query.NewFilterSet("user_id")

// Defaults is the page size and ordering used when a caller leaves them unset.
var Defaults = &query.Params{
	Pagination: &query.Pagination{PerPage: 20},
	Sort:       &query.Sort{Field: "created_at", Order: query.Desc},
}

type Service struct {
	list   *fetch.List[Record, Project]
	detail *fetch.Detail[Record, Project]
	create *mutate.Mutation[Input, Record]
	update *mutate.Mutation[Patch, Record]
	remove *mutate.Mutation[mutate.Empty, mutate.Empty]
}

func NewService(doer transport.Doer, c cache.Service, opts ...fetch.Option) *Service {
	opts = append([]fetch.Option{fetch.WithFilters(Filters), fetch.WithDefaults(Defaults)}, opts...)
	return &Service{
		list:   fetch.NewList(Collection, doer, c, Convert, opts...),
		detail: fetch.NewDetail(Collection, doer, c, Convert, opts...),
		create: mutate.New[Input, Record](Collection, http.MethodPost, doer, c),
		update: mutate.New[Patch, Record](Collection, http.MethodPatch, doer, c),
		remove: mutate.New[mutate.Empty, mutate.Empty](Collection, http.MethodDelete, doer, c),
	}
}

func (s *Service) List(ctx context.Context, params *query.Params) (*fetch.Result[Project], error) {
	return s.list.Fetch(ctx, params)
}

func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	return s.detail.Fetch(ctx, id)
}

func (s *Service) Count(ctx context.Context, filters map[string]string) (int, error) {
	return s.list.Count(ctx, filters)
}

func (s *Service) Create(ctx context.Context, in *Input) (*Project, error) {
	out, err := s.create.Do(ctx, mutate.Request[Input]{Body: in})
	if err != nil {
		return nil, err
	}
	p := Convert(*out)
	return &p, nil
}

func (s *Service) Update(ctx context.Context, id string, patch *Patch) (*Project, error) {
	out, err := s.update.Do(ctx, mutate.Request[Patch]{ID: id, Body: patch})
	if err != nil {
		return nil, err
	}
	p := Convert(*out)
	return &p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.remove.Do(ctx, mutate.Request[mutate.Empty]{ID: id})
	return err
}
