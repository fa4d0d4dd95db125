package job

import (
	"context"
	"net/http"

	"github.com/fieldnet/fieldnet/engine/fetch"
	"github.com/fieldnet/fieldnet/engine/infra/cache"
	"github.com/fieldnet/fieldnet/engine/mutate"
	"github.com/fieldnet/fieldnet/engine/query"
	"github.com/fieldnet/fieldnet/engine/transport"
)

const Collection = "jobs"

var Filters = query.NewFilterSet("project", "deployment", "pipeline", "source_image_collection")

// Defaults is the page size and ordering used when a caller leaves them unset.
var Defaults = &query.Params{
	Pagination: &query.Pagination{PerPage: 20},
	Sort:       &query.Sort{Field: "created_at", Order: query.Desc},
}

// Action is a job control endpoint: POST /jobs/{id}/{action}/.
type Action string

const (
	ActionStart  Action = "run"
	ActionCancel Action = "cancel"
	ActionRetry  Action = "retry"
)

type Service struct {
	list    *fetch.List[Record, Job]
	detail  *fetch.Detail[Record, Job]
	create  *mutate.Mutation[Input, Record]
	control *mutate.Mutation[mutate.Empty, Record]
	remove  *mutate.Mutation[mutate.Empty, mutate.Empty]
}

func NewService(doer transport.Doer, c cache.Service, opts ...fetch.Option) *Service {
	opts = append([]fetch.Option{fetch.WithFilters(Filters), fetch.WithDefaults(Defaults)}, opts...)
	return &Service{
		list:    fetch.NewList(Collection, doer, c, Convert, opts...),
		detail:  fetch.NewDetail(Collection, doer, c, Convert, opts...),
		create:  mutate.New[Input, Record](Collection, http.MethodPost, doer, c),
		control: mutate.New[mutate.Empty, Record](Collection, http.MethodPost, doer, c),
		remove:  mutate.New[mutate.Empty, mutate.Empty](Collection, http.MethodDelete, doer, c),
	}
}

func (s *Service) List(ctx context.Context, params *query.Params) (*fetch.Result[Job], error) {
	return s.list.Fetch(ctx, params)
}

func (s *Service) Get(ctx context.Context, id string) (*Job, error) {
	return s.detail.Fetch(ctx, id)
}

func (s *Service) Count(ctx context.Context, filters map[string]string) (int, error) {
	return s.list.Count(ctx, filters)
}

func (s *Service) Create(ctx context.Context, in *Input) (*Job, error) {
	out, err := s.create.Do(ctx, mutate.Request[Input]{Body: in})
	if err != nil {
		return nil, err
	}
	j := Convert(*out)
	return &j, nil
}

// Control sends action to the job with id. When the backend answers without
// a body the job is read back.
func (s *Service) Control(ctx context.Context, id string, action Action) (*Job, error) {
	if id == "" {
		return nil, mutate.ErrMissingID
	}
	out, err := s.control.Do(ctx, mutate.Request[mutate.Empty]{ID: id, Action: string(action)})
	if err != nil {
		return nil, err
	}
	if out.ID.IsZero() {
		return s.Get(ctx, id)
	}
	j := Convert(*out)
	return &j, nil
}

func (s *Service) Start(ctx context.Context, id string) (*Job, error) {
	return s.Control(ctx, id, ActionStart)
}

func (s *Service) Cancel(ctx context.Context, id string) (*Job, error) {
	return s.Control(ctx, id, ActionCancel)
}

func (s *Service) Retry(ctx context.Context, id string) (*Job, error) {
	return s.Control(ctx, id, ActionRetry)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.remove.Do(ctx, mutate.Request[mutate.Empty]{ID: id})
	return err
}
