package mutate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fieldnet/fieldnet/engine/fetch"
	"github.com/fieldnet/fieldnet/engine/infra/cache"
	"github.com/fieldnet/fieldnet/engine/transport"
	"github.com/fieldnet/fieldnet/pkg/logger"
)

// ErrMissingID is returned when a record-level method is called without an id.
var ErrMissingID = errors.New("mutate: record id is required")

// Empty is the request or response type of calls without a body.
type Empty struct{}

// Request is one write call. ID selects a record, ParentID a parent resource
// for mutations declared WithParent, Action a sub-resource such as "run".
type Request[Req any] struct {
	ID       string
	ParentID string
	Action   string
	Body     *Req
	Auth     transport.Auth
}

// Status is the observable state of a mutation. Validation is set when the
// last failure carried field-level errors.
type Status struct {
	State      fetch.State
	Err        error
	Validation *transport.ValidationError
	UpdatedAt  time.Time
}

func (s Status) IsLoading() bool {
	return s.State == fetch.StateLoading
}

// Mutation performs one kind of write against a collection and, on success,
// invalidates the collection and its declared dependents.
type Mutation[Req, Resp any] struct {
	collection string
	method     string
	doer       transport.Doer
	cache      cache.Service
	invalidate []string
	parent     string
	validate   *validator.Validate

	mu     sync.Mutex
	status Status
}

// Option configures a Mutation.
type Option func(*config)

type config struct {
	dependents []string
	parent     string
}

// WithInvalidates declares collections whose cached reads become stale when
// the mutation succeeds.
func WithInvalidates(collections ...string) Option {
	return func(c *config) {
		c.dependents = append(c.dependents, collections...)
	}
}

// WithParent nests the mutation under parent: /parent/{ParentID}/collection/.
func WithParent(parent string) Option {
	return func(c *config) {
		c.parent = parent
	}
}

// New creates a mutation issuing method requests against collection.
func New[Req, Resp any](
	collection string,
	method string,
	doer transport.Doer,
	c cache.Service,
	opts ...Option,
) *Mutation[Req, Resp] {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	invalidate := append([]string{collection}, cfg.dependents...)
	slices.Sort(invalidate)
	return &Mutation[Req, Resp]{
		collection: collection,
		method:     method,
		doer:       doer,
		cache:      c,
		invalidate: slices.Compact(invalidate),
		parent:     cfg.parent,
		validate:   Validator(),
		status:     Status{State: fetch.StateIdle},
	}
}

// Invalidates returns the collections marked stale on success.
func (m *Mutation[Req, Resp]) Invalidates() []string {
	return slices.Clone(m.invalidate)
}

// Do sends the request. Every call issues a new HTTP request. On success the
// decoded body is returned (zero Resp for empty bodies) and the affected
// collections are invalidated; an invalidation failure is logged, not
// returned, since the write itself succeeded.
func (m *Mutation[Req, Resp]) Do(ctx context.Context, req Request[Req]) (*Resp, error) {
	log := logger.FromContext(ctx).With("collection", m.collection, "method", m.method)
	m.setStatus(Status{State: fetch.StateLoading})
	out, err := m.send(ctx, req)
	if err != nil {
		recordMutationError(ctx, m.collection, errorKind(err))
		status := Status{State: fetch.StateError, Err: err}
		var vErr *transport.ValidationError
		if errors.As(err, &vErr) {
			status.Validation = vErr
		}
		m.setStatus(status)
		log.Debug("Mutation failed", "error", err)
		return nil, err
	}
	if err := m.cache.Invalidate(ctx, m.invalidate...); err != nil {
		log.Warn("Failed to invalidate collections", "collections", m.invalidate, "error", err)
	}
	m.setStatus(Status{State: fetch.StateSuccess})
	log.Debug("Mutation succeeded", "invalidated", m.invalidate)
	return out, nil
}

func (m *Mutation[Req, Resp]) send(ctx context.Context, req Request[Req]) (*Resp, error) {
	var body any
	if req.Body != nil {
		if err := validatePayload(m.validate, req.Body); err != nil {
			return nil, err
		}
		body = req.Body
	}
	path, err := m.path(req)
	if err != nil {
		return nil, err
	}
	resp, err := m.doer.Do(ctx, &transport.Request{
		Method: m.method,
		Path:   path,
		Body:   body,
		Auth:   req.Auth,
	})
	if err != nil {
		return nil, err
	}
	out := new(Resp)
	if resp.Status == http.StatusNoContent || resp.Empty() {
		return out, nil
	}
	if err := transport.Decode(resp, out); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", m.method, path, err)
	}
	return out, nil
}

func (m *Mutation[Req, Resp]) path(req Request[Req]) (string, error) {
	parts := make([]string, 0, 5)
	if m.parent != "" {
		if req.ParentID == "" {
			return "", fmt.Errorf("%s: parent %s id is required", m.collection, m.parent)
		}
		parts = append(parts, m.parent, req.ParentID)
	}
	parts = append(parts, m.collection)
	if req.ID == "" && requiresID(m.method) {
		return "", fmt.Errorf("%w: %s %s", ErrMissingID, m.method, m.collection)
	}
	if req.ID != "" {
		parts = append(parts, req.ID)
	}
	if req.Action != "" {
		parts = append(parts, req.Action)
	}
	return "/" + strings.Join(parts, "/") + "/", nil
}

func requiresID(method string) bool {
	switch method {
	case http.MethodPatch, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// Status returns the state of the last call.
func (m *Mutation[Req, Resp]) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Mutation[Req, Resp]) setStatus(s Status) {
	s.UpdatedAt = time.Now()
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
}

// FieldErrors returns the field-keyed messages carried by err, or nil.
func FieldErrors(err error) map[string][]string {
	var vErr *transport.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Fields
	}
	return nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, transport.ErrValidation):
		return "validation"
	case errors.Is(err, transport.ErrNetwork):
		return "network"
	case errors.Is(err, transport.ErrStatus):
		return "status"
	case errors.Is(err, transport.ErrDecode):
		return "decode"
	default:
		return "other"
	}
}
