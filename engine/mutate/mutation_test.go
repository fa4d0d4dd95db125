package mutate

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldnet/fieldnet/engine/fetch"
	"github.com/fieldnet/fieldnet/engine/infra/cache"
	"github.com/fieldnet/fieldnet/engine/transport"
)

type request struct {
	method string
	path   string
	body   string
}

type server struct {
	calls    atomic.Int32
	mu       sync.Mutex
	requests []request
	status   int
	payload  string
}

func newServer(t *testing.T, status int, payload string) (*server, transport.Doer) {
	t.Helper()
	s := &server{status: status, payload: payload}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, request{method: r.Method, path: r.URL.Path, body: string(body)})
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.status)
		if s.payload != "" {
			_, _ = w.Write([]byte(s.payload))
		}
	}))
	t.Cleanup(srv.Close)
	client, err := transport.New(transport.Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return s, client
}

func (s *server) last() request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return request{}
	}
	return s.requests[len(s.requests)-1]
}

func seeded(t *testing.T, collections ...string) (*cache.Memory, []cache.Key) {
	t.Helper()
	mem, err := cache.NewMemory(cache.Config{Size: 32})
	require.NoError(t, err)
	keys := make([]cache.Key, 0, len(collections))
	for _, c := range collections {
		key := cache.Key{Collection: c, Target: "/" + c + "/"}
		_, err := mem.ReadOrFetch(t.Context(), key, func(context.Context) (any, error) { return c, nil })
		require.NoError(t, err)
		keys = append(keys, key)
	}
	return mem, keys
}

func stale(t *testing.T, mem *cache.Memory, key cache.Key) bool {
	t.Helper()
	snap, ok := mem.Peek(key)
	require.True(t, ok, "missing entry %s", key)
	return snap.Stale
}

type identificationInput struct {
	OccurrenceID string `json:"occurrence_id" validate:"required"`
	TaxonID      string `json:"taxon_id"      validate:"required"`
	Comment      string `json:"comment,omitempty" validate:"max=10"`
}

type identificationOutput struct {
	ID      string `json:"id"`
	Comment string `json:"comment"`
}

func TestMutation_Do(t *testing.T) {
	t.Run("Should delete and invalidate the collection and its dependents", func(t *testing.T) {
		s, doer := newServer(t, http.StatusNoContent, "")
		mem, keys := seeded(t, "identifications", "occurrences", "species")
		del := New[Empty, Empty]("identifications", http.MethodDelete, doer, mem,
			WithInvalidates("occurrences"),
		)
		assert.Equal(t, fetch.StateIdle, del.Status().State)

		out, err := del.Do(t.Context(), Request[Empty]{ID: "42"})
		require.NoError(t, err)
		assert.NotNil(t, out)
		assert.Equal(t, request{method: http.MethodDelete, path: "/identifications/42/"}, s.last())
		assert.True(t, stale(t, mem, keys[0]))
		assert.True(t, stale(t, mem, keys[1]))
		assert.False(t, stale(t, mem, keys[2]))
		assert.Equal(t, fetch.StateSuccess, del.Status().State)
		assert.Equal(t, []string{"identifications", "occurrences"}, del.Invalidates())
	})

	t.Run("Should post a body and decode the response", func(t *testing.T) {
		s, doer := newServer(t, http.StatusCreated, `{"id":"7","comment":"agree"}`)
		mem, _ := seeded(t)
		create := New[identificationInput, identificationOutput]("identifications", http.MethodPost, doer, mem)
		out, err := create.Do(t.Context(), Request[identificationInput]{
			Body: &identificationInput{OccurrenceID: "3", TaxonID: "11", Comment: "agree"},
		})
		require.NoError(t, err)
		assert.Equal(t, &identificationOutput{ID: "7", Comment: "agree"}, out)
		last := s.last()
		assert.Equal(t, "/identifications/", last.path)
		assert.JSONEq(t, `{"occurrence_id":"3","taxon_id":"11","comment":"agree"}`, last.body)
	})

	t.Run("Should expose server field errors", func(t *testing.T) {
		_, doer := newServer(t, http.StatusBadRequest, `{"email":["already taken"]}`)
		mem, keys := seeded(t, "users")
		signup := New[map[string]string, Empty]("users", http.MethodPost, doer, mem)
		_, err := signup.Do(t.Context(), Request[map[string]string]{Body: &map[string]string{"email": "a@b.org"}})
		require.Error(t, err)
		assert.Equal(t, map[string][]string{"email": {"already taken"}}, FieldErrors(err))
		status := signup.Status()
		assert.Equal(t, fetch.StateError, status.State)
		require.NotNil(t, status.Validation)
		assert.Equal(t, []string{"already taken"}, status.Validation.Field("email"))
		assert.False(t, stale(t, mem, keys[0]))
	})

	t.Run("Should reject invalid payloads without a request", func(t *testing.T) {
		s, doer := newServer(t, http.StatusCreated, `{}`)
		mem, _ := seeded(t)
		create := New[identificationInput, identificationOutput]("identifications", http.MethodPost, doer, mem)
		_, err := create.Do(t.Context(), Request[identificationInput]{
			Body: &identificationInput{OccurrenceID: "3", Comment: "far too long a comment"},
		})
		require.ErrorIs(t, err, transport.ErrValidation)
		fields := FieldErrors(err)
		assert.Equal(t, []string{"This field is required."}, fields["taxon_id"])
		assert.Len(t, fields["comment"], 1)
		assert.Equal(t, int32(0), s.calls.Load())
	})

	t.Run("Should send a request per call", func(t *testing.T) {
		s, doer := newServer(t, http.StatusOK, `{"id":"1"}`)
		mem, _ := seeded(t)
		run := New[Empty, identificationOutput]("jobs", http.MethodPost, doer, mem)
		for range 2 {
			_, err := run.Do(t.Context(), Request[Empty]{ID: "9", Action: "run"})
			require.NoError(t, err)
		}
		assert.Equal(t, int32(2), s.calls.Load())
		assert.Equal(t, "/jobs/9/run/", s.last().path)
	})

	t.Run("Should nest under a parent resource", func(t *testing.T) {
		s, doer := newServer(t, http.StatusCreated, `{}`)
		mem, _ := seeded(t)
		create := New[Empty, Empty]("members", http.MethodPost, doer, mem, WithParent("projects"))
		_, err := create.Do(t.Context(), Request[Empty]{ParentID: "4"})
		require.NoError(t, err)
		assert.Equal(t, "/projects/4/members/", s.last().path)
		_, err = create.Do(t.Context(), Request[Empty]{})
		assert.Error(t, err)
	})

	t.Run("Should fail on undecodable responses", func(t *testing.T) {
		_, doer := newServer(t, http.StatusOK, `{"id": 5`)
		mem, _ := seeded(t)
		update := New[Empty, identificationOutput]("identifications", http.MethodPatch, doer, mem)
		_, err := update.Do(t.Context(), Request[Empty]{ID: "1"})
		assert.ErrorIs(t, err, transport.ErrDecode)
	})
}

type failingCache struct {
	cache.Service
}

func (failingCache) Invalidate(context.Context, ...string) error {
	return errors.New("redis down")
}

func TestMutation_MissingID(t *testing.T) {
	t.Run("Should require an id for record-level methods", func(t *testing.T) {
		s, doer := newServer(t, http.StatusNoContent, "")
		mem, _ := seeded(t)
		del := New[Empty, Empty]("identifications", http.MethodDelete, doer, mem)
		_, err := del.Do(t.Context(), Request[Empty]{})
		assert.ErrorIs(t, err, ErrMissingID)
		assert.Equal(t, int32(0), s.calls.Load())
		assert.Equal(t, fetch.StateError, del.Status().State)
	})
}

func TestMutation_InvalidationFailure(t *testing.T) {
	t.Run("Should succeed when invalidation fails", func(t *testing.T) {
		_, doer := newServer(t, http.StatusNoContent, "")
		del := New[Empty, Empty]("identifications", http.MethodDelete, doer, failingCache{})
		_, err := del.Do(t.Context(), Request[Empty]{ID: "1"})
		require.NoError(t, err)
		assert.Equal(t, fetch.StateSuccess, del.Status().State)
	})
}

func TestFieldErrors(t *testing.T) {
	t.Run("Should return nil for other errors", func(t *testing.T) {
		assert.Nil(t, FieldErrors(errors.New("boom")))
		assert.Nil(t, FieldErrors(nil))
	})
}
