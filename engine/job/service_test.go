package job

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldnet/fieldnet/engine/infra/cache"
	"github.com/fieldnet/fieldnet/engine/mutate"
	"github.com/fieldnet/fieldnet/engine/query"
	"github.com/fieldnet/fieldnet/engine/transport"
)

func newService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := transport.New(transport.Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	mem, err := cache.NewMemory(cache.Config{Size: 16})
	require.NoError(t, err)
	return NewService(client, mem)
}

func TestService_List(t *testing.T) {
	t.Run("Should list a page of jobs", func(t *testing.T) {
		var rawQuery string
		svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(`{"results":[{"id":"1","status":"queued"}],"count":1}`))
		}))
		res, err := svc.List(t.Context(), &query.Params{Pagination: &query.Pagination{Page: 0, PerPage: 20}})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, StatusQueued, res.Items[0].Status)
		assert.Equal(t, "Queued", res.Items[0].StatusLabel)
		assert.Equal(t, 1, res.Total)
		assert.Equal(t, "ordering=-created_at&page=0&page_size=20", rawQuery)
	})
}

func TestService_Control(t *testing.T) {
	t.Run("Should post the action and refresh job lists", func(t *testing.T) {
		var lists, runs atomic.Int32
		mux := http.NewServeMux()
		mux.HandleFunc("GET /jobs/", func(w http.ResponseWriter, _ *http.Request) {
			lists.Add(1)
			_, _ = w.Write([]byte(`[{"id":"1","status":"created"}]`))
		})
		mux.HandleFunc("POST /jobs/{id}/run/", func(w http.ResponseWriter, r *http.Request) {
			runs.Add(1)
			_, _ = w.Write([]byte(`{"id":"` + r.PathValue("id") + `","status":"queued"}`))
		})
		svc := newService(t, mux)
		_, err := svc.List(t.Context(), nil)
		require.NoError(t, err)

		j, err := svc.Start(t.Context(), "1")
		require.NoError(t, err)
		assert.Equal(t, StatusQueued, j.Status)
		assert.True(t, j.CanCancel)
		assert.Equal(t, int32(1), runs.Load())

		_, err = svc.List(t.Context(), nil)
		require.NoError(t, err)
		assert.Equal(t, int32(2), lists.Load())
	})

	t.Run("Should read the job back after an empty response", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /jobs/{id}/cancel/", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		mux.HandleFunc("GET /jobs/{id}/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"` + r.PathValue("id") + `","status":"canceling"}`))
		})
		svc := newService(t, mux)
		j, err := svc.Cancel(t.Context(), "5")
		require.NoError(t, err)
		assert.Equal(t, StatusCanceling, j.Status)
	})

	t.Run("Should require an id", func(t *testing.T) {
		svc := newService(t, http.NotFoundHandler())
		_, err := svc.Retry(t.Context(), "")
		assert.ErrorIs(t, err, mutate.ErrMissingID)
	})
}
