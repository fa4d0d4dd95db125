package deployment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldnet/fieldnet/engine/infra/cache"
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

type deploymentBackend struct {
	lists   atomic.Int32
	created atomic.Int32
	patched atomic.Int32
	deleted atomic.Int32
}

func (b *deploymentBackend) mux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /deployments/", func(w http.ResponseWriter, _ *http.Request) {
		b.lists.Add(1)
		_, _ = w.Write([]byte(`{"results":[{"id":"9","name":"Existing"}],"count":1}`))
	})
	mux.HandleFunc("POST /deployments/", func(w http.ResponseWriter, r *http.Request) {
		b.created.Add(1)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"10","name":"` + body["name"].(string) + `"}`))
	})
	mux.HandleFunc("PATCH /deployments/{id}/", func(w http.ResponseWriter, r *http.Request) {
		b.patched.Add(1)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"name": "Renamed"}, body)
		_, _ = w.Write([]byte(`{"id":"` + r.PathValue("id") + `","name":"Renamed"}`))
	})
	mux.HandleFunc("DELETE /deployments/{id}/", func(w http.ResponseWriter, _ *http.Request) {
		b.deleted.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func TestService_Mutations(t *testing.T) {
	t.Run("Should create and refresh cached deployments lists", func(t *testing.T) {
		b := &deploymentBackend{}
		svc := newService(t, b.mux(t))
		_, err := svc.List(t.Context(), nil)
		require.NoError(t, err)
		_, err = svc.List(t.Context(), nil)
		require.NoError(t, err)
		assert.Equal(t, int32(1), b.lists.Load())

		out, err := svc.Create(t.Context(), &Input{ProjectID: "3", Name: "Trap A"})
		require.NoError(t, err)
		assert.Equal(t, "10", out.ID.String())
		assert.Equal(t, int32(1), b.created.Load())

		_, err = svc.List(t.Context(), nil)
		require.NoError(t, err)
		assert.Equal(t, int32(2), b.lists.Load())
	})

	t.Run("Should patch only the set members and refresh lists", func(t *testing.T) {
		b := &deploymentBackend{}
		svc := newService(t, b.mux(t))
		_, err := svc.List(t.Context(), nil)
		require.NoError(t, err)

		name := "Renamed"
		out, err := svc.Update(t.Context(), "9", &Patch{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", out.Name)
		assert.Equal(t, int32(1), b.patched.Load())

		_, err = svc.List(t.Context(), nil)
		require.NoError(t, err)
		assert.Equal(t, int32(2), b.lists.Load())
	})

	t.Run("Should delete and refresh lists", func(t *testing.T) {
		b := &deploymentBackend{}
		svc := newService(t, b.mux(t))
		_, err := svc.List(t.Context(), nil)
		require.NoError(t, err)

		require.NoError(t, svc.Delete(t.Context(), "9"))
		assert.Equal(t, int32(1), b.deleted.Load())

		_, err = svc.List(t.Context(), nil)
		require.NoError(t, err)
		assert.Equal(t, int32(2), b.lists.Load())
	})

	t.Run("Should reject an invalid payload without a request", func(t *testing.T) {
		b := &deploymentBackend{}
		svc := newService(t, b.mux(t))
		_, err := svc.Create(t.Context(), &Input{ProjectID: "3"})
		var vErr *transport.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "name")
		assert.Equal(t, int32(0), b.created.Load())
	})
}
