package project

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldnet/fieldnet/engine/core"
)

type fixedCounter struct {
	n     int
	err   error
	calls atomic.Int32
	got   map[string]string
}

func (c *fixedCounter) Count(_ context.Context, filters map[string]string) (int, error) {
	c.calls.Add(1)
	c.got = filters
	return c.n, c.err
}

func TestSummarize(t *testing.T) {
	t.Run("Should count every collection for the project", func(t *testing.T) {
		deployments := &fixedCounter{n: 4}
		occurrences := &fixedCounter{n: 1200}
		species := &fixedCounter{n: 310}
		jobs := &fixedCounter{n: 7}
		summary, err := Summarize(t.Context(), "1", Counters{
			Deployments: deployments,
			Occurrences: occurrences,
			Species:     species,
			Jobs:        jobs,
		})
		require.NoError(t, err)
		assert.Equal(t, &Summary{ProjectID: core.ID("1"), Deployments: 4, Occurrences: 1200, Species: 310, Jobs: 7}, summary)
		assert.Equal(t, map[string]string{"project": "1"}, deployments.got)
		assert.Equal(t, int32(1), jobs.calls.Load())
	})

	t.Run("Should return the first failure", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := Summarize(t.Context(), "1", Counters{
			Deployments: &fixedCounter{n: 1},
			Species:     &fixedCounter{err: boom},
		})
		require.ErrorIs(t, err, boom)
		assert.ErrorContains(t, err, "count species")
	})

	t.Run("Should require a project id", func(t *testing.T) {
		_, err := Summarize(t.Context(), "", Counters{})
		assert.Error(t, err)
	})
}
