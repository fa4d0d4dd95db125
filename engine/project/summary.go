package project

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/fieldnet/fieldnet/engine/core"
	"github.com/fieldnet/fieldnet/pkg/logger"
)

// Counter counts the records of one collection matching filters.
type Counter interface {
	Count(ctx context.Context, filters map[string]string) (int, error)
}

// Counters are the collections a Summary covers. Nil members are skipped
// and report zero.
type Counters struct {
	Deployments Counter
	Sessions    Counter
	Captures    Counter
	Occurrences Counter
	Species     Counter
	Jobs        Counter
}

// Summary holds per-collection record counts for one project.
type Summary struct {
	ProjectID   core.ID
	Deployments int
	Sessions    int
	Captures    int
	Occurrences int
	Species     int
	Jobs        int
}

// Summarize counts every collection for projectID concurrently. The first
// failing count cancels the rest and is returned.
func Summarize(ctx context.Context, projectID string, counters Counters) (*Summary, error) {
	if projectID == "" {
		return nil, fmt.Errorf("summary: project id is required")
	}
	summary := &Summary{ProjectID: core.ID(projectID)}
	targets := []struct {
		name    string
		counter Counter
		dst     *int
	}{
		{"deployments", counters.Deployments, &summary.Deployments},
		{"events", counters.Sessions, &summary.Sessions},
		{"captures", counters.Captures, &summary.Captures},
		{"occurrences", counters.Occurrences, &summary.Occurrences},
		{"species", counters.Species, &summary.Species},
		{"jobs", counters.Jobs, &summary.Jobs},
	}
	filters := map[string]string{"project": projectID}
	g, gctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		if target.counter == nil {
			continue
		}
		g.Go(func() error {
			n, err := target.counter.Count(gctx, filters)
			if err != nil {
				return fmt.Errorf("count %s: %w", target.name, err)
			}
			*target.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("Summarized project", "project", projectID, "deployments", summary.Deployments,
		"occurrences", summary.Occurrences, "species", summary.Species, "jobs", summary.Jobs)
	return summary, nil
}
