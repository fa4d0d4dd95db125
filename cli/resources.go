package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/fieldnet/fieldnet/engine/capture"
	"github.com/fieldnet/fieldnet/engine/core"
	"github.com/fieldnet/fieldnet/engine/deployment"
	"github.com/fieldnet/fieldnet/engine/fetch"
	"github.com/fieldnet/fieldnet/engine/identification"
	"github.com/fieldnet/fieldnet/engine/job"
	"github.com/fieldnet/fieldnet/engine/occurrence"
	"github.com/fieldnet/fieldnet/engine/project"
	"github.com/fieldnet/fieldnet/engine/query"
	"github.com/fieldnet/fieldnet/engine/session"
	"github.com/fieldnet/fieldnet/engine/species"
	"github.com/fieldnet/fieldnet/engine/taxa"
)

type listFunc func(ctx context.Context, ex *Executor, params *query.Params) (*view, int, error)

type getFunc func(ctx context.Context, ex *Executor, id string) (*view, error)

// resource describes how the CLI lists and shows one collection.
type resource struct {
	collection string
	aliases    []string
	filters    query.FilterSet
	list       listFunc
	get        getFunc
}

func listOf[V any](
	columns []string,
	row func(V) []string,
	fn func(*Executor) func(context.Context, *query.Params) (*fetch.Result[V], error),
) listFunc {
	return func(ctx context.Context, ex *Executor, params *query.Params) (*view, int, error) {
		res, err := fn(ex)(ctx, params)
		if err != nil {
			return nil, 0, err
		}
		rows := make([][]string, len(res.Items))
		for i := range res.Items {
			rows[i] = row(res.Items[i])
		}
		return &view{Columns: columns, Rows: rows, Data: res.Items}, res.Total, nil
	}
}

func getOf[V any](
	columns []string,
	row func(V) []string,
	fn func(*Executor) func(context.Context, string) (*V, error),
) getFunc {
	return func(ctx context.Context, ex *Executor, id string) (*view, error) {
		item, err := fn(ex)(ctx, id)
		if err != nil {
			return nil, err
		}
		return &view{Columns: columns, Rows: [][]string{row(*item)}, Data: item}, nil
	}
}

func resourceOf[V any](
	collection string,
	filters query.FilterSet,
	columns []string,
	row func(V) []string,
	list func(*Executor) func(context.Context, *query.Params) (*fetch.Result[V], error),
	get func(*Executor) func(context.Context, string) (*V, error),
	aliases ...string,
) resource {
	return resource{
		collection: collection,
		aliases:    aliases,
		filters:    filters,
		list:       listOf(columns, row, list),
		get:        getOf(columns, row, get),
	}
}

var resources = []resource{
	resourceOf(project.Collection, project.Filters,
		[]string{"ID", "Name", "Deployments", "Created"},
		func(p project.Project) []string {
			return []string{p.ID.String(), p.Name, p.DeploymentsLabel, p.CreatedLabel}
		},
		func(ex *Executor) func(context.Context, *query.Params) (*fetch.Result[project.Project], error) {
			return ex.Projects.List
		},
		func(ex *Executor) func(context.Context, string) (*project.Project, error) { return ex.Projects.Get },
	),
	resourceOf(deployment.Collection, deployment.Filters,
		[]string{"ID", "Name", "Site", "Location", "Captures", "Dates"},
		func(d deployment.Deployment) []string {
			return []string{d.ID.String(), d.Name, d.ResearchSiteName, d.Location, d.CapturesLabel, d.DateSpan}
		},
		func(ex *Executor) func(context.Context, *query.Params) (*fetch.Result[deployment.Deployment], error) {
			return ex.Deployments.List
		},
		func(ex *Executor) func(context.Context, string) (*deployment.Deployment, error) {
			return ex.Deployments.Get
		},
	),
	resourceOf(session.Collection, session.Filters,
		[]string{"ID", "Deployment", "Dates", "Duration", "Captures"},
		func(s session.Session) []string {
			return []string{s.ID.String(), s.DeploymentName, s.DateSpan, s.DurationLabel, s.CapturesLabel}
		},
		func(ex *Executor) func(context.Context, *query.Params) (*fetch.Result[session.Session], error) {
			return ex.Sessions.List
		},
		func(ex *Executor) func(context.Context, string) (*session.Session, error) { return ex.Sessions.Get },
		"sessions",
	),
	resourceOf(capture.Collection, capture.Filters,
		[]string{"ID", "Deployment", "Time", "Detections", "Starred"},
		func(c capture.Capture) []string {
			return []string{c.ID.String(), c.DeploymentName, c.TimeLabel, c.DetectionsLabel, yesNo(c.Starred)}
		},
		func(ex *Executor) func(context.Context, *query.Params) (*fetch.Result[capture.Capture], error) {
			return ex.Captures.List
		},
		func(ex *Executor) func(context.Context, string) (*capture.Capture, error) { return ex.Captures.Get },
	),
	resourceOf(occurrence.Collection, occurrence.Filters,
		[]string{"ID", "Determination", "Score", "Verified", "Deployment", "Date"},
		func(o occurrence.Occurrence) []string {
			return []string{
				o.ID.String(), o.DeterminationName, o.DeterminationScoreLabel,
				yesNo(o.Verified), o.DeploymentName, o.DateLabel,
			}
		},
		func(ex *Executor) func(context.Context, *query.Params) (*fetch.Result[occurrence.Occurrence], error) {
			return ex.Occurrences.List
		},
		func(ex *Executor) func(context.Context, string) (*occurrence.Occurrence, error) {
			return ex.Occurrences.Get
		},
	),
	resourceOf(identification.Collection, identification.Filters,
		[]string{"ID", "Occurrence", "Taxon", "User", "Created"},
		func(i identification.Identification) []string {
			return []string{i.ID.String(), i.OccurrenceID.String(), i.TaxonName, i.UserName, i.CreatedLabel}
		},
		func(
			ex *Executor,
		) func(context.Context, *query.Params) (*fetch.Result[identification.Identification], error) {
			return ex.Identifications.List
		},
		func(ex *Executor) func(context.Context, string) (*identification.Identification, error) {
			return ex.Identifications.Get
		},
	),
	resourceOf(species.Collection, species.Filters,
		[]string{"ID", "Name", "Rank", "Occurrences", "Best score", "Last seen"},
		func(s species.Species) []string {
			return []string{s.ID.String(), s.Name, s.RankLabel, s.OccurrencesLabel, s.ScoreLabel, s.LastDetectedLabel}
		},
		func(ex *Executor) func(context.Context, *query.Params) (*fetch.Result[species.Species], error) {
			return ex.Species.List
		},
		func(ex *Executor) func(context.Context, string) (*species.Species, error) { return ex.Species.Get },
	),
	resourceOf(taxa.Collection, taxa.Filters,
		[]string{"ID", "Name", "Rank", "Parent", "Occurrences"},
		func(t taxa.Taxon) []string {
			return []string{t.ID.String(), t.Name, t.RankLabel, t.ParentName, t.OccurrencesLabel}
		},
		func(ex *Executor) func(context.Context, *query.Params) (*fetch.Result[taxa.Taxon], error) {
			return ex.Taxa.List
		},
		func(ex *Executor) func(context.Context, string) (*taxa.Taxon, error) { return ex.Taxa.Get },
	),
	resourceOf(job.Collection, job.Filters,
		jobColumns,
		jobRow,
		func(ex *Executor) func(context.Context, *query.Params) (*fetch.Result[job.Job], error) {
			return ex.Jobs.List
		},
		func(ex *Executor) func(context.Context, string) (*job.Job, error) { return ex.Jobs.Get },
	),
}

var jobColumns = []string{"ID", "Name", "Status", "Progress", "Pipeline", "Elapsed"}

func jobRow(j job.Job) []string {
	return []string{j.ID.String(), j.Name, j.StatusLabel, j.ProgressLabel, j.PipelineName, j.ElapsedLabel}
}

func lookupResource(name string) (resource, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range resources {
		if r.collection == name || slices.Contains(r.aliases, name) {
			return r, nil
		}
	}
	return resource{}, newCliError("UNKNOWN_COLLECTION",
		fmt.Sprintf("unknown collection %q (known: %s)", name, strings.Join(collectionNames(), ", ")), nil)
}

func collectionNames() []string {
	names := make([]string, len(resources))
	for i, r := range resources {
		names[i] = r.collection
	}
	return names
}

// commonRanksFooter lists the ranks shared by every taxon of a page.
func commonRanksFooter(items any) []string {
	list, ok := items.([]taxa.Taxon)
	if !ok {
		return nil
	}
	ranks := taxa.CommonRanks(list)
	if len(ranks) == 0 {
		return nil
	}
	labels := make([]string, len(ranks))
	for i, r := range ranks {
		labels[i] = r.Label()
	}
	return []string{"Common ranks: " + strings.Join(labels, ", ")}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return ""
}

func idArg(raw string) core.ID {
	return core.ID(strings.TrimSpace(raw))
}
