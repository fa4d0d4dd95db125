package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fieldnet/fieldnet/engine/identification"
	"github.com/fieldnet/fieldnet/engine/job"
	"github.com/fieldnet/fieldnet/engine/project"
	"github.com/fieldnet/fieldnet/engine/query"
)

const defaultPerPage = 20

// listPage is the JSON shape of a listed page.
type listPage struct {
	Collection string `json:"collection"`
	Count      int    `json:"count"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Results    any    `json:"results"`
}

func ListCmd() *cobra.Command {
	var (
		projectID string
		page      int
		perPage   int
		sort      string
		filters   map[string]string
	)
	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "List one page of a collection",
		Long: "List one page of a collection. Known collections: " +
			strings.Join(collectionNames(), ", ") + ".",
		Args: cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, ex *Executor, args []string) error {
			res, err := lookupResource(args[0])
			if err != nil {
				return err
			}
			params := &query.Params{
				Pagination: &query.Pagination{Page: page, PerPage: perPage},
				Sort:       query.ParseSort(sort),
				Filters:    make(map[string]string, len(filters)+1),
			}
			for k, v := range filters {
				params.Filters[k] = v
			}
			if projectID != "" && res.filters.Allows("project") {
				params.Filters["project"] = projectID
			}
			v, total, err := res.list(ctx, ex, params)
			if err != nil {
				return err
			}
			if res.collection == "taxa" {
				v.Footer = append(v.Footer, commonRanksFooter(v.Data)...)
			}
			v.Footer = append(v.Footer, pageFooter(*params.Pagination, total)...)
			v.Data = listPage{
				Collection: res.collection,
				Count:      total,
				Page:       page,
				PerPage:    perPage,
				Results:    v.Data,
			}
			return render(cmd, ex.Mode(), v)
		}),
	}
	cmd.Flags().StringVarP(&projectID, "project", "p", "", "Restrict to one project")
	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page number")
	cmd.Flags().IntVar(&perPage, "per-page", defaultPerPage, "Records per page")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort field, prefixed with - for descending order")
	cmd.Flags().StringToStringVarP(&filters, "filter", "f", nil, "Filter as key=value (repeatable)")
	return cmd
}

func pageFooter(p query.Pagination, total int) []string {
	info := p.Info(total)
	if info.First == 0 {
		return []string{fmt.Sprintf("No records on page %d of %s", p.Page+1, humanize.Comma(int64(total)))}
	}
	lines := []string{fmt.Sprintf("Showing %d-%d of %s (page %d of %d)",
		info.First, info.Last, humanize.Comma(int64(total)), info.Page+1, info.Pages)}
	if info.HasNext {
		lines = append(lines, fmt.Sprintf("Next page: --page %d", p.Next().Page))
	}
	return lines
}

func GetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, ex *Executor, args []string) error {
			res, err := lookupResource(args[0])
			if err != nil {
				return err
			}
			v, err := res.get(ctx, ex, idArg(args[1]).String())
			if err != nil {
				return err
			}
			return render(cmd, ex.Mode(), v)
		}),
	}
}

func IdentifyCmd() *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:   "identify <occurrence-id> <taxon-id>",
		Short: "Add an identification to an occurrence",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, ex *Executor, args []string) error {
			created, err := ex.Identifications.Create(ctx, &identification.Input{
				OccurrenceID: idArg(args[0]),
				TaxonID:      idArg(args[1]),
				Comment:      comment,
			})
			if err != nil {
				return err
			}
			return render(cmd, ex.Mode(), &view{
				Columns: []string{"ID", "Occurrence", "Taxon", "Created"},
				Rows: [][]string{{
					created.ID.String(), created.OccurrenceID.String(), created.TaxonName, created.CreatedLabel,
				}},
				Data: created,
			})
		}),
	}
	cmd.Flags().StringVarP(&comment, "comment", "m", "", "Comment stored with the identification")
	return cmd
}

func UnidentifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unidentify <identification-id>",
		Short: "Delete an identification",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, ex *Executor, args []string) error {
			id := idArg(args[0]).String()
			if err := ex.Identifications.Delete(ctx, id); err != nil {
				return err
			}
			return render(cmd, ex.Mode(), &view{
				Columns: []string{"ID", "Deleted"},
				Rows:    [][]string{{id, "yes"}},
				Data:    map[string]any{"id": id, "deleted": true},
			})
		}),
	}
}

func StarCmd() *cobra.Command {
	var unstar bool
	cmd := &cobra.Command{
		Use:   "star <capture-id>",
		Short: "Star or unstar a capture",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, ex *Executor, args []string) error {
			id := idArg(args[0]).String()
			if err := ex.Captures.SetStarred(ctx, id, !unstar); err != nil {
				return err
			}
			return render(cmd, ex.Mode(), &view{
				Columns: []string{"ID", "Starred"},
				Rows:    [][]string{{id, yesNo(!unstar)}},
				Data:    map[string]any{"id": id, "starred": !unstar},
			})
		}),
	}
	cmd.Flags().BoolVar(&unstar, "unstar", false, "Remove the star instead")
	return cmd
}

func JobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Control processing jobs",
	}
	for _, action := range []job.Action{job.ActionStart, job.ActionCancel, job.ActionRetry} {
		cmd.AddCommand(jobActionCmd(action))
	}
	return cmd
}

func jobActionCmd(action job.Action) *cobra.Command {
	use := string(action)
	if action == job.ActionStart {
		use = "start"
	}
	return &cobra.Command{
		Use:   use + " <job-id>",
		Short: fmt.Sprintf("Send the %s action to a job", action),
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, ex *Executor, args []string) error {
			j, err := ex.Jobs.Control(ctx, idArg(args[0]).String(), action)
			if err != nil {
				return err
			}
			return render(cmd, ex.Mode(), &view{
				Columns: jobColumns,
				Rows:    [][]string{jobRow(*j)},
				Data:    j,
			})
		}),
	}
}

func SummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <project-id>",
		Short: "Count the records of a project",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, ex *Executor, args []string) error {
			summary, err := project.Summarize(ctx, idArg(args[0]).String(), project.Counters{
				Deployments: ex.Deployments,
				Sessions:    ex.Sessions,
				Captures:    ex.Captures,
				Occurrences: ex.Occurrences,
				Species:     ex.Species,
				Jobs:        ex.Jobs,
			})
			if err != nil {
				return err
			}
			count := func(n int) string { return humanize.Comma(int64(n)) }
			return render(cmd, ex.Mode(), &view{
				Columns: []string{"Collection", "Records"},
				Rows: [][]string{
					{"Deployments", count(summary.Deployments)},
					{"Sessions", count(summary.Sessions)},
					{"Captures", count(summary.Captures)},
					{"Occurrences", count(summary.Occurrences)},
					{"Species", count(summary.Species)},
					{"Jobs", count(summary.Jobs)},
				},
				Footer: []string{"Project " + strconv.Quote(summary.ProjectID.String())},
				Data:   summary,
			})
		}),
	}
}
