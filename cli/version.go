package cli

import (
	"github.com/spf13/cobra"

	"github.com/fieldnet/fieldnet/pkg/version"
)

func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			return render(cmd, DetectMode(cmd), &view{
				Columns: []string{"Version", "Commit", "Built"},
				Rows:    [][]string{{info.Version, info.CommitHash, info.BuildDate}},
				Data:    info,
			})
		},
	}
}
