package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldnet/fieldnet/pkg/config"
)

const redactedValue = "[REDACTED]"

// configEntry is one resolved configuration key.
type configEntry struct {
	Key    string            `json:"key"`
	Value  any               `json:"value"`
	Source config.SourceType `json:"source,omitempty"`
	Env    string            `json:"env"`
}

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration diagnostics",
	}
	cmd.AddCommand(configShowCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	var showSources bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration values and their sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode := DetectMode(cmd)
			loader := loaderFromContext(cmd.Context())
			if loader == nil {
				return handleError(cmd, mode, fmt.Errorf("configuration was not loaded"))
			}
			entries := configEntries(loader, showSources)
			v := &view{Columns: []string{"Key", "Value", "Env"}, Data: entries}
			if showSources {
				v.Columns = append(v.Columns, "Source")
			}
			for _, e := range entries {
				row := []string{e.Key, fmt.Sprint(e.Value), e.Env}
				if showSources {
					row = append(row, string(e.Source))
				}
				v.Rows = append(v.Rows, row)
			}
			return render(cmd, mode, v)
		},
	}
	cmd.Flags().BoolVarP(&showSources, "sources", "s", false, "Show configuration sources")
	return cmd
}

func configEntries(loader *config.Loader, withSources bool) []configEntry {
	mappings := config.GenerateEnvMappings()
	entries := make([]configEntry, 0, len(mappings))
	for _, m := range mappings {
		e := configEntry{Key: m.ConfigPath, Env: m.EnvVar, Value: displayValue(loader.Get(m.ConfigPath))}
		if config.IsSensitiveConfigPath(m.ConfigPath) {
			if s := fmt.Sprint(e.Value); s != "" {
				e.Value = redactedValue
			}
		}
		if withSources {
			e.Source = loader.Source(m.ConfigPath)
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

func displayValue(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Duration:
		return val.String()
	case config.SensitiveString:
		return val.Value()
	default:
		return val
	}
}
