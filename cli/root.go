package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fieldnet/fieldnet/pkg/config"
	"github.com/fieldnet/fieldnet/pkg/logger"
)

type loaderKey struct{}

// flagOverrides maps persistent flags to the configuration keys they set.
var flagOverrides = map[string]string{
	"base-url":   "api.base_url",
	"token":      "api.token",
	"timeout":    "api.timeout",
	"log-level":  "runtime.log_level",
	"log-json":   "runtime.log_json",
	"log-source": "runtime.log_source",
	"redis":      "redis.enabled",
}

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fieldnet",
		Short:         "Browse and curate a species-observation backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return SetupGlobalConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a YAML configuration file")
	flags.String("base-url", "", "Backend API base URL")
	flags.String("token", "", "API token")
	flags.Duration("timeout", 0, "Request timeout")
	flags.Bool("redis", false, "Enable cross-process cache invalidation over Redis")
	flags.String("log-level", "info", "Log level (debug, info, warn, error, disabled)")
	flags.Bool("log-json", false, "Write logs as JSON")
	flags.Bool("log-source", false, "Include source locations in logs")
	flags.Bool("json", false, "Print results as JSON")

	root.AddCommand(
		ListCmd(),
		GetCmd(),
		IdentifyCmd(),
		UnidentifyCmd(),
		StarCmd(),
		JobsCmd(),
		SummaryCmd(),
		ConfigCmd(),
		VersionCmd(),
	)

	return root
}

// SetupGlobalConfig loads the configuration, applies flag overrides, sets up
// the logger and stores both in the command context.
func SetupGlobalConfig(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	overrides, err := collectOverrides(cmd)
	if err != nil {
		return err
	}
	loader := config.NewLoader()
	cfg, err := loader.Load(ctx, path, overrides)
	if err != nil {
		cliErr := newCliError("CONFIG_ERROR", "Invalid configuration", err)
		printError(cmd, DetectMode(cmd), cliErr)
		return cliErr
	}
	log := logger.SetupLogger(cfg.Runtime.LogLevel, cfg.Runtime.LogJSON, cfg.Runtime.LogSource)
	ctx = logger.ContextWithLogger(ctx, log)
	ctx = config.ContextWithConfig(ctx, cfg)
	ctx = context.WithValue(ctx, loaderKey{}, loader)
	cmd.SetContext(ctx)
	log.Debug("Configuration loaded", "base_url", cfg.API.BaseURL, "redis", cfg.Redis.Enabled)
	return nil
}

func collectOverrides(cmd *cobra.Command) (map[string]any, error) {
	logLevel, logJSON, logSource, err := logger.GetLoggerConfig(cmd)
	if err != nil {
		return nil, err
	}
	overrides := make(map[string]any)
	var visitErr error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		key, ok := flagOverrides[f.Name]
		if !ok || visitErr != nil {
			return
		}
		switch f.Name {
		case "log-level":
			overrides[key] = logLevel
		case "log-json":
			overrides[key] = logJSON
		case "log-source":
			overrides[key] = logSource
		case "timeout":
			v, err := cmd.Flags().GetDuration(f.Name)
			if err != nil {
				visitErr = fmt.Errorf("failed to get %s flag: %w", f.Name, err)
				return
			}
			overrides[key] = v
		case "redis":
			v, err := cmd.Flags().GetBool(f.Name)
			if err != nil {
				visitErr = fmt.Errorf("failed to get %s flag: %w", f.Name, err)
				return
			}
			overrides[key] = v
		default:
			overrides[key] = f.Value.String()
		}
	})
	return overrides, visitErr
}

func loaderFromContext(ctx context.Context) *config.Loader {
	if l, ok := ctx.Value(loaderKey{}).(*config.Loader); ok {
		return l
	}
	return nil
}
