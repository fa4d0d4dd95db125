package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldnet/fieldnet/engine/capture"
	"github.com/fieldnet/fieldnet/engine/deployment"
	"github.com/fieldnet/fieldnet/engine/identification"
	"github.com/fieldnet/fieldnet/engine/infra/cache"
	"github.com/fieldnet/fieldnet/engine/job"
	"github.com/fieldnet/fieldnet/engine/occurrence"
	"github.com/fieldnet/fieldnet/engine/project"
	"github.com/fieldnet/fieldnet/engine/session"
	"github.com/fieldnet/fieldnet/engine/species"
	"github.com/fieldnet/fieldnet/engine/taxa"
	"github.com/fieldnet/fieldnet/engine/transport"
	"github.com/fieldnet/fieldnet/pkg/config"
	"github.com/fieldnet/fieldnet/pkg/logger"
)

// Executor owns the client, cache and resource services of one command run.
type Executor struct {
	mode  Mode
	cache *cache.Cache

	Projects        *project.Service
	Deployments     *deployment.Service
	Sessions        *session.Service
	Captures        *capture.Service
	Occurrences     *occurrence.Service
	Identifications *identification.Service
	Species         *species.Service
	Taxa            *taxa.Service
	Jobs            *job.Service
}

// NewExecutor wires the services from the configuration in ctx.
func NewExecutor(ctx context.Context, mode Mode) (*Executor, error) {
	cfg := config.FromContext(ctx)
	client, err := transport.New(transport.FromAppConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	c, err := cache.SetupCache(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up cache: %w", err)
	}
	svc := c.Service
	doer := transport.Authorized(client, transport.TokenAuth(cfg.API.Token.Value()))
	return &Executor{
		mode:            mode,
		cache:           c,
		Projects:        project.NewService(doer, svc),
		Deployments:     deployment.NewService(doer, svc),
		Sessions:        session.NewService(doer, svc),
		Captures:        capture.NewService(doer, svc),
		Occurrences:     occurrence.NewService(doer, svc),
		Identifications: identification.NewService(doer, svc),
		Species:         species.NewService(doer, svc),
		Taxa:            taxa.NewService(doer, svc),
		Jobs:            job.NewService(doer, svc),
	}, nil
}

func (e *Executor) Mode() Mode {
	return e.mode
}

func (e *Executor) Close(ctx context.Context) {
	if err := e.cache.Close(); err != nil {
		logger.FromContext(ctx).Warn("Failed to close cache", "error", err)
	}
}

// HandlerFunc runs one command against a ready Executor.
type HandlerFunc func(ctx context.Context, cmd *cobra.Command, ex *Executor, args []string) error

// run builds an Executor, invokes handler and prints any failure as a
// CliError in the detected mode.
func run(handler HandlerFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		mode := DetectMode(cmd)
		ex, err := NewExecutor(ctx, mode)
		if err != nil {
			return handleError(cmd, mode, err)
		}
		defer ex.Close(ctx)
		return handleError(cmd, mode, handler(ctx, cmd, ex, args))
	}
}

func handleError(cmd *cobra.Command, mode Mode, err error) error {
	if err == nil {
		return nil
	}
	cliErr := categorizeError(err)
	logger.FromContext(cmd.Context()).Debug("Command failed", "code", cliErr.Code, "error", err)
	printError(cmd, mode, cliErr)
	return cliErr
}
