package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ahrav/go-vignette/infrastructure/middleware"
	"github.com/ahrav/go-vignette/internal/application"
)

var version = "dev"

// Environment variables read as flag defaults. A .env file in the working
// directory is loaded before flags are parsed.
const (
	envPipeline = "VIGNETTE_PIPELINE"
	envLogLevel = "VIGNETTE_LOG_LEVEL"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vignette-axes",
		Short: "Resolve decision direction and scenario axes for vignette definitions",
		Long: `vignette-axes derives the decision labels, side names and scenario
attribute axes of a vignette definition.

It reads a definition (template plus dimensions) and optional scenario
records, runs the resolution pipeline and prints the result. The same
pipeline can be served over HTTP with "serve".`,
		Version:      version,
		SilenceUsage: true,
	}

	verbose := cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return configureLogging(cmd, *verbose)
	}

	cmd.AddCommand(newResolveCommand())
	cmd.AddCommand(newLintCommand())
	cmd.AddCommand(newSchemaCommand())
	cmd.AddCommand(newServeCommand())

	return cmd
}

func execute() error {
	_ = godotenv.Load()
	return newRootCommand().Execute()
}

// newLogger returns a text logger on the command's error stream.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return logger
}

var logger = logrus.New()

func configureLogging(cmd *cobra.Command, verbose bool) error {
	logger = newLogger(cmd)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
		return nil
	}
	if raw := os.Getenv(envLogLevel); raw != "" {
		level, err := logrus.ParseLevel(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envLogLevel, err)
		}
		logger.SetLevel(level)
		return nil
	}
	logger.SetLevel(logrus.InfoLevel)
	return nil
}

// buildResolver loads the pipeline at path, or the built-in pipeline when
// path is empty, and wraps it in a Resolver. metrics may be nil.
func buildResolver(ctx context.Context, path string, metrics *middleware.PrometheusMetrics) (*application.Resolver, error) {
	var observer middleware.UnitObserver
	opts := []application.ResolverOption{application.WithLogger(logger)}
	if metrics != nil {
		observer = middleware.NewOTelUnitObserver(metrics)
		opts = append(opts, application.WithMetrics(metrics))
	}

	loader, err := application.NewPipelineLoader(application.NewDefaultUnitRegistry(observer))
	if err != nil {
		return nil, err
	}

	var pipeline *application.Pipeline
	if path == "" {
		pipeline, err = loader.LoadDefault(ctx)
	} else {
		pipeline, err = loader.LoadFromFile(ctx, path)
	}
	if err != nil {
		return nil, fmt.Errorf("loading pipeline: %w", err)
	}

	logger.WithField("pipeline", pipeline.ID()).Debug("pipeline loaded")
	return application.NewResolver(pipeline, opts...), nil
}

// newMetrics returns collectors registered on a fresh registry, so repeated
// command runs in one process never collide.
func newMetrics() (*middleware.PrometheusMetrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return middleware.NewPrometheusMetrics(reg), reg
}
