package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ahrav/go-vignette/internal/api"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var (
		addr         string
		pipelinePath string
		origins      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve resolution over HTTP",
		Long: `Serve resolution over HTTP.

Endpoints:
  GET  /api/healthz        liveness check
  POST /api/resolve        resolve one definition
  POST /api/resolve/batch  resolve up to 500 definitions
  POST /api/lint           lint one definition
  GET  /metrics            Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if logger.GetLevel() < logrus.DebugLevel {
				gin.SetMode(gin.ReleaseMode)
			}

			metrics, reg := newMetrics()
			resolver, err := buildResolver(ctx, pipelinePath, metrics)
			if err != nil {
				return err
			}

			server, err := api.NewServer(api.Config{
				Resolver:       resolver,
				Logger:         logger,
				AllowedOrigins: splitOrigins(origins),
				Gatherer:       reg,
			})
			if err != nil {
				return err
			}
			router, err := server.Router()
			if err != nil {
				return err
			}

			return serveUntilDone(ctx, &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("VIGNETTE_ADDR", ":8080"), "Listen address")
	cmd.Flags().StringVar(&pipelinePath, "pipeline", os.Getenv(envPipeline), "Pipeline config file (defaults to the built-in pipeline)")
	cmd.Flags().StringVar(&origins, "allowed-origins", os.Getenv("VIGNETTE_ALLOWED_ORIGINS"), "Comma separated CORS origins (all when empty)")

	return cmd
}

func serveUntilDone(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", srv.Addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
