// File: cmd/worker.go
package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/driftline/internal/observability"
	"github.com/xkilldash9x/driftline/internal/queue"
	"github.com/xkilldash9x/driftline/internal/worker"
	"github.com/xkilldash9x/driftline/pkg/metrics"
)

// newWorkerCmd creates and configures the `worker` command.
func newWorkerCmd() *cobra.Command {
	var concurrency int

	workerCmd := &cobra.Command{
		Use:   "worker",
		Short: "Runs the trajectory worker pool against the task stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd)
			if err != nil {
				return err
			}
			logger := observability.GetLogger()
			ctx := cmd.Context()

			if cmd.Flags().Changed("concurrency") {
				cfg.Worker.Concurrency = concurrency
			}

			q, err := queue.New(ctx, cfg.Queue, logger)
			if err != nil {
				return err
			}
			defer q.Close()

			if err := q.EnsureGroup(ctx); err != nil {
				return err
			}

			var manager *metrics.Manager
			if cfg.Metrics.Enabled {
				manager = metrics.NewManager()

				mux := http.NewServeMux()
				mux.Handle("/metrics", manager.Handler())
				srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: mux}

				go func() {
					logger.Info("metrics listener started", zap.String("addr", cfg.Metrics.Listen))
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("metrics listener failed", zap.Error(err))
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := srv.Shutdown(shutdownCtx); err != nil {
						logger.Warn("metrics listener shutdown", zap.Error(err))
					}
				}()
			}

			pool, err := worker.NewPool(cfg, q, logger, manager)
			if err != nil {
				return err
			}

			if err := pool.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("worker pool drained")
			return nil
		},
	}

	workerCmd.Flags().IntVar(&concurrency, "concurrency", 0, "consumer goroutines (overrides config)")
	return workerCmd
}
