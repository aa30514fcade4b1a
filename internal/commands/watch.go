package commands

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ledgerlens/statement-pipeline/internal/domain/pipeline"
	"github.com/ledgerlens/statement-pipeline/pkg/cron"
)

// pipelineRunner adapts the pipeline to the scheduler, scanning the
// whole uploads directory on every tick.
type pipelineRunner struct {
	pipeline *pipeline.Pipeline
}

func (r *pipelineRunner) RunAll(ctx context.Context) error {
	_, err := r.pipeline.Run(ctx, nil)
	return err
}

func newWatchCommand() *cobra.Command {
	var spec string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep importing on a schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := setup()
			if err != nil {
				return err
			}
			defer deps.Close()

			scheduler := cron.NewScheduler(&pipelineRunner{pipeline: deps.Pipeline}, spec, deps.Logger)
			if err := scheduler.Start(); err != nil {
				return err
			}
			scheduler.RunNow()

			var metricsSrv *http.Server
			if deps.Config.Observability.MetricsEnabled {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				metricsSrv = &http.Server{
					Addr:    fmt.Sprintf(":%d", deps.Config.Observability.MetricsPort),
					Handler: mux,
				}
				go func() {
					if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						deps.Logger.Error("metrics server failed", "error", err)
					}
				}()
				deps.Logger.Info("metrics listening", "port", deps.Config.Observability.MetricsPort)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			deps.Logger.Info("shutting down")
			<-scheduler.Stop().Done()
			if metricsSrv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				metricsSrv.Shutdown(shutdownCtx)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&spec, "schedule", "*/15 * * * *",
		"cron expression for import runs (5-field format)")
	return cmd
}
