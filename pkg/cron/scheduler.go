// Package cron schedules recurring import runs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Runner is the import run the scheduler triggers. It scans the
// uploads directory itself, so consecutive runs on unchanged input are
// cheap no-ops.
type Runner interface {
	RunAll(ctx context.Context) error
}

// Scheduler fires import runs on a cron expression.
type Scheduler struct {
	cron    *cron.Cron
	runner  Runner
	spec    string
	timeout time.Duration
	logger  *slog.Logger
}

// NewScheduler creates a scheduler with the standard 5-field cron
// format. spec defaults to hourly when empty.
func NewScheduler(runner Runner, spec string, logger *slog.Logger) *Scheduler {
	if spec == "" {
		spec = "0 * * * *"
	}
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:    c,
		runner:  runner,
		spec:    spec,
		timeout: 30 * time.Minute,
		logger:  logger,
	}
}

// Start begins the scheduled runs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runOnce)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("import scheduler started", slog.String("spec", s.spec))
	return nil
}

// Stop stops scheduling and returns a context that closes when any
// in-flight run finishes.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("import scheduler stopping")
	return s.cron.Stop()
}

// RunNow triggers an immediate run outside the schedule.
func (s *Scheduler) RunNow() {
	go s.runOnce()
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.logger.Info("scheduled import run starting")
	if err := s.runner.RunAll(ctx); err != nil {
		s.logger.Error("scheduled import run failed", slog.Any("error", err))
		return
	}
	s.logger.Info("scheduled import run finished")
}
