package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/finopsia/finopsia/internal/common"
	"github.com/finopsia/finopsia/internal/engine"
	"github.com/finopsia/finopsia/internal/service"
)

// Config holds the cron expressions for the recurring jobs.
type Config struct {
	// ClassifySpec schedules the categorization sweep.
	ClassifySpec string
	// RetrainSpec schedules the per-account forecaster refresh.
	RetrainSpec string
}

// DefaultConfig runs classification nightly and forecaster retraining
// weekly, both off-peak.
func DefaultConfig() Config {
	return Config{
		ClassifySpec: "0 2 * * *",
		RetrainSpec:  "0 3 * * 0",
	}
}

// Scheduler owns the cron runner for the automation jobs.
type Scheduler struct {
	storage  service.Storage
	registry *engine.Registry
	config   Config
	cron     *cron.Cron
}

// New creates a scheduler. Jobs are registered on Start.
func New(storage service.Storage, registry *engine.Registry, config Config) *Scheduler {
	return &Scheduler{
		storage:  storage,
		registry: registry,
		config:   config,
		cron:     cron.New(),
	}
}

// Start registers the jobs and runs the cron loop until ctx is
// canceled. Job failures are logged and retried on the next tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.config.ClassifySpec, func() {
		if _, err := ClassifyOnce(ctx, s.storage, s.registry); err != nil {
			common.LogError(err, "Scheduled classification failed", nil)
		}
	}); err != nil {
		return fmt.Errorf("failed to register classify job: %w", err)
	}

	if _, err := s.cron.AddFunc(s.config.RetrainSpec, func() {
		if err := RetrainForecasters(ctx, s.storage, s.registry); err != nil {
			common.LogError(err, "Scheduled forecaster retrain failed", nil)
		}
	}); err != nil {
		return fmt.Errorf("failed to register retrain job: %w", err)
	}

	s.cron.Start()
	slog.Info("Scheduler started",
		"classify", s.config.ClassifySpec,
		"retrain", s.config.RetrainSpec)

	<-ctx.Done()

	stopCtx := s.cron.Stop()
	// Let in-flight jobs run to completion; training is not cancellable
	// mid-flight.
	<-stopCtx.Done()
	slog.Info("Scheduler stopped")

	return nil
}
