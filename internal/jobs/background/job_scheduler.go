// Package background wires periodic maintenance onto a gocron scheduler.
package background

import (
	"context"
	"sync"
	"time"

	"mentorhub/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// JobScheduler owns the gocron scheduler and the platform's periodic jobs:
// the hourly trial sweep and the daily device cleanup.
type JobScheduler struct {
	scheduler gocron.Scheduler
	sweeper   *jobs.TrialSweeper
	cleaner   *jobs.DeviceCleaner
	logger    *zap.Logger

	mu   sync.RWMutex
	jobs map[string]gocron.Job
}

func NewJobScheduler(sweeper *jobs.TrialSweeper, cleaner *jobs.DeviceCleaner, logger *zap.Logger) (*JobScheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		sweeper:   sweeper,
		cleaner:   cleaner,
		logger:    logger,
		jobs:      make(map[string]gocron.Job),
	}
	js.registerJobs()
	return js, nil
}

func (js *JobScheduler) Start() {
	js.logger.Info("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	trialJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.runTrialSweep),
		gocron.WithName("trial-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		js.logger.Error("failed to register trial sweep", zap.Error(err))
	} else {
		js.jobs["trial-sweep"] = trialJob
	}

	deviceJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.runDeviceCleanup),
		gocron.WithName("device-cleanup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		js.logger.Error("failed to register device cleanup", zap.Error(err))
	} else {
		js.jobs["device-cleanup"] = deviceJob
	}

	js.logger.Info("registered background jobs", zap.Int("count", len(js.jobs)))
}

func (js *JobScheduler) runTrialSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if err := js.sweeper.Run(ctx); err != nil {
		js.logger.Error("trial sweep run failed", zap.Error(err))
	}
}

func (js *JobScheduler) runDeviceCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if err := js.cleaner.Run(ctx); err != nil {
		js.logger.Error("device cleanup run failed", zap.Error(err))
	}
}
