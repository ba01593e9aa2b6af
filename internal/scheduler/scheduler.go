package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/energy-forecast/internal/logger"
)

// Job is a named periodic task. Jobs with a non-positive interval are skipped.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func() error
}

// Scheduler runs housekeeping jobs: session eviction and model reloads.
type Scheduler struct {
	scheduler *gocron.Scheduler
	jobs      []Job
}

// New creates a new Scheduler.
func New(jobs ...Job) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		jobs:      jobs,
	}
}

// Start schedules the jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	scheduled := 0
	for _, job := range s.jobs {
		if job.Interval <= 0 {
			logger.Info("scheduler: %s disabled", job.Name)
			continue
		}

		job := job
		_, err := s.scheduler.Every(job.Interval).WaitForSchedule().Do(func() {
			logger.Debug("scheduler: running %s", job.Name)
			if err := job.Run(); err != nil {
				logger.Warn("scheduler: %s failed: %v", job.Name, err)
			}
		})
		if err != nil {
			return err
		}
		scheduled++
	}

	if scheduled == 0 {
		logger.Info("scheduler: no jobs configured; nothing to schedule")
		return nil
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
