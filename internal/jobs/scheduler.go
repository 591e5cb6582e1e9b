package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is a named unit of work run on a standard five-field cron schedule.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Scheduler runs jobs with robfig/cron. A panicking job is recovered and a job still
// running when its next tick arrives is skipped.
type Scheduler struct {
	logger *slog.Logger
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{logger: logger.With("component", "scheduler")}
}

// Run registers the jobs and blocks until ctx is cancelled, then waits for running jobs to finish.
func (s *Scheduler) Run(ctx context.Context, jobs ...Job) error {
	cl := cronLogger{logger: s.logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	for _, job := range jobs {
		if _, err := c.AddJob(job.Schedule, s.wrap(ctx, job)); err != nil {
			return fmt.Errorf("failed to schedule job %s: %w", job.Name, err)
		}
		s.logger.Info("Job scheduled", "job", job.Name, "schedule", job.Schedule)
	}

	c.Start()
	<-ctx.Done()
	s.logger.Info("Stopping scheduler, waiting for running jobs...")
	<-c.Stop().Done()
	return nil
}

func (s *Scheduler) wrap(ctx context.Context, job Job) cron.Job {
	return cron.FuncJob(func() {
		logger := s.logger.With("job", job.Name)
		logger.DebugContext(ctx, "Job started")
		if err := job.Run(ctx); err != nil {
			logger.ErrorContext(ctx, "Job failed", "error", err)
			return
		}
		logger.DebugContext(ctx, "Job finished")
	})
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
