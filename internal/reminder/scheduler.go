package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is the work run at each scheduled time. It returns how many
// reminders it delivered.
type Job func(ctx context.Context) (int, error)

// Scheduler runs a Job on a Schedule.
type Scheduler struct {
	schedule Schedule
	timing   cron.Schedule
	invalid  error
	job      Job
	logger   *slog.Logger
}

// NewScheduler creates a scheduler. An invalid schedule is reported by Run.
func NewScheduler(schedule Schedule, job Job, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	timing, err := schedule.cron()
	return &Scheduler{
		schedule: schedule,
		timing:   timing,
		invalid:  err,
		job:      job,
		logger:   logger,
	}
}

// Run runs the job at each scheduled time until ctx is done. Job errors are
// logged and do not stop the scheduler; a run still in progress when the
// next one is due causes that one to be skipped.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.invalid != nil {
		return s.invalid
	}

	log := cronLogger{s.logger}
	c := cron.New(
		cron.WithLocation(s.schedule.location()),
		cron.WithLogger(log),
		cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
	)
	c.Schedule(s.timing, cron.FuncJob(func() {
		sent, err := s.job(ctx)
		if err != nil {
			s.logger.Error("reminder job failed", "error", err)
			return
		}
		s.logger.Info("reminder job finished", "sent", sent)
	}))
	c.Start()
	s.logger.Info("reminders scheduled", "spec", s.schedule.Spec(), "next", s.timing.Next(time.Now()).Format(time.RFC3339))

	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

// cronLogger routes the cron runner's own messages to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
