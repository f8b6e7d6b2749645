// AngelaMos | 2026
// scheduler.go

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/config"
)

const jobTimeout = 5 * time.Minute

type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

type NotificationPurger interface {
	PurgeRead(ctx context.Context, retention time.Duration) (int64, error)
}

// Scheduler runs maintenance jobs on cron specs with a seconds field.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func New(
	cfg config.SchedulerConfig,
	loc *time.Location,
	sessions SessionPurger,
	notifications NotificationPurger,
	logger *slog.Logger,
) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}

	s := &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cron.DiscardLogger)),
		),
		logger: logger,
	}

	if err := s.add(cfg.TokenPurgeSpec, "purge_refresh_tokens", sessions.PurgeExpiredSessions); err != nil {
		return nil, err
	}

	purgeNotifications := func(ctx context.Context) (int64, error) {
		return notifications.PurgeRead(ctx, cfg.NotificationRetention)
	}
	if err := s.add(cfg.NotificationPurgeSpec, "purge_read_notifications", purgeNotifications); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) add(spec, name string, job func(ctx context.Context) (int64, error)) error {
	if spec == "" {
		s.logger.Info("scheduled job disabled", "job", name)
		return nil
	}

	_, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, spec, err)
	}

	return nil
}

func (s *Scheduler) run(name string, job func(ctx context.Context) (int64, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := job(ctx)
	if err != nil {
		s.logger.Error("scheduled job failed",
			"job", name,
			"error", err,
			"duration", time.Since(start),
		)
		return
	}

	s.logger.Info("scheduled job finished",
		"job", name,
		"rows", n,
		"duration", time.Since(start),
	)
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()

	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}
