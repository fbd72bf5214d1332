package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type JournalPurger interface {
	PurgeProcessedChanges(ctx context.Context, keep int) (int64, error)
}

type SchedulerConfig struct {
	// DailyReportAt is "HH:MM" in loc; empty disables the daily report.
	DailyReportAt string
	Recipients    []string
	Location      *time.Location
}

// Scheduler runs the periodic back-office jobs.
type Scheduler struct {
	scheduler gocron.Scheduler
}

func NewScheduler(cfg SchedulerConfig, reports *ReportService, auth *AuthService, journal JournalPurger) (*Scheduler, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, errors.Wrap(err, "create scheduler")
	}

	if auth != nil {
		if _, err := s.NewJob(
			gocron.DurationJob(time.Hour),
			gocron.NewTask(auth.Sweep),
			gocron.WithName("session-sweep"),
		); err != nil {
			return nil, errors.Wrap(err, "schedule session sweep")
		}
	}

	if journal != nil {
		if _, err := s.NewJob(
			gocron.DurationJob(6*time.Hour),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()
				n, err := journal.PurgeProcessedChanges(ctx, 1000)
				if err != nil {
					utils.ErrorLogger.WithError(err).Error("purge change journal failed")
					return
				}
				if n > 0 {
					utils.InfoLogger.WithField("rows", n).Info("purged change journal")
				}
			}),
			gocron.WithName("journal-purge"),
		); err != nil {
			return nil, errors.Wrap(err, "schedule journal purge")
		}
	}

	if cfg.DailyReportAt != "" && reports != nil {
		hour, minute, err := parseClock(cfg.DailyReportAt)
		if err != nil {
			return nil, err
		}
		if _, err := s.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0))),
			gocron.NewTask(func() { runDailyReport(reports, cfg.Recipients) }),
			gocron.WithName("daily-report"),
		); err != nil {
			return nil, errors.Wrap(err, "schedule daily report")
		}
	}

	return &Scheduler{scheduler: s}, nil
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

func runDailyReport(reports *ReportService, recipients []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	r, err := reports.Yesterday(ctx)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("daily report failed")
		return
	}
	if _, err := reports.Archive(ctx, r); err != nil {
		utils.ErrorLogger.WithError(err).Error("daily report archive failed")
	}
	if len(recipients) > 0 {
		if err := reports.Email(ctx, recipients, r); err != nil {
			utils.ErrorLogger.WithError(err).Error("daily report email failed")
		}
	}
}

func parseClock(s string) (uint, uint, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid report schedule %q, want HH:MM", s)
	}
	return uint(t.Hour()), uint(t.Minute()), nil
}
