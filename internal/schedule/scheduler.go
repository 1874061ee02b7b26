// Package schedule arms a one-shot timer for the next daily trigger and
// invokes the generation runner when it fires. Rescheduling is unconditional:
// whether the run succeeded, failed or was rejected by the generation guard,
// the next trigger is always armed, so the service never goes silently idle
// after a single failure.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"sectorbrief/internal/model"
)

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock is the real clock.
func SystemClock() Clock { return systemClock{} }

// Runner is invoked on every trigger. Failures are the runner's to log; the
// scheduler reschedules regardless.
type Runner func(ctx context.Context)

// Scheduler computes trigger instants in a fixed time zone and drives the
// runner.
type Scheduler struct {
	schedule cron.Schedule
	loc      *time.Location
	hour     int
	minute   int
	clock    Clock
	run      Runner
	logger   *zap.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// New builds a scheduler firing daily at the configured wall-clock time in
// the configured zone. The underlying cron schedule resolves the zone's
// offset per trigger, so daylight-saving transitions yield correct absolute
// instants.
func New(cfg model.ScheduleConfig, run Runner, clock Clock, logger *zap.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", cfg.TimeZone, err)
	}

	spec := fmt.Sprintf("CRON_TZ=%s %d %d * * *", cfg.TimeZone, cfg.Minute, cfg.Hour)
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}

	if clock == nil {
		clock = systemClock{}
	}
	return &Scheduler{
		schedule: sched,
		loc:      loc,
		hour:     cfg.Hour,
		minute:   cfg.Minute,
		clock:    clock,
		run:      run,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Next computes the next trigger instant strictly after now. Pure; usable in
// tests without timers.
//
// The fall-back transition repeats the trigger wall time, and the cron
// schedule would fire on both occurrences. A candidate on the same local
// date as a now already past that date's trigger time is the repeat; it is
// skipped so each local calendar day triggers at most once.
func (s *Scheduler) Next(now time.Time) time.Time {
	next := s.schedule.Next(now)

	local := now.In(s.loc)
	nextLocal := next.In(s.loc)
	sameDay := local.Year() == nextLocal.Year() && local.YearDay() == nextLocal.YearDay()
	pastTrigger := local.Hour() > s.hour || (local.Hour() == s.hour && local.Minute() >= s.minute)
	if sameDay && pastTrigger {
		next = s.schedule.Next(next)
	}
	return next
}

// Start launches the timer loop.
func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx)
}

// Stop halts the loop. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.doneCh
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.doneCh)
	for {
		now := s.clock.Now()
		next := s.Next(now)
		s.logger.Info("next generation scheduled",
			zap.Time("at", next),
			zap.Duration("in", next.Sub(now)))

		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-s.clock.After(next.Sub(now)):
			s.fire(ctx)
		}
	}
}

// fire runs one trigger. Panics are contained so the loop always reaches the
// next reschedule.
func (s *Scheduler) fire(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("generation run panicked", zap.Any("panic", r))
		}
	}()
	s.run(ctx)
}
