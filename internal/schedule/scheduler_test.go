package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"sectorbrief/internal/model"
)

func testSchedule(t *testing.T, hour, minute int) *Scheduler {
	t.Helper()
	s, err := New(model.ScheduleConfig{
		TimeZone: "America/New_York",
		Hour:     hour,
		Minute:   minute,
	}, func(context.Context) {}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("LoadLocation(%q): %v", name, err)
	}
	return loc
}

func TestNext_SameDayAndNextDay(t *testing.T) {
	s := testSchedule(t, 1, 0)
	loc := mustLoadLocation(t, "America/New_York")

	before := time.Date(2026, 8, 28, 0, 30, 0, 0, loc)
	next := s.Next(before)
	if want := time.Date(2026, 8, 28, 1, 0, 0, 0, loc); !next.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", before, next, want)
	}

	after := time.Date(2026, 8, 28, 1, 0, 1, 0, loc)
	next = s.Next(after)
	if want := time.Date(2026, 8, 29, 1, 0, 0, 0, loc); !next.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", after, next, want)
	}
}

func TestNext_SpringForward(t *testing.T) {
	s := testSchedule(t, 1, 0)
	loc := mustLoadLocation(t, "America/New_York")

	// US DST starts 2026-03-08 at 02:00 EST. From a 01:30 EST reference the
	// next 01:00 trigger lands on Mar 9 in EDT: 23h30m of wall clock minus
	// the skipped hour, so 22h30m absolute.
	ref := time.Date(2026, 3, 8, 1, 30, 0, 0, loc)
	next := s.Next(ref)

	want := time.Date(2026, 3, 9, 1, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", ref, next, want)
	}
	if diff := next.Sub(ref); diff != 22*time.Hour+30*time.Minute {
		t.Errorf("Expected 22h30m absolute gap across spring-forward, got %v", diff)
	}
}

func TestNext_FallBack(t *testing.T) {
	s := testSchedule(t, 1, 0)
	loc := mustLoadLocation(t, "America/New_York")

	// US DST ends 2026-11-01 at 02:00 EDT. The 01:00 wall-clock trigger still
	// fires exactly once that day.
	ref := time.Date(2026, 10, 31, 12, 0, 0, 0, loc)
	next := s.Next(ref)

	if next.Year() != 2026 || next.Month() != time.November || next.Day() != 1 {
		t.Fatalf("Expected trigger on Nov 1, got %v", next)
	}
	if next.Hour() != 1 || next.Minute() != 0 {
		t.Errorf("Expected 01:00 wall clock, got %v", next)
	}

	following := s.Next(next.Add(time.Second))
	if following.Day() != 2 || following.Hour() != 1 {
		t.Errorf("Expected single trigger per day across fall-back, got %v", following)
	}
}

func TestNext_FallBackRepeatedHourSkipped(t *testing.T) {
	s := testSchedule(t, 1, 0)
	loc := mustLoadLocation(t, "America/New_York")

	// 01:00 EDT on the fall-back day is 05:00 UTC; the 01:00 wall clock
	// repeats an hour later in EST. Rescheduling just after the first firing
	// must land on the next day, not the repeated hour.
	firstFire := time.Date(2026, 11, 1, 5, 0, 0, 0, time.UTC)
	next := s.Next(firstFire.Add(time.Second))

	want := time.Date(2026, 11, 2, 1, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", firstFire.Add(time.Second), next, want)
	}
}

func TestNew_RejectsUnknownZone(t *testing.T) {
	_, err := New(model.ScheduleConfig{TimeZone: "Mars/Olympus", Hour: 1}, func(context.Context) {}, nil, zap.NewNop())
	if err == nil {
		t.Fatal("Expected error for unknown time zone")
	}
}

type fakeClock struct {
	now time.Time
	ch  chan time.Time
}

func (f *fakeClock) Now() time.Time                       { return f.now }
func (f *fakeClock) After(time.Duration) <-chan time.Time { return f.ch }

func TestLoop_ReschedulesAfterPanic(t *testing.T) {
	clock := &fakeClock{
		now: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
		ch:  make(chan time.Time),
	}

	var runs int32
	s, err := New(model.ScheduleConfig{TimeZone: "UTC", Hour: 1}, func(context.Context) {
		if atomic.AddInt32(&runs, 1) == 1 {
			panic("boom")
		}
	}, clock, zap.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	clock.ch <- clock.now
	clock.ch <- clock.now

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&runs) < 2 {
		select {
		case <-deadline:
			t.Fatalf("Expected 2 runs despite panic, got %d", atomic.LoadInt32(&runs))
		default:
			time.Sleep(time.Millisecond)
		}
	}

	cancel()
	s.Stop()
}

func TestLoop_StopHaltsTimer(t *testing.T) {
	clock := &fakeClock{
		now: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
		ch:  make(chan time.Time),
	}

	var runs int32
	s, err := New(model.ScheduleConfig{TimeZone: "UTC", Hour: 1}, func(context.Context) {
		atomic.AddInt32(&runs, 1)
	}, clock, zap.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	s.Start(context.Background())
	s.Stop()

	if got := atomic.LoadInt32(&runs); got != 0 {
		t.Errorf("Expected no runs after immediate stop, got %d", got)
	}
}
