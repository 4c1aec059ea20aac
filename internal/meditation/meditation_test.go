package meditation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestAdvance(t *testing.T) {
	tests := []struct {
		elapsed   time.Duration
		phase     Phase
		cycles    int
		remaining time.Duration
	}{
		{elapsed: 0, phase: Inhale, cycles: 0, remaining: 4 * time.Second},
		{elapsed: 3 * time.Second, phase: Inhale, cycles: 0, remaining: time.Second},
		{elapsed: 4 * time.Second, phase: Hold, cycles: 0, remaining: 2 * time.Second},
		{elapsed: 6 * time.Second, phase: Exhale, cycles: 0, remaining: 4 * time.Second},
		{elapsed: 10 * time.Second, phase: Inhale, cycles: 1, remaining: 4 * time.Second},
		{elapsed: 35 * time.Second, phase: Hold, cycles: 3, remaining: time.Second},
		{elapsed: -time.Second, phase: Inhale, cycles: 0, remaining: 4 * time.Second},
	}

	for _, testCase := range tests {
		got := Advance(testCase.elapsed)
		if got.Phase != testCase.phase || got.Cycles != testCase.cycles || got.Remaining != testCase.remaining {
			t.Fatalf("Advance(%v) = %+v", testCase.elapsed, got)
		}
	}
	if Exhale.Instruction() != "Breathe Out" {
		t.Fatalf("unexpected instruction %q", Exhale.Instruction())
	}
}

func TestFind(t *testing.T) {
	s, err := Find("anxiety relief")
	if err != nil || s.ID != "4" || s.Minutes != 8 {
		t.Fatalf("Find() = %+v, %v", s, err)
	}
	if _, err := Find("6"); err == nil {
		t.Fatalf("expected error for unknown session")
	}
	if len(Sessions) != 5 || Sessions[0].Type != TypeBreathing {
		t.Fatalf("unexpected catalogue %+v", Sessions)
	}
}

func TestTimerPauseResume(t *testing.T) {
	start := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	s, _ := Find("1")
	timer := NewTimer(s)

	timer.Start(start)
	timer.Pause(start.Add(time.Minute))
	st := timer.Tick(start.Add(10 * time.Minute))
	if st.Elapsed != time.Minute || st.Running {
		t.Fatalf("paused timer must not advance, got %+v", st)
	}

	timer.Resume(start.Add(10 * time.Minute))
	st = timer.Tick(start.Add(11 * time.Minute))
	if st.Elapsed != 2*time.Minute || st.Remaining != 3*time.Minute {
		t.Fatalf("unexpected state after resume %+v", st)
	}
	if st.Breath == nil || st.Breath.Cycles != 12 {
		t.Fatalf("expected breathing pacer, got %+v", st.Breath)
	}

	timer.Skip(start.Add(11*time.Minute), -10*time.Minute)
	if st := timer.Tick(start.Add(11 * time.Minute)); st.Elapsed != 0 {
		t.Fatalf("skip back must clamp at zero, got %v", st.Elapsed)
	}

	st = timer.Tick(start.Add(30 * time.Minute))
	if !st.Done || st.Remaining != 0 || st.Progress() != 1 {
		t.Fatalf("expected finished session, got %+v", st)
	}
}

func TestGuidedSessionHasNoPacer(t *testing.T) {
	s, _ := Find("2")
	timer := NewTimer(s)
	timer.Start(time.Unix(0, 0))
	if st := timer.Tick(time.Unix(5, 0)); st.Breath != nil {
		t.Fatalf("guided session must not carry a pacer")
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
	ds  time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.ds)
	return c.now
}

func TestRunCompletes(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0), ds: time.Minute}
	s, _ := Find("1")

	ticks := 0
	st, err := Run(context.Background(), s, time.Millisecond, clock.Now, nil, func(State) { ticks++ })
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if !st.Done || ticks == 0 {
		t.Fatalf("expected completed run, got %+v after %d ticks", st, ticks)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, _ := Find("3")
	st, err := Run(ctx, s, time.Hour, nil, nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if st.Done || st.Running {
		t.Fatalf("cancelled run must be paused, got %+v", st)
	}
}

func TestRunControls(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s, _ := Find("1")

	controls := make(chan Control, 4)
	for _, c := range []Control{TogglePause, SkipForward, SkipBack, SkipForward} {
		controls <- c
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var seen []State
	st, err := Run(ctx, s, time.Hour, clock.Now, controls, func(st State) {
		seen = append(seen, st)
		if len(seen) == 4 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(seen) != 4 || seen[0].Running {
		t.Fatalf("expected paused state after toggle, got %+v", seen)
	}
	for i, want := range []time.Duration{0, SkipStep, 0, SkipStep} {
		if seen[i].Elapsed != want {
			t.Fatalf("control %d: expected elapsed %v, got %v", i, want, seen[i].Elapsed)
		}
	}
	if st.Elapsed != SkipStep {
		t.Fatalf("expected stop at %v, got %v", SkipStep, st.Elapsed)
	}
}

func TestRunSkipToEnd(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s, _ := Find("1")

	n := int(s.Duration()/SkipStep) + 1
	controls := make(chan Control, n)
	for i := 0; i < n; i++ {
		controls <- SkipForward
	}
	close(controls)

	st, err := Run(context.Background(), s, time.Hour, clock.Now, controls, nil)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if !st.Done || st.Remaining != 0 {
		t.Fatalf("expected session skipped to the end, got %+v", st)
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(5*time.Minute + 7*time.Second); got != "5:07" {
		t.Fatalf("FormatClock() = %q", got)
	}
}
