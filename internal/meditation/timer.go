package meditation

import (
	"context"
	"time"
)

// SkipStep is how far Skip moves by default
const SkipStep = 30 * time.Second

// State is a snapshot of a running session
type State struct {
	Session   Session       `json:"session"`
	Elapsed   time.Duration `json:"elapsed"`
	Remaining time.Duration `json:"remaining"`
	Running   bool          `json:"running"`
	Done      bool          `json:"done"`
	// Breath is set for breathing sessions only
	Breath *Breath `json:"breath,omitempty"`
}

// Progress returns the completed fraction in [0, 1]
func (s State) Progress() float64 {
	total := s.Session.Duration()
	if total <= 0 {
		return 1
	}
	return float64(s.Elapsed) / float64(total)
}

// Timer tracks elapsed time for one session. It holds no goroutines;
// callers feed it the current time.
type Timer struct {
	session   Session
	elapsed   time.Duration
	startedAt time.Time
	running   bool
	done      bool
}

// NewTimer creates a stopped timer for s
func NewTimer(s Session) *Timer {
	return &Timer{session: s}
}

// Start begins or restarts the session at now
func (t *Timer) Start(now time.Time) {
	t.elapsed = 0
	t.done = false
	t.startedAt = now
	t.running = true
}

// Pause stops the clock, keeping elapsed time
func (t *Timer) Pause(now time.Time) {
	if !t.running {
		return
	}
	t.elapsed = t.clamp(t.elapsed + now.Sub(t.startedAt))
	t.running = false
}

// Resume continues a paused session
func (t *Timer) Resume(now time.Time) {
	if t.running || t.done {
		return
	}
	t.startedAt = now
	t.running = true
}

// Skip moves the position by d, clamped to the session bounds
func (t *Timer) Skip(now time.Time, d time.Duration) {
	if t.running {
		t.elapsed += now.Sub(t.startedAt)
		t.startedAt = now
	}
	t.elapsed = t.clamp(t.elapsed + d)
}

// Tick returns the state at now and marks the session done at the end
func (t *Timer) Tick(now time.Time) State {
	elapsed := t.elapsed
	if t.running {
		elapsed += now.Sub(t.startedAt)
	}
	elapsed = t.clamp(elapsed)

	if elapsed >= t.session.Duration() && !t.done {
		t.done = true
		t.running = false
		t.elapsed = elapsed
	}

	st := State{
		Session:   t.session,
		Elapsed:   elapsed,
		Remaining: t.session.Duration() - elapsed,
		Running:   t.running,
		Done:      t.done,
	}
	if t.session.Type == TypeBreathing {
		b := Advance(elapsed)
		st.Breath = &b
	}
	return st
}

func (t *Timer) clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if total := t.session.Duration(); d > total {
		return total
	}
	return d
}

// Control is a user action on a running session
type Control int

const (
	TogglePause Control = iota
	SkipForward
	SkipBack
)

// apply runs c against the timer at now
func (t *Timer) apply(c Control, now time.Time) {
	switch c {
	case TogglePause:
		if t.running {
			t.Pause(now)
		} else {
			t.Resume(now)
		}
	case SkipForward:
		t.Skip(now, SkipStep)
	case SkipBack:
		t.Skip(now, -SkipStep)
	}
}

// Run plays s to the end, calling onTick on every tick and after every
// control. It owns a single ticker and returns when the session is done or
// ctx is cancelled. A nil or closed controls channel is ignored.
func Run(ctx context.Context, s Session, tick time.Duration, now func() time.Time, controls <-chan Control, onTick func(State)) (State, error) {
	if now == nil {
		now = time.Now
	}
	t := NewTimer(s)
	t.Start(now())

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Pause(now())
			return t.Tick(now()), ctx.Err()
		case c, ok := <-controls:
			if !ok {
				controls = nil
				continue
			}
			t.apply(c, now())
		case <-ticker.C:
		}

		st := t.Tick(now())
		if onTick != nil {
			onTick(st)
		}
		if st.Done {
			return st, nil
		}
	}
}
