package meditation

import "time"

// Phase of one breathing cycle
type Phase string

const (
	Inhale Phase = "inhale"
	Hold   Phase = "hold"
	Exhale Phase = "exhale"
)

// Phase lengths
const (
	InhaleDuration = 4 * time.Second
	HoldDuration   = 2 * time.Second
	ExhaleDuration = 4 * time.Second

	CycleDuration = InhaleDuration + HoldDuration + ExhaleDuration
)

// Instruction is the prompt shown during the phase
func (p Phase) Instruction() string {
	switch p {
	case Inhale:
		return "Breathe In"
	case Hold:
		return "Hold"
	case Exhale:
		return "Breathe Out"
	}
	return "Ready"
}

// Breath is the pacer position at some elapsed time
type Breath struct {
	Phase Phase `json:"phase"`
	// Cycles counts completed inhale-hold-exhale rounds
	Cycles int `json:"cycles"`
	// Remaining is the time left in the current phase
	Remaining time.Duration `json:"remaining"`
}

// Advance derives the pacer position from elapsed time alone
func Advance(elapsed time.Duration) Breath {
	if elapsed < 0 {
		elapsed = 0
	}
	b := Breath{Cycles: int(elapsed / CycleDuration)}
	in := elapsed % CycleDuration

	switch {
	case in < InhaleDuration:
		b.Phase = Inhale
		b.Remaining = InhaleDuration - in
	case in < InhaleDuration+HoldDuration:
		b.Phase = Hold
		b.Remaining = InhaleDuration + HoldDuration - in
	default:
		b.Phase = Exhale
		b.Remaining = CycleDuration - in
	}
	return b
}
