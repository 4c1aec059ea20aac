package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/pbaille/wellness/internal/domain"
	"github.com/pbaille/wellness/internal/streak"
)

// Window is an analytics range in days
type Window int

const (
	Week    Window = 7
	Month   Window = 30
	Quarter Window = 90
)

// DefaultWindow is used when no range is given
const DefaultWindow = Month

// ParseWindow accepts "7d", "30d" or "90d". An empty string is DefaultWindow.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultWindow, nil
	case "7d", "7":
		return Week, nil
	case "30d", "30":
		return Month, nil
	case "90d", "90":
		return Quarter, nil
	}
	return 0, fmt.Errorf("unknown range %q (want 7d, 30d or 90d)", s)
}

func (w Window) String() string {
	return fmt.Sprintf("%dd", int(w))
}

// Days returns the window length
func (w Window) Days() int {
	return int(w)
}

// Cutoff returns the start of the window's first calendar day in loc.
// The window covers today and the Days()-1 days before it, the same days
// Scores rates.
func (w Window) Cutoff(now time.Time, loc *time.Location) time.Time {
	return streak.Day(now, loc).AddDate(0, 0, -(w.Days() - 1))
}

// Filter keeps the mood entries dated inside the window, in input order
func Filter(entries []domain.MoodEntry, w Window, now time.Time, loc *time.Location) []domain.MoodEntry {
	cutoff := w.Cutoff(now, loc)
	out := make([]domain.MoodEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Date.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}
