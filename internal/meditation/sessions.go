// Package meditation provides the session catalogue, the breathing
// pacer and a pausable session timer.
package meditation

import (
	"fmt"
	"strings"
	"time"
)

// Type of session playback
type Type string

const (
	TypeGuided    Type = "guided"
	TypeTimer     Type = "timer"
	TypeBreathing Type = "breathing"
)

// Session is one entry of the catalogue
type Session struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Minutes     int    `json:"duration"`
	Category    string `json:"category"`
	Type        Type   `json:"type"`
}

// Duration returns the session length
func (s Session) Duration() time.Duration {
	return time.Duration(s.Minutes) * time.Minute
}

// Sessions is the built-in catalogue
var Sessions = []Session{
	{ID: "1", Title: "Mindful Breathing", Description: "A simple 5-minute breathing exercise to center yourself", Minutes: 5, Category: "breathing", Type: TypeBreathing},
	{ID: "2", Title: "Body Scan Meditation", Description: "Progressive relaxation through body awareness", Minutes: 10, Category: "meditation", Type: TypeGuided},
	{ID: "3", Title: "Sleep Preparation", Description: "Gentle meditation to help you drift into peaceful sleep", Minutes: 15, Category: "sleep", Type: TypeGuided},
	{ID: "4", Title: "Anxiety Relief", Description: "Quick techniques to calm anxious thoughts", Minutes: 8, Category: "anxiety", Type: TypeGuided},
	{ID: "5", Title: "Gratitude Practice", Description: "Cultivate appreciation and positive mindset", Minutes: 7, Category: "gratitude", Type: TypeGuided},
}

// Find looks a session up by id or case-insensitive title
func Find(ref string) (Session, error) {
	ref = strings.TrimSpace(ref)
	for _, s := range Sessions {
		if s.ID == ref || strings.EqualFold(s.Title, ref) {
			return s, nil
		}
	}
	return Session{}, fmt.Errorf("unknown session %q", ref)
}

// CompletionMessage is shown when a session runs to the end
const CompletionMessage = "Session completed! Great job taking time for yourself. 🌟"

// FormatClock renders d as m:ss
func FormatClock(d time.Duration) string {
	secs := int(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
