package achievement

import (
	"time"

	"github.com/pbaille/wellness/internal/domain"
)

// History is everything the rules look at
type History struct {
	Moods   []domain.MoodEntry
	Journal []domain.JournalEntry
	Streak  int
}

// CompletedGoals counts completed goals across all journal entries
func (h History) CompletedGoals() int {
	n := 0
	for _, e := range h.Journal {
		for _, g := range e.Goals {
			if g.Completed {
				n++
			}
		}
	}
	return n
}

// GratitudeItems counts gratitude items across all journal entries
func (h History) GratitudeItems() int {
	n := 0
	for _, e := range h.Journal {
		n += len(e.Gratitude)
	}
	return n
}

// Rule unlocks one achievement when Unlocked returns true
type Rule struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Category    domain.Category
	Unlocked    func(History) bool
}

// Rules is the built-in rule table
var Rules = []Rule{
	{
		ID:          "first_entry",
		Title:       "First Steps",
		Description: "Completed your first journal entry",
		Icon:        "📝",
		Category:    domain.CategoryJournaling,
		Unlocked:    func(h History) bool { return len(h.Journal) >= 1 },
	},
	{
		ID:          "week_streak",
		Title:       "Week Warrior",
		Description: "Maintained a 7-day journaling streak",
		Icon:        "🔥",
		Category:    domain.CategoryStreaks,
		Unlocked:    func(h History) bool { return h.Streak >= 7 },
	},
	{
		ID:          "goal_setter",
		Title:       "Goal Getter",
		Description: "Completed 5 wellness goals",
		Icon:        "🎯",
		Category:    domain.CategoryGoals,
		Unlocked:    func(h History) bool { return h.CompletedGoals() >= 5 },
	},
	{
		ID:          "mood_logger",
		Title:       "Self-Aware",
		Description: "Logged your mood 10 times",
		Icon:        "💙",
		Category:    domain.CategoryWellness,
		Unlocked:    func(h History) bool { return len(h.Moods) >= 10 },
	},
	{
		ID:          "grateful_heart",
		Title:       "Grateful Heart",
		Description: "Wrote down 21 things you are grateful for",
		Icon:        "🙏",
		Category:    domain.CategoryJournaling,
		Unlocked:    func(h History) bool { return h.GratitudeItems() >= 21 },
	},
}

// Evaluate returns the achievements newly unlocked by history.
// Rules whose id is already in unlocked are skipped, so running it twice
// on the same input never yields a duplicate.
func Evaluate(rules []Rule, history History, unlocked []domain.Achievement, now time.Time) []domain.Achievement {
	have := make(map[string]struct{}, len(unlocked))
	for _, a := range unlocked {
		have[a.ID] = struct{}{}
	}

	var fresh []domain.Achievement
	for _, rule := range rules {
		if _, ok := have[rule.ID]; ok {
			continue
		}
		if rule.Unlocked == nil || !rule.Unlocked(history) {
			continue
		}
		have[rule.ID] = struct{}{}
		fresh = append(fresh, domain.Achievement{
			ID:          rule.ID,
			Title:       rule.Title,
			Description: rule.Description,
			Icon:        rule.Icon,
			UnlockedAt:  now,
			Category:    rule.Category,
		})
	}
	return fresh
}

// Merge appends fresh to unlocked, dropping ids already present
func Merge(unlocked, fresh []domain.Achievement) []domain.Achievement {
	out := make([]domain.Achievement, 0, len(unlocked)+len(fresh))
	seen := make(map[string]struct{}, len(unlocked)+len(fresh))
	for _, list := range [][]domain.Achievement{unlocked, fresh} {
		for _, a := range list {
			if _, ok := seen[a.ID]; ok {
				continue
			}
			seen[a.ID] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}
