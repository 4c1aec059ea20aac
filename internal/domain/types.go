package domain

import "time"

// Collection keys in the local store
const (
	KeyMoodEntries   = "moodEntries"
	KeyJournal       = "wellnessJournal"
	KeyAchievements  = "wellnessAchievements"
	KeyCrisisContact = "crisisContacts"
	KeySafetyPlan    = "safetyPlan"

	KeyAuthenticated = "isAuthenticated"
	KeyUserEmail     = "userEmail"
	KeyUserName      = "userName"
	KeyAIKey         = "ai_api_key"
	KeyAIProvider    = "ai_api_provider"
)

// Mood is one of the fixed mood labels a user can pick
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodCalm     Mood = "calm"
	MoodExcited  Mood = "excited"
	MoodAnxious  Mood = "anxious"
	MoodSad      Mood = "sad"
	MoodAngry    Mood = "angry"
	MoodTired    Mood = "tired"
	MoodGrateful Mood = "grateful"
)

// Moods lists every mood in display order
var Moods = []Mood{
	MoodHappy, MoodCalm, MoodExcited, MoodAnxious,
	MoodSad, MoodAngry, MoodTired, MoodGrateful,
}

var moodEmoji = map[Mood]string{
	MoodHappy:    "😊",
	MoodCalm:     "😌",
	MoodExcited:  "🤩",
	MoodAnxious:  "😰",
	MoodSad:      "😢",
	MoodAngry:    "😠",
	MoodTired:    "😴",
	MoodGrateful: "🙏",
}

// Emoji returns the display glyph for a mood
func (m Mood) Emoji() string {
	if e, ok := moodEmoji[m]; ok {
		return e
	}
	return "😐"
}

// Valid reports whether m is a known mood
func (m Mood) Valid() bool {
	_, ok := moodEmoji[m]
	return ok
}

// MaxGratitude caps the gratitude items on one journal entry
const MaxGratitude = 3

// MoodEntry is a single mood check-in
type MoodEntry struct {
	ID        string    `json:"id"`
	Mood      Mood      `json:"mood"`
	Intensity int       `json:"intensity"`
	Note      string    `json:"note,omitempty"`
	Date      time.Time `json:"date"`
}

// JournalEntry is one day's gratitude journal page
type JournalEntry struct {
	ID         string   `json:"id"`
	Date       string   `json:"date"` // YYYY-MM-DD
	Gratitude  []string `json:"gratitude"`
	Reflection string   `json:"reflection,omitempty"`
	Mood       string   `json:"mood"`
	Goals      []Goal   `json:"goals"`
}

// DateLayout is the calendar-day format journal entries use
const DateLayout = "2006-01-02"

// Day parses the entry date in loc
func (e JournalEntry) Day(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, e.Date, loc)
}

// Goal is a small wellness goal attached to a journal entry
type Goal struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Category groups achievements
type Category string

const (
	CategoryJournaling Category = "journaling"
	CategoryGoals      Category = "goals"
	CategoryStreaks    Category = "streaks"
	CategoryWellness   Category = "wellness"
)

// Achievement is an unlocked badge. ID is unique per rule.
type Achievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	UnlockedAt  time.Time `json:"unlockedAt"`
	Category    Category  `json:"category"`
}

// Factors holds the per-factor components of a wellness score
type Factors struct {
	Mood     int `json:"mood"`
	Sleep    int `json:"sleep"`
	Activity int `json:"activity"`
	Social   int `json:"social"`
}

// WellnessScore is derived per day and never persisted
type WellnessScore struct {
	Date    string  `json:"date"`
	Score   int     `json:"score"`
	Factors Factors `json:"factors"`
}

// EmergencyContact is a person or line to call in a crisis
type EmergencyContact struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone"`
	IsPrimary    bool   `json:"isPrimary"`
}

// PlanCategory groups safety plan items
type PlanCategory string

const (
	PlanWarningSigns     PlanCategory = "warning-signs"
	PlanCopingStrategies PlanCategory = "coping-strategies"
	PlanDistractions     PlanCategory = "distractions"
	PlanSupportPeople    PlanCategory = "support-people"
	PlanProfessionalHelp PlanCategory = "professional-help"
)

// SafetyPlanItem is one step of a personal safety plan
type SafetyPlanItem struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    PlanCategory `json:"category"`
}
