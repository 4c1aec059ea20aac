package wellness

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pbaille/wellness/internal/achievement"
	"github.com/pbaille/wellness/internal/domain"
	"github.com/pbaille/wellness/internal/metrics"
	"github.com/pbaille/wellness/internal/store"
	"github.com/pbaille/wellness/internal/streak"
)

// Progress is the dashboard summary computed on page load
type Progress struct {
	JournalStreak        int                  `json:"journalStreak"`
	LongestJournalStreak int                  `json:"longestJournalStreak"`
	MoodStreak           int                  `json:"moodStreak"`
	JournalEntries       int                  `json:"journalEntries"`
	MoodEntries          int                  `json:"moodEntries"`
	CompletedGoals       int                  `json:"completedGoals"`
	GratitudeItems       int                  `json:"gratitudeItems"`
	LastMood             domain.Mood          `json:"lastMood,omitempty"`
	Achievements         []domain.Achievement `json:"achievements"`
	// Unlocked holds the achievements this pass added
	Unlocked []domain.Achievement `json:"unlocked"`
}

// IsNotice reports whether err is a non-fatal storage notice: the write
// did not reach disk but the session keeps the data.
func IsNotice(err error) bool {
	return store.IsUnavailable(err)
}

// Progress reads every collection, computes streaks, and persists any
// achievements the current history unlocks.
func (s *Service) Progress(ctx context.Context) (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress(ctx)
}

// progress runs the achievement pass; the caller holds s.mu
func (s *Service) progress(ctx context.Context) (Progress, error) {
	journal, err := load[domain.JournalEntry](ctx, s, domain.KeyJournal)
	if err != nil {
		return Progress{}, fmt.Errorf("load journal: %w", err)
	}
	moods, err := load[domain.MoodEntry](ctx, s, domain.KeyMoodEntries)
	if err != nil {
		return Progress{}, fmt.Errorf("load moods: %w", err)
	}
	unlocked, err := load[domain.Achievement](ctx, s, domain.KeyAchievements)
	if err != nil {
		return Progress{}, fmt.Errorf("load achievements: %w", err)
	}

	now := s.now()
	journalDays := s.journalDates(journal)
	moodDays := make([]time.Time, len(moods))
	for i, m := range moods {
		moodDays[i] = m.Date
	}

	history := achievement.History{
		Moods:   moods,
		Journal: journal,
		Streak:  streak.Current(journalDays, now, s.loc),
	}

	p := Progress{
		JournalStreak:        history.Streak,
		LongestJournalStreak: streak.Longest(journalDays, s.loc),
		MoodStreak:           streak.Current(moodDays, now, s.loc),
		JournalEntries:       len(journal),
		MoodEntries:          len(moods),
		CompletedGoals:       history.CompletedGoals(),
		GratitudeItems:       history.GratitudeItems(),
		Unlocked:             []domain.Achievement{},
	}
	if len(moods) > 0 {
		p.LastMood = moods[0].Mood
	}

	fresh := achievement.Evaluate(achievement.Rules, history, unlocked, now)
	p.Achievements = achievement.Merge(unlocked, fresh)
	if len(fresh) == 0 {
		return p, nil
	}

	p.Unlocked = fresh
	for _, a := range fresh {
		log.Printf("wellness: unlocked achievement %s", a.ID)
	}
	return p, save(ctx, s, domain.KeyAchievements, p.Achievements)
}

func (s *Service) journalDates(entries []domain.JournalEntry) []time.Time {
	dates := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		day, err := e.Day(s.loc)
		if err != nil {
			log.Printf("wellness: skip journal entry %s with bad date %q", e.ID, e.Date)
			continue
		}
		dates = append(dates, day)
	}
	return dates
}

// Analytics builds the metrics report for window w
func (s *Service) Analytics(ctx context.Context, w metrics.Window) (metrics.Report, error) {
	moods, err := load[domain.MoodEntry](ctx, s, domain.KeyMoodEntries)
	if err != nil {
		return metrics.Report{}, fmt.Errorf("load moods: %w", err)
	}

	now := s.now()
	moodSource := metrics.NewMoodSource(moods, s.loc)
	src := metrics.Sources{Mood: moodSource}
	var sleep []metrics.SleepSample
	if s.placeholders {
		src = metrics.PlaceholderSources(moodSource, s.seed)
		sleep = metrics.PlaceholderSleep(w, now, s.loc, s.seed)
	}

	return metrics.Build(moods, sleep, w, now, s.loc, src), nil
}
