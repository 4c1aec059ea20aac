package wellness

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pbaille/wellness/internal/domain"
	"github.com/pbaille/wellness/internal/sanitize"
	"github.com/pbaille/wellness/internal/validate"
)

// JournalDraft is a journal page being written
type JournalDraft struct {
	Gratitude  []string      `json:"gratitude" validate:"min=1,max=3,dive,notblank"`
	Reflection string        `json:"reflection" validate:"max=10000"`
	Mood       string        `json:"mood" validate:"required,mood"`
	Goals      []domain.Goal `json:"goals"`
}

// AddGratitude appends an item, refusing a fourth one
func (d *JournalDraft) AddGratitude(text string) error {
	text = sanitize.Line(text)
	if text == "" {
		return domain.NewValidationError("gratitude", "is required")
	}
	if len(d.Gratitude) >= domain.MaxGratitude {
		return domain.NewValidationError("gratitude", fmt.Sprintf("holds at most %d items", domain.MaxGratitude))
	}
	d.Gratitude = append(d.Gratitude, text)
	return nil
}

// RemoveGratitude drops the item at index i
func (d *JournalDraft) RemoveGratitude(i int) {
	if i < 0 || i >= len(d.Gratitude) {
		return
	}
	d.Gratitude = append(d.Gratitude[:i:i], d.Gratitude[i+1:]...)
}

// AddGoal appends an open goal
func (d *JournalDraft) AddGoal(text string, now time.Time) (domain.Goal, error) {
	text = sanitize.Line(text)
	if text == "" {
		return domain.Goal{}, domain.NewValidationError("goal", "is required")
	}
	g := domain.Goal{ID: uuid.New().String(), Text: text, CreatedAt: now}
	d.Goals = append(d.Goals, g)
	return g, nil
}

// ToggleGoal flips completion of the goal with id
func (d *JournalDraft) ToggleGoal(id string, now time.Time) bool {
	return toggleGoal(d.Goals, id, now)
}

func toggleGoal(goals []domain.Goal, id string, now time.Time) bool {
	for i := range goals {
		if goals[i].ID != id {
			continue
		}
		goals[i].Completed = !goals[i].Completed
		if goals[i].Completed {
			at := now
			goals[i].CompletedAt = &at
		} else {
			goals[i].CompletedAt = nil
		}
		return true
	}
	return false
}

// SaveJournal stores the draft as today's entry and runs the achievement
// pass. It returns the saved entry and any achievements it unlocked.
func (s *Service) SaveJournal(ctx context.Context, d JournalDraft) (domain.JournalEntry, []domain.Achievement, error) {
	d.Mood = strings.ToLower(strings.TrimSpace(d.Mood))
	d.Reflection = sanitize.Text(d.Reflection)
	d.Gratitude = append([]string(nil), d.Gratitude...)
	for i := range d.Gratitude {
		d.Gratitude[i] = sanitize.Line(d.Gratitude[i])
	}
	if err := validate.Struct(d); err != nil {
		return domain.JournalEntry{}, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := load[domain.JournalEntry](ctx, s, domain.KeyJournal)
	if err != nil {
		return domain.JournalEntry{}, nil, fmt.Errorf("load journal: %w", err)
	}

	goals := append([]domain.Goal{}, d.Goals...)
	entry := domain.JournalEntry{
		ID:         uuid.New().String(),
		Date:       s.now().In(s.loc).Format(domain.DateLayout),
		Gratitude:  d.Gratitude,
		Reflection: d.Reflection,
		Mood:       d.Mood,
		Goals:      goals,
	}
	entries = append([]domain.JournalEntry{entry}, entries...)

	saveErr := save(ctx, s, domain.KeyJournal, entries)
	if saveErr != nil && !IsNotice(saveErr) {
		return domain.JournalEntry{}, nil, saveErr
	}

	progress, err := s.progress(ctx)
	if err != nil && !IsNotice(err) {
		return entry, nil, err
	}
	if saveErr != nil {
		return entry, progress.Unlocked, saveErr
	}
	return entry, progress.Unlocked, err
}

// Journal returns all journal entries, newest first
func (s *Service) Journal(ctx context.Context) ([]domain.JournalEntry, error) {
	return load[domain.JournalEntry](ctx, s, domain.KeyJournal)
}

// ToggleGoal flips a goal on a saved entry and re-runs the achievement pass
func (s *Service) ToggleGoal(ctx context.Context, entryID, goalID string) (domain.JournalEntry, []domain.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := load[domain.JournalEntry](ctx, s, domain.KeyJournal)
	if err != nil {
		return domain.JournalEntry{}, nil, fmt.Errorf("load journal: %w", err)
	}

	idx := -1
	for i := range entries {
		if strings.HasPrefix(entries[i].ID, entryID) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.JournalEntry{}, nil, fmt.Errorf("journal entry %s: %w", entryID, ErrNotFound)
	}

	goalID = resolveGoalID(entries[idx].Goals, goalID)
	if !toggleGoal(entries[idx].Goals, goalID, s.now()) {
		return domain.JournalEntry{}, nil, fmt.Errorf("goal %s: %w", goalID, ErrNotFound)
	}

	saveErr := save(ctx, s, domain.KeyJournal, entries)
	if saveErr != nil && !IsNotice(saveErr) {
		return domain.JournalEntry{}, nil, saveErr
	}

	progress, err := s.progress(ctx)
	if err != nil && !IsNotice(err) {
		return entries[idx], nil, err
	}
	if saveErr != nil {
		return entries[idx], progress.Unlocked, saveErr
	}
	return entries[idx], progress.Unlocked, err
}

// resolveGoalID expands an id prefix when it matches exactly one goal
func resolveGoalID(goals []domain.Goal, prefix string) string {
	match := ""
	for _, g := range goals {
		if g.ID == prefix {
			return prefix
		}
		if strings.HasPrefix(g.ID, prefix) {
			if match != "" {
				return prefix
			}
			match = g.ID
		}
	}
	if match == "" {
		return prefix
	}
	return match
}
