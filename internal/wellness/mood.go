package wellness

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pbaille/wellness/internal/domain"
	"github.com/pbaille/wellness/internal/sanitize"
	"github.com/pbaille/wellness/internal/store"
	"github.com/pbaille/wellness/internal/validate"
)

// DefaultIntensity is the slider's starting value
const DefaultIntensity = 5

// MoodInput is a mood check-in as submitted by the user
type MoodInput struct {
	Mood      string `json:"mood" validate:"required,mood"`
	Intensity int    `json:"intensity" validate:"min=1,max=10"`
	Note      string `json:"note" validate:"max=2000"`
}

// LogMood validates in and prepends a new entry to the mood collection
func (s *Service) LogMood(ctx context.Context, in MoodInput) (domain.MoodEntry, error) {
	in.Mood = strings.ToLower(strings.TrimSpace(in.Mood))
	in.Note = sanitize.Text(in.Note)
	if err := validate.Struct(in); err != nil {
		return domain.MoodEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := load[domain.MoodEntry](ctx, s, domain.KeyMoodEntries)
	if err != nil {
		return domain.MoodEntry{}, fmt.Errorf("load moods: %w", err)
	}

	entry := domain.MoodEntry{
		ID:        uuid.New().String(),
		Mood:      domain.Mood(in.Mood),
		Intensity: in.Intensity,
		Note:      in.Note,
		Date:      s.now().In(s.loc),
	}
	entries = append([]domain.MoodEntry{entry}, entries...)

	return entry, save(ctx, s, domain.KeyMoodEntries, entries)
}

// Moods returns all mood entries, newest first
func (s *Service) Moods(ctx context.Context) ([]domain.MoodEntry, error) {
	return load[domain.MoodEntry](ctx, s, domain.KeyMoodEntries)
}

// ClearMoods deletes the whole mood collection
func (s *Service) ClearMoods(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.Clear(ctx, s.store, domain.KeyMoodEntries)
}
