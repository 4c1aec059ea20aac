// Package crisis keeps emergency contacts and the personal safety plan.
package crisis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/pbaille/wellness/internal/domain"
	"github.com/pbaille/wellness/internal/sanitize"
	"github.com/pbaille/wellness/internal/store"
	"github.com/pbaille/wellness/internal/validate"
)

// ErrNotFound is returned when removing an unknown id
var ErrNotFound = errors.New("not found")

// ErrBuiltIn is returned when removing a built-in hotline
var ErrBuiltIn = errors.New("built-in hotline cannot be removed")

// Hotlines are always listed ahead of personal contacts
var Hotlines = []domain.EmergencyContact{
	{ID: "hotline-988", Name: "National Suicide Prevention Lifeline", Relationship: "24/7 Crisis Support", Phone: "988", IsPrimary: true},
	{ID: "hotline-text", Name: "Crisis Text Line", Relationship: "Text Support", Phone: "Text HOME to 741741"},
}

// DefaultPlan seeds the safety plan until the user edits it
var DefaultPlan = []domain.SafetyPlanItem{
	{ID: "plan-warning-signs", Title: "Warning Signs", Description: "Feeling hopeless, extreme mood swings, talking about death, withdrawing from others", Category: domain.PlanWarningSigns},
	{ID: "plan-coping", Title: "Coping Strategies", Description: "Deep breathing, calling a friend, going for a walk, listening to music", Category: domain.PlanCopingStrategies},
	{ID: "plan-distractions", Title: "Distractions", Description: "Reading a book, watching a movie, doing puzzles, drawing or coloring", Category: domain.PlanDistractions},
}

// ContactInput is a new personal contact
type ContactInput struct {
	Name         string `json:"name" validate:"notblank,max=200"`
	Relationship string `json:"relationship" validate:"max=200"`
	Phone        string `json:"phone" validate:"notblank,max=50"`
}

// PlanInput is a new safety plan step
type PlanInput struct {
	Title       string              `json:"title" validate:"notblank,max=200"`
	Description string              `json:"description" validate:"notblank,max=2000"`
	Category    domain.PlanCategory `json:"category" validate:"plancategory"`
}

// Support manages contacts and the plan in the record store.
// Writes hold mu from load to save.
type Support struct {
	store *store.Store
	mu    sync.Mutex
}

// New creates a Support over st
func New(st *store.Store) *Support {
	return &Support{store: st}
}

// Contacts returns the hotlines followed by personal contacts
func (s *Support) Contacts(ctx context.Context) ([]domain.EmergencyContact, error) {
	personal, err := s.personal(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.EmergencyContact, 0, len(Hotlines)+len(personal))
	out = append(out, Hotlines...)
	return append(out, personal...), nil
}

// AddContact appends a personal contact
func (s *Support) AddContact(ctx context.Context, in ContactInput) (domain.EmergencyContact, error) {
	in.Name = sanitize.Line(in.Name)
	in.Relationship = sanitize.Line(in.Relationship)
	in.Phone = sanitize.Line(in.Phone)
	if err := validate.Struct(in); err != nil {
		return domain.EmergencyContact{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	personal, err := s.personal(ctx)
	if err != nil {
		return domain.EmergencyContact{}, err
	}
	c := domain.EmergencyContact{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Relationship: in.Relationship,
		Phone:        in.Phone,
	}
	return c, store.Save(ctx, s.store, domain.KeyCrisisContact, append(personal, c))
}

// RemoveContact deletes a personal contact by id
func (s *Support) RemoveContact(ctx context.Context, id string) error {
	for _, h := range Hotlines {
		if h.ID == id {
			return ErrBuiltIn
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	personal, err := s.personal(ctx)
	if err != nil {
		return err
	}
	kept, found := without(personal, id, func(c domain.EmergencyContact) string { return c.ID })
	if !found {
		return fmt.Errorf("contact %s: %w", id, ErrNotFound)
	}
	return store.Save(ctx, s.store, domain.KeyCrisisContact, kept)
}

// Plan returns the safety plan, or DefaultPlan when none was saved
func (s *Support) Plan(ctx context.Context) ([]domain.SafetyPlanItem, error) {
	raw, ok, err := s.store.Get(ctx, domain.KeySafetyPlan)
	if err != nil {
		return nil, fmt.Errorf("load safety plan: %w", err)
	}
	if !ok || raw == "" {
		return append([]domain.SafetyPlanItem(nil), DefaultPlan...), nil
	}
	items, err := store.Load[domain.SafetyPlanItem](ctx, s.store, domain.KeySafetyPlan)
	if store.IsParseError(err) {
		log.Printf("crisis: %v; restoring default plan", err)
		return append([]domain.SafetyPlanItem(nil), DefaultPlan...), nil
	}
	return items, err
}

// AddPlanItem appends a step to the plan
func (s *Support) AddPlanItem(ctx context.Context, in PlanInput) (domain.SafetyPlanItem, error) {
	in.Title = sanitize.Line(in.Title)
	in.Description = sanitize.Text(in.Description)
	if in.Category == "" {
		in.Category = domain.PlanCopingStrategies
	}
	if err := validate.Struct(in); err != nil {
		return domain.SafetyPlanItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.Plan(ctx)
	if err != nil {
		return domain.SafetyPlanItem{}, err
	}
	item := domain.SafetyPlanItem{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
	}
	return item, store.Save(ctx, s.store, domain.KeySafetyPlan, append(plan, item))
}

// RemovePlanItem deletes a plan step by id
func (s *Support) RemovePlanItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.Plan(ctx)
	if err != nil {
		return err
	}
	kept, found := without(plan, id, func(i domain.SafetyPlanItem) string { return i.ID })
	if !found {
		return fmt.Errorf("plan item %s: %w", id, ErrNotFound)
	}
	return store.Save(ctx, s.store, domain.KeySafetyPlan, kept)
}

func (s *Support) personal(ctx context.Context) ([]domain.EmergencyContact, error) {
	contacts, err := store.Load[domain.EmergencyContact](ctx, s.store, domain.KeyCrisisContact)
	if store.IsParseError(err) {
		log.Printf("crisis: %v; starting contacts empty", err)
		return contacts, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}
	return contacts, nil
}

func without[T any](items []T, id string, key func(T) string) ([]T, bool) {
	out := make([]T, 0, len(items))
	found := false
	for _, it := range items {
		if key(it) == id {
			found = true
			continue
		}
		out = append(out, it)
	}
	return out, found
}
