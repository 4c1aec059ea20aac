package crisis

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pbaille/wellness/internal/domain"
	"github.com/pbaille/wellness/internal/store"
)

func newSupport(t *testing.T) (*Support, *store.Store) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "wellness.db"))
	if err != nil {
		t.Fatalf("store.New() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return New(st), st
}

func TestContacts(t *testing.T) {
	ctx := context.Background()
	s, _ := newSupport(t)

	contacts, err := s.Contacts(ctx)
	if err != nil {
		t.Fatalf("Contacts() unexpected error: %v", err)
	}
	if len(contacts) != 2 || contacts[0].Phone != "988" || !contacts[0].IsPrimary {
		t.Fatalf("expected hotlines first, got %#v", contacts)
	}

	c, err := s.AddContact(ctx, ContactInput{Name: "Alex", Relationship: "sister", Phone: "555-0100"})
	if err != nil {
		t.Fatalf("AddContact() unexpected error: %v", err)
	}
	contacts, _ = s.Contacts(ctx)
	if len(contacts) != 3 || contacts[2].ID != c.ID || contacts[2].IsPrimary {
		t.Fatalf("unexpected contacts %#v", contacts)
	}

	if err := s.RemoveContact(ctx, "hotline-988"); !errors.Is(err, ErrBuiltIn) {
		t.Fatalf("expected ErrBuiltIn, got %v", err)
	}
	if err := s.RemoveContact(ctx, c.ID); err != nil {
		t.Fatalf("RemoveContact() unexpected error: %v", err)
	}
	if err := s.RemoveContact(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddContactRequiresNameAndPhone(t *testing.T) {
	s, _ := newSupport(t)
	_, err := s.AddContact(context.Background(), ContactInput{Name: "Alex"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Fields["phone"]; !ok {
		t.Fatalf("expected phone field error, got %v", verr.Fields)
	}
}

func TestPlan(t *testing.T) {
	ctx := context.Background()
	s, _ := newSupport(t)

	plan, err := s.Plan(ctx)
	if err != nil {
		t.Fatalf("Plan() unexpected error: %v", err)
	}
	if len(plan) != 3 || plan[0].Category != domain.PlanWarningSigns {
		t.Fatalf("expected default plan, got %#v", plan)
	}

	item, err := s.AddPlanItem(ctx, PlanInput{Title: "Therapist", Description: "Call Dr. Lee", Category: domain.PlanProfessionalHelp})
	if err != nil {
		t.Fatalf("AddPlanItem() unexpected error: %v", err)
	}
	if err := s.RemovePlanItem(ctx, "plan-distractions"); err != nil {
		t.Fatalf("RemovePlanItem() unexpected error: %v", err)
	}

	plan, _ = s.Plan(ctx)
	if len(plan) != 3 || plan[2].ID != item.ID {
		t.Fatalf("unexpected plan %#v", plan)
	}

	_, err = s.AddPlanItem(ctx, PlanInput{Title: "x", Description: "y", Category: "unknown"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for category, got %v", err)
	}
}

func TestEmptiedPlanStaysEmpty(t *testing.T) {
	ctx := context.Background()
	s, _ := newSupport(t)
	for _, item := range DefaultPlan {
		if err := s.RemovePlanItem(ctx, item.ID); err != nil {
			t.Fatalf("RemovePlanItem() unexpected error: %v", err)
		}
	}
	plan, err := s.Plan(ctx)
	if err != nil {
		t.Fatalf("Plan() unexpected error: %v", err)
	}
	if len(plan) != 0 {
		t.Fatalf("expected empty plan, got %#v", plan)
	}
}

func TestConcurrentAddsKeepEveryItem(t *testing.T) {
	ctx := context.Background()
	s, _ := newSupport(t)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.AddContact(ctx, ContactInput{Name: fmt.Sprintf("friend %d", i), Phone: "555-0100"})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := s.AddPlanItem(ctx, PlanInput{Title: fmt.Sprintf("step %d", i), Description: "breathe"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent add unexpected error: %v", err)
		}
	}

	contacts, _ := s.Contacts(ctx)
	if len(contacts) != len(Hotlines)+n {
		t.Fatalf("expected %d contacts, got %d", len(Hotlines)+n, len(contacts))
	}
	plan, _ := s.Plan(ctx)
	if len(plan) != len(DefaultPlan)+n {
		t.Fatalf("expected %d plan items, got %d", len(DefaultPlan)+n, len(plan))
	}
}
