package achievement

import (
	"reflect"
	"testing"
	"time"

	"github.com/pbaille/wellness/internal/domain"
)

var evalNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func goals(completed, open int) []domain.Goal {
	var out []domain.Goal
	for i := 0; i < completed; i++ {
		out = append(out, domain.Goal{ID: "done", Completed: true})
	}
	for i := 0; i < open; i++ {
		out = append(out, domain.Goal{ID: "open"})
	}
	return out
}

func ids(list []domain.Achievement) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}

func TestEvaluateEmptyHistoryUnlocksNothing(t *testing.T) {
	if got := Evaluate(Rules, History{}, nil, evalNow); len(got) != 0 {
		t.Fatalf("expected no achievements, got %v", ids(got))
	}
}

func TestEvaluateGoalSetterAcrossEntries(t *testing.T) {
	history := History{Journal: []domain.JournalEntry{
		{ID: "1", Goals: goals(2, 1)},
		{ID: "2", Goals: goals(0, 3)},
		{ID: "3", Goals: goals(3, 0)},
	}}

	first := Evaluate(Rules, history, nil, evalNow)
	unlocked := Merge(nil, first)
	second := Evaluate(Rules, history, unlocked, evalNow.Add(time.Hour))
	unlocked = Merge(unlocked, second)

	count := 0
	for _, a := range unlocked {
		if a.ID == "goal_setter" {
			count++
			if a.Category != domain.CategoryGoals || !a.UnlockedAt.Equal(evalNow) {
				t.Fatalf("unexpected goal_setter achievement %#v", a)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected goal_setter exactly once, got %d in %v", count, ids(unlocked))
	}
	if len(second) != 0 {
		t.Fatalf("expected second pass to unlock nothing, got %v", ids(second))
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	history := History{
		Journal: []domain.JournalEntry{{ID: "1", Goals: goals(5, 0)}},
		Streak:  9,
	}

	a := Evaluate(Rules, history, nil, evalNow)
	b := Evaluate(Rules, history, nil, evalNow)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical results, got %v and %v", ids(a), ids(b))
	}
	want := []string{"first_entry", "week_streak", "goal_setter"}
	if !reflect.DeepEqual(ids(a), want) {
		t.Fatalf("expected %v, got %v", want, ids(a))
	}
}

func TestEvaluateThresholds(t *testing.T) {
	tests := []struct {
		name    string
		history History
		want    []string
	}{
		{name: "streak of six", history: History{Streak: 6}, want: nil},
		{name: "streak of seven", history: History{Streak: 7}, want: []string{"week_streak"}},
		{name: "four completed goals", history: History{Journal: []domain.JournalEntry{{Goals: goals(4, 4)}}}, want: []string{"first_entry"}},
		{name: "ten moods", history: History{Moods: make([]domain.MoodEntry, 10)}, want: []string{"mood_logger"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := ids(Evaluate(Rules, testCase.history, nil, evalNow))
			if len(got) == 0 && len(testCase.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, testCase.want) {
				t.Fatalf("expected %v, got %v", testCase.want, got)
			}
		})
	}
}

func TestEvaluateDuplicateRuleIDsYieldOnce(t *testing.T) {
	always := func(History) bool { return true }
	rules := []Rule{{ID: "x", Unlocked: always}, {ID: "x", Unlocked: always}}

	if got := Evaluate(rules, History{}, nil, evalNow); len(got) != 1 {
		t.Fatalf("expected a single achievement, got %v", ids(got))
	}
}

func TestMergeKeepsExistingUnlockTime(t *testing.T) {
	earlier := evalNow.AddDate(0, 0, -3)
	existing := []domain.Achievement{{ID: "first_entry", UnlockedAt: earlier}}
	fresh := []domain.Achievement{{ID: "first_entry", UnlockedAt: evalNow}, {ID: "goal_setter", UnlockedAt: evalNow}}

	merged := Merge(existing, fresh)
	if len(merged) != 2 || !merged[0].UnlockedAt.Equal(earlier) || merged[1].ID != "goal_setter" {
		t.Fatalf("unexpected merge result %#v", merged)
	}
}
