package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pbaille/wellness/internal/domain"
	"github.com/pbaille/wellness/internal/wellness"
)

type stubRunner struct {
	calls atomic.Int32
	err   error
}

func (s *stubRunner) Progress(context.Context) (wellness.Progress, error) {
	s.calls.Add(1)
	return wellness.Progress{Unlocked: []domain.Achievement{{ID: "first_entry", Title: "First Entry"}}}, s.err
}

func TestCheckCallsProgress(t *testing.T) {
	stub := &stubRunner{}
	checker := NewProgressChecker(stub, 0)
	checker.check()

	stub.err = errors.New("boom")
	checker.check()

	if got := stub.calls.Load(); got != 2 {
		t.Fatalf("expected 2 progress calls, got %d", got)
	}
}

func TestStartRejectsBadInterval(t *testing.T) {
	if err := NewProgressChecker(&stubRunner{}, 0).Start(); err == nil {
		t.Fatalf("expected error for zero interval")
	}
}

func TestStartStop(t *testing.T) {
	checker := NewProgressChecker(&stubRunner{}, time.Hour)
	if err := checker.Start(); err != nil {
		t.Fatalf("Start() unexpected error: %v", err)
	}
	checker.Stop()
}
