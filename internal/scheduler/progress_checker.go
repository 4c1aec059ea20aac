// Package scheduler runs periodic background jobs while the server is up.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pbaille/wellness/internal/wellness"
	"github.com/robfig/cron/v3"
)

// ProgressRunner is the part of the wellness service the checker drives
type ProgressRunner interface {
	Progress(ctx context.Context) (wellness.Progress, error)
}

// ProgressChecker periodically re-evaluates streaks and achievements so
// unlocks land even when nobody opens the dashboard
type ProgressChecker struct {
	service  ProgressRunner
	cron     *cron.Cron
	interval time.Duration
	timeout  time.Duration
}

// NewProgressChecker creates a new progress checker
func NewProgressChecker(service ProgressRunner, checkInterval time.Duration) *ProgressChecker {
	return &ProgressChecker{
		service:  service,
		cron:     cron.New(),
		interval: checkInterval,
		timeout:  time.Minute,
	}
}

// Start registers the job and starts the cron scheduler
func (p *ProgressChecker) Start() error {
	if p.interval <= 0 {
		return fmt.Errorf("invalid check interval %s", p.interval)
	}
	cronExpr := fmt.Sprintf("@every %s", p.interval.String())

	log.Printf("Starting progress checker with interval: %s", p.interval)

	if _, err := p.cron.AddFunc(cronExpr, p.check); err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	p.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running check to finish
func (p *ProgressChecker) Stop() {
	log.Println("Stopping progress checker...")
	ctx := p.cron.Stop()
	<-ctx.Done()
	log.Println("Progress checker stopped")
}

func (p *ProgressChecker) check() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	progress, err := p.service.Progress(ctx)
	if err != nil && !wellness.IsNotice(err) {
		log.Printf("Error checking progress: %v", err)
		return
	}
	for _, a := range progress.Unlocked {
		log.Printf("Progress check unlocked %s %s", a.Icon, a.Title)
	}
}
