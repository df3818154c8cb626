// Package scheduler keeps the landing page snapshot fresh for the preview server
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/allegro/techsite/pkg/domain"
)

//go:generate moq -out mocks/builder.go -pkg mocks -skip-ensure -fmt goimports . Builder

// Builder assembles a landing page from all sources
type Builder interface {
	Build(ctx context.Context) domain.Page
}

// Params holds scheduler dependencies and configuration
type Params struct {
	Builder        Builder
	UpdateInterval time.Duration
}

// Scheduler rebuilds the landing page periodically and keeps the latest one
type Scheduler struct {
	builder        Builder
	updateInterval time.Duration

	buildMu sync.Mutex // one build at a time
	mu      sync.RWMutex
	page    domain.Page
	built   bool

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewScheduler creates a new scheduler instance
func NewScheduler(params Params) *Scheduler {
	if params.UpdateInterval <= 0 {
		params.UpdateInterval = 30 * time.Minute
	}
	return &Scheduler{builder: params.Builder, updateInterval: params.UpdateInterval}
}

// Start builds the page right away and then on every update interval
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.updateWorker(ctx)

	lgr.Printf("[INFO] scheduler started with update interval %v", s.updateInterval)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// Refresh rebuilds the page immediately and returns it
func (s *Scheduler) Refresh(ctx context.Context) domain.Page {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	st := time.Now()
	page := s.builder.Build(ctx)

	s.mu.Lock()
	s.page, s.built = page, true
	s.mu.Unlock()

	lgr.Printf("[DEBUG] landing page refreshed in %v", time.Since(st))
	return page
}

// Page returns the latest page, false if nothing was built yet
func (s *Scheduler) Page() (domain.Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page, s.built
}

// updateWorker periodically rebuilds the page
func (s *Scheduler) updateWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	// run immediately on start
	s.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}
