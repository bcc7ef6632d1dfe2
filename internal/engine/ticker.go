package engine

import (
	"context"
	"sync"
	"time"

	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/logger"
)

// Scheduler drives the engine's tick loop on a fixed wall-clock interval.
// Start is idempotent and Stop is safe to call at any time.
type Scheduler struct {
	engine   *Engine
	logger   *logger.Logger
	interval time.Duration

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
}

// NewScheduler creates a scheduler for the given engine. The interval comes
// from the content pack's balance section.
func NewScheduler(e *Engine, log *logger.Logger) *Scheduler {
	return &Scheduler{
		engine:   e,
		logger:   log,
		interval: time.Duration(e.Balance().TickIntervalMs) * time.Millisecond,
	}
}

// Start launches the tick loop in its own goroutine. Calling Start on a
// running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	s.mu.Unlock()

	s.logger.Info("Tick scheduler started at interval " + s.interval.String())

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Tick scheduler stopped by context.")
				s.markStopped()
				return
			case <-stop:
				s.logger.Info("Tick scheduler stopped manually.")
				return
			case <-ticker.C:
				s.engine.Tick()
			}
		}
	}()
}

// Stop halts the tick loop. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stopChan)
}

// IsRunning reports whether the loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) markStopped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}
