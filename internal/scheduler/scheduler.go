package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper is the part of booking.Registry the scheduler drives.
type Sweeper interface {
	Sweep() int
	Len() int
}

// Scheduler periodically evicts idle visitor drafts so memory stays bounded.
type Scheduler struct {
	Registry Sweeper
	Interval time.Duration
	Logger   *slog.Logger

	// OnSweep, if set, receives the number of visitors still held after each pass.
	OnSweep func(remaining int)
}

func (s *Scheduler) Run(ctx context.Context) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := s.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.tick(logger)
		}
	}
}

func (s *Scheduler) tick(logger *slog.Logger) {
	evicted := s.Registry.Sweep()
	remaining := s.Registry.Len()
	if evicted > 0 {
		logger.Debug("idle visitors evicted", "evicted", evicted, "remaining", remaining)
	}
	if s.OnSweep != nil {
		s.OnSweep(remaining)
	}
}
