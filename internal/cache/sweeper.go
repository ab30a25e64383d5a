package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// Sweepable is anything whose expired entries can be reclaimed in one pass
type Sweepable interface {
	Sweep() int
}

// Sweeper runs Sweep on a fixed interval until stopped. The interval is
// independent of the cache TTL, so an unread expired entry may live up to one
// interval past its expiry.
type Sweeper struct {
	target    Sweepable
	interval  time.Duration
	scheduler *gocron.Scheduler
	mu        sync.Mutex
	running   bool
}

func NewSweeper(target Sweepable, interval time.Duration) *Sweeper {
	return &Sweeper{
		target:   target,
		interval: interval,
	}
}

// Start schedules the periodic sweep. Calling Start on a running sweeper is a
// no-op.
func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if s.interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", s.interval)
	}

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(s.interval).WaitForSchedule().Do(s.sweep)
	if err != nil {
		return fmt.Errorf("scheduling cache sweep: %w", err)
	}

	scheduler.StartAsync()
	s.scheduler = scheduler
	s.running = true

	log.Debug().Dur("interval", s.interval).Msg("Cache sweeper started")
	return nil
}

// Stop cancels future sweeps. Safe to call more than once.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.scheduler.Stop()
	s.scheduler = nil
	s.running = false

	log.Debug().Msg("Cache sweeper stopped")
}

func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Sweeper) sweep() {
	removed := s.target.Sweep()
	log.Debug().Int("removed", removed).Msg("Scheduled cache sweep finished")
}
