/*
scheduler.go - Background period materialization

PURPOSE:
  The mobile app materialized the current period's logs whenever its main
  screen appeared. A server has no such moment, so a background goroutine
  periodically ensures the current period is materialized; clients then
  always see a fully populated period even on their first read after a
  cycle rollover.

DESIGN:
  - Ticker-driven goroutine with configurable interval
  - Each pass re-reads settings, so a changed month start day takes
    effect on the next tick
  - Materialization is idempotent, so overlapping work with request-path
    materialization is harmless

USAGE:
  scheduler := NewMaterializationScheduler(handler.Tracker, time.Hour)
  scheduler.Start()
  // ... later
  scheduler.Stop()
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/budget-engine/tracker"
)

// MaterializationScheduler ensures the current period stays materialized.
type MaterializationScheduler struct {
	Tracker  *tracker.Tracker
	Interval time.Duration

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewMaterializationScheduler creates a scheduler. A zero interval defaults
// to one hour.
func NewMaterializationScheduler(t *tracker.Tracker, interval time.Duration) *MaterializationScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &MaterializationScheduler{
		Tracker:  t,
		Interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start launches the background goroutine. It runs one pass immediately.
func (s *MaterializationScheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runOnce()

		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runOnce()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop terminates the scheduler and waits for the goroutine to exit.
func (s *MaterializationScheduler) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
}

func (s *MaterializationScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	period, err := s.Tracker.ResolvePeriod(ctx, s.Tracker.Now().UTC(), 0)
	if err != nil {
		log.Printf("scheduler: resolve period: %v", err)
		return
	}
	payments, err := s.Tracker.Payments.AllSortedByDay(ctx)
	if err != nil {
		log.Printf("scheduler: load payments: %v", err)
		return
	}
	created, err := s.Tracker.Materializer.EnsureLogsForPeriod(ctx, period, payments)
	if err != nil {
		log.Printf("scheduler: materialize %s: %v", period, err)
		return
	}
	if len(created) > 0 {
		log.Printf("scheduler: materialized %d logs for period %s", len(created), period)
	}
}
