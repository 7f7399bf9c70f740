// Package scheduler runs the periodic cache janitor.
package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Sweeper removes expired entries and reports how many were dropped.
// Lazy eviction on read remains the correctness mechanism; the sweep only
// bounds memory growth between reads.
type Sweeper interface {
	SweepExpired() int
}

// Janitor periodically sweeps expired cache entries.
type Janitor struct {
	scheduler *gocron.Scheduler
	sweeper   Sweeper
	interval  time.Duration
}

// New creates a Janitor sweeping the given store on the given interval.
func New(sweeper Sweeper, interval time.Duration) *Janitor {
	return &Janitor{
		scheduler: gocron.NewScheduler(time.UTC),
		sweeper:   sweeper,
		interval:  interval,
	}
}

// Start schedules the sweep job and starts the underlying scheduler.
func (j *Janitor) Start() error {
	minutes := int(j.interval.Minutes())
	if minutes <= 0 {
		minutes = 5
	}

	_, err := j.scheduler.Every(minutes).Minutes().Do(func() {
		if removed := j.sweeper.SweepExpired(); removed > 0 {
			log.Printf("janitor: swept %d expired cache entries", removed)
		}
	})
	if err != nil {
		return err
	}

	j.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future sweeps.
func (j *Janitor) Stop() {
	if j.scheduler != nil {
		j.scheduler.Stop()
	}
}
