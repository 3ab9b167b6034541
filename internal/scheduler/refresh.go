package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"field-schedule-service/internal/adapters/weather"
)

// Refresher periodically refreshes the weather snapshot cache so
// aggregation passes rarely pay for a cold fetch.
type Refresher struct {
	scheduler *gocron.Scheduler
	source    *weather.CachedSource
	interval  time.Duration
}

func New(source *weather.CachedSource, interval time.Duration) *Refresher {
	return &Refresher{
		scheduler: gocron.NewScheduler(time.UTC),
		source:    source,
		interval:  interval,
	}
}

// Start schedules the periodic refresh and starts the underlying
// scheduler. The first refresh runs immediately so the cache is warm
// before the first request.
func (r *Refresher) Start() error {
	minutes := int(r.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	job := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := r.source.Refresh(ctx); err != nil {
			log.Printf("scheduler: weather refresh failed: %v", err)
			return
		}
		log.Printf("scheduler: weather snapshot refreshed")
	}

	if _, err := r.scheduler.Every(minutes).Minutes().Do(job); err != nil {
		return err
	}

	r.scheduler.StartAsync()
	go job()
	return nil
}

// Stop stops the scheduler and cancels future refreshes.
func (r *Refresher) Stop() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
}
