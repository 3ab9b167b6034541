package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"field-schedule-service/internal/domain"
	"field-schedule-service/internal/platform/obs"
	"field-schedule-service/internal/ports"
)

// AggregateOptions narrow a portfolio view.
type AggregateOptions struct {
	WorkerID   string // empty = all workers
	BuildingID string // empty = all buildings
	// WeatherOptimized reorders today's movable stops against the
	// current forecast. Other days are never optimized.
	WeatherOptimized bool
}

// ScheduleAggregator fans the per-worker route builder (and optimizer)
// out across the workforce and buckets the results into calendar views.
type ScheduleAggregator struct {
	Builder   *RouteBuilder
	Optimizer *Optimizer
	Workers   ports.WorkerDirectory
	Weather   ports.WeatherSource

	// FetchTimeout bounds the single snapshot fetch per aggregation
	// pass; on timeout the whole pass degrades to unoptimized routes.
	FetchTimeout time.Duration

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewScheduleAggregator(
	builder *RouteBuilder,
	optimizer *Optimizer,
	workers ports.WorkerDirectory,
	weather ports.WeatherSource,
) *ScheduleAggregator {
	return &ScheduleAggregator{
		Builder:      builder,
		Optimizer:    optimizer,
		Workers:      workers,
		Weather:      weather,
		FetchTimeout: 5 * time.Second,
		Now:          time.Now,
	}
}

// LoadWeek returns the Monday-through-Sunday week containing the
// reference date, grouped by weekday and sorted by start time.
func (a *ScheduleAggregator) LoadWeek(ctx context.Context, ref time.Time, opts AggregateOptions) (map[time.Weekday][]domain.ScheduleItem, error) {
	day := domain.DayOf(ref)
	offset := (int(day.Weekday()) + 6) % 7 // days since Monday
	monday := day.AddDate(0, 0, -offset)

	days := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, monday.AddDate(0, 0, i))
	}

	items, err := a.loadDays(ctx, days, opts)
	if err != nil {
		return nil, fmt.Errorf("load week: %w", err)
	}

	grouped := make(map[time.Weekday][]domain.ScheduleItem)
	for _, item := range items {
		grouped[item.Day.Weekday()] = append(grouped[item.Day.Weekday()], item)
	}
	sortBuckets(grouped)
	return grouped, nil
}

// LoadMonth returns the calendar month containing the reference date,
// grouped by day of month and sorted by start time.
func (a *ScheduleAggregator) LoadMonth(ctx context.Context, ref time.Time, opts AggregateOptions) (map[int][]domain.ScheduleItem, error) {
	day := domain.DayOf(ref)
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	next := first.AddDate(0, 1, 0)

	var days []time.Time
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}

	items, err := a.loadDays(ctx, days, opts)
	if err != nil {
		return nil, fmt.Errorf("load month: %w", err)
	}

	grouped := make(map[int][]domain.ScheduleItem)
	for _, item := range items {
		grouped[item.Day.Day()] = append(grouped[item.Day.Day()], item)
	}
	sortBuckets(grouped)
	return grouped, nil
}

type routeJob struct {
	worker domain.Worker
	day    time.Time
}

type routeResult struct {
	items []domain.ScheduleItem
}

// loadDays runs the builder (and optimizer where applicable) for every
// (worker, day) pair concurrently. Each computation is pure over
// immutable inputs, so no locking is needed beyond result collection.
func (a *ScheduleAggregator) loadDays(ctx context.Context, days []time.Time, opts AggregateOptions) (_ []domain.ScheduleItem, err error) {
	defer obs.Time(ctx, "schedule.loadDays")(&err)

	workers, err := a.Workers.ListActiveWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active workers: %w", err)
	}
	if opts.WorkerID != "" {
		// Filter into a fresh slice; the directory may hand out a shared
		// backing array and must not see our compaction.
		filtered := make([]domain.Worker, 0, 1)
		for _, w := range workers {
			if w.ID == opts.WorkerID {
				filtered = append(filtered, w)
			}
		}
		workers = filtered
	}
	if len(workers) == 0 || len(days) == 0 {
		return []domain.ScheduleItem{}, nil
	}

	now := a.Now()

	// One shared snapshot fetch per pass, passed by value to every
	// optimizer call; it is never re-fetched per worker. On timeout or
	// failure the pass proceeds unoptimized.
	var snap *domain.WeatherSnapshot
	if opts.WeatherOptimized && containsDay(days, now) {
		snap = a.fetchSnapshot(ctx)
	}

	jobs := make([]routeJob, 0, len(workers)*len(days))
	for _, day := range days {
		for _, w := range workers {
			jobs = append(jobs, routeJob{worker: w, day: day})
		}
	}

	sem := make(chan struct{}, 5)
	resultsCh := make(chan routeResult, len(jobs))
	var wg sync.WaitGroup

	for _, job := range jobs {
		wg.Add(1)
		go func(job routeJob) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			route, err := a.Builder.BuildRoute(ctx, job.worker.ID, job.day)
			if err != nil {
				// A failed worker contributes zero items for the day;
				// it never aborts the whole aggregation.
				log.Printf("aggregate: build route worker=%s day=%s: %v",
					job.worker.ID, job.day.Format("2006-01-02"), err)
				resultsCh <- routeResult{}
				return
			}

			if opts.WeatherOptimized && snap != nil && domain.SameDay(job.day, now) {
				route = a.Optimizer.Optimize(route, snap, now)
			}

			resultsCh <- routeResult{items: flatten(route, job.worker, job.day, opts.BuildingID)}
		}(job)
	}

	wg.Wait()
	close(resultsCh)

	items := make([]domain.ScheduleItem, 0, len(jobs))
	for res := range resultsCh {
		items = append(items, res.items...)
	}
	return items, nil
}

func (a *ScheduleAggregator) fetchSnapshot(ctx context.Context) *domain.WeatherSnapshot {
	fetchCtx := ctx
	if a.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, a.FetchTimeout)
		defer cancel()
	}

	snap, err := a.Weather.Snapshot(fetchCtx)
	if err != nil {
		log.Printf("aggregate: weather snapshot unavailable, skipping optimization: %v", err)
		return nil
	}
	return snap
}

// flatten converts a route into denormalized schedule rows.
func flatten(route *domain.WorkerRoute, worker domain.Worker, day time.Time, buildingID string) []domain.ScheduleItem {
	if route == nil {
		return nil
	}
	items := make([]domain.ScheduleItem, 0, len(route.Stops))
	for _, stop := range route.Stops {
		if buildingID != "" && stop.BuildingID != buildingID {
			continue
		}
		items = append(items, domain.ScheduleItem{
			Day:          day,
			Start:        stop.ArriveAt,
			End:          stop.End(),
			BuildingID:   stop.BuildingID,
			BuildingName: stop.BuildingName,
			WorkerID:     worker.ID,
			WorkerName:   worker.Name,
			Title:        stopTitle(stop),
			TaskCount:    len(stop.Operations),
			Locked:       stop.Locked,
		})
	}
	return items
}

func stopTitle(stop domain.RouteSequence) string {
	switch len(stop.Operations) {
	case 0:
		return stop.BuildingName
	case 1:
		return stop.Operations[0].Name
	default:
		return fmt.Sprintf("%s (+%d more)", stop.Operations[0].Name, len(stop.Operations)-1)
	}
}

func containsDay(days []time.Time, t time.Time) bool {
	for _, d := range days {
		if domain.SameDay(d, t) {
			return true
		}
	}
	return false
}

// sortBuckets orders every bucket by start time, then worker id for a
// deterministic view.
func sortBuckets[K comparable](grouped map[K][]domain.ScheduleItem) {
	for _, bucket := range grouped {
		sort.SliceStable(bucket, func(i, j int) bool {
			if !bucket[i].Start.Equal(bucket[j].Start) {
				return bucket[i].Start.Before(bucket[j].Start)
			}
			return bucket[i].WorkerID < bucket[j].WorkerID
		})
	}
}
