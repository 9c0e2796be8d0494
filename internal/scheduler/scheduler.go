package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/gsm-forecast/internal/cities"
	"github.com/i474232898/gsm-forecast/internal/weather"
)

const (
	defaultInterval = time.Hour
	fetchTimeout    = 30 * time.Second
	watchHours      = weather.DefaultHours
)

// Result is the outcome of one watched city in a run.
type Result struct {
	City    string
	Summary weather.Summary
	Err     error
}

// Scheduler periodically fetches the forecast of the watched cities and logs
// a summary line for each. Nothing is retained between runs.
type Scheduler struct {
	scheduler *gocron.Scheduler
	fetcher   weather.ForecastFetcher
	resolver  *cities.Resolver
	cities    []string
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(watch []string, interval time.Duration, fetcher weather.ForecastFetcher, resolver *cities.Resolver, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		fetcher:   fetcher,
		resolver:  resolver,
		cities:    watch,
		interval:  interval,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start schedules the watch job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		s.logger.Info("no cities to watch; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.logger.Info("forecast watch scheduled", "cities", s.cities, "interval", s.interval.String())
	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil && s.scheduler.IsRunning() {
		s.scheduler.Stop()
	}
}

// RunOnce fetches every watched city concurrently and logs a summary per
// city. Results keep the order of the watch list.
func (s *Scheduler) RunOnce(ctx context.Context) []Result {
	s.logger.Debug("running forecast watch")

	results := make([]Result, len(s.cities))
	var wg sync.WaitGroup
	for i, city := range s.cities {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.watch(ctx, city)
		}()
	}
	wg.Wait()

	s.logger.Debug("completed forecast watch", "cities", len(results))
	return results
}

func (s *Scheduler) watch(ctx context.Context, city string) Result {
	res := Result{City: city}

	coord, ok := s.resolver.Resolve(city)
	if !ok {
		res.Err = weather.NewError(weather.KindNotFound, "watch", "unknown city "+city, nil)
		s.logger.Warn("watched city not found", "city", city)
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	forecast, err := s.fetcher.Fetch(ctx, coord, watchHours)
	if err != nil {
		res.Err = err
		s.logger.Warn("forecast fetch failed", "city", city, "kind", weather.KindOf(err), "error", err)
		return res
	}

	res.Summary = forecast.Summary()
	attrs := []any{
		"city", city,
		"data_time", forecast.DataTime(),
		"hours", res.Summary.ForecastHours,
		"total_precipitation_mm", res.Summary.TotalPrecipitation,
		"rainy_hours", res.Summary.RainyHours,
	}
	if res.Summary.MaxTemperature != nil {
		attrs = append(attrs, "max_temp_c", *res.Summary.MaxTemperature, "min_temp_c", *res.Summary.MinTemperature)
	}
	s.logger.Info("forecast watch", attrs...)
	return res
}
