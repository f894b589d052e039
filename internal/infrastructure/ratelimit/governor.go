// Package ratelimit enforces the lookup quota of the pricing provider.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/flight-search/flexible-date-search/internal/infrastructure/metrics"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/timeutil"
)

// Window lengths of the two quotas.
const (
	MinuteWindow = 60 * time.Second
	HourWindow   = 3600 * time.Second
)

// Default capacities, matching the provider's published quota.
const (
	DefaultPerMinute = 10
	DefaultPerHour   = 100
)

// Config holds the capacity of each window.
type Config struct {
	PerMinute int
	PerHour   int
}

// DefaultConfig returns the provider's published quota.
func DefaultConfig() Config {
	return Config{PerMinute: DefaultPerMinute, PerHour: DefaultPerHour}
}

// window is a FIFO log of permit timestamps with a fixed capacity.
type window struct {
	name     string
	length   time.Duration
	capacity int
	stamps   []time.Time
}

// purge drops timestamps that are at least one window length old.
func (w *window) purge(now time.Time) {
	cutoff := 0
	for cutoff < len(w.stamps) && now.Sub(w.stamps[cutoff]) >= w.length {
		cutoff++
	}
	if cutoff > 0 {
		w.stamps = append(w.stamps[:0], w.stamps[cutoff:]...)
	}
}

// active counts timestamps still inside the window.
func (w *window) active(now time.Time) int {
	n := 0
	for _, ts := range w.stamps {
		if now.Sub(ts) < w.length {
			n++
		}
	}
	return n
}

// wait returns how long until the oldest entry leaves a full window.
func (w *window) wait(now time.Time) time.Duration {
	if len(w.stamps) < w.capacity {
		return 0
	}
	return timeutil.DurationUntil(now, w.stamps[0].Add(w.length))
}

// Governor admits lookups under a per-minute and a per-hour quota.
//
// Acquire is the only mutator. Callers sharing one Governor are serialized,
// so a waiting caller holds the lock until its permit is recorded.
type Governor struct {
	mu     sync.Mutex
	clock  timeutil.Clock
	minute *window
	hour   *window
	logger zerolog.Logger
}

// New creates a Governor. Non-positive capacities fall back to the defaults.
func New(cfg Config, clock timeutil.Clock, logger zerolog.Logger) *Governor {
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = DefaultPerMinute
	}
	if cfg.PerHour <= 0 {
		cfg.PerHour = DefaultPerHour
	}
	if clock == nil {
		clock = timeutil.NewRealClock()
	}

	return &Governor{
		clock:  clock,
		minute: &window{name: "minute", length: MinuteWindow, capacity: cfg.PerMinute},
		hour:   &window{name: "hour", length: HourWindow, capacity: cfg.PerHour},
		logger: logger.With().Str("component", "rate_governor").Logger(),
	}
}

// Acquire blocks until both quotas admit one more lookup, then records it.
// It returns ctx.Err() if the context ends while waiting; no permit is
// recorded in that case.
func (g *Governor) Acquire(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var waited time.Duration
	for {
		now := g.clock.Now()
		g.minute.purge(now)
		g.hour.purge(now)

		binding := g.minute
		wait := g.minute.wait(now)
		if hourWait := g.hour.wait(now); hourWait > wait {
			binding, wait = g.hour, hourWait
		}

		if wait <= 0 {
			g.minute.stamps = append(g.minute.stamps, now)
			g.hour.stamps = append(g.hour.stamps, now)
			metrics.GovernorPermits.Inc()
			if waited > 0 {
				metrics.GovernorWaitSeconds.Observe(waited.Seconds())
			}
			return nil
		}

		metrics.GovernorWaits.WithLabelValues(binding.name).Inc()
		g.logger.Debug().
			Str("window", binding.name).
			Dur("wait", wait).
			Int("used", len(binding.stamps)).
			Int("capacity", binding.capacity).
			Msg("quota reached, waiting for permit")

		if err := g.clock.Sleep(ctx, wait); err != nil {
			return err
		}
		waited += wait
	}
}

// Usage reports how many permits fall inside each window right now.
func (g *Governor) Usage() (minute, hour int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	return g.minute.active(now), g.hour.active(now)
}

// Reset forgets all recorded permits.
func (g *Governor) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.minute.stamps = nil
	g.hour.stamps = nil
}
