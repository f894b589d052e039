package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/flight-search/flexible-date-search/internal/domain"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/metrics"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/timeutil"
)

// Permitter grants permission for one external call, blocking while the
// quota is exhausted.
type Permitter interface {
	Acquire(ctx context.Context) error
}

// ProgressFunc is called before each lookup with the 1-based index of the
// lookup about to run and the number planned.
type ProgressFunc func(current, total int)

// ItemFunc is called after each recorded lookup with its item.
type ItemFunc func(item domain.BatchItem)

// BatchReport is the result of a batch.
type BatchReport struct {
	// Items holds one entry per completed lookup, in execution order
	Items []domain.BatchItem

	// Planned is len(routes) x len(combinations)
	Planned int

	// Cancelled is true when the context ended before every lookup ran
	Cancelled bool
}

// BatchExecutor runs one lookup per route and combination, one at a time.
//
// Execution order is routes outer, combinations inner: every combination of
// the first route, then every combination of the second, and so on.
type BatchExecutor struct {
	permits       Permitter
	clock         timeutil.Clock
	lookupTimeout time.Duration
	logger        zerolog.Logger
}

// NewBatchExecutor creates an executor. A zero lookupTimeout leaves the
// deadline to the lookup collaborator.
func NewBatchExecutor(permits Permitter, clock timeutil.Clock, lookupTimeout time.Duration, logger zerolog.Logger) *BatchExecutor {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	return &BatchExecutor{
		permits:       permits,
		clock:         clock,
		lookupTimeout: lookupTimeout,
		logger:        logger,
	}
}

// EstimateCallCount returns the number of lookups a batch will issue.
func EstimateCallCount(routes []domain.RouteSpec, combos []domain.DateCombination) int {
	return len(routes) * len(combos)
}

// Run executes the batch. See RunWithItems.
func (e *BatchExecutor) Run(
	ctx context.Context,
	req *domain.FlexibleSearchRequest,
	combos []domain.DateCombination,
	lookup domain.FlightLookup,
	onProgress ProgressFunc,
) BatchReport {
	return e.RunWithItems(ctx, req, combos, lookup, onProgress, nil)
}

// RunWithItems executes the batch, reporting each recorded item to onItem.
//
// Behavior:
//   - Before each lookup: the context is checked, a permit is acquired, then
//     onProgress(current, total) is called.
//   - A failed, timed-out or panicking lookup is recorded as a failure outcome
//     and the batch moves on.
//   - When the context ends, Run stops before the next lookup and returns the
//     items completed so far with Cancelled set. A lookup cut short by the
//     cancellation is not recorded.
func (e *BatchExecutor) RunWithItems(
	ctx context.Context,
	req *domain.FlexibleSearchRequest,
	combos []domain.DateCombination,
	lookup domain.FlightLookup,
	onProgress ProgressFunc,
	onItem ItemFunc,
) BatchReport {
	total := EstimateCallCount(req.Routes, combos)
	report := BatchReport{
		Items:   make([]domain.BatchItem, 0, total),
		Planned: total,
	}

	current := 0
	for _, route := range req.Routes {
		for _, combo := range combos {
			if ctx.Err() != nil {
				report.Cancelled = true
				return report
			}
			if err := e.permits.Acquire(ctx); err != nil {
				report.Cancelled = true
				return report
			}

			current++
			if onProgress != nil {
				onProgress(current, total)
			}

			outcome := e.lookupOne(ctx, lookup, domain.NewLookupRequest(route, combo, req))
			if !outcome.IsSuccess() && ctx.Err() != nil {
				// interrupted by cancellation, not a provider failure
				report.Cancelled = true
				return report
			}
			item := domain.BatchItem{
				Route:       route,
				Combination: combo,
				Outcome:     outcome,
			}
			report.Items = append(report.Items, item)
			if onItem != nil {
				onItem(item)
			}
		}
	}

	return report
}

// lookupOne performs a single lookup with timeout and panic recovery.
func (e *BatchExecutor) lookupOne(ctx context.Context, lookup domain.FlightLookup, lr domain.LookupRequest) (outcome domain.SearchOutcome) {
	if e.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.lookupTimeout)
		defer cancel()
	}

	start := time.Now()
	log := e.logger.With().
		Str("route", lr.Route.Key()).
		Str("departure", timeutil.FormatDate(lr.Departure)).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("lookup panicked")
			metrics.Lookups.WithLabelValues("failure").Inc()
			outcome = domain.NewFailureOutcome(fmt.Sprintf("lookup panic: %v", r), e.clock.Now())
		}
	}()

	offers, err := lookup.Lookup(ctx, lr)
	metrics.LookupDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
			err = domain.NewLookupTimeoutError(lookup.Name())
		}
		log.Warn().Err(err).Msg("lookup failed")
		metrics.Lookups.WithLabelValues("failure").Inc()
		return domain.NewFailureOutcome(err.Error(), e.clock.Now())
	}

	if len(offers) == 0 {
		metrics.Lookups.WithLabelValues("no_offers").Inc()
	} else {
		metrics.Lookups.WithLabelValues("success").Inc()
	}
	return domain.NewSuccessOutcome(offers, e.clock.Now())
}
