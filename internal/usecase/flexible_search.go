package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flight-search/flexible-date-search/internal/domain"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/logger"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/metrics"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/ratelimit"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/timeutil"
)

// Default limits.
const (
	DefaultMaxCalls      = 200
	DefaultMaxActiveRuns = 1
)

// FlexibleSearchUseCase defines the flexible-date search operations.
type FlexibleSearchUseCase interface {
	// Estimate validates the request and reports its cost without any lookups.
	Estimate(ctx context.Context, req domain.FlexibleSearchRequest) (*domain.Estimate, error)

	// Run executes a batch synchronously and returns the finished run.
	Run(ctx context.Context, req domain.FlexibleSearchRequest, onProgress ProgressFunc) (*domain.Run, error)

	// Start validates the request and executes it in the background.
	// The returned run is in the running state.
	Start(ctx context.Context, req domain.FlexibleSearchRequest) (*domain.Run, error)

	// Get returns the latest saved state of a run.
	Get(ctx context.Context, id string) (*domain.Run, error)

	// Cancel stops a background run between lookups; completed work is kept.
	Cancel(ctx context.Context, id string) error

	// Shutdown cancels every background run and waits for them to be saved.
	Shutdown(ctx context.Context) error
}

// Config contains configuration options for the use case.
type Config struct {
	// MaxCalls rejects runs needing more lookups than this
	MaxCalls int

	// MaxActiveRuns caps concurrent background runs
	MaxActiveRuns int

	// MaxRangeDays caps the dates in a departure or return range
	MaxRangeDays int

	// PerMinute and PerHour mirror the governor quota for duration estimates
	PerMinute int
	PerHour   int

	// Defaults fill empty optional request fields
	Defaults domain.SearchDefaults
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxCalls:      DefaultMaxCalls,
		MaxActiveRuns: DefaultMaxActiveRuns,
		MaxRangeDays:  domain.MaxRangeDays,
		PerMinute:     ratelimit.DefaultPerMinute,
		PerHour:       ratelimit.DefaultPerHour,
		Defaults: domain.SearchDefaults{
			Currency:   "EUR",
			MaxResults: 3,
			TopN:       DefaultTopN,
		},
	}
}

// activeRun tracks a background run.
type activeRun struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// flexibleSearchUseCase implements FlexibleSearchUseCase.
type flexibleSearchUseCase struct {
	lookup   domain.FlightLookup
	executor *BatchExecutor
	store    domain.RunStore
	clock    timeutil.Clock
	cfg      Config
	logger   *logger.Logger
	newID    func() string

	mu     sync.Mutex
	active map[string]*activeRun
}

// NewFlexibleSearchUseCase wires the engine. If config is nil, defaults are
// used; zero fields of a non-nil config also fall back to defaults.
func NewFlexibleSearchUseCase(
	lookup domain.FlightLookup,
	executor *BatchExecutor,
	store domain.RunStore,
	clock timeutil.Clock,
	log *logger.Logger,
	config *Config,
) FlexibleSearchUseCase {
	cfg := DefaultConfig()
	if config != nil {
		if config.MaxCalls > 0 {
			cfg.MaxCalls = config.MaxCalls
		}
		if config.MaxActiveRuns > 0 {
			cfg.MaxActiveRuns = config.MaxActiveRuns
		}
		if config.MaxRangeDays > 0 && config.MaxRangeDays < domain.MaxRangeDays {
			cfg.MaxRangeDays = config.MaxRangeDays
		}
		if config.PerMinute > 0 {
			cfg.PerMinute = config.PerMinute
		}
		if config.PerHour > 0 {
			cfg.PerHour = config.PerHour
		}
		if config.Defaults.Currency != "" {
			cfg.Defaults.Currency = config.Defaults.Currency
		}
		if config.Defaults.MaxResults > 0 {
			cfg.Defaults.MaxResults = config.Defaults.MaxResults
		}
		if config.Defaults.TopN > 0 {
			cfg.Defaults.TopN = config.Defaults.TopN
		}
	}
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	if log == nil {
		log = logger.Nop()
	}

	return &flexibleSearchUseCase{
		lookup:   lookup,
		executor: executor,
		store:    store,
		clock:    clock,
		cfg:      cfg,
		logger:   log,
		newID:    func() string { return uuid.New().String() },
		active:   make(map[string]*activeRun),
	}
}

// plan is a validated request with its combinations.
type plan struct {
	req      domain.FlexibleSearchRequest
	combos   []domain.DateCombination
	estimate domain.Estimate
}

// prepare validates the request, generates and samples its combinations.
func (uc *flexibleSearchUseCase) prepare(req domain.FlexibleSearchRequest) (*plan, error) {
	req.SetDefaults(uc.cfg.Defaults)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := req.ValidateRangeDays(uc.cfg.MaxRangeDays); err != nil {
		return nil, err
	}

	all := CombinationsFor(&req)
	if len(all) == 0 {
		return nil, domain.NewValidationError("stay", "no date combination satisfies the stay constraint")
	}

	combos := SampleCombinations(all, req.SampleTarget)

	est := EstimateCombinations(&req, all)
	est.Sampled = len(combos)
	est.Routes = len(req.Routes)
	est.Calls = EstimateCallCount(req.Routes, combos)
	est.CallLimit = uc.cfg.MaxCalls
	est.MinDurationSeconds = int64(EstimateDuration(est.Calls, uc.cfg.PerMinute, uc.cfg.PerHour) / time.Second)

	return &plan{req: req, combos: combos, estimate: est}, nil
}

// prepareRun is prepare plus the call limit check.
func (uc *flexibleSearchUseCase) prepareRun(req domain.FlexibleSearchRequest) (*plan, error) {
	p, err := uc.prepare(req)
	if err != nil {
		return nil, err
	}
	if p.estimate.ExceedsLimit() {
		return nil, domain.NewValidationError("sampleTarget", fmt.Sprintf(
			"run needs %d lookups, above the limit of %d; lower sampleTarget or narrow the date ranges",
			p.estimate.Calls, p.estimate.CallLimit))
	}
	return p, nil
}

// Estimate implements FlexibleSearchUseCase.Estimate.
func (uc *flexibleSearchUseCase) Estimate(_ context.Context, req domain.FlexibleSearchRequest) (*domain.Estimate, error) {
	p, err := uc.prepare(req)
	if err != nil {
		return nil, err
	}
	return &p.estimate, nil
}

// Run implements FlexibleSearchUseCase.Run.
func (uc *flexibleSearchUseCase) Run(ctx context.Context, req domain.FlexibleSearchRequest, onProgress ProgressFunc) (*domain.Run, error) {
	p, err := uc.prepareRun(req)
	if err != nil {
		return nil, err
	}

	run := uc.newRun(p)
	if err := uc.save(ctx, run); err != nil {
		return nil, err
	}

	uc.execute(ctx, run, p.combos, onProgress)
	return run, nil
}

// Start implements FlexibleSearchUseCase.Start.
func (uc *flexibleSearchUseCase) Start(ctx context.Context, req domain.FlexibleSearchRequest) (*domain.Run, error) {
	p, err := uc.prepareRun(req)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	if len(uc.active) >= uc.cfg.MaxActiveRuns {
		uc.mu.Unlock()
		return nil, domain.ErrRunLimitReached
	}
	run := uc.newRun(p)
	runCtx, cancel := context.WithCancel(context.Background())
	handle := &activeRun{cancel: cancel, done: make(chan struct{})}
	uc.active[run.ID] = handle
	uc.mu.Unlock()

	if err := uc.save(ctx, run); err != nil {
		uc.release(run.ID)
		cancel()
		return nil, err
	}

	snapshot := *run
	go func() {
		defer close(handle.done)
		defer uc.release(run.ID)
		defer cancel()
		uc.execute(runCtx, run, p.combos, nil)
	}()

	return &snapshot, nil
}

// Get implements FlexibleSearchUseCase.Get.
func (uc *flexibleSearchUseCase) Get(ctx context.Context, id string) (*domain.Run, error) {
	run, err := uc.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrRunNotFound) {
			metrics.StoreErrors.WithLabelValues("get").Inc()
		}
		return nil, err
	}
	return run, nil
}

// Cancel implements FlexibleSearchUseCase.Cancel.
func (uc *flexibleSearchUseCase) Cancel(ctx context.Context, id string) error {
	uc.mu.Lock()
	handle, ok := uc.active[id]
	uc.mu.Unlock()

	if ok {
		handle.cancel()
		return nil
	}

	if _, err := uc.Get(ctx, id); err != nil {
		return err
	}
	return domain.ErrRunNotActive
}

// Shutdown implements FlexibleSearchUseCase.Shutdown.
func (uc *flexibleSearchUseCase) Shutdown(ctx context.Context) error {
	uc.mu.Lock()
	handles := make([]*activeRun, 0, len(uc.active))
	for _, h := range uc.active {
		handles = append(handles, h)
	}
	uc.mu.Unlock()

	for _, h := range handles {
		h.cancel()
	}
	for _, h := range handles {
		select {
		case <-h.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (uc *flexibleSearchUseCase) newRun(p *plan) *domain.Run {
	now := uc.clock.Now()
	return &domain.Run{
		ID:        uc.newID(),
		Status:    domain.RunRunning,
		Request:   p.req,
		Estimate:  p.estimate,
		Progress:  domain.Progress{Total: p.estimate.Calls},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// execute drives the batch and saves progress and the final state.
func (uc *flexibleSearchUseCase) execute(ctx context.Context, run *domain.Run, combos []domain.DateCombination, onProgress ProgressFunc) {
	log := uc.logger.WithRunID(run.ID).WithLookup(uc.lookup.Name())
	log.Info().
		Int("routes", len(run.Request.Routes)).
		Int("combinations", len(combos)).
		Int("calls", run.Estimate.Calls).
		Msg("search run started")

	metrics.ActiveRuns.Inc()
	defer metrics.ActiveRuns.Dec()

	// saves must outlive a cancelled run context
	saveCtx := context.WithoutCancel(ctx)

	// each progress save carries the items completed before that lookup
	run.Items = make([]domain.BatchItem, 0, run.Estimate.Calls)
	onProgressSave := func(current, total int) {
		run.Progress = domain.Progress{Current: current, Total: total}
		run.UpdatedAt = uc.clock.Now()
		if err := uc.save(saveCtx, run); err != nil {
			log.Warn().Err(err).Int("current", current).Msg("failed to save progress")
		}
		if onProgress != nil {
			onProgress(current, total)
		}
	}
	onItem := func(item domain.BatchItem) {
		run.Items = append(run.Items, item)
	}

	report := uc.executor.RunWithItems(ctx, &run.Request, combos, uc.lookup, onProgressSave, onItem)

	agg := Aggregate(report.Items, AggregateOptionsFor(&run.Request))
	finished := uc.clock.Now()
	run.Items = report.Items
	run.Aggregate = &agg
	run.UpdatedAt = finished
	run.FinishedAt = &finished
	run.Status = domain.RunCompleted
	if report.Cancelled {
		run.Status = domain.RunCancelled
	}
	metrics.Runs.WithLabelValues(string(run.Status)).Inc()

	if err := uc.save(saveCtx, run); err != nil {
		log.Error().Err(err).Msg("failed to save finished run")
	}

	log.Info().
		Str("status", string(run.Status)).
		Int("completed", len(report.Items)).
		Int("planned", report.Planned).
		Int("succeeded", agg.Counts.Succeeded).
		Int("failed", agg.Counts.Failed).
		Int("no_offers", agg.Counts.NoOffers).
		Msg("search run finished")
}

func (uc *flexibleSearchUseCase) save(ctx context.Context, run *domain.Run) error {
	if err := uc.store.Save(ctx, run); err != nil {
		metrics.StoreErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}

func (uc *flexibleSearchUseCase) release(id string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.active, id)
}

// Ensure interface is implemented.
var _ FlexibleSearchUseCase = (*flexibleSearchUseCase)(nil)
