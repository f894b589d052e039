package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/flight-search/flexible-date-search/internal/adapter/store/memory"
	"github.com/flight-search/flexible-date-search/internal/domain"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/logger"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/timeutil"
	"github.com/flight-search/flexible-date-search/test/mock"
	"github.com/flight-search/flexible-date-search/test/testutil"
)

type useCaseFixture struct {
	uc      FlexibleSearchUseCase
	store   *memory.Store
	permits *mock.Permits
	clock   *timeutil.MockClock
}

func newUseCase(t *testing.T, lookup domain.FlightLookup, cfg *Config) *useCaseFixture {
	t.Helper()
	clock := timeutil.NewMockClockFromString("2025-10-01T09:00:00Z")
	permits := &mock.Permits{}
	store := memory.New()
	executor := NewBatchExecutor(permits, clock, 0, zerolog.Nop())

	uc := NewFlexibleSearchUseCase(lookup, executor, store, clock, logger.Nop(), cfg)
	t.Cleanup(func() {
		_ = uc.Shutdown(context.Background())
	})
	return &useCaseFixture{uc: uc, store: store, permits: permits, clock: clock}
}

// novemberRequest has four combinations per route.
func novemberRequest(t *testing.T) domain.FlexibleSearchRequest {
	t.Helper()
	ret := testutil.Range(t, "2025-11-20", "2025-11-21")
	return domain.FlexibleSearchRequest{
		Routes:    []domain.RouteSpec{domain.NewRoute("ZRH", "LIS")},
		Departure: testutil.Range(t, "2025-11-10", "2025-11-11"),
		Return:    &ret,
		Stay:      domain.StayConstraint{Min: 5},
	}
}

func TestFlexibleSearch_Estimate(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := domain.NewMockFlightLookup(ctrl)
	lookup.EXPECT().Name().Return("fake").AnyTimes()

	f := newUseCase(t, lookup, nil)
	req := novemberRequest(t)
	req.Routes = append(req.Routes, domain.NewRoute("ZRH", "OPO"))

	est, err := f.uc.Estimate(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 4, est.Combinations)
	assert.Equal(t, 4, est.Sampled)
	assert.Equal(t, 2, est.Routes)
	assert.Equal(t, 8, est.Calls)
	assert.Equal(t, DefaultMaxCalls, est.CallLimit)
	assert.Equal(t, int64(0), est.MinDurationSeconds)
	assert.Equal(t, 0, f.permits.Granted())
}

func TestFlexibleSearch_EstimateReportsOverLimit(t *testing.T) {
	f := newUseCase(t, mock.NewLookup("fake"), &Config{MaxCalls: 3})

	est, err := f.uc.Estimate(context.Background(), novemberRequest(t))

	require.NoError(t, err)
	assert.True(t, est.ExceedsLimit())
}

func TestFlexibleSearch_EstimateRejectsLongRanges(t *testing.T) {
	lookup := mock.NewLookup("fake")

	tests := []struct {
		name      string
		cfg       *Config
		departure domain.DateRange
		ret       domain.DateRange
		wantField string
	}{
		{
			name:      "decade ranges",
			departure: testutil.Range(t, "2025-01-01", "2034-12-31"),
			ret:       testutil.Range(t, "2025-01-01", "2034-12-31"),
			wantField: "departure",
		},
		{
			name:      "configured limit",
			cfg:       &Config{MaxRangeDays: 14},
			departure: testutil.Range(t, "2025-11-01", "2025-11-10"),
			ret:       testutil.Range(t, "2025-11-10", "2025-11-30"),
			wantField: "return",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUseCase(t, lookup, tt.cfg)
			req := novemberRequest(t)
			req.Departure = tt.departure
			req.Return = &tt.ret

			_, err := f.uc.Estimate(context.Background(), req)

			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
	assert.Equal(t, 0, lookup.CallCount())
}

func TestFlexibleSearch_Run(t *testing.T) {
	lookup := mock.NewLookup("fake").WithPrices(func(req domain.LookupRequest) []float64 {
		return []float64{float64(200 + req.Departure.Day()), 500}
	})
	f := newUseCase(t, lookup, nil)

	var progress []int
	run, err := f.uc.Run(context.Background(), novemberRequest(t), func(current, total int) {
		progress = append(progress, current)
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RunCompleted, run.Status)
	assert.Equal(t, []int{1, 2, 3, 4}, progress)
	assert.Equal(t, domain.Progress{Current: 4, Total: 4}, run.Progress)
	require.Len(t, run.Items, 4)
	require.NotNil(t, run.FinishedAt)

	require.NotNil(t, run.Aggregate)
	require.NotNil(t, run.Aggregate.Matrix)
	assert.Equal(t, 210.0, run.Aggregate.Matrix.Cell(0, 0).Price)
	assert.Equal(t, 211.0, run.Aggregate.Matrix.Cell(1, 1).Price)
	assert.Equal(t, 210.0, run.Aggregate.Ranked[0].Price)

	stored, err := f.uc.Get(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunCompleted, stored.Status)
	assert.Len(t, stored.Items, 4)
	assert.Equal(t, "EUR", stored.Request.Currency, "defaults are applied before the run")
}

func TestFlexibleSearch_ProgressSavesCompletedItems(t *testing.T) {
	f := newUseCase(t, mock.NewLookup("fake").WithFixedPrice(120), nil)
	f.uc.(*flexibleSearchUseCase).newID = func() string { return "run-1" }

	var stored []int
	run, err := f.uc.Run(context.Background(), novemberRequest(t), func(current, total int) {
		saved, err := f.store.Get(context.Background(), "run-1")
		require.NoError(t, err)
		assert.Equal(t, domain.RunRunning, saved.Status)
		assert.Equal(t, current, saved.Progress.Current)
		stored = append(stored, len(saved.Items))
	})

	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, []int{0, 1, 2, 3}, stored, "a running run exposes the lookups finished so far")
	assert.Len(t, run.Items, 4)
}

func TestFlexibleSearch_RunOneWay(t *testing.T) {
	f := newUseCase(t, mock.NewLookup("fake"), nil)
	req := domain.FlexibleSearchRequest{
		Routes:    []domain.RouteSpec{domain.NewRoute("ZRH", "LIS")},
		Departure: testutil.Range(t, "2025-11-10", "2025-11-14"),
	}

	run, err := f.uc.Run(context.Background(), req, nil)

	require.NoError(t, err)
	assert.Len(t, run.Items, 5)
	assert.Nil(t, run.Aggregate.Matrix)
	assert.NotEmpty(t, run.Aggregate.MatrixUnavailable)
	assert.Len(t, run.Aggregate.Calendar, 5)
	assert.Empty(t, run.Aggregate.ByStay)
}

func TestFlexibleSearch_RunSampled(t *testing.T) {
	lookup := mock.NewLookup("fake")
	f := newUseCase(t, lookup, &Config{MaxCalls: 10})
	ret := testutil.Range(t, "2025-11-05", "2025-12-15")
	req := domain.FlexibleSearchRequest{
		Routes:       []domain.RouteSpec{domain.NewRoute("ZRH", "LIS")},
		Departure:    testutil.Range(t, "2025-11-01", "2025-11-30"),
		Return:       &ret,
		Stay:         domain.StayConstraint{Min: 3, Max: testutil.Ptr(14)},
		SampleTarget: 10,
	}

	run, err := f.uc.Run(context.Background(), req, nil)

	require.NoError(t, err)
	assert.Equal(t, 10, lookup.CallCount())
	assert.Equal(t, 10, run.Estimate.Sampled)
	assert.Greater(t, run.Estimate.Combinations, 10)
}

func TestFlexibleSearch_ValidationIssuesNoLookups(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(r *domain.FlexibleSearchRequest)
		expectedField string
	}{
		{
			name:          "no routes",
			mutate:        func(r *domain.FlexibleSearchRequest) { r.Routes = nil },
			expectedField: "routes",
		},
		{
			name:          "negative stay",
			mutate:        func(r *domain.FlexibleSearchRequest) { r.Stay.Min = -1 },
			expectedField: "stay.min",
		},
		{
			name:          "no combination satisfies stay",
			mutate:        func(r *domain.FlexibleSearchRequest) { r.Stay.Min = 30 },
			expectedField: "stay",
		},
		{
			name:          "over call limit",
			mutate:        func(r *domain.FlexibleSearchRequest) { r.Routes = append(r.Routes, domain.NewRoute("GVA", "LIS")) },
			expectedField: "sampleTarget",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			lookup := domain.NewMockFlightLookup(ctrl)
			lookup.EXPECT().Name().Return("fake").AnyTimes()

			f := newUseCase(t, lookup, &Config{MaxCalls: 6})
			req := novemberRequest(t)
			tt.mutate(&req)

			run, err := f.uc.Run(context.Background(), req, nil)

			assert.Nil(t, run)
			require.Error(t, err)
			assert.True(t, domain.IsInvalidRequest(err))
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.expectedField, vErr.Field)
			assert.Equal(t, 0, f.permits.Granted())
			assert.Equal(t, 0, f.store.Len())
		})
	}
}

func TestFlexibleSearch_RunSaveFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockRunStore(ctrl)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	executor := NewBatchExecutor(&mock.Permits{}, timeutil.NewMockClockFromString("2025-10-01T09:00:00Z"), 0, zerolog.Nop())
	uc := NewFlexibleSearchUseCase(mock.NewLookup("fake"), executor, store, nil, nil, nil)

	run, err := uc.Run(context.Background(), novemberRequest(t), nil)

	assert.Nil(t, run)
	assert.ErrorContains(t, err, "disk full")
}

func TestFlexibleSearch_StartCompletes(t *testing.T) {
	f := newUseCase(t, mock.NewLookup("fake").WithFixedPrice(199), nil)

	run, err := f.uc.Start(context.Background(), novemberRequest(t))

	require.NoError(t, err)
	assert.Equal(t, domain.RunRunning, run.Status)
	assert.NotEmpty(t, run.ID)

	require.Eventually(t, func() bool {
		got, err := f.uc.Get(context.Background(), run.ID)
		return err == nil && got.Status == domain.RunCompleted
	}, 2*time.Second, 5*time.Millisecond)

	got, err := f.uc.Get(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 4)
	assert.Equal(t, 4, got.Aggregate.Stats.Count)

	// the handle is released just after the final save
	require.Eventually(t, func() bool {
		return errors.Is(f.uc.Cancel(context.Background(), run.ID), domain.ErrRunNotActive)
	}, 2*time.Second, 5*time.Millisecond)
}

func TestFlexibleSearch_CancelKeepsCompletedWork(t *testing.T) {
	f := newUseCase(t, mock.NewLookup("slow").WithDelay(50*time.Millisecond), nil)

	run, err := f.uc.Start(context.Background(), novemberRequest(t))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, err := f.uc.Get(context.Background(), run.ID)
		return err == nil && got.Progress.Current >= 2
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, f.uc.Cancel(context.Background(), run.ID))

	require.Eventually(t, func() bool {
		got, err := f.uc.Get(context.Background(), run.ID)
		return err == nil && got.Status == domain.RunCancelled
	}, 2*time.Second, 5*time.Millisecond)

	got, err := f.uc.Get(context.Background(), run.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(got.Items), 1)
	assert.Less(t, len(got.Items), 4)
	require.NotNil(t, got.Aggregate)
	assert.Equal(t, len(got.Items), got.Aggregate.Counts.Total)
}

func TestFlexibleSearch_RunLimit(t *testing.T) {
	f := newUseCase(t, mock.NewLookup("slow").WithDelay(time.Second), &Config{MaxActiveRuns: 1})

	first, err := f.uc.Start(context.Background(), novemberRequest(t))
	require.NoError(t, err)

	_, err = f.uc.Start(context.Background(), novemberRequest(t))
	assert.ErrorIs(t, err, domain.ErrRunLimitReached)

	require.NoError(t, f.uc.Cancel(context.Background(), first.ID))
	require.NoError(t, f.uc.Shutdown(context.Background()))

	got, err := f.uc.Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunCancelled, got.Status)

	second, err := f.uc.Start(context.Background(), novemberRequest(t))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestFlexibleSearch_Shutdown(t *testing.T) {
	f := newUseCase(t, mock.NewLookup("slow").WithDelay(time.Second), &Config{MaxActiveRuns: 2})

	a, err := f.uc.Start(context.Background(), novemberRequest(t))
	require.NoError(t, err)
	b, err := f.uc.Start(context.Background(), novemberRequest(t))
	require.NoError(t, err)

	require.NoError(t, f.uc.Shutdown(context.Background()))

	for _, id := range []string{a.ID, b.ID} {
		got, err := f.uc.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.RunCancelled, got.Status)
		assert.NotNil(t, got.FinishedAt)
	}
}

func TestFlexibleSearch_GetAndCancelUnknown(t *testing.T) {
	f := newUseCase(t, mock.NewLookup("fake"), nil)

	_, err := f.uc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	err = f.uc.Cancel(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestNewFlexibleSearchUseCase_ConfigDefaults(t *testing.T) {
	uc := NewFlexibleSearchUseCase(mock.NewLookup("fake"), nil, memory.New(), nil, nil, &Config{MaxCalls: 50})

	impl, ok := uc.(*flexibleSearchUseCase)
	require.True(t, ok)
	assert.Equal(t, 50, impl.cfg.MaxCalls)
	assert.Equal(t, DefaultMaxActiveRuns, impl.cfg.MaxActiveRuns)
	assert.Equal(t, domain.MaxRangeDays, impl.cfg.MaxRangeDays)
	assert.Equal(t, "EUR", impl.cfg.Defaults.Currency)
	assert.NotNil(t, impl.clock)
	assert.NotNil(t, impl.logger)
}
