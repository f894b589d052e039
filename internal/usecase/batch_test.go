package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/flight-search/flexible-date-search/internal/domain"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/ratelimit"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/timeutil"
	"github.com/flight-search/flexible-date-search/test/mock"
	"github.com/flight-search/flexible-date-search/test/testutil"
)

// setupMockLookup creates a mock lookup with predefined behavior.
func setupMockLookup(ctrl *gomock.Controller, name string, offers []domain.Offer, err error) *domain.MockFlightLookup {
	m := domain.NewMockFlightLookup(ctrl)
	m.EXPECT().Name().Return(name).AnyTimes()
	m.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(offers, err).AnyTimes()
	return m
}

func newTestExecutor(permits Permitter) *BatchExecutor {
	return NewBatchExecutor(permits, timeutil.NewMockClockFromString("2025-10-01T09:00:00Z"), 0, zerolog.Nop())
}

func roundTripRequest(t *testing.T, routes ...domain.RouteSpec) *domain.FlexibleSearchRequest {
	t.Helper()
	if len(routes) == 0 {
		routes = []domain.RouteSpec{domain.NewRoute("ZRH", "LIS")}
	}
	ret := testutil.Range(t, "2025-11-20", "2025-11-21")
	return &domain.FlexibleSearchRequest{
		Routes:     routes,
		Departure:  testutil.Range(t, "2025-11-10", "2025-11-11"),
		Return:     &ret,
		Stay:       domain.StayConstraint{Min: 5},
		Passengers: 1,
		MaxResults: 3,
		Currency:   "EUR",
	}
}

func TestBatchExecutor_AllSucceed(t *testing.T) {
	req := roundTripRequest(t)
	combos := CombinationsFor(req)
	lookup := mock.NewLookup("fake").WithFixedPrice(250)
	permits := &mock.Permits{}

	report := newTestExecutor(permits).Run(context.Background(), req, combos, lookup, nil)

	assert.False(t, report.Cancelled)
	assert.Equal(t, 4, report.Planned)
	require.Len(t, report.Items, 4)
	assert.Equal(t, 4, permits.Granted())
	for i, item := range report.Items {
		assert.True(t, item.Outcome.HasOffers())
		assert.Equal(t, combos[i], item.Combination)
		price, _ := item.Outcome.CheapestPrice()
		assert.Equal(t, 250.0, price)
	}
}

func TestBatchExecutor_OneFailureDoesNotAbort(t *testing.T) {
	req := roundTripRequest(t)
	combos := CombinationsFor(req)
	lookup := mock.NewLookup("fake").
		WithFailureOn("2025-11-11", domain.NewLookupUnavailableError("fake"))

	report := newTestExecutor(&mock.Permits{}).Run(context.Background(), req, combos, lookup, nil)

	require.Len(t, report.Items, 4)
	assert.False(t, report.Cancelled)

	counts := CountOutcomes(report.Items)
	assert.Equal(t, 2, counts.Succeeded)
	assert.Equal(t, 2, counts.Failed)
	for _, item := range report.Items[2:] {
		assert.False(t, item.Outcome.IsSuccess())
		assert.Contains(t, item.Outcome.Reason(), "unavailable")
	}
}

func TestBatchExecutor_RoutesOuterOrder(t *testing.T) {
	zrhLis := domain.NewRoute("ZRH", "LIS")
	genLis := domain.NewRoute("GVA", "LIS")
	req := roundTripRequest(t, zrhLis, genLis)
	combos := CombinationsFor(req)
	lookup := mock.NewLookup("fake")

	report := newTestExecutor(&mock.Permits{}).Run(context.Background(), req, combos, lookup, nil)

	require.Len(t, report.Items, 8)
	calls := lookup.Calls()
	require.Len(t, calls, 8)
	for i, call := range calls {
		want := zrhLis
		if i >= len(combos) {
			want = genLis
		}
		assert.Equal(t, want.Key(), call.Route.Key(), "call %d", i)
		assert.Equal(t, combos[i%len(combos)].Departure(), call.Departure, "call %d", i)
		assert.Equal(t, 1, call.Passengers)
		assert.Equal(t, "EUR", call.Currency)
		require.NotNil(t, call.Return)
	}
}

func TestBatchExecutor_Progress(t *testing.T) {
	req := roundTripRequest(t)
	combos := CombinationsFor(req)

	var currents []int
	var totals []int
	report := newTestExecutor(&mock.Permits{}).Run(context.Background(), req, combos, mock.NewLookup("fake"),
		func(current, total int) {
			currents = append(currents, current)
			totals = append(totals, total)
		})

	require.Len(t, report.Items, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, currents)
	assert.Equal(t, []int{4, 4, 4, 4}, totals)
}

func TestBatchExecutor_ItemsReportedAsCompleted(t *testing.T) {
	req := roundTripRequest(t)
	combos := CombinationsFor(req)
	lookup := mock.NewLookup("flaky").WithFailureOn("2025-11-11", domain.NewLookupUnavailableError("flaky"))

	var seen []domain.BatchItem
	var seenAtProgress []int
	report := newTestExecutor(&mock.Permits{}).RunWithItems(context.Background(), req, combos, lookup,
		func(current, total int) {
			seenAtProgress = append(seenAtProgress, len(seen))
		},
		func(item domain.BatchItem) {
			seen = append(seen, item)
		})

	assert.Equal(t, report.Items, seen, "failures are reported like successes")
	assert.Equal(t, []int{0, 1, 2, 3}, seenAtProgress)
}

func TestBatchExecutor_ProgressFollowsPermit(t *testing.T) {
	req := roundTripRequest(t)
	combos := CombinationsFor(req)
	permits := &mock.Permits{}

	var grantedAtProgress []int
	newTestExecutor(permits).Run(context.Background(), req, combos, mock.NewLookup("fake"),
		func(current, total int) {
			grantedAtProgress = append(grantedAtProgress, permits.Granted())
		})

	assert.Equal(t, []int{1, 2, 3, 4}, grantedAtProgress)
}

func TestBatchExecutor_CancellationKeepsCompletedWork(t *testing.T) {
	req := roundTripRequest(t)
	combos := CombinationsFor(req)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	report := newTestExecutor(&mock.Permits{}).Run(ctx, req, combos, mock.NewLookup("fake"),
		func(current, total int) {
			if current == 2 {
				cancel()
			}
		})

	assert.True(t, report.Cancelled)
	assert.Equal(t, 4, report.Planned)
	// the second lookup was cut short by the cancellation and is not recorded
	require.Len(t, report.Items, 1)
	assert.True(t, report.Items[0].Outcome.HasOffers())
}

func TestBatchExecutor_CancelledBeforeStart(t *testing.T) {
	req := roundTripRequest(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ctrl := gomock.NewController(t)
	lookup := domain.NewMockFlightLookup(ctrl)
	lookup.EXPECT().Name().Return("never").AnyTimes()

	report := newTestExecutor(&mock.Permits{}).Run(ctx, req, CombinationsFor(req), lookup, nil)

	assert.True(t, report.Cancelled)
	assert.Empty(t, report.Items)
}

func TestBatchExecutor_CancelWhileWaitingForPermit(t *testing.T) {
	req := roundTripRequest(t)
	combos := CombinationsFor(req)
	clock := timeutil.NewMockClockFromString("2025-10-01T09:00:00Z")
	governor := ratelimit.New(ratelimit.Config{PerMinute: 2, PerHour: 100}, clock, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lookup := mock.NewLookup("fake")
	executor := NewBatchExecutor(&cancellingPermitter{inner: governor, cancel: cancel, after: 2}, clock, 0, zerolog.Nop())

	report := executor.Run(ctx, req, combos, lookup, nil)

	assert.True(t, report.Cancelled)
	assert.Len(t, report.Items, 2)
	assert.Equal(t, 2, lookup.CallCount())
}

// cancellingPermitter cancels the batch context on the permit request after
// the first `after` grants, as a user would while a run waits on the quota.
type cancellingPermitter struct {
	inner  Permitter
	cancel context.CancelFunc
	after  int
	calls  int
}

func (p *cancellingPermitter) Acquire(ctx context.Context) error {
	p.calls++
	if p.calls > p.after {
		p.cancel()
	}
	return p.inner.Acquire(ctx)
}

func TestBatchExecutor_GovernedBatchSleeps(t *testing.T) {
	req := roundTripRequest(t, domain.NewRoute("ZRH", "LIS"), domain.NewRoute("ZRH", "OPO"), domain.NewRoute("BSL", "LIS"))
	combos := CombinationsFor(req)
	clock := timeutil.NewMockClockFromString("2025-10-01T09:00:00Z")
	governor := ratelimit.New(ratelimit.Config{PerMinute: 10, PerHour: 100}, clock, zerolog.Nop())

	report := NewBatchExecutor(governor, clock, 0, zerolog.Nop()).
		Run(context.Background(), req, combos, mock.NewLookup("fake"), nil)

	require.Len(t, report.Items, 12)
	// the 11th permit waits for the first to leave the minute window
	assert.Equal(t, []time.Duration{time.Minute}, clock.Sleeps())
}

func TestBatchExecutor_PanicBecomesFailure(t *testing.T) {
	req := roundTripRequest(t)
	combos := CombinationsFor(req)

	ctrl := gomock.NewController(t)
	lookup := domain.NewMockFlightLookup(ctrl)
	lookup.EXPECT().Name().Return("panicky").AnyTimes()
	first := true
	lookup.EXPECT().Lookup(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, lr domain.LookupRequest) ([]domain.Offer, error) {
			if first {
				first = false
				panic("nil pointer in parser")
			}
			return []domain.Offer{mock.SampleOffer(lr, "ok", 180, "EUR")}, nil
		}).Times(4)

	report := newTestExecutor(&mock.Permits{}).Run(context.Background(), req, combos, lookup, nil)

	require.Len(t, report.Items, 4)
	assert.False(t, report.Items[0].Outcome.IsSuccess())
	assert.Contains(t, report.Items[0].Outcome.Reason(), "nil pointer in parser")
	for _, item := range report.Items[1:] {
		assert.True(t, item.Outcome.HasOffers())
	}
}

func TestBatchExecutor_LookupTimeout(t *testing.T) {
	req := roundTripRequest(t)
	combos := CombinationsFor(req)[:1]
	lookup := mock.NewLookup("slow").WithDelay(time.Second)

	executor := NewBatchExecutor(&mock.Permits{}, timeutil.NewRealClock(), 20*time.Millisecond, zerolog.Nop())
	report := executor.Run(context.Background(), req, combos, lookup, nil)

	require.Len(t, report.Items, 1)
	assert.False(t, report.Cancelled)
	assert.False(t, report.Items[0].Outcome.IsSuccess())
	assert.Contains(t, report.Items[0].Outcome.Reason(), "timeout")
}

func TestBatchExecutor_EmptyOffersIsSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := setupMockLookup(ctrl, "empty", []domain.Offer{}, nil)
	req := roundTripRequest(t)

	report := newTestExecutor(&mock.Permits{}).Run(context.Background(), req, CombinationsFor(req), lookup, nil)

	require.Len(t, report.Items, 4)
	counts := CountOutcomes(report.Items)
	assert.Equal(t, 4, counts.Succeeded)
	assert.Equal(t, 4, counts.NoOffers)
	assert.Equal(t, 0, counts.Failed)
}

func TestBatchExecutor_ErrorsAreIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := setupMockLookup(ctrl, "broken", nil, errors.New("connection reset"))
	req := roundTripRequest(t)

	report := newTestExecutor(&mock.Permits{}).Run(context.Background(), req, CombinationsFor(req), lookup, nil)

	require.Len(t, report.Items, 4)
	for _, item := range report.Items {
		assert.Equal(t, "connection reset", item.Outcome.Reason())
	}
}

func TestBatchExecutor_SerializesLookups(t *testing.T) {
	req := roundTripRequest(t, domain.NewRoute("ZRH", "LIS"), domain.NewRoute("ZRH", "OPO"))
	combos := CombinationsFor(req)

	var mu sync.Mutex
	inFlight, peak := 0, 0
	ctrl := gomock.NewController(t)
	lookup := domain.NewMockFlightLookup(ctrl)
	lookup.EXPECT().Name().Return("fake").AnyTimes()
	lookup.EXPECT().Lookup(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, lr domain.LookupRequest) ([]domain.Offer, error) {
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inFlight--
			mu.Unlock()
			return nil, nil
		}).Times(8)

	newTestExecutor(&mock.Permits{}).Run(context.Background(), req, combos, lookup, nil)

	assert.Equal(t, 1, peak)
}

func TestEstimateCallCount(t *testing.T) {
	req := roundTripRequest(t, domain.NewRoute("ZRH", "LIS"), domain.NewRoute("ZRH", "OPO"), domain.NewRoute("GVA", "LIS"))

	assert.Equal(t, 12, EstimateCallCount(req.Routes, CombinationsFor(req)))
	assert.Equal(t, 0, EstimateCallCount(req.Routes, nil))
}
