package usecase

import (
	"time"

	"github.com/flight-search/flexible-date-search/internal/infrastructure/ratelimit"
)

// EstimateDuration returns the least wall time the two quotas impose on a
// run of the given number of calls, ignoring lookup latency.
func EstimateDuration(calls, perMinute, perHour int) time.Duration {
	if calls <= 1 || perMinute <= 0 || perHour <= 0 {
		return 0
	}

	minuteWaits := time.Duration((calls-1)/perMinute) * ratelimit.MinuteWindow
	hourWaits := time.Duration((calls-1)/perHour) * ratelimit.HourWindow
	if hourWaits > minuteWaits {
		return hourWaits
	}
	return minuteWaits
}
