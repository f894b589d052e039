package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// DateCombination is one candidate (departure, return) pair.
// The return date is absent for one-way searches.
//
// Fields are unexported so a combination cannot change after it is built;
// use NewDateCombination or NewOneWayCombination.
type DateCombination struct {
	departure time.Time
	ret       time.Time
	hasReturn bool
	stays     int
}

// NewDateCombination builds a round-trip combination. Both dates are truncated
// to calendar days in UTC. The return must fall strictly after the departure.
func NewDateCombination(departure, ret time.Time) (DateCombination, error) {
	departure, ret = CalendarDate(departure), CalendarDate(ret)
	if !ret.After(departure) {
		return DateCombination{}, fmt.Errorf("return %s must be after departure %s",
			ret.Format(DateLayout), departure.Format(DateLayout))
	}

	return DateCombination{
		departure: departure,
		ret:       ret,
		hasReturn: true,
		stays:     DaysBetween(departure, ret) - 1,
	}, nil
}

// NewOneWayCombination builds a combination without a return date.
func NewOneWayCombination(departure time.Time) DateCombination {
	return DateCombination{departure: CalendarDate(departure)}
}

// Departure returns the departure date.
func (c DateCombination) Departure() time.Time { return c.departure }

// Return returns the return date and whether one is present.
func (c DateCombination) Return() (time.Time, bool) { return c.ret, c.hasReturn }

// IsOneWay reports whether the combination has no return date.
func (c DateCombination) IsOneWay() bool { return !c.hasReturn }

// StaysAtDestination is the number of full days between the travel days.
// Departure and return days are not counted.
func (c DateCombination) StaysAtDestination() int { return c.stays }

// TripDays is the number of calendar days from departure to return inclusive.
// One-way combinations count as a single day.
func (c DateCombination) TripDays() int {
	if !c.hasReturn {
		return 1
	}
	return c.stays + 2
}

// String renders the combination as "2025-11-10/2025-11-20".
func (c DateCombination) String() string {
	if !c.hasReturn {
		return c.departure.Format(DateLayout)
	}
	return c.departure.Format(DateLayout) + "/" + c.ret.Format(DateLayout)
}

type dateCombinationJSON struct {
	Departure          string `json:"departure"`
	Return             string `json:"return,omitempty"`
	StaysAtDestination int    `json:"staysAtDestination"`
}

// MarshalJSON implements json.Marshaler.
func (c DateCombination) MarshalJSON() ([]byte, error) {
	out := dateCombinationJSON{
		Departure:          c.departure.Format(DateLayout),
		StaysAtDestination: c.stays,
	}
	if c.hasReturn {
		out.Return = c.ret.Format(DateLayout)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. The stay count is recomputed
// from the dates rather than trusted from the payload.
func (c *DateCombination) UnmarshalJSON(data []byte) error {
	var in dateCombinationJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	departure, err := time.Parse(DateLayout, in.Departure)
	if err != nil {
		return fmt.Errorf("departure: %w", err)
	}
	if in.Return == "" {
		*c = NewOneWayCombination(departure)
		return nil
	}

	ret, err := time.Parse(DateLayout, in.Return)
	if err != nil {
		return fmt.Errorf("return: %w", err)
	}
	combo, err := NewDateCombination(departure, ret)
	if err != nil {
		return err
	}
	*c = combo
	return nil
}

const secondsPerDay = 24 * 60 * 60

// CalendarDate truncates t to midnight UTC of its calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	// Unix seconds avoid the ~292 year limit of time.Duration
	return int((CalendarDate(b).Unix() - CalendarDate(a).Unix()) / secondsPerDay)
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange builds a range with both ends truncated to calendar days.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: CalendarDate(start), End: CalendarDate(end)}
}

// Days returns the number of dates in the range, 0 when start is after end.
func (r DateRange) Days() int {
	n := DaysBetween(r.Start, r.End) + 1
	if n < 0 {
		return 0
	}
	return n
}

// Dates lists every date in the range in ascending order.
func (r DateRange) Dates() []time.Time {
	n := r.Days()
	dates := make([]time.Time, 0, n)
	start := CalendarDate(r.Start)
	for i := 0; i < n; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
	}
	return dates
}

// StayConstraint bounds the number of days spent at the destination.
// Max is nil when there is no upper bound. Min == Max selects an exact stay.
type StayConstraint struct {
	Min int  `json:"min"`
	Max *int `json:"max,omitempty"`
}

// ExactStay returns a constraint matching exactly n days at the destination.
func ExactStay(n int) StayConstraint {
	return StayConstraint{Min: n, Max: &n}
}

// Allows reports whether the stay length satisfies the constraint.
func (s StayConstraint) Allows(stays int) bool {
	if stays < s.Min {
		return false
	}
	return s.Max == nil || stays <= *s.Max
}
