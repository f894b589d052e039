package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// RankOrder selects how best deals are ordered.
type RankOrder string

// Available rank orders.
const (
	// RankByPrice orders by ascending price; ties keep batch order (default)
	RankByPrice RankOrder = "price"

	// RankByStay orders by descending stay length; ties by ascending price
	RankByStay RankOrder = "stay"
)

// IsValid checks if the rank order is a known value.
func (r RankOrder) IsValid() bool {
	switch r {
	case RankByPrice, RankByStay:
		return true
	default:
		return false
	}
}

// ParseRankOrder converts a string to a RankOrder.
// Returns RankByPrice if the string is empty or invalid.
func ParseRankOrder(s string) RankOrder {
	order := RankOrder(s)
	if order.IsValid() {
		return order
	}
	return RankByPrice
}

// Limits applied by Validate.
const (
	MaxPassengers = 9
	MaxRoutes     = 10
	MaxOffers     = 250
	MaxRangeDays  = 366
)

// currencyRegex matches ISO 4217 currency codes.
var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// FlexibleSearchRequest describes one batch run.
type FlexibleSearchRequest struct {
	// Routes are searched in order; each is paired with every combination
	Routes []RouteSpec `json:"routes"`

	// Departure is the range of candidate departure dates
	Departure DateRange `json:"departure"`

	// Return is the range of candidate return dates, nil for one-way searches
	Return *DateRange `json:"return,omitempty"`

	// Stay constrains the days spent at the destination
	Stay StayConstraint `json:"stay"`

	// SampleTarget caps the number of combinations, 0 disables sampling
	SampleTarget int `json:"sampleTarget,omitempty"`

	// Passengers is the number of adult travellers (default: 1)
	Passengers int `json:"passengers"`

	// MaxResults is the number of offers requested per lookup
	MaxResults int `json:"maxResults"`

	// Currency is the currency prices are requested in
	Currency string `json:"currency"`

	// Ranking selects the best-deals order (default: price)
	Ranking RankOrder `json:"ranking"`

	// TopN is the length of the best-deals list
	TopN int `json:"topN"`

	// Filter narrows offers before aggregation; raw outcomes are not affected
	Filter *OfferFilter `json:"filter,omitempty"`
}

// IsOneWay reports whether the request has no return range.
func (r *FlexibleSearchRequest) IsOneWay() bool {
	return r.Return == nil
}

// Validate checks the request and returns a *ValidationError for the first
// invalid field. A request that fails validation must not issue any lookups.
func (r *FlexibleSearchRequest) Validate() error {
	if len(r.Routes) == 0 {
		return NewValidationError("routes", "at least one route is required")
	}
	if len(r.Routes) > MaxRoutes {
		return NewValidationError("routes", fmt.Sprintf("cannot exceed %d routes", MaxRoutes))
	}
	for i, route := range r.Routes {
		if err := route.Validate("routes[" + strconv.Itoa(i) + "]"); err != nil {
			return err
		}
		if route.ReturnLeg != nil && r.IsOneWay() {
			return NewValidationError("routes["+strconv.Itoa(i)+"].returnLeg", "requires a return date range")
		}
	}

	if r.Departure.Start.After(r.Departure.End) {
		return NewValidationError("departure", "start must not be after end")
	}
	if r.Return != nil {
		if r.Return.Start.After(r.Return.End) {
			return NewValidationError("return", "start must not be after end")
		}
		if r.Return.End.Before(r.Departure.Start) {
			return NewValidationError("return", "range ends before the departure range starts")
		}
	}
	if err := r.ValidateRangeDays(MaxRangeDays); err != nil {
		return err
	}

	if r.Stay.Min < 0 {
		return NewValidationError("stay.min", "cannot be negative")
	}
	if r.Stay.Max != nil {
		if *r.Stay.Max < 0 {
			return NewValidationError("stay.max", "cannot be negative")
		}
		if *r.Stay.Max < r.Stay.Min {
			return NewValidationError("stay.max", fmt.Sprintf("must be at least stay.min (%d)", r.Stay.Min))
		}
	}

	if r.SampleTarget < 0 {
		return NewValidationError("sampleTarget", "cannot be negative")
	}
	if r.Passengers < 1 || r.Passengers > MaxPassengers {
		return NewValidationError("passengers", fmt.Sprintf("must be between 1 and %d", MaxPassengers))
	}
	if r.MaxResults < 1 || r.MaxResults > MaxOffers {
		return NewValidationError("maxResults", fmt.Sprintf("must be between 1 and %d", MaxOffers))
	}
	if !currencyRegex.MatchString(r.Currency) {
		return NewValidationError("currency", "must be a 3-letter ISO 4217 code, got "+quote(r.Currency))
	}
	if !r.Ranking.IsValid() {
		return NewValidationError("ranking", "must be one of: price, stay; got "+quote(string(r.Ranking)))
	}
	if r.TopN < 0 {
		return NewValidationError("topN", "cannot be negative")
	}

	return r.Filter.Validate()
}

// ValidateRangeDays rejects a departure or return range spanning more than
// limit dates. Combinations grow with the product of both ranges.
func (r *FlexibleSearchRequest) ValidateRangeDays(limit int) error {
	if limit <= 0 {
		return nil
	}
	if r.Departure.Days() > limit {
		return NewValidationError("departure", fmt.Sprintf("cannot span more than %d days", limit))
	}
	if r.Return != nil && r.Return.Days() > limit {
		return NewValidationError("return", fmt.Sprintf("cannot span more than %d days", limit))
	}
	return nil
}

// SearchDefaults holds values applied to empty optional request fields.
type SearchDefaults struct {
	Currency   string
	MaxResults int
	TopN       int
}

// SetDefaults applies default values to empty optional fields and normalizes
// dates to calendar days.
func (r *FlexibleSearchRequest) SetDefaults(d SearchDefaults) {
	if r.Passengers == 0 {
		r.Passengers = 1
	}
	if r.MaxResults == 0 {
		r.MaxResults = d.MaxResults
	}
	if r.Currency == "" {
		r.Currency = d.Currency
	}
	if r.Ranking == "" {
		r.Ranking = RankByPrice
	}
	if r.TopN == 0 {
		r.TopN = d.TopN
	}

	r.Departure = NewDateRange(r.Departure.Start, r.Departure.End)
	if r.Return != nil {
		ret := NewDateRange(r.Return.Start, r.Return.End)
		r.Return = &ret
	}
}

// Estimate summarizes the cost of a run before it starts.
type Estimate struct {
	// Combinations is the number of valid combinations before sampling
	Combinations int `json:"combinations"`

	// DepartureDays is the size of the departure range
	DepartureDays int `json:"departureDays"`

	// ReturnDays is the size of the return range, 0 for one-way
	ReturnDays int `json:"returnDays"`

	// MaxPossible is DepartureDays x ReturnDays before any stay filtering
	MaxPossible int `json:"maxPossible"`

	// FilteredOut is the number of pairs rejected by the stay constraint
	FilteredOut int `json:"filteredOut"`

	// Sampled is the number of combinations kept after sampling
	Sampled int `json:"sampled"`

	// Routes is the number of routes searched
	Routes int `json:"routes"`

	// Calls is the number of lookups the run will issue
	Calls int `json:"calls"`

	// CallLimit is the most lookups a single run may issue
	CallLimit int `json:"callLimit"`

	// MinDurationSeconds is the least time the rate quotas allow the run to take
	MinDurationSeconds int64 `json:"minDurationSeconds"`
}

// ExceedsLimit reports whether the run would issue more lookups than allowed.
func (e Estimate) ExceedsLimit() bool {
	return e.CallLimit > 0 && e.Calls > e.CallLimit
}
