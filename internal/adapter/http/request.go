// Package http provides the HTTP handler layer for the flexible-date search API.
// It handles request parsing, validation, and response formatting.
package http

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/flight-search/flexible-date-search/internal/domain"
)

// SearchRequest represents the request body of the estimate and search endpoints.
type SearchRequest struct {
	// Routes are searched in order for every date combination
	Routes []RouteDTO `json:"routes"`

	// Departure is the range of candidate departure dates
	Departure DateRangeDTO `json:"departure"`

	// Return is the range of candidate return dates; omit for one-way searches
	Return *DateRangeDTO `json:"return,omitempty"`

	// Stay bounds the number of days spent at the destination
	Stay StayDTO `json:"stay"`

	// SampleTarget caps the number of date combinations (0 = no sampling)
	SampleTarget int `json:"sampleTarget,omitempty" example:"10"`

	// Passengers is the number of adult passengers (1-9, default 1)
	Passengers int `json:"passengers,omitempty" example:"1"`

	// MaxResults is the number of offers requested per lookup
	MaxResults int `json:"maxResults,omitempty" example:"3"`

	// Currency is the ISO 4217 code prices are requested in
	Currency string `json:"currency,omitempty" example:"EUR"`

	// Ranking orders the best deals: price or stay
	Ranking string `json:"ranking,omitempty" example:"price"`

	// TopN is the number of best deals returned
	TopN int `json:"topN,omitempty" example:"5"`

	// Filter narrows offers before aggregation
	Filter *FilterDTO `json:"filter,omitempty"`
}

// RouteDTO is one searched route. ReturnOrigin and ReturnDestination describe
// an open-jaw return leg; when both are empty the outbound leg is reversed.
type RouteDTO struct {
	Origin            string `json:"origin" example:"ZRH"`
	Destination       string `json:"destination" example:"LIS"`
	ReturnOrigin      string `json:"returnOrigin,omitempty" example:"OPO"`
	ReturnDestination string `json:"returnDestination,omitempty" example:"ZRH"`
}

// DateRangeDTO is an inclusive range of dates in YYYY-MM-DD format.
type DateRangeDTO struct {
	Start string `json:"start" example:"2025-11-10"`
	End   string `json:"end" example:"2025-11-14"`
}

// StayDTO bounds the days at the destination. Max is optional.
type StayDTO struct {
	Min int  `json:"min" example:"5"`
	Max *int `json:"max,omitempty" example:"10"`
}

// HourWindowDTO is an inclusive range of hours of the day.
type HourWindowDTO struct {
	From int `json:"from" example:"6"`
	To   int `json:"to" example:"12"`
}

// FilterDTO represents optional offer filters.
// Example: {"maxPrice": 300, "maxStops": 0, "carriers": ["LX"], "departureHours": {"from": 6, "to": 12}}
type FilterDTO struct {
	// DepartureHours keeps offers whose legs depart within this window
	DepartureHours *HourWindowDTO `json:"departureHours,omitempty"`

	// ArrivalHours keeps offers whose legs arrive within this window
	ArrivalHours *HourWindowDTO `json:"arrivalHours,omitempty"`

	// MaxStops filters offers with more stops on any leg (0 = direct only)
	MaxStops *int `json:"maxStops,omitempty" example:"0"`

	// MaxPrice filters offers priced above this amount
	MaxPrice *float64 `json:"maxPrice,omitempty" example:"300"`

	// Carriers keeps only offers operated by these carrier codes
	Carriers []string `json:"carriers,omitempty" example:"LX,TP"`
}

// Validation regex patterns.
var (
	airportCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
	datePattern        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Valid ranking options.
var validRankings = map[string]bool{
	"price": true,
	"stay":  true,
	"":      true, // Empty is valid (defaults to price)
}

// ValidationError represents a field-level validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	return v.Errors[0].Message
}

// Add adds a validation error.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ToMap converts validation errors to a map for API response.
func (v *ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v.Errors))
	for _, e := range v.Errors {
		result[e.Field] = e.Message
	}
	return result
}

// Validate checks the shape of the request: required fields, code and date
// formats. Range and stay semantics are checked by the domain request.
// Airport and carrier codes are normalized to upper case.
func (r *SearchRequest) Validate() error {
	errs := &ValidationErrors{}

	r.validateRoutes(errs)
	validateDateRange(errs, "departure", &r.Departure)
	if r.Return != nil {
		validateDateRange(errs, "return", r.Return)
	}
	r.validateRanking(errs)
	r.validateCurrency(errs)
	r.validateFilter(errs)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func (r *SearchRequest) validateRoutes(errs *ValidationErrors) {
	if len(r.Routes) == 0 {
		errs.Add("routes", "at least one route is required")
		return
	}

	for i := range r.Routes {
		route := &r.Routes[i]
		field := fmt.Sprintf("routes[%d]", i)

		validateAirport(errs, field+".origin", &route.Origin)
		validateAirport(errs, field+".destination", &route.Destination)

		openJaw := route.ReturnOrigin != "" || route.ReturnDestination != ""
		if !openJaw {
			continue
		}
		if r.Return == nil {
			errs.Add(field+".returnOrigin", "an open-jaw return leg requires a return date range")
			continue
		}
		validateAirport(errs, field+".returnOrigin", &route.ReturnOrigin)
		validateAirport(errs, field+".returnDestination", &route.ReturnDestination)
	}
}

func validateAirport(errs *ValidationErrors, field string, code *string) {
	if *code == "" {
		errs.Add(field, field+" is required")
		return
	}

	normalized := domain.NormalizeCode(*code)
	if !airportCodePattern.MatchString(normalized) {
		errs.Add(field, field+" must be a valid 3-letter IATA airport code")
		return
	}
	*code = normalized // Normalize to uppercase
}

func validateDateRange(errs *ValidationErrors, field string, dr *DateRangeDTO) {
	start, okStart := validateDate(errs, field+".start", dr.Start)
	end, okEnd := validateDate(errs, field+".end", dr.End)
	if !okStart || !okEnd || start.After(end) {
		return
	}

	if days := domain.NewDateRange(start, end).Days(); days > domain.MaxRangeDays {
		errs.Add(field, fmt.Sprintf("%s cannot span more than %d days, got %d", field, domain.MaxRangeDays, days))
	}
}

func validateDate(errs *ValidationErrors, field, value string) (time.Time, bool) {
	if value == "" {
		errs.Add(field, field+" is required")
		return time.Time{}, false
	}

	if !datePattern.MatchString(value) {
		errs.Add(field, field+" must be in YYYY-MM-DD format")
		return time.Time{}, false
	}

	date, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		errs.Add(field, field+" is not a valid date")
		return time.Time{}, false
	}
	return date, true
}

func (r *SearchRequest) validateRanking(errs *ValidationErrors) {
	r.Ranking = strings.ToLower(r.Ranking)
	if !validRankings[r.Ranking] {
		errs.Add("ranking", "ranking must be one of: price, stay")
	}
}

func (r *SearchRequest) validateCurrency(errs *ValidationErrors) {
	if r.Currency == "" {
		return
	}
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if len(r.Currency) != 3 {
		errs.Add("currency", "currency must be a 3-letter ISO 4217 code")
	}
}

func (r *SearchRequest) validateFilter(errs *ValidationErrors) {
	if r.Filter == nil {
		return
	}

	// Validate carrier codes
	for i, carrier := range r.Filter.Carriers {
		normalized := strings.ToUpper(strings.TrimSpace(carrier))
		if len(normalized) < 2 || len(normalized) > 3 {
			errs.Add(fmt.Sprintf("filter.carriers[%d]", i),
				"carrier code must be 2 or 3 characters")
		}
		r.Filter.Carriers[i] = normalized
	}

	validateHourWindow(errs, "filter.departureHours", r.Filter.DepartureHours)
	validateHourWindow(errs, "filter.arrivalHours", r.Filter.ArrivalHours)
}

func validateHourWindow(errs *ValidationErrors, field string, w *HourWindowDTO) {
	if w == nil {
		return
	}
	if w.From < 0 || w.From > 23 || w.To < 0 || w.To > 23 {
		errs.Add(field, "hours must be between 0 and 23")
		return
	}
	if w.From > w.To {
		errs.Add(field, "from must be less than or equal to to")
	}
}
