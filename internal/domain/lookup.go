package domain

//go:generate mockgen -source=lookup.go -destination=mock_lookup.go -package=domain

import (
	"context"
	"time"
)

// LookupRequest is the input of one external pricing call.
type LookupRequest struct {
	Route      RouteSpec
	Departure  time.Time
	Return     *time.Time
	Passengers int
	MaxResults int
	Currency   string
}

// NewLookupRequest builds the lookup input for a route and combination.
func NewLookupRequest(route RouteSpec, combo DateCombination, req *FlexibleSearchRequest) LookupRequest {
	lr := LookupRequest{
		Route:      route,
		Departure:  combo.Departure(),
		Passengers: req.Passengers,
		MaxResults: req.MaxResults,
		Currency:   req.Currency,
	}
	if ret, ok := combo.Return(); ok {
		lr.Return = &ret
	}
	return lr
}

// FlightLookup is the external pricing collaborator.
// Implementations return zero or more offers, or an error for this call only.
type FlightLookup interface {
	// Name returns the collaborator identifier used in logs and errors.
	Name() string

	// Lookup prices one route for one departure (and optional return) date.
	Lookup(ctx context.Context, req LookupRequest) ([]Offer, error)
}
