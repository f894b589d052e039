package domain

import (
	"regexp"
	"strings"
)

// airportCodeRegex matches valid IATA airport codes (3 uppercase letters).
var airportCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// Leg is a directed (origin, destination) airport pair.
type Leg struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// String renders the leg as "ZRH-LIS".
func (l Leg) String() string {
	return l.Origin + "-" + l.Destination
}

// Reverse returns the leg flown in the opposite direction.
func (l Leg) Reverse() Leg {
	return Leg{Origin: l.Destination, Destination: l.Origin}
}

// RouteSpec is the route searched for every date combination.
//
// A plain route has only an outbound leg and the return is flown in reverse.
// An open-jaw route also carries an explicit return leg whose origin need not
// match the outbound destination.
type RouteSpec struct {
	Outbound  Leg  `json:"outbound"`
	ReturnLeg *Leg `json:"returnLeg,omitempty"`
}

// NewRoute creates a plain route.
func NewRoute(origin, destination string) RouteSpec {
	return RouteSpec{Outbound: Leg{Origin: origin, Destination: destination}}
}

// NewOpenJawRoute creates a route with an independent return leg.
func NewOpenJawRoute(outbound, inbound Leg) RouteSpec {
	return RouteSpec{Outbound: outbound, ReturnLeg: &inbound}
}

// IsOpenJaw reports whether the return leg differs from the reversed outbound.
func (r RouteSpec) IsOpenJaw() bool {
	return r.ReturnLeg != nil && *r.ReturnLeg != r.Outbound.Reverse()
}

// Inbound returns the leg flown on the return date.
func (r RouteSpec) Inbound() Leg {
	if r.ReturnLeg != nil {
		return *r.ReturnLeg
	}
	return r.Outbound.Reverse()
}

// Key identifies the route in statistics and logs, e.g. "ZRH-LIS" or
// "ZRH-LIS/OPO-ZRH" for open-jaw.
func (r RouteSpec) Key() string {
	if r.IsOpenJaw() {
		return r.Outbound.String() + "/" + r.ReturnLeg.String()
	}
	return r.Outbound.String()
}

// Validate checks the airport codes of every leg.
func (r RouteSpec) Validate(field string) error {
	if err := validateLeg(field+".outbound", r.Outbound); err != nil {
		return err
	}
	if r.ReturnLeg != nil {
		if err := validateLeg(field+".returnLeg", *r.ReturnLeg); err != nil {
			return err
		}
	}
	return nil
}

func validateLeg(field string, leg Leg) error {
	if !airportCodeRegex.MatchString(leg.Origin) {
		return NewValidationError(field+".origin", "must be a valid 3-letter IATA code, got "+quote(leg.Origin))
	}
	if !airportCodeRegex.MatchString(leg.Destination) {
		return NewValidationError(field+".destination", "must be a valid 3-letter IATA code, got "+quote(leg.Destination))
	}
	if leg.Origin == leg.Destination {
		return NewValidationError(field, "origin and destination must be different")
	}
	return nil
}

// NormalizeCode upper-cases and trims an airport code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func quote(s string) string {
	return `"` + s + `"`
}
