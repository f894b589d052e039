// Package domain contains the value objects, errors and collaborator contracts
// of the flexible-date search engine. Nothing in this package performs I/O.
package domain

import "time"

// Offer is one priced itinerary returned by a lookup.
type Offer struct {
	// ID is the identifier assigned by the lookup collaborator
	ID string `json:"id"`

	// Price contains the total price for all passengers
	Price PriceInfo `json:"price"`

	// Itineraries holds the outbound leg first and the return leg second, if any
	Itineraries []Itinerary `json:"itineraries"`

	// BookableSeats is the number of seats still available, 0 when unknown
	BookableSeats int `json:"bookableSeats,omitempty"`
}

// Itinerary is one directional journey of an offer, possibly with stops.
type Itinerary struct {
	Origin        string       `json:"origin"`
	Destination   string       `json:"destination"`
	DepartureTime time.Time    `json:"departureTime"`
	ArrivalTime   time.Time    `json:"arrivalTime"`
	Carrier       string       `json:"carrier"`
	FlightNumber  string       `json:"flightNumber"`
	Stops         int          `json:"stops"`
	Duration      DurationInfo `json:"duration"`
}

// PriceInfo contains pricing information for an offer.
type PriceInfo struct {
	// Amount is the numeric price value
	Amount float64 `json:"amount"`

	// Currency is the ISO 4217 currency code (e.g., "EUR")
	Currency string `json:"currency"`
}

// DurationInfo contains a journey duration.
type DurationInfo struct {
	// TotalMinutes is the total duration in minutes
	TotalMinutes int `json:"totalMinutes"`

	// Formatted is a human-readable duration string (e.g., "2h 30m")
	Formatted string `json:"formatted"`
}

// NewDurationInfo creates a DurationInfo from total minutes and formats it.
func NewDurationInfo(totalMinutes int) DurationInfo {
	hours := totalMinutes / 60
	mins := totalMinutes % 60

	var formatted string
	switch {
	case hours > 0 && mins > 0:
		formatted = itoa(hours) + "h " + itoa(mins) + "m"
	case hours > 0:
		formatted = itoa(hours) + "h"
	default:
		formatted = itoa(mins) + "m"
	}

	return DurationInfo{TotalMinutes: totalMinutes, Formatted: formatted}
}

// Outbound returns the first itinerary of the offer.
func (o Offer) Outbound() (Itinerary, bool) {
	if len(o.Itineraries) == 0 {
		return Itinerary{}, false
	}
	return o.Itineraries[0], true
}

// Clone returns a deep copy of the offer.
func (o Offer) Clone() Offer {
	if o.Itineraries != nil {
		itineraries := make([]Itinerary, len(o.Itineraries))
		copy(itineraries, o.Itineraries)
		o.Itineraries = itineraries
	}
	return o
}

func cloneOffers(offers []Offer) []Offer {
	if offers == nil {
		return nil
	}
	out := make([]Offer, len(offers))
	for i, offer := range offers {
		out[i] = offer.Clone()
	}
	return out
}

// itoa converts a non-negative integer to a string.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
