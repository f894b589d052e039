package domain

import (
	"fmt"
	"strings"
)

// HourWindow is an inclusive range of hours of the day, 0 to 23.
type HourWindow struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// IsValid checks the bounds of the window.
func (w *HourWindow) IsValid() bool {
	if w == nil {
		return true
	}
	return w.From >= 0 && w.To <= 23 && w.From <= w.To
}

// Contains checks if the hour falls within the window.
func (w *HourWindow) Contains(hour int) bool {
	if w == nil {
		return true
	}
	return hour >= w.From && hour <= w.To
}

// OfferFilter narrows the offers of each outcome. Every itinerary of an offer
// (outbound and return) must satisfy the time windows.
type OfferFilter struct {
	// DepartureHours keeps offers whose legs depart within this window
	DepartureHours *HourWindow `json:"departureHours,omitempty"`

	// ArrivalHours keeps offers whose legs arrive within this window
	ArrivalHours *HourWindow `json:"arrivalHours,omitempty"`

	// MaxStops filters out offers with more stops on any leg
	MaxStops *int `json:"maxStops,omitempty"`

	// MaxPrice filters out offers priced above this amount
	MaxPrice *float64 `json:"maxPrice,omitempty"`

	// Carriers keeps offers operated only by these carrier codes
	Carriers []string `json:"carriers,omitempty"`
}

// IsEmpty reports whether the filter would keep every offer.
func (f *OfferFilter) IsEmpty() bool {
	return f == nil || (f.DepartureHours == nil && f.ArrivalHours == nil &&
		f.MaxStops == nil && f.MaxPrice == nil && len(f.Carriers) == 0)
}

// Validate checks the filter bounds.
func (f *OfferFilter) Validate() error {
	if f == nil {
		return nil
	}
	if !f.DepartureHours.IsValid() {
		return NewValidationError("filter.departureHours", "must satisfy 0 <= from <= to <= 23")
	}
	if !f.ArrivalHours.IsValid() {
		return NewValidationError("filter.arrivalHours", "must satisfy 0 <= from <= to <= 23")
	}
	if f.MaxStops != nil && *f.MaxStops < 0 {
		return NewValidationError("filter.maxStops", "cannot be negative")
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return NewValidationError("filter.maxPrice", fmt.Sprintf("cannot be negative, got %.2f", *f.MaxPrice))
	}
	return nil
}

// Matches checks if the offer satisfies every criterion of the filter.
func (f *OfferFilter) Matches(offer Offer) bool {
	if f == nil {
		return true
	}

	if f.MaxPrice != nil && offer.Price.Amount > *f.MaxPrice {
		return false
	}

	for _, it := range offer.Itineraries {
		if f.MaxStops != nil && it.Stops > *f.MaxStops {
			return false
		}
		if !f.DepartureHours.Contains(it.DepartureTime.Hour()) {
			return false
		}
		if !f.ArrivalHours.Contains(it.ArrivalTime.Hour()) {
			return false
		}
		if len(f.Carriers) > 0 && !containsFold(f.Carriers, it.Carrier) {
			return false
		}
	}

	return true
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
