package usecase

import (
	"github.com/flight-search/flexible-date-search/internal/domain"
)

// ApplyOfferFilter returns new batch items whose outcomes keep only the offers
// matching the filter.
//
// Behavior:
//   - Returns items unchanged when the filter is empty
//   - Failures pass through untouched
//   - A success whose offers are all filtered out becomes a success without offers
//   - Does NOT mutate the input items or their outcomes
func ApplyOfferFilter(items []domain.BatchItem, filter *domain.OfferFilter) []domain.BatchItem {
	if filter.IsEmpty() {
		return items
	}

	result := make([]domain.BatchItem, len(items))
	for i, item := range items {
		result[i] = domain.BatchItem{
			Route:       item.Route,
			Combination: item.Combination,
			Outcome:     item.Outcome.Filter(filter.Matches),
		}
	}
	return result
}
