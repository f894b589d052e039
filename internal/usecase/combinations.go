package usecase

import (
	"github.com/flight-search/flexible-date-search/internal/domain"
)

// GenerateCombinations enumerates every (departure, return) pair of the two
// ranges whose stay satisfies the constraint.
//
// Behavior:
//   - Departures are visited in ascending order, and for each departure the
//     returns are visited in ascending order. Output follows that order.
//   - A pair is kept when return > departure and stay.Allows(return - departure - 1).
//   - Returns an empty slice when nothing qualifies; the caller decides whether
//     that is an error.
func GenerateCombinations(departure, ret domain.DateRange, stay domain.StayConstraint) []domain.DateCombination {
	departures := departure.Dates()
	returns := ret.Dates()

	combos := make([]domain.DateCombination, 0)
	for _, dep := range departures {
		for _, r := range returns {
			if !r.After(dep) {
				continue
			}
			if !stay.Allows(domain.DaysBetween(dep, r) - 1) {
				continue
			}

			combo, err := domain.NewDateCombination(dep, r)
			if err != nil {
				continue
			}
			combos = append(combos, combo)
		}
	}

	return combos
}

// GenerateOneWayCombinations returns one combination per departure date.
func GenerateOneWayCombinations(departure domain.DateRange) []domain.DateCombination {
	dates := departure.Dates()
	combos := make([]domain.DateCombination, 0, len(dates))
	for _, dep := range dates {
		combos = append(combos, domain.NewOneWayCombination(dep))
	}
	return combos
}

// CombinationsFor generates the combinations of a request, round-trip or one-way.
func CombinationsFor(req *domain.FlexibleSearchRequest) []domain.DateCombination {
	if req.IsOneWay() {
		return GenerateOneWayCombinations(req.Departure)
	}
	return GenerateCombinations(req.Departure, *req.Return, req.Stay)
}

// EstimateCombinations reports the size of the search space of a request
// before sampling. Sampled, Routes, Calls and MinDurationSeconds are left
// for the caller to fill in.
func EstimateCombinations(req *domain.FlexibleSearchRequest, combos []domain.DateCombination) domain.Estimate {
	est := domain.Estimate{
		Combinations:  len(combos),
		DepartureDays: req.Departure.Days(),
	}

	if req.IsOneWay() {
		est.MaxPossible = est.DepartureDays
	} else {
		est.ReturnDays = req.Return.Days()
		est.MaxPossible = est.DepartureDays * est.ReturnDays
	}
	est.FilteredOut = est.MaxPossible - est.Combinations

	return est
}
