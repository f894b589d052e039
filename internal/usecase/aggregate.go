package usecase

import (
	"fmt"
	"sort"
	"time"

	"github.com/flight-search/flexible-date-search/internal/domain"
)

// Aggregate builds every derived view of a batch from scratch.
//
// The filter in opts is applied to fresh copies of the outcomes first; the
// items passed in are never modified. Counts and statistics use only the
// filtered successes. When the matrix cannot be built, Matrix is nil and
// MatrixUnavailable explains why; the other views are still filled in.
func Aggregate(items []domain.BatchItem, opts AggregateOptions) domain.Aggregate {
	filtered := ApplyOfferFilter(items, opts.Filter)
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	agg := domain.Aggregate{
		Stats:      ComputeStats(filtered),
		Counts:     CountOutcomes(filtered),
		RouteStats: ComputeRouteStats(filtered),
		Ranked:     RankDeals(filtered, opts.Ranking, topN),
		Calendar:   CalendarView(filtered),
		ByStay:     PriceByStay(filtered),
	}

	matrix, err := BuildPriceMatrix(filtered)
	if err != nil {
		agg.MatrixUnavailable = err.Error()
	} else {
		agg.Matrix = matrix
	}

	return agg
}

// CountOutcomes tallies successes, failures and successes without offers.
func CountOutcomes(items []domain.BatchItem) domain.OutcomeCounts {
	counts := domain.OutcomeCounts{Total: len(items)}
	for _, item := range items {
		switch {
		case !item.Outcome.IsSuccess():
			counts.Failed++
		case !item.Outcome.HasOffers():
			counts.Succeeded++
			counts.NoOffers++
		default:
			counts.Succeeded++
		}
	}
	return counts
}

// ComputeStats summarizes the cheapest price of every priced success.
func ComputeStats(items []domain.BatchItem) domain.PriceStats {
	var stats domain.PriceStats
	var minPrice, maxPrice, sum float64

	for _, item := range items {
		price, ok := item.Outcome.CheapestPrice()
		if !ok {
			continue
		}
		if stats.Count == 0 {
			minPrice, maxPrice = price, price
			stats.Currency = item.Outcome.Currency()
		}
		if price < minPrice {
			minPrice = price
		}
		if price > maxPrice {
			maxPrice = price
		}
		sum += price
		stats.Count++
	}

	if stats.Count == 0 {
		return stats
	}

	mean := sum / float64(stats.Count)
	priceRange := maxPrice - minPrice
	stats.Min = &minPrice
	stats.Max = &maxPrice
	stats.Mean = &mean
	stats.Range = &priceRange
	return stats
}

// ComputeRouteStats groups counts and statistics by route, in the order
// routes first appear in the batch.
func ComputeRouteStats(items []domain.BatchItem) []domain.RouteStats {
	order := make([]string, 0)
	byRoute := make(map[string][]domain.BatchItem)
	for _, item := range items {
		key := item.Route.Key()
		if _, ok := byRoute[key]; !ok {
			order = append(order, key)
		}
		byRoute[key] = append(byRoute[key], item)
	}

	result := make([]domain.RouteStats, 0, len(order))
	for _, key := range order {
		result = append(result, domain.RouteStats{
			Route:  key,
			Counts: CountOutcomes(byRoute[key]),
			Stats:  ComputeStats(byRoute[key]),
		})
	}
	return result
}

// BuildPriceMatrix pivots priced round-trip successes into a departure x
// return grid.
//
// Behavior:
//   - Rows and columns are the distinct dates present, sorted as dates
//   - A cell holds the minimum price across routes and offers for that pair
//   - Pairs with no priced success are marked missing, not zero
//   - Fewer than two departure dates or two return dates returns an error
//     wrapping domain.ErrInsufficientData
func BuildPriceMatrix(items []domain.BatchItem) (*domain.PriceMatrix, error) {
	type cellKey struct{ dep, ret time.Time }

	cheapest := make(map[cellKey]float64)
	departures := make(map[time.Time]struct{})
	returns := make(map[time.Time]struct{})
	currency := ""

	for _, item := range items {
		price, ok := item.Outcome.CheapestPrice()
		if !ok {
			continue
		}
		ret, hasReturn := item.Combination.Return()
		if !hasReturn {
			continue
		}

		key := cellKey{dep: item.Combination.Departure(), ret: ret}
		if current, seen := cheapest[key]; !seen || price < current {
			cheapest[key] = price
		}
		departures[key.dep] = struct{}{}
		returns[key.ret] = struct{}{}
		if currency == "" {
			currency = item.Outcome.Currency()
		}
	}

	if len(cheapest) == 0 {
		return nil, fmt.Errorf("%w: no priced round-trip results", domain.ErrInsufficientData)
	}
	if len(departures) < 2 {
		return nil, fmt.Errorf("%w: only one departure date", domain.ErrInsufficientData)
	}
	if len(returns) < 2 {
		return nil, fmt.Errorf("%w: only one return date", domain.ErrInsufficientData)
	}

	matrix := &domain.PriceMatrix{
		Departures: sortedDates(departures),
		Returns:    sortedDates(returns),
		Currency:   currency,
	}
	matrix.Cells = make([][]domain.PriceCell, len(matrix.Departures))
	for i, dep := range matrix.Departures {
		row := make([]domain.PriceCell, len(matrix.Returns))
		for j, ret := range matrix.Returns {
			if price, ok := cheapest[cellKey{dep: dep, ret: ret}]; ok {
				row[j] = domain.PriceCell{Price: price, Present: true}
			}
		}
		matrix.Cells[i] = row
	}

	return matrix, nil
}

// CalendarView returns the cheapest price per departure date, in date order.
// One-way and round-trip results both contribute.
func CalendarView(items []domain.BatchItem) []domain.DatePrice {
	cheapest := make(map[time.Time]float64)
	for _, item := range items {
		price, ok := item.Outcome.CheapestPrice()
		if !ok {
			continue
		}
		dep := item.Combination.Departure()
		if current, seen := cheapest[dep]; !seen || price < current {
			cheapest[dep] = price
		}
	}

	dates := make(map[time.Time]struct{}, len(cheapest))
	for d := range cheapest {
		dates[d] = struct{}{}
	}

	result := make([]domain.DatePrice, 0, len(cheapest))
	for _, d := range sortedDates(dates) {
		result = append(result, domain.DatePrice{Date: d, Price: cheapest[d]})
	}
	return result
}

// PriceByStay returns the cheapest price per stay length, shortest stay first.
// One-way results are skipped.
func PriceByStay(items []domain.BatchItem) []domain.StayPrice {
	cheapest := make(map[int]float64)
	for _, item := range items {
		if item.Combination.IsOneWay() {
			continue
		}
		price, ok := item.Outcome.CheapestPrice()
		if !ok {
			continue
		}
		stays := item.Combination.StaysAtDestination()
		if current, seen := cheapest[stays]; !seen || price < current {
			cheapest[stays] = price
		}
	}

	stays := make([]int, 0, len(cheapest))
	for s := range cheapest {
		stays = append(stays, s)
	}
	sort.Ints(stays)

	result := make([]domain.StayPrice, 0, len(stays))
	for _, s := range stays {
		result = append(result, domain.StayPrice{Stays: s, Price: cheapest[s]})
	}
	return result
}

func sortedDates(set map[time.Time]struct{}) []time.Time {
	dates := make([]time.Time, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
