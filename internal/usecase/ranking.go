package usecase

import (
	"sort"

	"github.com/flight-search/flexible-date-search/internal/domain"
)

// RankDeals orders the priced items and returns the best topN as deals.
//
// Orders:
//   - RankByPrice: ascending cheapest price; equal prices keep batch order
//   - RankByStay: descending stay length; equal stays by ascending price,
//     then batch order
//
// Behavior:
//   - Failures and successes without offers are skipped
//   - topN <= 0 returns every priced item
//   - Does NOT mutate the input slice
func RankDeals(items []domain.BatchItem, order domain.RankOrder, topN int) []domain.Deal {
	deals := make([]domain.Deal, 0, len(items))
	for _, item := range items {
		price, ok := item.Outcome.CheapestPrice()
		if !ok {
			continue
		}
		offer, _ := item.Outcome.CheapestOffer()
		deals = append(deals, domain.Deal{
			Route:       item.Route,
			Combination: item.Combination,
			Price:       price,
			Currency:    item.Outcome.Currency(),
			Offer:       offer,
		})
	}

	switch order {
	case domain.RankByStay:
		sort.SliceStable(deals, func(i, j int) bool {
			si, sj := deals[i].Combination.StaysAtDestination(), deals[j].Combination.StaysAtDestination()
			if si != sj {
				return si > sj
			}
			return deals[i].Price < deals[j].Price
		})
	default:
		sort.SliceStable(deals, func(i, j int) bool {
			return deals[i].Price < deals[j].Price
		})
	}

	if topN > 0 && len(deals) > topN {
		deals = deals[:topN]
	}
	return deals
}
