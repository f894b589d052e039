// Package usecase implements the flexible-date batch search engine: combination
// generation, sampling, rate-governed batch execution and aggregation.
package usecase

import "github.com/flight-search/flexible-date-search/internal/domain"

// DefaultTopN is the best-deals length used when none is requested.
const DefaultTopN = 5

// AggregateOptions controls the derived views of a batch.
type AggregateOptions struct {
	// Ranking selects the best-deals order (default: price)
	Ranking domain.RankOrder

	// TopN is the best-deals length; 0 uses DefaultTopN
	TopN int

	// Filter narrows offers before aggregation; nil keeps every offer
	Filter *domain.OfferFilter
}

// DefaultAggregateOptions returns AggregateOptions with sensible defaults.
func DefaultAggregateOptions() AggregateOptions {
	return AggregateOptions{
		Ranking: domain.RankByPrice,
		TopN:    DefaultTopN,
	}
}

// AggregateOptionsFor derives aggregation options from a request.
func AggregateOptionsFor(req *domain.FlexibleSearchRequest) AggregateOptions {
	opts := DefaultAggregateOptions()
	if req.Ranking.IsValid() {
		opts.Ranking = req.Ranking
	}
	if req.TopN > 0 {
		opts.TopN = req.TopN
	}
	opts.Filter = req.Filter
	return opts
}
