package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// OutcomeStatus distinguishes successful lookups from failed ones.
type OutcomeStatus string

const (
	// OutcomeSuccess means the lookup answered, possibly with zero offers.
	OutcomeSuccess OutcomeStatus = "success"

	// OutcomeFailure means the lookup could not be completed.
	OutcomeFailure OutcomeStatus = "failure"
)

// SearchOutcome is the result of one lookup for one route and date combination.
//
// A SearchOutcome never changes after construction. Accessors return copies and
// filtering produces a new value, so the same outcome can back the matrix, the
// ranking and the per-route statistics at once.
type SearchOutcome struct {
	status     OutcomeStatus
	offers     []Offer
	searchedAt time.Time
	reason     string
}

// NewSuccessOutcome records a lookup that answered. The offers are copied and
// ordered by ascending price; ties keep the order the lookup returned.
func NewSuccessOutcome(offers []Offer, searchedAt time.Time) SearchOutcome {
	sorted := cloneOffers(offers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price.Amount < sorted[j].Price.Amount
	})

	return SearchOutcome{
		status:     OutcomeSuccess,
		offers:     sorted,
		searchedAt: searchedAt,
	}
}

// NewFailureOutcome records a lookup that failed with the given reason.
func NewFailureOutcome(reason string, searchedAt time.Time) SearchOutcome {
	return SearchOutcome{
		status:     OutcomeFailure,
		searchedAt: searchedAt,
		reason:     reason,
	}
}

// Status returns the outcome status.
func (o SearchOutcome) Status() OutcomeStatus { return o.status }

// IsSuccess reports whether the lookup answered.
func (o SearchOutcome) IsSuccess() bool { return o.status == OutcomeSuccess }

// HasOffers reports whether the lookup answered with at least one offer.
func (o SearchOutcome) HasOffers() bool { return o.status == OutcomeSuccess && len(o.offers) > 0 }

// Reason returns the failure reason, empty for successes.
func (o SearchOutcome) Reason() string { return o.reason }

// SearchedAt returns when the lookup completed.
func (o SearchOutcome) SearchedAt() time.Time { return o.searchedAt }

// OfferCount returns the number of offers.
func (o SearchOutcome) OfferCount() int { return len(o.offers) }

// Offers returns a copy of the offers, cheapest first.
func (o SearchOutcome) Offers() []Offer { return cloneOffers(o.offers) }

// CheapestPrice returns the lowest offer price. The second result is false
// for failures and for successes without offers.
func (o SearchOutcome) CheapestPrice() (float64, bool) {
	if !o.HasOffers() {
		return 0, false
	}
	return o.offers[0].Price.Amount, true
}

// Currency returns the currency of the cheapest offer.
func (o SearchOutcome) Currency() string {
	if !o.HasOffers() {
		return ""
	}
	return o.offers[0].Price.Currency
}

// CheapestOffer returns a copy of the cheapest offer.
func (o SearchOutcome) CheapestOffer() (Offer, bool) {
	if !o.HasOffers() {
		return Offer{}, false
	}
	return o.offers[0].Clone(), true
}

// Filter returns a new outcome holding only the offers for which keep returns
// true. Failures are returned unchanged.
func (o SearchOutcome) Filter(keep func(Offer) bool) SearchOutcome {
	if o.status != OutcomeSuccess || keep == nil {
		return o
	}

	kept := make([]Offer, 0, len(o.offers))
	for _, offer := range o.offers {
		if keep(offer) {
			kept = append(kept, offer.Clone())
		}
	}

	return SearchOutcome{
		status:     OutcomeSuccess,
		offers:     kept,
		searchedAt: o.searchedAt,
	}
}

type searchOutcomeJSON struct {
	Status        OutcomeStatus `json:"status"`
	CheapestPrice *float64      `json:"cheapestPrice,omitempty"`
	Currency      string        `json:"currency,omitempty"`
	Offers        []Offer       `json:"offers,omitempty"`
	SearchedAt    time.Time     `json:"searchedAt"`
	Reason        string        `json:"reason,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (o SearchOutcome) MarshalJSON() ([]byte, error) {
	out := searchOutcomeJSON{
		Status:     o.status,
		Currency:   o.Currency(),
		Offers:     o.offers,
		SearchedAt: o.searchedAt,
		Reason:     o.reason,
	}
	if price, ok := o.CheapestPrice(); ok {
		out.CheapestPrice = &price
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *SearchOutcome) UnmarshalJSON(data []byte) error {
	var in searchOutcomeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	switch in.Status {
	case OutcomeSuccess:
		*o = NewSuccessOutcome(in.Offers, in.SearchedAt)
	case OutcomeFailure:
		*o = NewFailureOutcome(in.Reason, in.SearchedAt)
	default:
		return fmt.Errorf("unknown outcome status %q", in.Status)
	}
	return nil
}

// BatchItem pairs an outcome with the route and combination it was looked up for.
type BatchItem struct {
	Route       RouteSpec       `json:"route"`
	Combination DateCombination `json:"combination"`
	Outcome     SearchOutcome   `json:"outcome"`
}
