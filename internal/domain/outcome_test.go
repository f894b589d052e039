package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var searchedAt = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

func offer(id string, price float64, depHour int) Offer {
	dep := time.Date(2025, 11, 10, depHour, 0, 0, 0, time.UTC)
	return Offer{
		ID:    id,
		Price: PriceInfo{Amount: price, Currency: "EUR"},
		Itineraries: []Itinerary{{
			Origin:        "ZRH",
			Destination:   "LIS",
			DepartureTime: dep,
			ArrivalTime:   dep.Add(3 * time.Hour),
			Carrier:       "TP",
			FlightNumber:  "TP935",
			Duration:      NewDurationInfo(180),
		}},
	}
}

func TestNewSuccessOutcome(t *testing.T) {
	input := []Offer{offer("a", 300, 8), offer("b", 150, 9), offer("c", 150, 10)}

	outcome := NewSuccessOutcome(input, searchedAt)

	require.True(t, outcome.IsSuccess())
	price, ok := outcome.CheapestPrice()
	require.True(t, ok)
	assert.Equal(t, 150.0, price)
	assert.Equal(t, "EUR", outcome.Currency())

	offers := outcome.Offers()
	assert.Equal(t, []string{"b", "c", "a"}, []string{offers[0].ID, offers[1].ID, offers[2].ID})

	// the input slice is not reordered
	assert.Equal(t, "a", input[0].ID)
}

func TestNewSuccessOutcome_NoOffers(t *testing.T) {
	outcome := NewSuccessOutcome(nil, searchedAt)

	assert.True(t, outcome.IsSuccess())
	assert.False(t, outcome.HasOffers())
	_, ok := outcome.CheapestPrice()
	assert.False(t, ok)
}

func TestNewFailureOutcome(t *testing.T) {
	outcome := NewFailureOutcome("provider unreachable", searchedAt)

	assert.False(t, outcome.IsSuccess())
	assert.Equal(t, OutcomeFailure, outcome.Status())
	assert.Equal(t, "provider unreachable", outcome.Reason())
	_, ok := outcome.CheapestPrice()
	assert.False(t, ok)
}

func TestSearchOutcome_OffersReturnsCopy(t *testing.T) {
	outcome := NewSuccessOutcome([]Offer{offer("a", 100, 8)}, searchedAt)

	offers := outcome.Offers()
	offers[0].Price.Amount = 1
	offers[0].Itineraries[0].Carrier = "XX"

	price, _ := outcome.CheapestPrice()
	assert.Equal(t, 100.0, price)
	assert.Equal(t, "TP", outcome.Offers()[0].Itineraries[0].Carrier)
}

func TestSearchOutcome_FilterLeavesOriginalIntact(t *testing.T) {
	original := NewSuccessOutcome([]Offer{offer("early", 90, 6), offer("late", 120, 14)}, searchedAt)

	filtered := original.Filter(func(o Offer) bool {
		return o.Itineraries[0].DepartureTime.Hour() >= 10
	})

	price, ok := filtered.CheapestPrice()
	require.True(t, ok)
	assert.Equal(t, 120.0, price)
	assert.Equal(t, 1, filtered.OfferCount())

	price, _ = original.CheapestPrice()
	assert.Equal(t, 90.0, price)
	assert.Equal(t, 2, original.OfferCount())
}

func TestSearchOutcome_FilterFailureUnchanged(t *testing.T) {
	failure := NewFailureOutcome("timeout", searchedAt)

	filtered := failure.Filter(func(Offer) bool { return false })

	assert.Equal(t, failure, filtered)
}

func TestSearchOutcome_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		outcome SearchOutcome
	}{
		{"success", NewSuccessOutcome([]Offer{offer("a", 99.5, 8)}, searchedAt)},
		{"empty success", NewSuccessOutcome([]Offer{}, searchedAt)},
		{"failure", NewFailureOutcome("503 from provider", searchedAt)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.outcome)
			require.NoError(t, err)

			var decoded SearchOutcome
			require.NoError(t, json.Unmarshal(data, &decoded))

			assert.Equal(t, tt.outcome.Status(), decoded.Status())
			assert.Equal(t, tt.outcome.Reason(), decoded.Reason())
			assert.Equal(t, tt.outcome.OfferCount(), decoded.OfferCount())
			wantPrice, wantOK := tt.outcome.CheapestPrice()
			gotPrice, gotOK := decoded.CheapestPrice()
			assert.Equal(t, wantOK, gotOK)
			assert.Equal(t, wantPrice, gotPrice)
		})
	}
}

func TestSearchOutcome_UnmarshalUnknownStatus(t *testing.T) {
	var outcome SearchOutcome
	err := json.Unmarshal([]byte(`{"status":"pending"}`), &outcome)
	assert.Error(t, err)
}
