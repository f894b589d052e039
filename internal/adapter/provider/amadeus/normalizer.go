package amadeus

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/flight-search/flexible-date-search/internal/domain"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/timeutil"
)

// isoDurationRegex matches the subset of ISO 8601 durations the API emits,
// e.g. "PT2H50M", "PT45M", "P1DT3H".
var isoDurationRegex = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?)?$`)

// normalize converts API offers to domain offers, skipping malformed ones.
func normalize(offers []apiOffer, fallbackCurrency string, logger zerolog.Logger) []domain.Offer {
	result := make([]domain.Offer, 0, len(offers))

	for _, o := range offers {
		normalized, err := normalizeOffer(o, fallbackCurrency)
		if err != nil {
			logger.Debug().Err(err).Str("offer_id", o.ID).Msg("skipping malformed offer")
			continue
		}
		result = append(result, normalized)
	}

	return result
}

// normalizeOffer converts a single API offer.
func normalizeOffer(o apiOffer, fallbackCurrency string) (domain.Offer, error) {
	amount, err := parsePrice(o.Price)
	if err != nil {
		return domain.Offer{}, err
	}
	if len(o.Itineraries) == 0 {
		return domain.Offer{}, fmt.Errorf("offer %s has no itineraries", o.ID)
	}

	currency := o.Price.Currency
	if currency == "" {
		currency = fallbackCurrency
	}

	itineraries := make([]domain.Itinerary, 0, len(o.Itineraries))
	for i, it := range o.Itineraries {
		normalized, err := normalizeItinerary(it)
		if err != nil {
			return domain.Offer{}, fmt.Errorf("offer %s itinerary %d: %w", o.ID, i, err)
		}
		itineraries = append(itineraries, normalized)
	}

	return domain.Offer{
		ID:            o.ID,
		Price:         domain.PriceInfo{Amount: amount, Currency: currency},
		Itineraries:   itineraries,
		BookableSeats: o.NumberOfBookableSeats,
	}, nil
}

// normalizeItinerary flattens the segments of one direction: timing comes
// from the first departure and the last arrival.
func normalizeItinerary(it apiItinerary) (domain.Itinerary, error) {
	if len(it.Segments) == 0 {
		return domain.Itinerary{}, fmt.Errorf("no segments")
	}
	first := it.Segments[0]
	last := it.Segments[len(it.Segments)-1]

	departure, err := timeutil.ParseLocalDateTime(first.Departure.At)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("failed to parse departure time: %w", err)
	}
	arrival, err := timeutil.ParseLocalDateTime(last.Arrival.At)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("failed to parse arrival time: %w", err)
	}

	stops := len(it.Segments) - 1
	for _, s := range it.Segments {
		stops += s.NumberOfStops
	}

	minutes, ok := parseISODuration(it.Duration)
	if !ok {
		// local times across zones make this approximate
		minutes = int(arrival.Sub(departure).Minutes())
	}

	return domain.Itinerary{
		Origin:        first.Departure.IataCode,
		Destination:   last.Arrival.IataCode,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		Carrier:       first.CarrierCode,
		FlightNumber:  first.CarrierCode + first.Number,
		Stops:         stops,
		Duration:      domain.NewDurationInfo(minutes),
	}, nil
}

// parsePrice prefers grandTotal, which includes every fee.
func parsePrice(p apiPrice) (float64, error) {
	raw := p.GrandTotal
	if raw == "" {
		raw = p.Total
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	if amount < 0 {
		return 0, fmt.Errorf("negative price %q", raw)
	}
	return amount, nil
}

// parseISODuration returns the duration in minutes.
func parseISODuration(s string) (int, bool) {
	m := isoDurationRegex.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "PT" {
		return 0, false
	}

	atoi := func(v string) int {
		if v == "" {
			return 0
		}
		n, _ := strconv.Atoi(v)
		return n
	}
	return atoi(m[1])*24*60 + atoi(m[2])*60 + atoi(m[3]), true
}
