package fixture

import (
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/flight-search/flexible-date-search/internal/domain"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/timeutil"
)

// MaxFixtureOffers caps the offers synthesized per lookup.
const MaxFixtureOffers = 3

// oneWayFactor prices a single leg relative to a round trip.
const oneWayFactor = 0.6

// extraStopMinutes is added to the journey for each synthesized connection.
const extraStopMinutes = 95

// buildOffers synthesizes up to MaxFixtureOffers offers, cheapest first.
// Each further offer is 12% dearer and has one more stop.
func buildOffers(req domain.LookupRequest, outbound fixtureRoute, inbound *fixtureRoute) ([]domain.Offer, error) {
	base := basePrice(req, outbound, inbound)

	count := req.MaxResults
	if count <= 0 || count > MaxFixtureOffers {
		count = MaxFixtureOffers
	}
	passengers := req.Passengers
	if passengers < 1 {
		passengers = 1
	}

	offers := make([]domain.Offer, 0, count)
	for i := 0; i < count; i++ {
		out, err := normalizeLeg(outbound, req.Departure, i)
		if err != nil {
			return nil, domain.NewLookupError(ProviderName, err)
		}
		itineraries := []domain.Itinerary{out}

		if inbound != nil {
			in, err := normalizeLeg(*inbound, *req.Return, i)
			if err != nil {
				return nil, domain.NewLookupError(ProviderName, err)
			}
			itineraries = append(itineraries, in)
		}

		offers = append(offers, domain.Offer{
			ID: fmt.Sprintf("%s-%s-%d", req.Route.Key(), req.Departure.Format(domain.DateLayout), i+1),
			Price: domain.PriceInfo{
				Amount:   roundCents(base * (1 + 0.12*float64(i)) * float64(passengers)),
				Currency: req.Currency,
			},
			Itineraries:   itineraries,
			BookableSeats: outbound.Seats,
		})
	}

	return offers, nil
}

// normalizeLeg converts a fixture route flown on date into an itinerary.
// variant > 0 adds that many connections.
func normalizeLeg(r fixtureRoute, date time.Time, variant int) (domain.Itinerary, error) {
	departure, err := timeutil.ParseLocalDateTime(date.Format(domain.DateLayout) + "T" + r.DepartureTime)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("failed to parse departure time of %s-%s: %w", r.Origin, r.Destination, err)
	}

	minutes := r.DurationMinutes + variant*extraStopMinutes
	return domain.Itinerary{
		Origin:        domain.NormalizeCode(r.Origin),
		Destination:   domain.NormalizeCode(r.Destination),
		DepartureTime: departure,
		ArrivalTime:   departure.Add(time.Duration(minutes) * time.Minute),
		Carrier:       r.Carrier,
		FlightNumber:  r.FlightNumber,
		Stops:         r.Stops + variant,
		Duration:      domain.NewDurationInfo(minutes),
	}, nil
}

// basePrice derives the cheapest fare of a lookup.
//
// Weekend departures and returns cost more, midweek less, short stays carry
// a premium, and a hash of the route and dates adds up to +/-10% so adjacent
// cells of the matrix differ.
func basePrice(req domain.LookupRequest, outbound fixtureRoute, inbound *fixtureRoute) float64 {
	price := outbound.BasePrice * weekdayFactor(req.Departure)
	key := req.Route.Key() + "|" + req.Departure.Format(domain.DateLayout)

	if inbound == nil {
		price *= oneWayFactor
	} else {
		price = price*oneWayFactor + inbound.BasePrice*oneWayFactor*weekdayFactor(*req.Return)
		key += "|" + req.Return.Format(domain.DateLayout)
		if domain.DaysBetween(req.Departure, *req.Return)-1 < 3 {
			price *= 1.1
		}
	}

	return price * (0.9 + 0.2*jitter(key))
}

func weekdayFactor(t time.Time) float64 {
	switch t.Weekday() {
	case time.Friday, time.Sunday:
		return 1.15
	case time.Saturday:
		return 1.05
	case time.Tuesday, time.Wednesday:
		return 0.92
	default:
		return 1.0
	}
}

// jitter maps key to [0, 1).
func jitter(key string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return float64(h.Sum64()%10000) / 10000
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// reversed flips a route for the return leg when only one direction is listed.
func reversed(r fixtureRoute) fixtureRoute {
	r.Origin, r.Destination = r.Destination, r.Origin
	return r
}
