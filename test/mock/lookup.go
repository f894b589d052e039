// Package mock provides test doubles for the flexible-date search engine.
// These fakes are designed for tests that need configurable behavior
// (per-date prices, failures, delays) across many lookups.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flight-search/flexible-date-search/internal/domain"
)

// PriceFunc returns the prices to offer for a lookup. An empty result means
// the lookup succeeds without offers.
type PriceFunc func(req domain.LookupRequest) []float64

// Lookup is a configurable implementation of domain.FlightLookup.
type Lookup struct {
	name     string
	prices   PriceFunc
	failures map[string]error
	err      error
	delay    time.Duration
	panicMsg string
	currency string

	mu    sync.Mutex
	calls []domain.LookupRequest
}

// NewLookup creates a lookup that offers a single 100.00 fare for every request.
func NewLookup(name string) *Lookup {
	return &Lookup{
		name:     name,
		prices:   func(domain.LookupRequest) []float64 { return []float64{100} },
		failures: make(map[string]error),
		currency: "EUR",
	}
}

// WithPrices configures the prices offered per request.
func (l *Lookup) WithPrices(fn PriceFunc) *Lookup {
	l.prices = fn
	return l
}

// WithFixedPrice offers the same single price for every request.
func (l *Lookup) WithFixedPrice(price float64) *Lookup {
	return l.WithPrices(func(domain.LookupRequest) []float64 { return []float64{price} })
}

// WithFailureOn makes lookups for the given departure date (YYYY-MM-DD) fail.
func (l *Lookup) WithFailureOn(departure string, err error) *Lookup {
	l.failures[departure] = err
	return l
}

// WithError makes every lookup fail.
func (l *Lookup) WithError(err error) *Lookup {
	l.err = err
	return l
}

// WithDelay waits before answering, honouring context cancellation.
func (l *Lookup) WithDelay(d time.Duration) *Lookup {
	l.delay = d
	return l
}

// WithPanic makes every lookup panic with the given message.
func (l *Lookup) WithPanic(msg string) *Lookup {
	l.panicMsg = msg
	return l
}

// Name implements domain.FlightLookup.
func (l *Lookup) Name() string {
	return l.name
}

// Lookup implements domain.FlightLookup.
func (l *Lookup) Lookup(ctx context.Context, req domain.LookupRequest) ([]domain.Offer, error) {
	l.mu.Lock()
	l.calls = append(l.calls, req)
	l.mu.Unlock()

	if l.panicMsg != "" {
		panic(l.panicMsg)
	}

	if l.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.delay):
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if l.err != nil {
		return nil, l.err
	}
	if err, ok := l.failures[req.Departure.Format(domain.DateLayout)]; ok {
		return nil, err
	}

	prices := l.prices(req)
	offers := make([]domain.Offer, 0, len(prices))
	for i, price := range prices {
		offers = append(offers, SampleOffer(req, fmt.Sprintf("%s-%d", l.name, i+1), price, l.currency))
	}
	return offers, nil
}

// Calls returns the requests received, in order.
func (l *Lookup) Calls() []domain.LookupRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.LookupRequest, len(l.calls))
	copy(out, l.calls)
	return out
}

// CallCount returns the number of lookups received.
func (l *Lookup) CallCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

// Ensure Lookup implements domain.FlightLookup at compile time.
var _ domain.FlightLookup = (*Lookup)(nil)

// SampleOffer builds a realistic offer for a lookup request, departing at
// 08:00 outbound and 18:00 on the return date.
func SampleOffer(req domain.LookupRequest, id string, price float64, currency string) domain.Offer {
	out := req.Route.Outbound
	outDep := req.Departure.Add(8 * time.Hour)
	offer := domain.Offer{
		ID:    id,
		Price: domain.PriceInfo{Amount: price, Currency: currency},
		Itineraries: []domain.Itinerary{{
			Origin:        out.Origin,
			Destination:   out.Destination,
			DepartureTime: outDep,
			ArrivalTime:   outDep.Add(150 * time.Minute),
			Carrier:       "LX",
			FlightNumber:  "LX2086",
			Duration:      domain.NewDurationInfo(150),
		}},
		BookableSeats: 9,
	}

	if req.Return != nil {
		in := req.Route.Inbound()
		retDep := req.Return.Add(18 * time.Hour)
		offer.Itineraries = append(offer.Itineraries, domain.Itinerary{
			Origin:        in.Origin,
			Destination:   in.Destination,
			DepartureTime: retDep,
			ArrivalTime:   retDep.Add(165 * time.Minute),
			Carrier:       "LX",
			FlightNumber:  "LX2087",
			Duration:      domain.NewDurationInfo(165),
		})
	}
	return offer
}

// Permits is a Permitter that grants immediately and counts grants.
type Permits struct {
	mu      sync.Mutex
	granted int
}

// Acquire grants a permit unless the context is done.
func (p *Permits) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.granted++
	return nil
}

// Granted returns the number of permits handed out.
func (p *Permits) Granted() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.granted
}
