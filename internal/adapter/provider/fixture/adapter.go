// Package fixture provides a file-backed lookup collaborator for local runs
// and tests. Prices are synthesized deterministically from a base fare so
// repeated runs over the same dates produce the same matrix.
package fixture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/flight-search/flexible-date-search/internal/domain"
)

// ProviderName is the unique identifier of the fixture lookup.
const ProviderName = "fixture"

// ErrNoFixture is returned by Validate when the file has no routes.
var ErrNoFixture = errors.New("fixture has no routes")

// Adapter implements domain.FlightLookup over a JSON fixture file.
type Adapter struct {
	path  string
	delay time.Duration
}

// NewAdapter creates an adapter reading routes from path.
func NewAdapter(path string) *Adapter {
	return &Adapter{path: path}
}

// WithDelay simulates network latency on every lookup.
func (a *Adapter) WithDelay(d time.Duration) *Adapter {
	a.delay = d
	return a
}

// Name implements domain.FlightLookup.
func (a *Adapter) Name() string {
	return ProviderName
}

// Lookup implements domain.FlightLookup.
//
// A route missing from the fixture answers with no offers. A return leg
// missing from the fixture is priced from the reversed outbound leg.
func (a *Adapter) Lookup(ctx context.Context, req domain.LookupRequest) ([]domain.Offer, error) {
	if err := a.simulateDelay(ctx); err != nil {
		return nil, domain.NewLookupError(ProviderName, err)
	}

	routes, err := a.load()
	if err != nil {
		return nil, err
	}

	outbound, ok := routes[req.Route.Outbound.String()]
	if !ok {
		return []domain.Offer{}, nil
	}

	var inbound *fixtureRoute
	if req.Return != nil {
		leg := req.Route.Inbound()
		in, ok := routes[leg.String()]
		if !ok {
			if req.Route.IsOpenJaw() {
				return []domain.Offer{}, nil
			}
			in = reversed(outbound)
		}
		inbound = &in
	}

	return buildOffers(req, outbound, inbound)
}

func (a *Adapter) simulateDelay(ctx context.Context) error {
	if a.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(a.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// load reads the fixture file and indexes routes by "ORIGIN-DESTINATION".
func (a *Adapter) load() (map[string]fixtureRoute, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, domain.NewRetryableLookupError(ProviderName, fmt.Errorf("reading fixture: %w", err))
	}

	var file fixtureFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, domain.NewLookupError(ProviderName, fmt.Errorf("parsing fixture: %w", err))
	}

	routes := make(map[string]fixtureRoute, len(file.Routes))
	for _, r := range file.Routes {
		key := domain.Leg{Origin: domain.NormalizeCode(r.Origin), Destination: domain.NormalizeCode(r.Destination)}.String()
		routes[key] = r
	}
	return routes, nil
}

// Validate checks that the fixture file can be read and holds routes.
func (a *Adapter) Validate() error {
	routes, err := a.load()
	if err != nil {
		return err
	}
	if len(routes) == 0 {
		return ErrNoFixture
	}
	return nil
}

var _ domain.FlightLookup = (*Adapter)(nil)
