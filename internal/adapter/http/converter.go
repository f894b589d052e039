package http

import (
	"github.com/flight-search/flexible-date-search/internal/domain"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/timeutil"
)

// ToDomainRequest converts a validated SearchRequest to a domain request.
// Unset optional fields stay zero so the use case can apply its defaults.
func ToDomainRequest(req *SearchRequest) domain.FlexibleSearchRequest {
	out := domain.FlexibleSearchRequest{
		Routes:       make([]domain.RouteSpec, len(req.Routes)),
		Departure:    toDomainDateRange(req.Departure),
		Stay:         domain.StayConstraint{Min: req.Stay.Min, Max: req.Stay.Max},
		SampleTarget: req.SampleTarget,
		Passengers:   req.Passengers,
		MaxResults:   req.MaxResults,
		Currency:     req.Currency,
		Ranking:      domain.RankOrder(req.Ranking),
		TopN:         req.TopN,
		Filter:       ToDomainFilter(req.Filter),
	}

	for i, r := range req.Routes {
		out.Routes[i] = toDomainRoute(r)
	}

	if req.Return != nil {
		ret := toDomainDateRange(*req.Return)
		out.Return = &ret
	}

	return out
}

// toDomainRoute builds a plain or open-jaw route.
func toDomainRoute(r RouteDTO) domain.RouteSpec {
	if r.ReturnOrigin == "" && r.ReturnDestination == "" {
		return domain.NewRoute(r.Origin, r.Destination)
	}
	return domain.NewOpenJawRoute(
		domain.Leg{Origin: r.Origin, Destination: r.Destination},
		domain.Leg{Origin: r.ReturnOrigin, Destination: r.ReturnDestination},
	)
}

// toDomainDateRange parses both ends; Validate has already checked the format.
func toDomainDateRange(dto DateRangeDTO) domain.DateRange {
	start, _ := timeutil.ParseDate(dto.Start)
	end, _ := timeutil.ParseDate(dto.End)
	return domain.NewDateRange(start, end)
}

// ToDomainFilter converts a FilterDTO to a domain.OfferFilter.
func ToDomainFilter(dto *FilterDTO) *domain.OfferFilter {
	if dto == nil {
		return nil
	}

	return &domain.OfferFilter{
		DepartureHours: toDomainHourWindow(dto.DepartureHours),
		ArrivalHours:   toDomainHourWindow(dto.ArrivalHours),
		MaxStops:       dto.MaxStops,
		MaxPrice:       dto.MaxPrice,
		Carriers:       dto.Carriers,
	}
}

func toDomainHourWindow(dto *HourWindowDTO) *domain.HourWindow {
	if dto == nil {
		return nil
	}
	return &domain.HourWindow{From: dto.From, To: dto.To}
}
