package http

import (
	"time"

	"github.com/flight-search/flexible-date-search/internal/domain"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/timeutil"
)

// EstimateDTO is the response of the estimate endpoint.
type EstimateDTO struct {
	Combinations       int    `json:"combinations"`
	DepartureDays      int    `json:"departure_days"`
	ReturnDays         int    `json:"return_days"`
	MaxPossible        int    `json:"max_possible"`
	FilteredOut        int    `json:"filtered_out"`
	Sampled            int    `json:"sampled"`
	Routes             int    `json:"routes"`
	Calls              int    `json:"calls"`
	CallLimit          int    `json:"call_limit"`
	ExceedsLimit       bool   `json:"exceeds_limit"`
	MinDurationSeconds int64  `json:"min_duration_seconds"`
	MinDuration        string `json:"min_duration"`
}

// RunDTO is the full state of a search run.
type RunDTO struct {
	ID         string         `json:"id"`
	Status     string         `json:"status"`
	Progress   ProgressDTO    `json:"progress"`
	Estimate   EstimateDTO    `json:"estimate"`
	CreatedAt  string         `json:"created_at"`
	UpdatedAt  string         `json:"updated_at"`
	FinishedAt *string        `json:"finished_at,omitempty"`
	Summary    *AggregateDTO  `json:"summary,omitempty"`
	Items      []BatchItemDTO `json:"items,omitempty"`
}

// ProgressDTO reports how many planned lookups have started.
type ProgressDTO struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// AggregateDTO holds the derived views of a finished run.
type AggregateDTO struct {
	Counts            CountsDTO       `json:"counts"`
	Stats             StatsDTO        `json:"stats"`
	RouteStats        []RouteStatsDTO `json:"route_stats"`
	BestDeals         []DealDTO       `json:"best_deals"`
	Calendar          []DatePriceDTO  `json:"calendar"`
	ByStay            []StayPriceDTO  `json:"by_stay"`
	MatrixAvailable   bool            `json:"matrix_available"`
	MatrixUnavailable string          `json:"matrix_unavailable,omitempty"`
}

// CountsDTO separates succeeded, failed and empty lookups.
type CountsDTO struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	NoOffers  int `json:"no_offers"`
}

// StatsDTO summarizes cheapest prices. Price fields are null when count is 0.
type StatsDTO struct {
	Count    int      `json:"count"`
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Mean     *float64 `json:"mean"`
	Range    *float64 `json:"range"`
	Currency string   `json:"currency,omitempty"`
}

// RouteStatsDTO holds statistics for one route.
type RouteStatsDTO struct {
	Route  string    `json:"route"`
	Counts CountsDTO `json:"counts"`
	Stats  StatsDTO  `json:"stats"`
}

// DealDTO is one best-deal entry.
type DealDTO struct {
	Route        string  `json:"route"`
	Departure    string  `json:"departure"`
	Return       string  `json:"return,omitempty"`
	Stays        int     `json:"stays"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	Carrier      string  `json:"carrier,omitempty"`
	FlightNumber string  `json:"flight_number,omitempty"`
	Stops        int     `json:"stops"`
	OfferID      string  `json:"offer_id"`
}

// DatePriceDTO is the cheapest price for a departure date.
type DatePriceDTO struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// StayPriceDTO is the cheapest price for a stay length.
type StayPriceDTO struct {
	Stays int     `json:"stays"`
	Price float64 `json:"price"`
}

// BatchItemDTO is the raw outcome of one lookup.
type BatchItemDTO struct {
	Route         string   `json:"route"`
	Departure     string   `json:"departure"`
	Return        string   `json:"return,omitempty"`
	Stays         int      `json:"stays"`
	Status        string   `json:"status"`
	OfferCount    int      `json:"offer_count"`
	CheapestPrice *float64 `json:"cheapest_price,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	Reason        string   `json:"reason,omitempty"`
	SearchedAt    string   `json:"searched_at"`
}

// MatrixDTO is the departure x return price grid. Missing cells are null.
type MatrixDTO struct {
	Departures []string             `json:"departures"`
	Returns    []string             `json:"returns"`
	Cells      [][]domain.PriceCell `json:"cells" swaggertype:"array,number"`
	Currency   string               `json:"currency,omitempty"`
	Missing    int                  `json:"missing"`
}

// ToEstimateDTO converts a domain Estimate.
func ToEstimateDTO(est *domain.Estimate) EstimateDTO {
	return EstimateDTO{
		Combinations:       est.Combinations,
		DepartureDays:      est.DepartureDays,
		ReturnDays:         est.ReturnDays,
		MaxPossible:        est.MaxPossible,
		FilteredOut:        est.FilteredOut,
		Sampled:            est.Sampled,
		Routes:             est.Routes,
		Calls:              est.Calls,
		CallLimit:          est.CallLimit,
		ExceedsLimit:       est.ExceedsLimit(),
		MinDurationSeconds: est.MinDurationSeconds,
		MinDuration:        (time.Duration(est.MinDurationSeconds) * time.Second).String(),
	}
}

// ToRunDTO converts a domain Run. Raw items are included only when withItems is set.
func ToRunDTO(run *domain.Run, withItems bool) *RunDTO {
	if run == nil {
		return nil
	}

	dto := &RunDTO{
		ID:        run.ID,
		Status:    string(run.Status),
		Progress:  ProgressDTO{Current: run.Progress.Current, Total: run.Progress.Total},
		Estimate:  ToEstimateDTO(&run.Estimate),
		CreatedAt: formatTimestamp(run.CreatedAt),
		UpdatedAt: formatTimestamp(run.UpdatedAt),
	}

	if run.FinishedAt != nil {
		finished := formatTimestamp(*run.FinishedAt)
		dto.FinishedAt = &finished
	}

	if run.Aggregate != nil {
		dto.Summary = ToAggregateDTO(run.Aggregate)
	}

	if withItems {
		dto.Items = make([]BatchItemDTO, len(run.Items))
		for i := range run.Items {
			dto.Items[i] = ToBatchItemDTO(&run.Items[i])
		}
	}

	return dto
}

// ToAggregateDTO converts the derived views of a run.
func ToAggregateDTO(agg *domain.Aggregate) *AggregateDTO {
	dto := &AggregateDTO{
		Counts:            toCountsDTO(agg.Counts),
		Stats:             toStatsDTO(agg.Stats),
		RouteStats:        make([]RouteStatsDTO, len(agg.RouteStats)),
		BestDeals:         ToDealDTOs(agg.Ranked),
		Calendar:          make([]DatePriceDTO, len(agg.Calendar)),
		ByStay:            make([]StayPriceDTO, len(agg.ByStay)),
		MatrixAvailable:   agg.Matrix != nil,
		MatrixUnavailable: agg.MatrixUnavailable,
	}

	for i, rs := range agg.RouteStats {
		dto.RouteStats[i] = RouteStatsDTO{
			Route:  rs.Route,
			Counts: toCountsDTO(rs.Counts),
			Stats:  toStatsDTO(rs.Stats),
		}
	}
	for i, dp := range agg.Calendar {
		dto.Calendar[i] = DatePriceDTO{Date: timeutil.FormatDate(dp.Date), Price: dp.Price}
	}
	for i, sp := range agg.ByStay {
		dto.ByStay[i] = StayPriceDTO{Stays: sp.Stays, Price: sp.Price}
	}

	return dto
}

// ToDealDTOs converts ranked deals.
func ToDealDTOs(deals []domain.Deal) []DealDTO {
	out := make([]DealDTO, len(deals))
	for i, d := range deals {
		dep, ret := formatCombination(d.Combination)
		out[i] = DealDTO{
			Route:     d.Route.Key(),
			Departure: dep,
			Return:    ret,
			Stays:     d.Combination.StaysAtDestination(),
			Price:     d.Price,
			Currency:  d.Currency,
			OfferID:   d.Offer.ID,
		}
		if leg, ok := d.Offer.Outbound(); ok {
			out[i].Carrier = leg.Carrier
			out[i].FlightNumber = leg.FlightNumber
		}
		for _, it := range d.Offer.Itineraries {
			out[i].Stops += it.Stops
		}
	}
	return out
}

// ToBatchItemDTO converts one raw outcome.
func ToBatchItemDTO(item *domain.BatchItem) BatchItemDTO {
	dep, ret := formatCombination(item.Combination)
	dto := BatchItemDTO{
		Route:      item.Route.Key(),
		Departure:  dep,
		Return:     ret,
		Stays:      item.Combination.StaysAtDestination(),
		Status:     string(item.Outcome.Status()),
		OfferCount: item.Outcome.OfferCount(),
		Currency:   item.Outcome.Currency(),
		Reason:     item.Outcome.Reason(),
		SearchedAt: formatTimestamp(item.Outcome.SearchedAt()),
	}
	if price, ok := item.Outcome.CheapestPrice(); ok {
		dto.CheapestPrice = &price
	}
	return dto
}

// ToMatrixDTO converts a price matrix.
func ToMatrixDTO(m *domain.PriceMatrix) *MatrixDTO {
	dto := &MatrixDTO{
		Departures: make([]string, len(m.Departures)),
		Returns:    make([]string, len(m.Returns)),
		Cells:      m.Cells,
		Currency:   m.Currency,
		Missing:    m.MissingCells(),
	}
	for i, d := range m.Departures {
		dto.Departures[i] = timeutil.FormatDate(d)
	}
	for i, r := range m.Returns {
		dto.Returns[i] = timeutil.FormatDate(r)
	}
	return dto
}

func toCountsDTO(c domain.OutcomeCounts) CountsDTO {
	return CountsDTO{
		Total:     c.Total,
		Succeeded: c.Succeeded,
		Failed:    c.Failed,
		NoOffers:  c.NoOffers,
	}
}

func toStatsDTO(s domain.PriceStats) StatsDTO {
	return StatsDTO{
		Count:    s.Count,
		Min:      s.Min,
		Max:      s.Max,
		Mean:     s.Mean,
		Range:    s.Range,
		Currency: s.Currency,
	}
}

func formatCombination(c domain.DateCombination) (string, string) {
	dep := timeutil.FormatDate(c.Departure())
	if ret, ok := c.Return(); ok {
		return dep, timeutil.FormatDate(ret)
	}
	return dep, ""
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
